package config

// Flag names that can override configuration values.
const (
	FlagPreset       = "preset"
	FlagWorkers      = "workers"
	FlagFormat       = "format"
	FlagMinVerdict   = "min-verdict"
	FlagRecursive    = "recursive"
	FlagInclude      = "include"
	FlagExclude      = "exclude"
	FlagShowEvidence = "evidence"
)

// FlagOverrides carries command-line values that take precedence over the
// configuration file when the corresponding flag was explicitly set.
type FlagOverrides struct {
	Preset          string
	Workers         int
	Format          string
	MinVerdict      string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	ShowEvidence    bool
}

// WasExplicitlySet checks if a flag was explicitly set by the user
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// Merge returns override if the flag was explicitly set, base otherwise
func Merge[T any](base, override T, flagName string, flags map[string]bool) T {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeStringSlice merges a string slice, using override only if explicitly set and non-empty
func MergeStringSlice(base, override []string, flagName string, flags map[string]bool) []string {
	if WasExplicitlySet(flags, flagName) && len(override) > 0 {
		return override
	}
	return base
}

// ApplyFlags returns a copy of c with explicitly set flags applied
func (c *Config) ApplyFlags(o FlagOverrides, flags map[string]bool) *Config {
	out := *c
	out.Batch.DefaultPreset = Merge(c.Batch.DefaultPreset, o.Preset, FlagPreset, flags)
	out.Batch.Workers = Merge(c.Batch.Workers, o.Workers, FlagWorkers, flags)
	out.Output.Format = Merge(c.Output.Format, o.Format, FlagFormat, flags)
	out.Output.MinVerdict = Merge(c.Output.MinVerdict, o.MinVerdict, FlagMinVerdict, flags)
	out.Output.ShowEvidence = Merge(c.Output.ShowEvidence, o.ShowEvidence, FlagShowEvidence, flags)
	out.Input.Recursive = Merge(c.Input.Recursive, o.Recursive, FlagRecursive, flags)
	out.Input.IncludePatterns = MergeStringSlice(c.Input.IncludePatterns, o.IncludePatterns, FlagInclude, flags)
	out.Input.ExcludePatterns = MergeStringSlice(c.Input.ExcludePatterns, o.ExcludePatterns, FlagExclude, flags)
	return &out
}
