package domain

import (
	"context"
	"fmt"
	"io"
)

// ProgressFunc receives (pairs done, pairs total). done strictly increases.
type ProgressFunc func(done, total int)

// PairRecord is the stable per-pair output unit handed to storage and display.
// Scores are nil when the detector was disabled or unavailable.
type PairRecord struct {
	FileA           string          `json:"file_a" yaml:"file_a"`
	FileB           string          `json:"file_b" yaml:"file_b"`
	TokenScore      *float64        `json:"token_score" yaml:"token_score"`
	ASTScore        *float64        `json:"ast_score" yaml:"ast_score"`
	HashScore       *float64        `json:"hash_score" yaml:"hash_score"`
	WeightedScore   float64         `json:"weighted_score" yaml:"weighted_score"`
	Verdict         Verdict         `json:"verdict" yaml:"verdict"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level" yaml:"confidence_level"`
	PresetName      string          `json:"preset_name" yaml:"preset_name"`

	Agreement float64         `json:"agreement" yaml:"agreement"`
	Margin    float64         `json:"margin" yaml:"margin"`
	Degraded  []DetectorKind  `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Errors    []DomainError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Evidence  []FragmentMatch `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// NewPairRecord flattens a decision into a record. fileA and fileB are
// ordered so that FileA < FileB.
func NewPairRecord(fileA, fileB string, d VotingDecision) PairRecord {
	if fileB < fileA {
		fileA, fileB = fileB, fileA
	}
	rec := PairRecord{
		FileA:           fileA,
		FileB:           fileB,
		WeightedScore:   d.WeightedScore,
		Verdict:         d.Verdict,
		ConfidenceLevel: d.Confidence,
		PresetName:      d.PresetName,
		Agreement:       d.Agreement,
		Margin:          d.Margin,
		Degraded:        d.Degraded(),
	}
	for _, r := range d.Results {
		switch r.Kind {
		case DetectorToken:
			rec.TokenScore = r.ScorePtr()
		case DetectorAST:
			rec.ASTScore = r.ScorePtr()
		case DetectorHash:
			rec.HashScore = r.ScorePtr()
			rec.Evidence = r.Evidence
		}
		if r.Error != nil {
			rec.Errors = append(rec.Errors, *r.Error)
		}
	}
	return rec
}

// Score returns the record's score for kind
func (r PairRecord) Score(kind DetectorKind) *float64 {
	switch kind {
	case DetectorToken:
		return r.TokenScore
	case DetectorAST:
		return r.ASTScore
	case DetectorHash:
		return r.HashScore
	}
	return nil
}

// String returns a one-line summary
func (r PairRecord) String() string {
	return fmt.Sprintf("%s <-> %s: %s (%.3f, %s)", r.FileA, r.FileB, r.Verdict, r.WeightedScore, r.ConfidenceLevel)
}

// UnitStatus describes how a single file was prepared for comparison.
type UnitStatus struct {
	ID           string        `json:"id" yaml:"id"`
	ContentHash  string        `json:"content_hash" yaml:"content_hash"`
	Tokens       int           `json:"tokens" yaml:"tokens"`
	Nodes        int           `json:"nodes" yaml:"nodes"`
	Fingerprints int           `json:"fingerprints" yaml:"fingerprints"`
	Errors       []DomainError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Degraded reports whether any representation failed to build
func (u UnitStatus) Degraded() bool {
	return len(u.Errors) > 0
}

// DetectorStats summarises one detector's scores across available pairs.
type DetectorStats struct {
	Kind      DetectorKind `json:"kind" yaml:"kind"`
	Evaluated int          `json:"evaluated" yaml:"evaluated"`
	Degraded  int          `json:"degraded" yaml:"degraded"`
	Votes     int          `json:"votes" yaml:"votes"`
	Mean      float64      `json:"mean" yaml:"mean"`
	StdDev    float64      `json:"std_dev" yaml:"std_dev"`
	Max       float64      `json:"max" yaml:"max"`
}

// BatchSummary aggregates verdict and confidence counts for a batch.
type BatchSummary struct {
	Files         int                     `json:"files" yaml:"files"`
	DegradedFiles int                     `json:"degraded_files" yaml:"degraded_files"`
	TotalPairs    int                     `json:"total_pairs" yaml:"total_pairs"`
	ComparedPairs int                     `json:"compared_pairs" yaml:"compared_pairs"`
	ByVerdict     map[Verdict]int         `json:"by_verdict" yaml:"by_verdict"`
	ByConfidence  map[ConfidenceLevel]int `json:"by_confidence" yaml:"by_confidence"`
	Detectors     []DetectorStats         `json:"detectors" yaml:"detectors"`
	MeanWeighted  float64                 `json:"mean_weighted_score" yaml:"mean_weighted_score"`
}

// Cluster is a connected group of files linked by plagiarized pairs.
type Cluster struct {
	ID       int      `json:"id" yaml:"id"`
	Members  []string `json:"members" yaml:"members"`
	Pairs    int      `json:"pairs" yaml:"pairs"`
	MaxScore float64  `json:"max_score" yaml:"max_score"`
}

// BatchRequest is the input of one all-pairs comparison.
type BatchRequest struct {
	// Files maps a file identifier to its raw source text
	Files map[string][]byte

	PresetName string
	Overrides  PresetOverrides

	// Workers bounds the pair pool; 0 means GOMAXPROCS
	Workers  int
	Progress ProgressFunc
}

// Validate checks the batch input shape
func (r *BatchRequest) Validate() error {
	if len(r.Files) < 2 {
		return NewValidationError(fmt.Sprintf("at least 2 files are required, got %d", len(r.Files)))
	}
	for id := range r.Files {
		if id == "" {
			return NewValidationError("file identifier cannot be empty")
		}
	}
	if r.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}
	return nil
}

// BatchResult is the output of one all-pairs comparison.
type BatchResult struct {
	Preset    Preset       `json:"preset" yaml:"preset"`
	Pairs     []PairRecord `json:"pairs" yaml:"pairs"`
	Units     []UnitStatus `json:"units" yaml:"units"`
	Summary   BatchSummary `json:"summary" yaml:"summary"`
	Clusters  []Cluster    `json:"clusters" yaml:"clusters"`
	Cancelled bool         `json:"cancelled" yaml:"cancelled"`
	Duration  int64        `json:"duration_ms" yaml:"duration_ms"`
}

// BatchService runs all-pairs comparisons
type BatchService interface {
	Run(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// CompareRequest is the use-case level request: paths on disk plus reporting options.
type CompareRequest struct {
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	PresetName string
	Overrides  PresetOverrides
	Workers    int

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	MinVerdict   Verdict
	ShowEvidence bool
	ShowProgress bool

	ConfigPath string
}

// Validate checks the compare request
func (r *CompareRequest) Validate() error {
	if len(r.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if r.OutputWriter == nil && r.OutputPath == "" {
		return NewValidationError("an output writer or output path is required")
	}
	if r.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}
	return nil
}

// FileReader collects and reads Python files
type FileReader interface {
	// CollectPythonFiles finds Python files in the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)
}

// ReportFormatter renders batch results
type ReportFormatter interface {
	Format(result *BatchResult, opts ReportOptions, writer io.Writer) error
}

// ReportOptions controls what a formatter renders.
type ReportOptions struct {
	Format       OutputFormat
	MinVerdict   Verdict
	ShowEvidence bool
	Colored      bool
}

// FilterPairs returns the pairs at or above the options' minimum verdict.
func (o ReportOptions) FilterPairs(pairs []PairRecord) []PairRecord {
	if o.MinVerdict == "" {
		return pairs
	}
	floor := o.MinVerdict.Rank()
	out := make([]PairRecord, 0, len(pairs))
	for _, p := range pairs {
		if p.Verdict.Rank() >= floor {
			out = append(out, p)
		}
	}
	return out
}
