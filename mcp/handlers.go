package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/config"
)

// Output modes of compare_submissions
const (
	OutputModeSummary = "summary"
	OutputModeFull    = "full"
)

// maxSummaryPairs bounds the suspicious pairs listed in summary mode
const maxSummaryPairs = 50

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// compareArgs holds the parsed arguments of compare_submissions
type compareArgs struct {
	paths      []string
	files      map[string][]byte
	preset     string
	outputMode string
	minVerdict domain.Verdict
	recursive  bool
}

// HandleCompareSubmissions handles the compare_submissions tool
func (h *HandlerSet) HandleCompareSubmissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	parsed, err := parseCompareArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result *domain.BatchResult
	if parsed.files != nil {
		result, err = h.compareInline(ctx, parsed)
	} else {
		result, err = h.comparePaths(ctx, parsed)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	var responseData interface{}
	switch parsed.outputMode {
	case OutputModeFull:
		responseData = formatFull(result, parsed.minVerdict)
	default:
		responseData = formatSummary(result, parsed.minVerdict)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleListPresets handles the list_presets tool
func (h *HandlerSet) HandleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.deps.ResolveConfig("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load configuration: %v", err)), nil
	}
	registry, err := config.NewPresetRegistryFromConfig(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid presets: %v", err)), nil
	}

	presets := make([]map[string]interface{}, 0)
	for _, p := range registry.List() {
		presets = append(presets, map[string]interface{}{
			"name":               p.Name,
			"description":        p.Description,
			"builtin":            registry.IsBuiltin(p.Name),
			"detectors":          p.Detectors,
			"decision_threshold": p.DecisionThreshold,
		})
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"default_preset": cfg.Batch.DefaultPreset,
		"presets":        presets,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal presets: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *HandlerSet) comparePaths(ctx context.Context, args compareArgs) (*domain.BatchResult, error) {
	for _, p := range args.paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", p)
		}
	}

	cfg, err := h.deps.ResolveConfig(searchDir(args.paths[0]))
	if err != nil {
		return nil, err
	}
	batch, _, err := h.deps.BuildBatchService(cfg)
	if err != nil {
		return nil, err
	}
	useCase, err := h.deps.BuildCompareUseCase(batch)
	if err != nil {
		return nil, err
	}

	return useCase.Analyze(ctx, domain.CompareRequest{
		Paths:           args.paths,
		Recursive:       args.recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		PresetName:      args.preset,
		Workers:         cfg.Batch.Workers,
	})
}

func (h *HandlerSet) compareInline(ctx context.Context, args compareArgs) (*domain.BatchResult, error) {
	cfg, err := h.deps.ResolveConfig("")
	if err != nil {
		return nil, err
	}
	batch, _, err := h.deps.BuildBatchService(cfg)
	if err != nil {
		return nil, err
	}
	return batch.Run(ctx, domain.BatchRequest{
		Files:      args.files,
		PresetName: args.preset,
		Workers:    cfg.Batch.Workers,
	})
}

func parseCompareArgs(args map[string]interface{}) (compareArgs, error) {
	parsed := compareArgs{outputMode: OutputModeSummary, recursive: true}

	if raw, ok := args["paths"].([]interface{}); ok {
		for _, p := range raw {
			str, ok := p.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return parsed, fmt.Errorf("paths must be an array of non-empty strings")
			}
			parsed.paths = append(parsed.paths, str)
		}
	}
	if raw, ok := args["files"].(map[string]interface{}); ok {
		parsed.files = make(map[string][]byte, len(raw))
		for id, src := range raw {
			str, ok := src.(string)
			if !ok {
				return parsed, fmt.Errorf("files.%s must be a string of Python source", id)
			}
			parsed.files[id] = []byte(str)
		}
	}

	switch {
	case len(parsed.paths) > 0 && parsed.files != nil:
		return parsed, fmt.Errorf("provide either paths or files, not both")
	case len(parsed.paths) == 0 && parsed.files == nil:
		return parsed, fmt.Errorf("paths or files parameter is required")
	}

	if p, ok := args["preset"].(string); ok {
		parsed.preset = p
	}
	if om, ok := args["output_mode"].(string); ok && om != "" {
		if om != OutputModeSummary && om != OutputModeFull {
			return parsed, fmt.Errorf("output_mode must be %q or %q", OutputModeSummary, OutputModeFull)
		}
		parsed.outputMode = om
	}
	if mv, ok := args["min_verdict"].(string); ok && mv != "" {
		v, err := domain.ParseVerdict(mv)
		if err != nil {
			return parsed, err
		}
		parsed.minVerdict = v
	}
	if r, ok := args["recursive"].(bool); ok {
		parsed.recursive = r
	}
	return parsed, nil
}

// formatSummary keeps counts, clusters and the plagiarized or borderline pairs
func formatSummary(result *domain.BatchResult, minVerdict domain.Verdict) map[string]interface{} {
	floor := minVerdict
	if floor == "" || floor.Rank() < domain.VerdictBorderline.Rank() {
		floor = domain.VerdictBorderline
	}
	suspicious := domain.ReportOptions{MinVerdict: floor}.FilterPairs(result.Pairs)

	pairs := make([]map[string]interface{}, 0, len(suspicious))
	for i, p := range suspicious {
		if i >= maxSummaryPairs {
			break
		}
		pairs = append(pairs, map[string]interface{}{
			"file_a":           p.FileA,
			"file_b":           p.FileB,
			"weighted_score":   p.WeightedScore,
			"verdict":          p.Verdict,
			"confidence_level": p.ConfidenceLevel,
		})
	}

	degraded := make([]string, 0)
	for _, u := range result.Units {
		if u.Degraded() {
			degraded = append(degraded, u.ID)
		}
	}

	return map[string]interface{}{
		"preset":           result.Preset.Name,
		"cancelled":        result.Cancelled,
		"duration_ms":      result.Duration,
		"summary":          result.Summary,
		"clusters":         result.Clusters,
		"suspicious_pairs": pairs,
		"truncated":        len(suspicious) > maxSummaryPairs,
		"degraded_files":   degraded,
	}
}

// formatFull returns the whole result with pairs filtered by minVerdict
func formatFull(result *domain.BatchResult, minVerdict domain.Verdict) *domain.BatchResult {
	view := *result
	view.Pairs = domain.ReportOptions{MinVerdict: minVerdict}.FilterPairs(result.Pairs)
	return &view
}

func searchDir(path string) string {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}
