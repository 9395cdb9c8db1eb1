package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names
const (
	ToolCompareSubmissions = "compare_submissions"
	ToolListPresets        = "list_presets"
)

// RegisterTools registers the codeguard MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	s.AddTool(mcp.NewTool(ToolCompareSubmissions,
		mcp.WithDescription("Compare every pair of Python submissions and report plagiarism verdicts from the token, AST and hash detectors"),
		mcp.WithArray("paths",
			mcp.WithStringItems(),
			mcp.Description("Files or directories holding the submissions. Provide either paths or files")),
		mcp.WithObject("files",
			mcp.Description("Submissions given inline as an object mapping a file identifier to its Python source")),
		mcp.WithString("preset",
			mcp.Description("Detector preset: standard, simple or a configured preset (default: configured default)")),
		mcp.WithString("output_mode",
			mcp.Enum(OutputModeSummary, OutputModeFull),
			mcp.Description("summary returns counts, clusters and suspicious pairs; full returns every pair with evidence (default: summary)")),
		mcp.WithString("min_verdict",
			mcp.Enum("clean", "borderline", "plagiarized"),
			mcp.Description("Only return pairs at or above this verdict")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively search directories (default: true)")),
	), h.HandleCompareSubmissions)

	s.AddTool(mcp.NewTool(ToolListPresets,
		mcp.WithDescription("List the built-in and configured detector presets with their weights and thresholds"),
	), h.HandleListPresets)
}
