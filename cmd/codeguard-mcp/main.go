package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/codeguard/internal/version"
	"github.com/ludo-technologies/codeguard/mcp"
)

const serverName = "codeguard"

// configEnv names an optional configuration file; discovery is used when unset
const configEnv = "CODEGUARD_CONFIG"

func main() {
	// MCP uses stdout for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	deps := mcp.NewDependencies(nil, os.Getenv(configEnv)).WithLogger(logger)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	log.Printf("Starting %s MCP server %s\n", serverName, version.Short())
	if path := deps.ConfigPath(); path != "" {
		log.Printf("Using configuration: %s\n", path)
	}
	log.Println("Registered tools:")
	log.Printf("  - %s: All-pairs plagiarism comparison\n", mcp.ToolCompareSubmissions)
	log.Printf("  - %s: Available detector presets\n", mcp.ToolListPresets)
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
