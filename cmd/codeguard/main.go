package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/codeguard/internal/version"
)

// Process exit codes
const (
	ExitOK    = 0
	ExitMatch = 1
	ExitFatal = 2
)

// errMatchFound is returned by compare --fail-on-match when a plagiarized pair was reported
var errMatchFound = errors.New("plagiarized pairs found")

var rootCmd = &cobra.Command{
	Use:   "codeguard",
	Short: "Plagiarism detection for Python submissions",
	Long: `codeguard compares every pair of Python submissions with three
independent detectors and combines their votes into a verdict.

Detectors:
  • Token: Jaccard similarity over normalized token n-grams
  • AST: subtree-hash similarity over normalized syntax trees
  • Hash: winnowed fingerprint containment with matched line ranges`,
	Version:           version.Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: configureLogging,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewPresetsCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

// configureLogging installs the process-wide slog handler on stderr
func configureLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errMatchFound):
		return ExitMatch
	default:
		return ExitFatal
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errMatchFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
