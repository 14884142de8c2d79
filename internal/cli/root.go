// Package cli implements the cobra-based commands for trellis2-bootstrap.
//
// Each entry point of the bootstrap harness (install, prestartup, doctor)
// is defined in its own file within this package. This file defines the
// root command that serves as the parent for all subcommands and handles
// global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
)

// Global flag variables shared across all subcommands. They are bound to
// cobra persistent flags on the root command, which makes them available
// to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by the
// install, prestartup, and doctor subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trellis2-bootstrap",
		Short: "Installation and bootstrap harness for the ComfyUI-TRELLIS2 custom node",
		Long: `trellis2-bootstrap provisions the ComfyUI environment for the TRELLIS2
custom node: it installs the node's pinned Python requirements and its
prebuilt CUDA extension wheels into ComfyUI's venv, verifies the platform
runtime prerequisite on Windows, and copies bundled example assets into
ComfyUI's input directory before startup.

The harness is best-effort by design: every failure is reported with a
remediation hint, and the pre-startup hook never blocks ComfyUI from
starting.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file
	// (install.go, prestartup.go, doctor.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewPrestartupCommand())
	rootCmd.AddCommand(NewDoctorCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// appropriate OS exit codes. CLIError types carry their own exit codes;
// other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Check if the error is a CLIError with a specific exit code.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps users
// understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// defaultNodeRoot is where the node root comes from when --node-root is
// not given: the directory containing this executable, which ships inside
// the custom node directory. Falls back to the working directory if the
// executable path cannot be determined.
func defaultNodeRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
