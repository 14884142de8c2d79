// Package main is the entry point for the trellis2-bootstrap CLI.
//
// This binary provisions the ComfyUI environment for the TRELLIS2 custom
// node. It delegates all functionality to the internal/cli package, which
// defines cobra commands for the three host-triggered entry points:
// install, prestartup, and doctor.
//
// Build-time variables (version, commit, date) are injected via ldflags
// by the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/arcticlatent/trellis2-bootstrap/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
// They provide binary identification for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This decouples
	// the build system (ldflags) from the CLI framework (cobra), keeping
	// main.go minimal.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Create the root command with all subcommands registered, then
	// execute it. Execute handles error formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
