// Package model defines the domain types and value objects for the
// trellis2-bootstrap CLI.
//
// This package contains pure data structures with no external dependencies.
// The central value type is StepResult — the "success flag plus diagnostic"
// pair that every installation step produces instead of raising errors.
// Nothing in this harness ever needs to distinguish failure causes
// programmatically; callers only print them.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
