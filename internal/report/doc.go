// Package report records the outcome of an installer run as a small YAML
// file in the node root.
//
// The report is purely informational: the doctor command reads it back to
// show when the environment was last provisioned and how each step went.
// Writing it is best-effort — a failure to write never affects the
// installer's exit code — and a missing or unreadable report is treated
// as "never installed".
package report
