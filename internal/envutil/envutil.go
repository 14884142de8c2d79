// Package envutil parses the small set of environment variable formats the
// bootstrap harness understands: delimited lists of wheel sources and the
// truthy flag convention used by TRELLIS2_ENABLE_COMFY_ENV.
package envutil

import "strings"

// SplitList splits a comma- or semicolon-delimited environment variable
// value into an ordered list of trimmed, non-empty entries.
//
// Both delimiters are accepted interchangeably because wheel source lists
// are commonly pasted from pip configuration (comma) or Windows PATH-style
// values (semicolon). An empty or unset value yields nil.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}

	var parts []string
	for _, item := range strings.Split(strings.ReplaceAll(value, ";", ","), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			parts = append(parts, item)
		}
	}
	return parts
}

// IsTruthy reports whether an environment variable value is one of the
// accepted truthy spellings: "1", "true", "yes", "on" (case-insensitive,
// whitespace-trimmed). Everything else — including unset/empty — is false.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
