package wheels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// manifest is the on-disk structure of an optional wheels.jsonc file in the
// node root. It lets users who rebuilt the CUDA extensions for a different
// interpreter ABI swap out the pinned wheel set without editing code.
//
// All fields are optional: an empty wheels list keeps the built-in set,
// and sources merge with (rather than replace) the environment variables.
type manifest struct {
	// Wheels replaces the built-in wheel set when non-empty.
	Wheels []Wheel `json:"wheels"`

	// ExtraIndexURLs are additional package indexes for the wheel install.
	ExtraIndexURLs []string `json:"extraIndexUrls"`

	// FindLinks are additional local directories or flat indexes.
	FindLinks []string `json:"findLinks"`
}

// manifestNames are the accepted manifest file names in priority order.
// The .jsonc spelling is preferred since the file commonly carries comments
// explaining where the rebuilt wheels came from.
var manifestNames = []string{"wheels.jsonc", "wheels.json"}

// Load resolves the effective wheel set and extra sources for a node root.
//
// Resolution order:
//  1. Start from the built-in set and the environment-variable sources.
//  2. If a manifest file exists, its wheels replace the set (when
//     non-empty) and its sources are appended after the env-derived ones.
//
// A missing manifest is the normal case and not an error. A malformed
// manifest IS an error — silently ignoring it would install the wrong
// wheel set behind the user's back; the caller reports it and falls back.
func Load(nodeRoot string) (Set, Sources, error) {
	set := DefaultSet()
	sources := SourcesFromEnv()

	path := ManifestPath(nodeRoot)
	if path == "" {
		return set, sources, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return set, sources, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	// Strip JSONC comments and trailing commas before handing the bytes to
	// encoding/json. Unknown fields are silently ignored, matching the
	// permissive posture of the rest of the harness.
	var m manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return set, sources, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	for _, w := range m.Wheels {
		if w.URL == "" {
			return set, sources, fmt.Errorf("%s: wheel entry missing url", filepath.Base(path))
		}
	}

	if len(m.Wheels) > 0 {
		set = Set(m.Wheels)
	}
	sources.ExtraIndexURLs = append(sources.ExtraIndexURLs, m.ExtraIndexURLs...)
	sources.FindLinks = append(sources.FindLinks, m.FindLinks...)

	return set, sources, nil
}

// ManifestPath returns the path of the first manifest file that exists in
// the node root, or "" when none does.
func ManifestPath(nodeRoot string) string {
	for _, name := range manifestNames {
		path := filepath.Join(nodeRoot, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
