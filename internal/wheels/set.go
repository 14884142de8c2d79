package wheels

import (
	"os"

	"github.com/arcticlatent/trellis2-bootstrap/internal/envutil"
)

// Environment variables recognized for extending pip's wheel search.
const (
	// EnvIndexURL lists extra package index URLs (--extra-index-url).
	EnvIndexURL = "TRELLIS2_WHEEL_INDEX_URL"

	// EnvFindLinks lists local directories or flat-index URLs (--find-links).
	EnvFindLinks = "TRELLIS2_WHEEL_FIND_LINKS"
)

// Wheel pairs a downloadable wheel URL with the Python module it provides.
// The module name is what the pre-startup hook probes for importability.
type Wheel struct {
	// URL is the pip-installable wheel location.
	URL string `json:"url"`

	// Module is the importable module name the wheel provides.
	Module string `json:"module"`
}

// Set is an ordered list of wheels installed together in one pip
// invocation, so pip can resolve cross-wheel constraints in a single pass.
type Set []Wheel

// defaultSet is the pinned CUDA extension set for the published cp312
// linux_x86_64 builds. The order is fixed; pip receives all URLs at once.
var defaultSet = Set{
	{URL: "https://huggingface.co/datasets/arcticlatent/trellis2/resolve/main/cumesh-0.0.1-cp312-cp312-linux_x86_64.whl", Module: "cumesh"},
	{URL: "https://huggingface.co/datasets/arcticlatent/trellis2/resolve/main/flex_gemm-1.0.0-cp312-cp312-linux_x86_64.whl", Module: "flex_gemm"},
	{URL: "https://huggingface.co/datasets/arcticlatent/trellis2/resolve/main/nvdiffrast-0.4.0-cp312-cp312-linux_x86_64.whl", Module: "nvdiffrast"},
	{URL: "https://huggingface.co/datasets/arcticlatent/trellis2/resolve/main/nvdiffrec_render-0.0.0-cp312-cp312-linux_x86_64.whl", Module: "nvdiffrec_render"},
	{URL: "https://huggingface.co/datasets/arcticlatent/trellis2/resolve/main/o_voxel-0.0.1-cp312-cp312-linux_x86_64.whl", Module: "o_voxel"},
}

// DefaultSet returns a copy of the built-in wheel set. Callers get their
// own slice so manifest overrides can never mutate the pinned defaults.
func DefaultSet() Set {
	set := make(Set, len(defaultSet))
	copy(set, defaultSet)
	return set
}

// URLs returns the wheel URLs in order, for the combined pip invocation.
func (s Set) URLs() []string {
	urls := make([]string, 0, len(s))
	for _, w := range s {
		urls = append(urls, w.URL)
	}
	return urls
}

// Modules returns the importable module names in order.
func (s Set) Modules() []string {
	modules := make([]string, 0, len(s))
	for _, w := range s {
		modules = append(modules, w.Module)
	}
	return modules
}

// Sources holds the extra pip search locations appended to a wheel install.
type Sources struct {
	// ExtraIndexURLs are passed as repeated --extra-index-url flags.
	ExtraIndexURLs []string

	// FindLinks are passed as repeated --find-links flags.
	FindLinks []string
}

// IsEmpty reports whether no extra sources are configured.
func (s Sources) IsEmpty() bool {
	return len(s.ExtraIndexURLs) == 0 && len(s.FindLinks) == 0
}

// SourcesFromEnv reads the two environment variable hooks and splits them
// into ordered lists. Unset variables yield empty (but usable) sources.
func SourcesFromEnv() Sources {
	return Sources{
		ExtraIndexURLs: envutil.SplitList(os.Getenv(EnvIndexURL)),
		FindLinks:      envutil.SplitList(os.Getenv(EnvFindLinks)),
	}
}
