package comfy

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Layout holds the resolved filesystem locations for a node installation.
// All paths are absolute. Only NodeRoot and HostRoot are guaranteed to be
// derivable; the remaining paths are where things are *expected* to be —
// callers check existence themselves, consistent with the best-effort
// policy of the whole harness.
type Layout struct {
	// NodeRoot is the custom node's own directory
	// (<comfyui>/custom_nodes/ComfyUI-TRELLIS2).
	NodeRoot string

	// HostRoot is the ComfyUI installation root, two parents above NodeRoot.
	HostRoot string

	// RequirementsFile is the node's pinned dependency list.
	RequirementsFile string

	// AssetsDir holds the bundled example assets shipped with the node.
	AssetsDir string

	// InputDir is ComfyUI's input directory, the destination for assets.
	InputDir string
}

// ResolveLayout computes the installation layout from the node root.
// The node root itself is normalized to an absolute path; everything else
// is derived positionally from the custom_nodes convention.
func ResolveLayout(nodeRoot string) (Layout, error) {
	abs, err := filepath.Abs(nodeRoot)
	if err != nil {
		return Layout{}, err
	}

	hostRoot := filepath.Dir(filepath.Dir(abs))
	return Layout{
		NodeRoot:         abs,
		HostRoot:         hostRoot,
		RequirementsFile: filepath.Join(abs, "requirements.txt"),
		AssetsDir:        filepath.Join(abs, "assets"),
		InputDir:         filepath.Join(hostRoot, "input"),
	}, nil
}

// VenvPython returns the path to the host venv's Python interpreter if that
// file exists, and "" otherwise. The venv lives at <host>/venv with the
// platform-specific interpreter location (bin/python on Unix,
// Scripts\python.exe on Windows).
//
// The existence check is repeated on every call: the venv may be created
// mid-run by a separate installer, and a stale negative would silently
// redirect installs into the wrong interpreter.
func VenvPython(hostRoot string) string {
	python := filepath.Join(hostRoot, "venv", "bin", "python")
	if runtime.GOOS == "windows" {
		python = filepath.Join(hostRoot, "venv", "Scripts", "python.exe")
	}

	info, err := os.Stat(python)
	if err != nil || info.IsDir() {
		return ""
	}
	return python
}

// ResolveInterpreter returns the interpreter that installs should target:
// the host venv's Python when it exists, otherwise a Python found on PATH.
// The boolean reports whether the venv interpreter was used, so callers
// can tell the user which environment is being mutated.
//
// The PATH fallback is the Go analog of "the currently running
// interpreter" — this binary is not itself Python, so the best available
// stand-in is whatever python3/python the shell would run.
func ResolveInterpreter(hostRoot string) (python string, fromVenv bool) {
	if p := VenvPython(hostRoot); p != "" {
		return p, true
	}

	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, false
		}
	}

	// Nothing on PATH either. Return the bare name and let the subprocess
	// launch fail with a diagnostic — that failure path is already handled
	// by every caller.
	return "python3", false
}
