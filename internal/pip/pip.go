package pip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
	"github.com/arcticlatent/trellis2-bootstrap/internal/wheels"
)

// CommandRunner executes an external command to completion. The default
// implementation inherits stdout/stderr so pip's own progress output
// reaches the user; tests substitute a fake to simulate exit codes and
// launch failures without spawning processes.
//
// A non-zero exit is reported as *exec.ExitError; any other error means
// the command could not be launched at all.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// defaultRunner runs the command with inherited stdio.
func defaultRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Installer invokes pip through a specific Python interpreter.
//
// The zero value is not usable; construct with New. The Run field is
// exported so orchestration tests can inject a fake subprocess.
type Installer struct {
	// Python is the interpreter whose environment gets mutated.
	Python string

	// Run executes subprocesses. Nil means the default os/exec runner.
	Run CommandRunner
}

// New creates an Installer targeting the given interpreter.
func New(python string) *Installer {
	return &Installer{Python: python}
}

// InstallRequirements installs the node's requirements file into the
// target environment with `pip install -r <path>`.
//
// The file's existence is checked first: a missing requirements file
// returns failure without spawning any subprocess. Partial installs are
// left in place when a later package fails — there is no rollback.
func (inst *Installer) InstallRequirements(ctx context.Context, path string) model.StepResult {
	if _, err := os.Stat(path); err != nil {
		return model.StepFailedf("requirements.txt not found at %s", path)
	}

	return inst.runPip(ctx, "install", "-r", path)
}

// InstallWheels installs the full wheel set in ONE combined pip
// invocation, so pip resolves cross-wheel dependency constraints together
// instead of independently (and the process is spawned once rather than
// per wheel). Extra sources are appended as repeated --extra-index-url
// and --find-links flags.
//
// On failure the diagnostic names both environment-variable hooks and
// their expected format, since the most common cause is wheels that are
// not on any configured index.
func (inst *Installer) InstallWheels(ctx context.Context, set wheels.Set, sources wheels.Sources) model.StepResult {
	args := append([]string{"install"}, set.URLs()...)
	for _, url := range sources.ExtraIndexURLs {
		args = append(args, "--extra-index-url", url)
	}
	for _, link := range sources.FindLinks {
		args = append(args, "--find-links", link)
	}

	res := inst.runPip(ctx, args...)
	if !res.OK {
		res.Detail = fmt.Sprintf("%s\nif these wheels are not on a configured index, set:\n  %s=https://... (comma-separated for multiple)\n  %s=/path/to/wheels (comma-separated for multiple)",
			res.Detail, wheels.EnvIndexURL, wheels.EnvFindLinks)
	}
	return res
}

// runPip executes `<python> -m pip <args...>` and converts the outcome
// into a StepResult. A launch failure (interpreter missing or not
// executable) and a non-zero pip exit both yield failure; the diagnostic
// distinguishes them so the printed message is actionable.
func (inst *Installer) runPip(ctx context.Context, args ...string) model.StepResult {
	run := inst.Run
	if run == nil {
		run = defaultRunner
	}

	full := append([]string{"-m", "pip"}, args...)
	err := run(ctx, inst.Python, full...)
	if err == nil {
		return model.StepOK()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return model.StepFailedf("pip exited with code %d", exitErr.ExitCode())
	}
	return model.StepFailedf("failed to run pip: %v", err)
}

// importProbe is the one-liner handed to `python -c` to test whether a
// module is importable without actually importing it (native extensions
// can be expensive or side-effecting to import). The module name arrives
// via argv to avoid any quoting concerns.
const importProbe = "import importlib.util, sys; sys.exit(0 if importlib.util.find_spec(sys.argv[1]) else 1)"

// MissingModules returns the wheel modules that are NOT importable in the
// target interpreter, preserving set order. A probe that cannot run at
// all counts its module as missing — the caller's remedy (install the
// wheel set) is the same either way.
func (inst *Installer) MissingModules(ctx context.Context, set wheels.Set) []string {
	run := inst.Run
	if run == nil {
		run = defaultRunner
	}

	var missing []string
	for _, module := range set.Modules() {
		if err := run(ctx, inst.Python, "-c", importProbe, module); err != nil {
			missing = append(missing, module)
		}
	}
	return missing
}

// CommandLine renders the pip invocation for a wheel install, for verbose
// logging. It mirrors exactly what runPip would execute.
func (inst *Installer) CommandLine(args ...string) string {
	return strings.Join(append([]string{inst.Python, "-m", "pip"}, args...), " ")
}
