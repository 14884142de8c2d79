package pip

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticlatent/trellis2-bootstrap/internal/wheels"
)

// recordingRunner captures every invocation and replays scripted results.
// An empty results queue means "succeed".
type recordingRunner struct {
	calls   [][]string
	results []error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	if len(r.results) == 0 {
		return nil
	}
	err := r.results[0]
	r.results = r.results[1:]
	return err
}

// exitError produces a real *exec.ExitError with the given code by running
// a trivial shell command. Building one by hand is not possible because
// os.ProcessState cannot be constructed outside the os package.
func exitError(t *testing.T, code int) error {
	t.Helper()

	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.ExitCode())
	return err
}

// TestInstallRequirements_MissingFile verifies the step fails without
// spawning any subprocess when the requirements file does not exist.
func TestInstallRequirements_MissingFile(t *testing.T) {
	runner := &recordingRunner{}
	inst := &Installer{Python: "/venv/bin/python", Run: runner.run}

	res := inst.InstallRequirements(context.Background(), filepath.Join(t.TempDir(), "requirements.txt"))

	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "requirements.txt not found")
	assert.Empty(t, runner.calls, "no subprocess may be launched for a missing file")
}

// TestInstallRequirements_InvocationShape verifies the exact pip command
// line: <python> -m pip install -r <path>.
func TestInstallRequirements_InvocationShape(t *testing.T) {
	reqPath := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(reqPath, []byte("numpy==1.26.4\n"), 0o644))

	runner := &recordingRunner{}
	inst := &Installer{Python: "/venv/bin/python", Run: runner.run}

	res := inst.InstallRequirements(context.Background(), reqPath)
	require.True(t, res.OK)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"/venv/bin/python", "-m", "pip", "install", "-r", reqPath}, runner.calls[0])
}

// TestInstallRequirements_PipFailure verifies a non-zero pip exit becomes a
// failed StepResult naming the exit code.
func TestInstallRequirements_PipFailure(t *testing.T) {
	reqPath := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(reqPath, []byte("no-such-package\n"), 0o644))

	runner := &recordingRunner{results: []error{exitError(t, 1)}}
	inst := &Installer{Python: "/venv/bin/python", Run: runner.run}

	res := inst.InstallRequirements(context.Background(), reqPath)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "pip exited with code 1")
}

// TestInstallRequirements_LaunchFailure verifies that an interpreter that
// cannot be executed is converted to a failure instead of propagating.
func TestInstallRequirements_LaunchFailure(t *testing.T) {
	reqPath := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(reqPath, []byte("numpy\n"), 0o644))

	runner := &recordingRunner{results: []error{errors.New("fork/exec /nope/python: no such file or directory")}}
	inst := &Installer{Python: "/nope/python", Run: runner.run}

	res := inst.InstallRequirements(context.Background(), reqPath)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "failed to run pip")
}

// TestInstallWheels_CombinedInvocation verifies all wheel URLs land in a
// single pip invocation, followed by the repeated source flags in order.
func TestInstallWheels_CombinedInvocation(t *testing.T) {
	runner := &recordingRunner{}
	inst := &Installer{Python: "python3", Run: runner.run}

	set := wheels.DefaultSet()
	sources := wheels.Sources{
		ExtraIndexURLs: []string{"https://a.example/simple", "https://b.example/simple"},
		FindLinks:      []string{"/wheels"},
	}

	res := inst.InstallWheels(context.Background(), set, sources)
	require.True(t, res.OK)

	require.Len(t, runner.calls, 1, "wheel install must be one combined invocation")
	call := runner.calls[0]

	assert.Equal(t, []string{"python3", "-m", "pip", "install"}, call[:4])
	assert.Equal(t, set.URLs(), call[4:9])
	assert.Equal(t, []string{
		"--extra-index-url", "https://a.example/simple",
		"--extra-index-url", "https://b.example/simple",
		"--find-links", "/wheels",
	}, call[9:])
}

// TestInstallWheels_FailureNamesEnvHooks verifies the remediation message
// names both environment-variable hooks with their expected format.
func TestInstallWheels_FailureNamesEnvHooks(t *testing.T) {
	runner := &recordingRunner{results: []error{exitError(t, 1)}}
	inst := &Installer{Python: "python3", Run: runner.run}

	res := inst.InstallWheels(context.Background(), wheels.DefaultSet(), wheels.Sources{})
	require.False(t, res.OK)

	assert.Contains(t, res.Detail, wheels.EnvIndexURL)
	assert.Contains(t, res.Detail, wheels.EnvFindLinks)
	assert.Contains(t, res.Detail, "comma-separated")
}

// TestMissingModules verifies that probe failures mark modules missing and
// probe successes do not, preserving set order.
func TestMissingModules(t *testing.T) {
	set := wheels.DefaultSet()

	// Fail the 2nd and 5th probes (flex_gemm, o_voxel).
	runner := &recordingRunner{results: []error{
		nil, exitError(t, 1), nil, nil, exitError(t, 1),
	}}
	inst := &Installer{Python: "python3", Run: runner.run}

	missing := inst.MissingModules(context.Background(), set)
	assert.Equal(t, []string{"flex_gemm", "o_voxel"}, missing)

	// Each probe is a separate `python -c` invocation carrying the module
	// name as an argument.
	require.Len(t, runner.calls, 5)
	assert.Equal(t, "-c", runner.calls[0][1])
	assert.Equal(t, "cumesh", runner.calls[0][3])
}

// TestMissingModules_AllPresent verifies the empty result when every module
// is importable.
func TestMissingModules_AllPresent(t *testing.T) {
	runner := &recordingRunner{}
	inst := &Installer{Python: "python3", Run: runner.run}

	missing := inst.MissingModules(context.Background(), wheels.DefaultSet())
	assert.Empty(t, missing)
}

// TestCommandLine verifies the rendered invocation matches what runPip
// executes.
func TestCommandLine(t *testing.T) {
	inst := New("/venv/bin/python")
	line := inst.CommandLine("install", "-r", "requirements.txt")

	assert.True(t, strings.HasPrefix(line, "/venv/bin/python -m pip install"))
	assert.Contains(t, line, "requirements.txt")
}
