package vcredist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
)

// InstallerURL is the official download for the x64 VC++ 2015-2022
// redistributable. It doubles as the manual-remediation URL printed when
// the unattended install fails.
const InstallerURL = "https://aka.ms/vs/17/release/vc_redist.x64.exe"

// exitNewerInstalled is the msiexec-family exit code meaning a newer
// version of the product is already present. Not an error for our purposes.
const exitNewerInstalled = 1638

// requiredDLLs is the runtime pair the CUDA extension wheels link against.
// Both names must be found, though not necessarily in the same directory.
var requiredDLLs = []string{"msvcp140.dll", "vcruntime140.dll"}

// Status is the checker's position in the check-then-remediate sequence.
type Status string

const (
	// StatusUnchecked means no probe has run yet.
	StatusUnchecked Status = "unchecked"

	// StatusPresent means the probe found both runtime DLLs.
	StatusPresent Status = "present"

	// StatusAttempted means the DLLs were absent and an unattended
	// install was attempted.
	StatusAttempted Status = "install-attempted"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// Downloader fetches a URL to a local file. Tests substitute a fake so the
// state machine can be exercised without network access.
type Downloader func(ctx context.Context, url, dest string) error

// Checker probes for the VC++ runtime and attempts an unattended install
// when it is absent.
//
// All collaborators are injectable fields with working defaults: Dirs is
// the probe directory list (nil means the platform candidates derived from
// Python), Download fetches the installer, Run executes it, and GOOS
// selects the platform gate (empty means runtime.GOOS).
type Checker struct {
	// Python is the target interpreter, used to derive the
	// interpreter-specific probe directories.
	Python string

	// Dirs overrides the candidate probe directories when non-nil.
	Dirs []string

	// Download fetches the redistributable installer. Nil means HTTP.
	Download Downloader

	// Run executes the downloaded installer and returns its exit code.
	// A non-nil error means the installer could not be launched at all.
	// Nil means os/exec.
	Run func(ctx context.Context, name string, args ...string) (int, error)

	// GOOS overrides the platform gate for tests. Empty means runtime.GOOS.
	GOOS string

	status Status
}

// New creates a Checker for the given target interpreter.
func New(python string) *Checker {
	return &Checker{Python: python, status: StatusUnchecked}
}

// Status returns the checker's current position in the sequence.
func (c *Checker) Status() Status {
	if c.status == "" {
		return StatusUnchecked
	}
	return c.status
}

// Present probes the candidate directories for the required DLL pair.
// Each name may be satisfied by a different directory. On non-Windows
// platforms this always reports true without any filesystem access.
func (c *Checker) Present() bool {
	if c.goos() != "windows" {
		return true
	}
	return probe(c.probeDirs(), requiredDLLs)
}

// Ensure verifies the redistributable and installs it when missing.
//
// Sequence: probe → (if absent) download installer to a temp file →
// execute unattended → delete the temp file regardless of outcome →
// accept exit 0 or 1638 → probe again. Any failure along the way yields a
// failed StepResult whose diagnostic carries the manual-download URL;
// the caller logs it and continues, since a missing redistributable is
// non-fatal to the overall installation exit code.
func (c *Checker) Ensure(ctx context.Context) model.StepResult {
	if c.goos() != "windows" {
		return model.StepOKf("VC++ redistributable check not required on %s", c.goos())
	}

	dirs := c.probeDirs()
	if probe(dirs, requiredDLLs) {
		c.status = StatusPresent
		return model.StepOK()
	}

	c.status = StatusAttempted

	tmp, err := os.CreateTemp("", "vc_redist-*.exe")
	if err != nil {
		return c.failf("failed to create temp file for installer: %v", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	// The temp file is deleted whether the installer ran or not.
	defer func() { _ = os.Remove(tmpPath) }()

	download := c.Download
	if download == nil {
		download = httpDownload
	}
	if err := download(ctx, InstallerURL, tmpPath); err != nil {
		return c.failf("failed to download installer: %v", err)
	}

	run := c.Run
	if run == nil {
		run = defaultRun
	}

	code, err := run(ctx, tmpPath, "/install", "/quiet", "/norestart")
	if err != nil {
		return c.failf("failed to run installer: %v", err)
	}
	if code != 0 && code != exitNewerInstalled {
		return c.failf("installer exited with code %d", code)
	}

	if probe(dirs, requiredDLLs) {
		c.status = StatusPresent
		return model.StepOK()
	}
	return c.failf("runtime libraries still missing after install")
}

// failf builds the failed StepResult with the manual-remediation pointer
// every failure path shares.
func (c *Checker) failf(format string, args ...interface{}) model.StepResult {
	return model.StepFailedf("%s\ninstall it manually from %s",
		fmt.Sprintf(format, args...), InstallerURL)
}

// goos returns the effective platform gate.
func (c *Checker) goos() string {
	if c.GOOS != "" {
		return c.GOOS
	}
	return runtime.GOOS
}

// probeDirs returns the ordered candidate directories: the Windows system
// directory first, then the interpreter's own directory and its DLL
// locations. Empty entries (e.g., no system directory available) are
// dropped.
func (c *Checker) probeDirs() []string {
	if c.Dirs != nil {
		return c.Dirs
	}

	pythonDir := filepath.Dir(c.Python)
	candidates := []string{
		systemDirectory(),
		pythonDir,
		filepath.Join(pythonDir, "DLLs"),
		filepath.Join(pythonDir, "Library", "bin"),
	}

	dirs := candidates[:0]
	for _, d := range candidates {
		if d != "" && d != "." {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// probe reports whether every required name exists as a file in at least
// one of the searched directories. The match is case-insensitive since
// Windows filesystems are.
func probe(dirs, names []string) bool {
	for _, name := range names {
		if !foundIn(dirs, name) {
			return false
		}
	}
	return true
}

func foundIn(dirs []string, name string) bool {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
				return true
			}
		}
	}
	return false
}

// defaultRun executes the installer with inherited stdio and reports its
// exit code. A launch failure (the file is not executable, path mangled)
// comes back as the error.
func defaultRun(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// httpDownload is the default Downloader: a plain blocking GET streamed to
// the destination file. No timeout is configured — a hung download blocks
// the installer, matching the rest of the harness.
func httpDownload(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o755)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
