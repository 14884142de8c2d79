package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
)

// CopyInto copies every regular file from srcDir into dstDir, skipping any
// destination that already exists. It returns the names of the files it
// actually copied, plus a StepResult.
//
// Per-file failures do not abort the remaining files: the result collects
// them and reports failure at the end, but everything copyable is copied.
// The caller (the pre-startup hook) logs the result and moves on either
// way — a failed asset copy must never block the host from starting.
func CopyInto(srcDir, dstDir string) ([]string, model.StepResult) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			// No bundled assets in this build. Nothing to do.
			return nil, model.StepOKf("no assets directory at %s", srcDir)
		}
		return nil, model.StepFailedf("failed to read assets directory: %v", err)
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, model.StepFailedf("failed to create input directory %s: %v", dstDir, err)
	}

	var copied []string
	var problems []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())

		// Never overwrite: the user's input directory takes precedence
		// over bundled examples.
		if _, err := os.Lstat(dst); err == nil {
			continue
		}

		if err := copyFile(src, dst); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		copied = append(copied, entry.Name())
	}

	if len(problems) > 0 {
		return copied, model.StepFailedf("failed to copy: %s", strings.Join(problems, "; "))
	}
	return copied, model.StepOK()
}

// copyFile copies src to dst, preserving the source file's permission bits.
// The destination is created exclusively so a concurrent writer cannot be
// clobbered between the existence check and the copy.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
