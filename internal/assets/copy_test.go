package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestCopyInto_CopiesFiles verifies that regular files are copied into a
// freshly created destination directory.
func TestCopyInto_CopiesFiles(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "input")

	writeFile(t, filepath.Join(src, "example.png"), "png-bytes")
	writeFile(t, filepath.Join(src, "example.json"), "{}")

	copied, res := CopyInto(src, dst)
	require.True(t, res.OK, res.Detail)

	assert.ElementsMatch(t, []string{"example.png", "example.json"}, copied)

	got, err := os.ReadFile(filepath.Join(dst, "example.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
}

// TestCopyInto_NeverOverwrites verifies that an existing destination file
// keeps its content even when the source differs.
func TestCopyInto_NeverOverwrites(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "example.png"), "bundled")
	writeFile(t, filepath.Join(dst, "example.png"), "user-owned")

	copied, res := CopyInto(src, dst)
	require.True(t, res.OK, res.Detail)

	assert.Empty(t, copied, "existing destinations must be skipped")

	got, err := os.ReadFile(filepath.Join(dst, "example.png"))
	require.NoError(t, err)
	assert.Equal(t, "user-owned", string(got))
}

// TestCopyInto_SkipsDirectories verifies that only regular files are
// copied; subdirectories in the assets folder are ignored.
func TestCopyInto_SkipsDirectories(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "input")

	writeFile(t, filepath.Join(src, "keep.txt"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "subdir"), 0o755))
	writeFile(t, filepath.Join(src, "subdir", "nested.txt"), "y")

	copied, res := CopyInto(src, dst)
	require.True(t, res.OK, res.Detail)

	assert.Equal(t, []string{"keep.txt"}, copied)
	_, err := os.Stat(filepath.Join(dst, "subdir"))
	assert.True(t, os.IsNotExist(err), "directories must not be copied")
}

// TestCopyInto_MissingSource verifies that an absent assets directory is a
// non-fatal no-op.
func TestCopyInto_MissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "input")

	copied, res := CopyInto(filepath.Join(t.TempDir(), "no-assets"), dst)

	assert.True(t, res.OK)
	assert.Contains(t, res.Detail, "no assets directory")
	assert.Empty(t, copied)

	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "destination must not be created when there is nothing to copy")
}

// TestCopyInto_CreatesDestination verifies the input directory is created
// when assets exist but the destination does not.
func TestCopyInto_CreatesDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "deep", "input")

	writeFile(t, filepath.Join(src, "a.txt"), "a")

	copied, res := CopyInto(src, dst)
	require.True(t, res.OK, res.Detail)
	assert.Equal(t, []string{"a.txt"}, copied)
}
