package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
)

// TestWriteRead_RoundTrip verifies a report survives the write/read cycle
// with its step order and outcomes intact.
func TestWriteRead_RoundTrip(t *testing.T) {
	nodeRoot := t.TempDir()

	r := &InstallReport{
		InstalledAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Python:      "/comfyui/venv/bin/python",
		FromVenv:    true,
		WheelSource: "builtin",
	}
	r.AddStep("requirements", model.StepOK())
	r.AddStep("wheels", model.StepFailedf("pip exited with code 1"))

	require.NoError(t, Write(nodeRoot, r))

	got, exists, err := Read(nodeRoot)
	require.NoError(t, err)
	require.True(t, exists)

	assert.Equal(t, r.Python, got.Python)
	assert.True(t, got.FromVenv)
	assert.True(t, got.InstalledAt.Equal(r.InstalledAt))

	require.Len(t, got.Steps, 2)
	assert.Equal(t, "requirements", got.Steps[0].Name)
	assert.True(t, got.Steps[0].OK)
	assert.Equal(t, "wheels", got.Steps[1].Name)
	assert.False(t, got.Steps[1].OK)
	assert.Contains(t, got.Steps[1].Detail, "code 1")

	assert.False(t, got.Succeeded())
}

// TestWrite_Header verifies the explanatory header lands at the top of
// the file.
func TestWrite_Header(t *testing.T) {
	nodeRoot := t.TempDir()

	require.NoError(t, Write(nodeRoot, &InstallReport{InstalledAt: time.Now()}))

	data, err := os.ReadFile(filepath.Join(nodeRoot, FileName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Written by trellis2-bootstrap"))
}

// TestRead_Missing verifies a missing report is "no report", not an error.
func TestRead_Missing(t *testing.T) {
	got, exists, err := Read(t.TempDir())

	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, got)
}

// TestRead_Corrupt verifies a malformed report is surfaced as an error
// with exists=true, so callers can mention the corruption.
func TestRead_Corrupt(t *testing.T) {
	nodeRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(nodeRoot, FileName), []byte("\tnot yaml"), 0o644))

	_, exists, err := Read(nodeRoot)
	require.Error(t, err)
	assert.True(t, exists)
}

// TestSucceeded_Empty treats a report with no steps as successful; the
// installer always records at least one step in practice.
func TestSucceeded_Empty(t *testing.T) {
	assert.True(t, (&InstallReport{}).Succeeded())
}
