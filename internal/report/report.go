package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
)

// FileName is the report's location relative to the node root. The leading
// dot keeps it out of the way; ComfyUI never reads it.
const FileName = ".trellis2-install.yml"

// StepRecord is one installer step's outcome as persisted in the report.
type StepRecord struct {
	// Name identifies the step ("vcredist", "requirements", "wheels").
	Name string `yaml:"name"`

	// OK mirrors the step's StepResult flag.
	OK bool `yaml:"ok"`

	// Detail carries the step's diagnostic, if any.
	Detail string `yaml:"detail,omitempty"`
}

// InstallReport is the persisted summary of one installer run.
type InstallReport struct {
	// InstalledAt is when the run finished.
	InstalledAt time.Time `yaml:"installedAt"`

	// Python is the interpreter the run targeted.
	Python string `yaml:"python"`

	// FromVenv records whether that interpreter came from the host venv
	// (as opposed to the PATH fallback).
	FromVenv bool `yaml:"fromVenv"`

	// WheelSource is "builtin" or "manifest", depending on where the
	// wheel set came from.
	WheelSource string `yaml:"wheelSource"`

	// Steps lists the per-step outcomes in execution order.
	Steps []StepRecord `yaml:"steps"`
}

// Succeeded reports whether every recorded step succeeded.
func (r *InstallReport) Succeeded() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// AddStep appends a step outcome converted from its StepResult.
func (r *InstallReport) AddStep(name string, res model.StepResult) {
	r.Steps = append(r.Steps, StepRecord{Name: name, OK: res.OK, Detail: res.Detail})
}

// header is prepended to the YAML so someone stumbling over the file knows
// what wrote it and that deleting it is harmless.
const header = "# Written by trellis2-bootstrap after an install run.\n# Informational only; safe to delete.\n"

// Write persists the report into the node root, replacing any previous
// report atomically enough for this purpose (single rename-free write —
// the file is informational).
func Write(nodeRoot string, r *InstallReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize install report: %w", err)
	}

	path := filepath.Join(nodeRoot, FileName)
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Read loads the report from the node root. The boolean reports whether a
// report exists; a missing file is not an error. A corrupt report is an
// error so the doctor can mention it rather than show garbage.
func Read(nodeRoot string) (*InstallReport, bool, error) {
	data, err := os.ReadFile(filepath.Join(nodeRoot, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var r InstallReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &r, true, nil
}
