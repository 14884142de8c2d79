// Package cli — doctor.go implements the "trellis2-bootstrap doctor"
// command, a read-only diagnosis of the node's environment.
//
// Doctor performs no installs and mutates nothing. It reports:
//   - whether the ComfyUI venv interpreter resolves
//   - whether the requirements file is present
//   - which CUDA extension modules are importable
//   - whether the VC++ runtime is present (Windows only)
//   - the outcome of the last install run, if a report exists
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcticlatent/trellis2-bootstrap/internal/comfy"
	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
	"github.com/arcticlatent/trellis2-bootstrap/internal/pip"
	"github.com/arcticlatent/trellis2-bootstrap/internal/report"
	"github.com/arcticlatent/trellis2-bootstrap/internal/vcredist"
	"github.com/arcticlatent/trellis2-bootstrap/internal/wheels"
)

// doctorFlags holds the flag values for the doctor command.
type doctorFlags struct {
	nodeRoot string // --node-root: the custom node directory
}

// doctorCheck is one diagnosis line: a named pass/fail with detail.
type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// NewDoctorCommand creates the "doctor" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDoctorCommand() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the node's environment without changing anything",
		Long: `Check the TRELLIS2 node's environment: venv resolution, requirements
file presence, CUDA extension importability, the Windows runtime
prerequisite, and the last install report.

Doctor never installs or modifies anything. It exits 1 if any check
fails, which makes it usable from scripts.

Examples:
  trellis2-bootstrap doctor
  trellis2-bootstrap doctor --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), flags.nodeRoot, nil)
		},
	}

	cmd.Flags().StringVar(&flags.nodeRoot, "node-root", defaultNodeRoot(),
		"Custom node directory (default: directory of this executable)")

	return cmd
}

// runDoctor gathers all checks and prints them. The runner parameter
// exists for tests; nil means real subprocesses.
func runDoctor(ctx context.Context, nodeRoot string, runner pip.CommandRunner) error {
	layout, err := comfy.ResolveLayout(nodeRoot)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve node root", err)
	}

	var checks []doctorCheck

	// Venv resolution. Not finding a venv is worth flagging — installs
	// would silently target a PATH interpreter instead.
	python, fromVenv := comfy.ResolveInterpreter(layout.HostRoot)
	if fromVenv {
		checks = append(checks, doctorCheck{Name: "comfyui-venv", OK: true, Detail: python})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "comfyui-venv",
			OK:     false,
			Detail: fmt.Sprintf("no venv under %s; would fall back to %s", layout.HostRoot, python),
		})
	}

	// Requirements file.
	if res := fileCheck(layout.RequirementsFile); res.OK {
		checks = append(checks, doctorCheck{Name: "requirements-file", OK: true, Detail: layout.RequirementsFile})
	} else {
		checks = append(checks, doctorCheck{Name: "requirements-file", OK: false, Detail: res.Detail})
	}

	// Wheel modules. Probed through the resolved interpreter so the
	// answer matches what ComfyUI will see at startup.
	set, _, merr := wheels.Load(layout.NodeRoot)
	if merr != nil {
		checks = append(checks, doctorCheck{Name: "wheel-manifest", OK: false, Detail: merr.Error()})
	} else if path := wheels.ManifestPath(layout.NodeRoot); path != "" {
		checks = append(checks, doctorCheck{Name: "wheel-manifest", OK: true, Detail: path})
	}

	inst := pip.New(python)
	inst.Run = runner
	missing := missingSet(inst.MissingModules(ctx, set))
	for _, module := range set.Modules() {
		if missing[module] {
			checks = append(checks, doctorCheck{Name: "module:" + module, OK: false, Detail: "not importable"})
		} else {
			checks = append(checks, doctorCheck{Name: "module:" + module, OK: true})
		}
	}

	// Platform prerequisite. Present() is probe-only; on non-Windows it
	// reports true without touching the filesystem.
	vc := vcredist.New(python)
	if vc.Present() {
		checks = append(checks, doctorCheck{Name: "vcredist", OK: true})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "vcredist",
			OK:     false,
			Detail: fmt.Sprintf("runtime DLLs not found; install from %s", vcredist.InstallerURL),
		})
	}

	// Last install report, if any.
	if rep, exists, rerr := report.Read(layout.NodeRoot); rerr != nil {
		checks = append(checks, doctorCheck{Name: "install-report", OK: false, Detail: rerr.Error()})
	} else if exists {
		detail := fmt.Sprintf("last install %s, ok=%t", rep.InstalledAt.Format("2006-01-02 15:04 MST"), rep.Succeeded())
		checks = append(checks, doctorCheck{Name: "install-report", OK: rep.Succeeded(), Detail: detail})
	} else {
		checks = append(checks, doctorCheck{Name: "install-report", OK: true, Detail: "no install recorded yet"})
	}

	printDoctorResult(checks)

	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}
	if failed > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d of %d checks failed", failed, len(checks)))
	}
	return nil
}

// fileCheck reports whether a path exists as a StepResult.
func fileCheck(path string) model.StepResult {
	if _, err := os.Stat(path); err != nil {
		return model.StepFailedf("not found at %s", path)
	}
	return model.StepOK()
}

// missingSet converts the ordered missing list into a lookup set.
func missingSet(missing []string) map[string]bool {
	set := make(map[string]bool, len(missing))
	for _, m := range missing {
		set[m] = true
	}
	return set
}

// printDoctorResult outputs the checks in text or JSON format, depending
// on the global --json flag.
func printDoctorResult(checks []doctorCheck) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{"checks": checks}, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, c := range checks {
		mark := "ok"
		if !c.OK {
			mark = "FAIL"
		}
		if c.Detail != "" {
			fmt.Printf("  %-4s %-22s %s\n", mark, c.Name, c.Detail)
		} else {
			fmt.Printf("  %-4s %s\n", mark, c.Name)
		}
	}
}
