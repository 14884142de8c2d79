// Package cli — install.go implements the "trellis2-bootstrap install"
// command, the run-once installer entry point.
//
// Orchestration steps:
//  1. Resolve the ComfyUI layout from the node root
//  2. Resolve the target interpreter (venv python, PATH fallback)
//  3. Load the effective wheel set (built-in, optionally overridden by a
//     wheels.jsonc manifest) and the extra pip sources
//  4. Verify/install the VC++ redistributable on Windows (non-fatal)
//  5. Install the requirements file into the target environment
//  6. Install the wheel set in one combined pip invocation — attempted
//     even when the requirements step failed, so a partially broken
//     environment still gets as far as it can
//  7. Write the install report (best-effort)
//  8. Exit 0 only if both pip steps succeeded, else 1
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcticlatent/trellis2-bootstrap/internal/comfy"
	"github.com/arcticlatent/trellis2-bootstrap/internal/model"
	"github.com/arcticlatent/trellis2-bootstrap/internal/pip"
	"github.com/arcticlatent/trellis2-bootstrap/internal/report"
	"github.com/arcticlatent/trellis2-bootstrap/internal/vcredist"
	"github.com/arcticlatent/trellis2-bootstrap/internal/wheels"
)

// installFlags holds the flag values for the install command.
type installFlags struct {
	nodeRoot string // --node-root: the custom node directory
}

// NewInstallCommand creates the "install" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInstallCommand() *cobra.Command {
	flags := &installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the node's dependencies into ComfyUI's venv",
		Long: `Install the TRELLIS2 node's pinned requirements and prebuilt CUDA
extension wheels into ComfyUI's venv.

The target interpreter is <comfyui>/venv resolved relative to the node
root; if no venv exists, the first Python found on PATH is used. On
Windows, the VC++ redistributable is verified first (a failure there is
reported but does not fail the installation).

Examples:
  trellis2-bootstrap install
  trellis2-bootstrap install --node-root /opt/ComfyUI/custom_nodes/ComfyUI-TRELLIS2
  TRELLIS2_WHEEL_FIND_LINKS=/wheels trellis2-bootstrap install`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), flags.nodeRoot, nil)
		},
	}

	cmd.Flags().StringVar(&flags.nodeRoot, "node-root", defaultNodeRoot(),
		"Custom node directory (default: directory of this executable)")

	return cmd
}

// runInstall is the main orchestration function for the install command.
// The runner parameter exists for tests; nil means real subprocesses.
func runInstall(ctx context.Context, nodeRoot string, runner pip.CommandRunner) error {
	layout, err := comfy.ResolveLayout(nodeRoot)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve node root", err)
	}
	VerboseLog("Node root: %s", layout.NodeRoot)
	VerboseLog("ComfyUI root: %s", layout.HostRoot)

	fmt.Println("ComfyUI-TRELLIS2 installation")

	// Step 2: Resolve the target interpreter. Resolution happens fresh on
	// every run; nothing is cached between invocations.
	python, fromVenv := comfy.ResolveInterpreter(layout.HostRoot)
	if fromVenv {
		fmt.Printf("Using ComfyUI venv python: %s\n", python)
	} else {
		fmt.Println("ComfyUI venv python not found; using Python from PATH.")
	}

	// Step 3: Effective wheel set and sources. A malformed manifest is
	// reported and the built-in set is used.
	set, sources, merr := wheels.Load(layout.NodeRoot)
	if merr != nil {
		fmt.Printf("Ignoring wheel manifest: %v\n", merr)
	}
	wheelSource := "builtin"
	if merr == nil && wheels.ManifestPath(layout.NodeRoot) != "" {
		wheelSource = "manifest"
	}
	if sources.IsEmpty() {
		VerboseLog("No custom wheel sources configured")
	} else {
		VerboseLog("Using %d extra index URL(s) and %d find-links path(s)",
			len(sources.ExtraIndexURLs), len(sources.FindLinks))
	}

	inst := pip.New(python)
	inst.Run = runner

	rep := &report.InstallReport{
		Python:      python,
		FromVenv:    fromVenv,
		WheelSource: wheelSource,
	}

	// Step 4: Platform prerequisite. Failure here is logged but does not
	// affect the exit code — pip may still succeed, and the user gets a
	// manual-remediation URL either way.
	vc := vcredist.New(python)
	if vcRes := vc.Ensure(ctx); !vcRes.OK {
		fmt.Printf("Warning: VC++ redistributable check failed: %s\n", vcRes.Detail)
		rep.AddStep("vcredist", vcRes)
	} else {
		VerboseLog("VC++ redistributable: %s", vc.Status())
	}

	// Step 5: Requirements.
	fmt.Println("Installing requirements into ComfyUI venv...")
	reqRes := inst.InstallRequirements(ctx, layout.RequirementsFile)
	rep.AddStep("requirements", reqRes)
	if !reqRes.OK {
		fmt.Printf("Failed to install requirements: %s\n", reqRes.Detail)
	}

	// Step 6: Wheels. Deliberately attempted even when the requirements
	// step failed — the exit code reports the first failure regardless,
	// and a wheel install that succeeds leaves less to redo.
	fmt.Println("Installing CUDA extension wheels...")
	wheelRes := inst.InstallWheels(ctx, set, sources)
	rep.AddStep("wheels", wheelRes)
	if !wheelRes.OK {
		fmt.Printf("Failed to install CUDA extension wheels: %s\n", wheelRes.Detail)
	}

	// Step 7: Report, best-effort.
	rep.InstalledAt = time.Now().UTC()
	if err := report.Write(layout.NodeRoot, rep); err != nil {
		VerboseLog("Could not write install report: %v", err)
	}

	// Step 8: Exit code. The first failure encountered is what the error
	// message carries.
	if !reqRes.OK {
		return model.NewCLIError(model.ExitGeneralError, "failed to install requirements into venv")
	}
	if !wheelRes.OK {
		return model.NewCLIError(model.ExitGeneralError, "failed to install CUDA extension wheels")
	}

	fmt.Println("Installation complete.")
	return nil
}
