// Package cli — prestartup.go implements the "trellis2-bootstrap
// prestartup" command, the hook ComfyUI triggers before it initializes.
//
// Two independent, unconditional actions:
//   - copy bundled example assets into ComfyUI's input directory (never
//     overwriting anything the user already has there)
//   - probe the CUDA extension modules for importability and, if any is
//     missing, install the FULL wheel set — not just the missing ones, so
//     pip resolves the set's cross-wheel constraints in one pass
//
// This command must never prevent ComfyUI from starting: every failure is
// printed and swallowed, and the command always exits 0.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcticlatent/trellis2-bootstrap/internal/assets"
	"github.com/arcticlatent/trellis2-bootstrap/internal/comfy"
	"github.com/arcticlatent/trellis2-bootstrap/internal/isolation"
	"github.com/arcticlatent/trellis2-bootstrap/internal/pip"
	"github.com/arcticlatent/trellis2-bootstrap/internal/wheels"
)

// prestartupFlags holds the flag values for the prestartup command.
type prestartupFlags struct {
	nodeRoot string // --node-root: the custom node directory
}

// NewPrestartupCommand creates the "prestartup" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPrestartupCommand() *cobra.Command {
	flags := &prestartupFlags{}

	cmd := &cobra.Command{
		Use:   "prestartup",
		Short: "Pre-startup hook: copy example assets and repair missing wheels",
		Long: `Run the pre-startup actions ComfyUI triggers before initializing:
copy the node's bundled example assets into ComfyUI's input directory
(existing files are never overwritten) and verify the CUDA extension
wheels are importable, installing them if any is missing.

This command always exits 0 — a failed pre-startup action must never
prevent ComfyUI from starting.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrestartup(cmd.Context(), flags.nodeRoot, nil)
		},
	}

	cmd.Flags().StringVar(&flags.nodeRoot, "node-root", defaultNodeRoot(),
		"Custom node directory (default: directory of this executable)")

	return cmd
}

// runPrestartup performs both pre-startup actions. It ALWAYS returns nil:
// the host's startup must not be coupled to any outcome here. The runner
// parameter exists for tests; nil means real subprocesses.
func runPrestartup(ctx context.Context, nodeRoot string, runner pip.CommandRunner) error {
	layout, err := comfy.ResolveLayout(nodeRoot)
	if err != nil {
		fmt.Printf("[TRELLIS2] Skipping pre-startup: cannot resolve node root: %v\n", err)
		return nil
	}

	// The isolation flag is recognized for compatibility but no longer
	// does anything; say so once, where its users would look.
	if isolation.Requested() {
		fmt.Println("[TRELLIS2] comfy-env isolation is no longer available; running in the ComfyUI venv.")
	}

	// Action (a): example assets. Failures are reported and swallowed;
	// files already present in the input directory are left untouched.
	copied, copyRes := assets.CopyInto(layout.AssetsDir, layout.InputDir)
	for _, name := range copied {
		fmt.Printf("[TRELLIS2] Copied asset: %s\n", name)
	}
	if !copyRes.OK {
		fmt.Printf("[TRELLIS2] Asset copy problem: %s\n", copyRes.Detail)
	}

	// Action (b): wheel presence repair, targeting the same interpreter
	// resolution as the installer.
	python, fromVenv := comfy.ResolveInterpreter(layout.HostRoot)
	VerboseLog("Probing wheels via %s (venv: %t)", python, fromVenv)

	set, sources, merr := wheels.Load(layout.NodeRoot)
	if merr != nil {
		fmt.Printf("[TRELLIS2] Ignoring wheel manifest: %v\n", merr)
	}

	inst := pip.New(python)
	inst.Run = runner

	missing := inst.MissingModules(ctx, set)
	if len(missing) == 0 {
		VerboseLog("All %d extension modules importable", len(set))
		return nil
	}

	fmt.Printf("[TRELLIS2] Installing CUDA wheels into venv (missing: %s)...\n",
		strings.Join(missing, ", "))
	if res := inst.InstallWheels(ctx, set, sources); !res.OK {
		fmt.Printf("[TRELLIS2] CUDA wheel install failed: %s\n", res.Detail)
	}
	return nil
}
