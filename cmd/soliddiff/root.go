package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solidgrade/soliddiff/pkg/compare"
	"github.com/solidgrade/soliddiff/pkg/demo"
	"github.com/solidgrade/soliddiff/pkg/kernel"
	"github.com/solidgrade/soliddiff/pkg/kernel/sdfx"
	"github.com/solidgrade/soliddiff/pkg/loader"
	"github.com/solidgrade/soliddiff/pkg/report"
)

// NewRootCmd creates the root command for soliddiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soliddiff [reference] [generated]",
		Short: "Compare two 3D solid models using boolean operations",
		Long: `soliddiff compares a reference (gold) model against a generated model
and reports volumetric similarity metrics for automated grading:

  - IoU (Intersection over Union) - primary similarity metric
  - Dice coefficient (F1 score for volumes)
  - Precision (how much of generated is correct)
  - Recall (how much of reference was captured)
  - Spatial diagnostics (center offset, bounding box, size ratios)

Supported formats: STEP (.step, .stp), BREP (.brep), STL (.stl)

By default the human-readable report is printed, followed by the same
metrics as JSON, and the five comparison solids (reference, generated,
missing, extra, common) are exported as GLB visualization files.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "Output directory for GLB visualization files")
	cmd.Flags().Bool("json", false, "Output only JSON metrics (for pipelines)")
	cmd.Flags().Bool("no-export", false, "Skip exporting GLB visualization files")
	cmd.Flags().Bool("demo", false, "Run with built-in demo models")
	cmd.Flags().Int("resolution", 0, "Tessellation resolution in marching cubes cells (0 = default)")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the comparison pipeline.
func runRootCmd(cmd *cobra.Command, args []string) error {
	useDemo, err := cmd.Flags().GetBool("demo")
	if err != nil {
		return err
	}
	jsonOnly, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	noExport, err := cmd.Flags().GetBool("no-export")
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return err
	}
	resolution, err := cmd.Flags().GetInt("resolution")
	if err != nil {
		return err
	}

	if !useDemo && len(args) != 2 {
		_ = cmd.Usage()
		return errors.New("provide two model files or use --demo")
	}

	k := newKernel(resolution)
	stderr := cmd.ErrOrStderr()

	var reference, generated kernel.Solid
	if useDemo {
		if !jsonOnly {
			fmt.Fprintln(stderr, "Running with demo models...")
		}
		reference, generated, err = demo.Models(k)
		if err != nil {
			return err
		}
	} else {
		if !jsonOnly {
			fmt.Fprintf(stderr, "Loading reference: %s\n", args[0])
			fmt.Fprintf(stderr, "Loading generated: %s\n", args[1])
		}
		reference, err = loader.Load(k, args[0])
		if err != nil {
			return err
		}
		generated, err = loader.Load(k, args[1])
		if err != nil {
			return err
		}
	}

	outcome, err := compare.Run(k, reference, generated, compare.Options{
		OutputDir: outputDir,
		Export:    !noExport && !jsonOnly,
	})
	if err != nil {
		return err
	}

	if len(outcome.Exports) > 0 {
		fmt.Fprintf(stderr, "\nExporting to %s/:\n", outputDir)
		for _, s := range outcome.Exports {
			if s.Err != nil {
				fmt.Fprintf(stderr, "  %-25s - Failed: %v\n", s.Name, s.Err)
				continue
			}
			fmt.Fprintf(stderr, "  %-25s - %s\n", s.Name, s.Description)
		}
	}

	stdout := cmd.OutOrStdout()
	if jsonOnly {
		return report.WriteJSON(stdout, outcome.Metrics, false)
	}

	report.Write(stdout, outcome.Metrics, outcome.Diffs)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "JSON OUTPUT")
	return report.WriteJSON(stdout, outcome.Metrics, true)
}

// newKernel builds the sdfx-backed geometry kernel, optionally at a
// custom tessellation resolution.
func newKernel(resolution int) kernel.Kernel {
	if resolution > 0 {
		return sdfx.NewWithCells(resolution)
	}
	return sdfx.New()
}
