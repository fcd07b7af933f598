// Package compare orchestrates one comparison pipeline:
// diff -> metrics -> optional visualization export.
package compare

import (
	"fmt"

	"github.com/solidgrade/soliddiff/pkg/diff"
	"github.com/solidgrade/soliddiff/pkg/kernel"
	"github.com/solidgrade/soliddiff/pkg/metrics"
	"github.com/solidgrade/soliddiff/pkg/report"
	"github.com/solidgrade/soliddiff/pkg/visualize"
)

// Options configures one comparison run.
type Options struct {
	// OutputDir receives the visualization files. Empty means the
	// current directory.
	OutputDir string
	// Export enables writing the five visualization files.
	Export bool
}

// Outcome is the result of one comparison run.
type Outcome struct {
	Metrics *metrics.Result
	Diffs   report.Diffs
	// Exports holds the per-file visualization statuses; empty when
	// export was disabled.
	Exports []visualize.Status
}

// Run executes the pipeline on two loaded solids. Boolean diffing and
// volume measurement are unrecoverable: without them there is no
// comparison. Enrichment degradation inside the metrics engine and
// per-file export failures never abort the run.
func Run(k kernel.Kernel, reference, generated kernel.Solid, opts Options) (*Outcome, error) {
	missing, extra, common, err := diff.Diff(k, reference, generated)
	if err != nil {
		return nil, err
	}

	result, err := metrics.Compute(k, reference, generated, common)
	if err != nil {
		return nil, err
	}

	missingVol, err := k.Volume(missing)
	if err != nil {
		return nil, fmt.Errorf("measuring missing geometry volume: %w", err)
	}
	extraVol, err := k.Volume(extra)
	if err != nil {
		return nil, fmt.Errorf("measuring extra geometry volume: %w", err)
	}

	outcome := &Outcome{
		Metrics: result,
		Diffs:   report.Diffs{MissingVolume: missingVol, ExtraVolume: extraVol},
	}

	if opts.Export {
		dir := opts.OutputDir
		if dir == "" {
			dir = "."
		}
		statuses, err := visualize.Export(k, dir, visualize.Set{
			Reference: reference,
			Generated: generated,
			Missing:   missing,
			Extra:     extra,
			Common:    common,
		})
		if err != nil {
			return nil, err
		}
		outcome.Exports = statuses
	}

	return outcome, nil
}
