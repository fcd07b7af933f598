package compare

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidgrade/soliddiff/pkg/demo"
	"github.com/solidgrade/soliddiff/pkg/kernel"
	"github.com/solidgrade/soliddiff/pkg/kernel/kerneltest"
	"github.com/solidgrade/soliddiff/pkg/kernel/sdfx"
	"github.com/solidgrade/soliddiff/pkg/metrics"
)

// TestRunDemoPipeline drives the full pipeline on real geometry: the
// demo pair differs by an offset, enlarged hole, so the comparison must
// land in a mid-quality band with the generated model undersized.
func TestRunDemoPipeline(t *testing.T) {
	k := sdfx.NewWithCells(64)
	reference, generated, err := demo.Models(k)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "viz")
	outcome, err := Run(k, reference, generated, Options{OutputDir: dir, Export: true})
	require.NoError(t, err)

	iou, ok := outcome.Metrics.Float(metrics.IoU)
	require.True(t, ok)
	assert.Greater(t, iou, 0.5)
	assert.Less(t, iou, 0.95)

	// The enlarged hole removes material, so the generated model covers
	// less of the reference than the reference covers of it.
	precision, _ := outcome.Metrics.Float(metrics.Precision)
	recall, _ := outcome.Metrics.Float(metrics.Recall)
	assert.Less(t, recall, precision)

	dice, _ := outcome.Metrics.Float(metrics.Dice)
	f1, _ := outcome.Metrics.Float(metrics.F1)
	assert.InDelta(t, dice, f1, 1e-9)

	ratio, _ := outcome.Metrics.Float(metrics.VolumeRatio)
	assert.Less(t, ratio, 1.0)

	assert.Greater(t, outcome.Diffs.MissingVolume, 0.0)
	assert.Greater(t, outcome.Diffs.ExtraVolume, 0.0)

	require.Len(t, outcome.Exports, 5)
	for _, s := range outcome.Exports {
		require.NoError(t, s.Err, s.Name)
		info, err := os.Stat(s.Path)
		require.NoError(t, err, s.Name)
		assert.Greater(t, info.Size(), int64(0), s.Name)
	}
}

func TestRunExportDisabled(t *testing.T) {
	k := sdfx.NewWithCells(48)
	reference, generated, err := demo.Models(k)
	require.NoError(t, err)

	outcome, err := Run(k, reference, generated, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcome.Exports)
}

func TestRunDiffErrorFatal(t *testing.T) {
	boom := errors.New("boolean failed")
	k := &kerneltest.Kernel{
		SubtractFunc: func(a, b kernel.Solid) (kernel.Solid, error) {
			return nil, boom
		},
	}

	outcome, err := Run(k, &kerneltest.Solid{}, &kerneltest.Solid{}, Options{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, outcome)
}

func TestRunDiffVolumeErrorFatal(t *testing.T) {
	boom := errors.New("measurement failed")
	broken := &kerneltest.Solid{VolumeErr: boom}
	k := &kerneltest.Kernel{
		SubtractFunc: func(a, b kernel.Solid) (kernel.Solid, error) {
			return broken, nil
		},
	}

	_, err := Run(k, &kerneltest.Solid{Vol: 1}, &kerneltest.Solid{Vol: 1}, Options{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "measuring missing geometry volume")
}
