package visualize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidgrade/soliddiff/pkg/kernel"
	"github.com/solidgrade/soliddiff/pkg/kernel/kerneltest"
)

func testSet() Set {
	return Set{
		Reference: &kerneltest.Solid{Vol: 1},
		Generated: &kerneltest.Solid{Vol: 2},
		Missing:   &kerneltest.Solid{Vol: 3},
		Extra:     &kerneltest.Solid{Vol: 4},
		Common:    &kerneltest.Solid{Vol: 5},
	}
}

func TestExportAllFiles(t *testing.T) {
	var paths []string
	k := &kerneltest.Kernel{
		ExportFunc: func(s kernel.Solid, path string, format kernel.Format, binary bool) error {
			assert.Equal(t, kernel.FormatGLB, format)
			assert.True(t, binary)
			paths = append(paths, filepath.Base(path))
			return nil
		},
	}
	dir := filepath.Join(t.TempDir(), "out")

	statuses, err := Export(k, dir, testSet())
	require.NoError(t, err)
	require.Len(t, statuses, 5)

	assert.Equal(t, []string{
		"diff_reference.glb",
		"diff_generated.glb",
		"diff_missing.glb",
		"diff_extra.glb",
		"diff_common.glb",
	}, paths)

	for _, s := range statuses {
		assert.NoError(t, s.Err, s.Name)
		assert.Equal(t, dir, filepath.Dir(s.Path))
		assert.NotEmpty(t, s.Description)
	}

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExportPartialFailure(t *testing.T) {
	boom := errors.New("empty solid")
	k := &kerneltest.Kernel{
		ExportFunc: func(s kernel.Solid, path string, format kernel.Format, binary bool) error {
			if strings.Contains(path, "diff_extra") {
				return boom
			}
			return nil
		},
	}

	statuses, err := Export(k, t.TempDir(), testSet())
	require.NoError(t, err, "one failed file must not abort the export")
	require.Len(t, statuses, 5)

	failed := 0
	for _, s := range statuses {
		if s.Err != nil {
			failed++
			assert.Equal(t, "diff_extra.glb", s.Name)
			assert.ErrorIs(t, s.Err, boom)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestExportDirCreationFailure(t *testing.T) {
	// A regular file where the directory should go makes MkdirAll fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "occupied")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	statuses, err := Export(&kerneltest.Kernel{}, blocker, testSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output directory")
	assert.Nil(t, statuses)
}
