package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidgrade/soliddiff/pkg/kernel"
	"github.com/solidgrade/soliddiff/pkg/kernel/kerneltest"
)

func writeModelFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	k := &kerneltest.Kernel{}

	_, err := Load(k, filepath.Join(t.TempDir(), "no-such.stl"))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, err.Error(), "model file not found")
	assert.Empty(t, k.Imports, "missing file must not reach the kernel")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	k := &kerneltest.Kernel{}
	path := writeModelFile(t, "model.obj")

	_, err := Load(k, path)

	var uf *UnsupportedFormatError
	require.ErrorAs(t, err, &uf)
	assert.Equal(t, ".obj", uf.Ext)
	assert.Equal(t, "unsupported format: .obj (supported: .brep, .step, .stl, .stp)", err.Error())
	assert.Empty(t, k.Imports)
}

func TestLoadFormatDispatch(t *testing.T) {
	cases := []struct {
		name string
		want kernel.Format
	}{
		{"part.step", kernel.FormatSTEP},
		{"part.stp", kernel.FormatSTEP},
		{"part.STEP", kernel.FormatSTEP},
		{"part.brep", kernel.FormatBREP},
		{"part.stl", kernel.FormatSTL},
		{"part.STL", kernel.FormatSTL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := &kerneltest.Kernel{}
			path := writeModelFile(t, tc.name)

			s, err := Load(k, path)
			require.NoError(t, err)
			assert.NotNil(t, s)

			require.Len(t, k.Imports, 1)
			assert.Equal(t, path, k.Imports[0].Path)
			assert.Equal(t, tc.want, k.Imports[0].Format)
		})
	}
}

func TestLoadKernelErrorPropagates(t *testing.T) {
	sentinel := errors.New("backend refused")
	k := &kerneltest.Kernel{
		ImportFunc: func(string, kernel.Format) (kernel.Solid, error) {
			return nil, sentinel
		},
	}
	path := writeModelFile(t, "part.stl")

	_, err := Load(k, path)
	assert.ErrorIs(t, err, sentinel)
}

func TestExtensionsSorted(t *testing.T) {
	assert.Equal(t, []string{".brep", ".step", ".stl", ".stp"}, Extensions())
}
