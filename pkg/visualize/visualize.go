// Package visualize exports the five comparison solids as binary glTF
// scene files for inspection in a model viewer.
package visualize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Set holds the five solids of one comparison.
type Set struct {
	Reference kernel.Solid
	Generated kernel.Solid
	Missing   kernel.Solid
	Extra     kernel.Solid
	Common    kernel.Solid
}

// Status reports the outcome of exporting one solid.
type Status struct {
	Name        string
	Path        string
	Description string
	Err         error
}

// Export writes the five visualization files into dir, creating it if
// absent. The files are durable artifacts and are never cleaned up.
// One file failing does not abort the rest: every solid gets a Status,
// and only directory creation is fatal.
func Export(k kernel.Kernel, dir string, set Set) ([]Status, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	exports := []struct {
		name        string
		description string
		solid       kernel.Solid
	}{
		{"diff_reference.glb", "Reference model (A)", set.Reference},
		{"diff_generated.glb", "Generated model (B)", set.Generated},
		{"diff_missing.glb", "Missing geometry (A-B)", set.Missing},
		{"diff_extra.glb", "Extra geometry (B-A)", set.Extra},
		{"diff_common.glb", "Common geometry (A&B)", set.Common},
	}

	statuses := make([]Status, 0, len(exports))
	for _, e := range exports {
		path := filepath.Join(dir, e.name)
		err := k.Export(e.solid, path, kernel.FormatGLB, true)
		statuses = append(statuses, Status{
			Name:        e.name,
			Path:        path,
			Description: e.description,
			Err:         err,
		})
	}
	return statuses, nil
}
