// Package loader resolves model file paths to kernel import operations.
// The format is chosen by file extension alone; file contents are the
// kernel's concern, and kernel import errors propagate unchanged.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// formats maps recognized (lowercased) extensions to kernel formats.
var formats = map[string]kernel.Format{
	".step": kernel.FormatSTEP,
	".stp":  kernel.FormatSTEP,
	".brep": kernel.FormatBREP,
	".stl":  kernel.FormatSTL,
}

// NotFoundError reports a model file path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model file not found: %s", e.Path)
}

// UnsupportedFormatError reports a file extension outside the
// recognized set.
type UnsupportedFormatError struct {
	Ext       string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s (supported: %s)",
		e.Ext, strings.Join(e.Supported, ", "))
}

// Extensions returns the recognized extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load resolves path to a format by its lowercased extension and
// imports it through the kernel. It fails with *NotFoundError if the
// path does not exist and *UnsupportedFormatError if the extension is
// not recognized.
func Load(k kernel.Kernel, path string) (kernel.Solid, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formats[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Ext: ext, Supported: Extensions()}
	}

	return k.Import(path, format)
}
