// Package kerneltest provides a configurable in-memory kernel.Kernel
// for exercising failure paths that are hard to trigger with real
// geometry, such as measurement queries failing on one solid only.
package kerneltest

import (
	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*Kernel)(nil)
	_ kernel.Solid  = (*Solid)(nil)
)

// Solid is a fake solid whose measurements are plain fields. Any *Err
// field set non-nil makes the corresponding query fail.
type Solid struct {
	Vol         float64
	SurfaceArea float64
	Min, Max    kernel.Point3
	Centroid    kernel.Point3
	Faces       int
	Edges       int
	Verts       int

	VolumeErr error
	AreaErr   error
	BoxErr    error
	CenterErr error
	TopoErr   error
}

// Kernel names the backend that produced this solid.
func (s *Solid) Kernel() string { return "fake" }

// Kernel is a fake geometry kernel. The function fields override the
// corresponding operations; unset operations return zero-valued solids
// and nil errors.
type Kernel struct {
	ImportFunc    func(path string, format kernel.Format) (kernel.Solid, error)
	ExportFunc    func(s kernel.Solid, path string, format kernel.Format, binary bool) error
	SubtractFunc  func(a, b kernel.Solid) (kernel.Solid, error)
	IntersectFunc func(a, b kernel.Solid) (kernel.Solid, error)

	// Imports records every Import call in order.
	Imports []ImportCall
}

// ImportCall records the arguments of one Import invocation.
type ImportCall struct {
	Path   string
	Format kernel.Format
}

func (k *Kernel) Import(path string, format kernel.Format) (kernel.Solid, error) {
	k.Imports = append(k.Imports, ImportCall{Path: path, Format: format})
	if k.ImportFunc != nil {
		return k.ImportFunc(path, format)
	}
	return &Solid{}, nil
}

func (k *Kernel) Export(s kernel.Solid, path string, format kernel.Format, binary bool) error {
	if k.ExportFunc != nil {
		return k.ExportFunc(s, path, format, binary)
	}
	return nil
}

func (k *Kernel) Subtract(a, b kernel.Solid) (kernel.Solid, error) {
	if k.SubtractFunc != nil {
		return k.SubtractFunc(a, b)
	}
	return &Solid{}, nil
}

func (k *Kernel) Intersect(a, b kernel.Solid) (kernel.Solid, error) {
	if k.IntersectFunc != nil {
		return k.IntersectFunc(a, b)
	}
	return &Solid{}, nil
}

func (k *Kernel) Volume(s kernel.Solid) (float64, error) {
	fs := s.(*Solid)
	return fs.Vol, fs.VolumeErr
}

func (k *Kernel) Area(s kernel.Solid) (float64, error) {
	fs := s.(*Solid)
	return fs.SurfaceArea, fs.AreaErr
}

func (k *Kernel) BoundingBox(s kernel.Solid) (min, max kernel.Point3, err error) {
	fs := s.(*Solid)
	return fs.Min, fs.Max, fs.BoxErr
}

func (k *Kernel) Center(s kernel.Solid) (kernel.Point3, error) {
	fs := s.(*Solid)
	return fs.Centroid, fs.CenterErr
}

func (k *Kernel) FaceCount(s kernel.Solid) (int, error) {
	fs := s.(*Solid)
	return fs.Faces, fs.TopoErr
}

func (k *Kernel) EdgeCount(s kernel.Solid) (int, error) {
	fs := s.(*Solid)
	return fs.Edges, fs.TopoErr
}

func (k *Kernel) VertexCount(s kernel.Solid) (int, error) {
	fs := s.(*Solid)
	return fs.Verts, fs.TopoErr
}

func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return &Solid{Vol: x * y * z}
}

func (k *Kernel) Cylinder(height, radius float64) kernel.Solid {
	return &Solid{}
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return s
}
