// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide solid modeling, boolean operations,
// measurement, and file import/export behind this interface. The kernel
// abstraction allows swapping backends without changing the comparison
// engine.
//
// Kernels and Solids are not safe for concurrent use; one comparison
// pipeline runs sequentially on a single kernel.
package kernel

import "math"

// Format identifies a model file format handled by a kernel.
type Format int

const (
	// FormatSTEP is the ISO 10303 STEP exchange format (.step, .stp).
	FormatSTEP Format = iota
	// FormatBREP is the OpenCASCADE native boundary representation (.brep).
	FormatBREP
	// FormatSTL is the stereolithography triangle mesh format (.stl).
	FormatSTL
	// FormatGLB is binary glTF, used only for visualization export.
	FormatGLB
)

// String returns the conventional short name of the format.
func (f Format) String() string {
	switch f {
	case FormatSTEP:
		return "STEP"
	case FormatBREP:
		return "BREP"
	case FormatSTL:
		return "STL"
	case FormatGLB:
		return "GLB"
	default:
		return "unknown"
	}
}

// Point3 is a point or vector in 3D space.
type Point3 struct {
	X, Y, Z float64
}

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Norm returns the Euclidean length of p.
func (p Point3) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation; all measurement
// goes through the owning Kernel. Solids are immutable: boolean
// operations produce new Solids and never mutate their operands.
type Solid interface {
	// Kernel names the backend that produced this solid. Solids from
	// different backends must not be mixed in boolean operations.
	Kernel() string
}

// Kernel is the abstract geometry kernel interface. It is the full
// capability contract the comparison engine consumes: file I/O, boolean
// operations, and measurement. Measurement queries may fail on
// degenerate geometry (an empty solid has no center of mass); callers
// decide whether such failures are fatal.
type Kernel interface {
	// Import reads a solid from a model file in the given format.
	Import(path string, format Format) (Solid, error)
	// Export writes a solid to a model file in the given format.
	// The binary flag selects the binary variant for formats that
	// have both text and binary encodings.
	Export(s Solid, path string, format Format, binary bool) error

	// Boolean operations. Operands are never mutated.
	Subtract(a, b Solid) (Solid, error)
	Intersect(a, b Solid) (Solid, error)

	// Measurement.
	Volume(s Solid) (float64, error)
	Area(s Solid) (float64, error)
	BoundingBox(s Solid) (min, max Point3, err error)
	Center(s Solid) (Point3, error)
	FaceCount(s Solid) (int, error)
	EdgeCount(s Solid) (int, error)
	VertexCount(s Solid) (int, error)

	// Fixture construction, used by the built-in demo models.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Translate(s Solid, x, y, z float64) Solid
}
