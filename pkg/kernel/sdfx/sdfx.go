// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Solids are signed distance fields. Boolean operations compose the
// fields directly; measurement queries (volume, area, center, topology)
// integrate over a marching cubes tessellation of the field, which is
// computed once per solid and memoized. Imported STL meshes are bridged
// back into the SDF domain by meshSDF so they compose with native
// primitives.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*SdfxKernel)(nil)
	_ kernel.Solid  = (*sdfxSolid)(nil)
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

var (
	// ErrImportUnsupported reports a model format this kernel cannot read.
	// STEP and BREP import require an OpenCASCADE-backed kernel.
	ErrImportUnsupported = errors.New("import format not supported by the sdfx kernel")

	// ErrExportUnsupported reports a model format this kernel cannot write.
	ErrExportUnsupported = errors.New("export format not supported by the sdfx kernel")

	// ErrForeignSolid reports a solid that was not produced by this kernel.
	ErrForeignSolid = errors.New("solid was not produced by the sdfx kernel")
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. The
// tessellated boundary mesh is cached after the first measurement.
type sdfxSolid struct {
	s     sdf.SDF3
	cells int
	mesh  *kernel.Mesh
}

// Kernel names the backend that produced this solid.
func (s *sdfxSolid) Kernel() string { return "sdfx" }

// tessellate renders the SDF to a triangle mesh using marching cubes.
// The result is memoized: solids are immutable, so the boundary never
// changes. A field with a degenerate bounding box (an empty boolean
// intersection) yields a valid empty mesh, not an error.
func (s *sdfxSolid) tessellate() (*kernel.Mesh, error) {
	if s.mesh != nil {
		return s.mesh, nil
	}

	bb := s.s.BoundingBox()
	if bb.Max.X <= bb.Min.X || bb.Max.Y <= bb.Min.Y || bb.Max.Z <= bb.Min.Z {
		s.mesh = &kernel.Mesh{}
		return s.mesh, nil
	}

	renderer := render.NewMarchingCubesUniform(s.cells)
	triangles := render.ToTriangles(s.s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	s.mesh = &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
	return s.mesh, nil
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel at the default tessellation resolution.
func New() *SdfxKernel {
	return NewWithCells(defaultMeshCells)
}

// NewWithCells returns a new SdfxKernel with the given marching cubes
// resolution. Lower values trade measurement accuracy for speed.
func NewWithCells(cells int) *SdfxKernel {
	if cells < 2 {
		cells = 2
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying sdfxSolid from a kernel.Solid.
func unwrap(s kernel.Solid) (*sdfxSolid, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrForeignSolid, s)
	}
	return ss, nil
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func (k *SdfxKernel) wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s, cells: k.cells}
}

// meshOf returns the tessellated boundary of a solid.
func meshOf(s kernel.Solid) (*kernel.Mesh, error) {
	ss, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	return ss.tessellate()
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return k.wrap(s)
}

// Cylinder creates a cylinder along the Z axis with the given height
// and radius, centered at the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return k.wrap(s)
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ss, err := unwrap(s)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Translate: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return k.wrap(sdf.Transform3D(ss.s, m))
}

// Subtract returns the boolean difference a - b.
func (k *SdfxKernel) Subtract(a, b kernel.Solid) (kernel.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	return k.wrap(sdf.Difference3D(sa.s, sb.s)), nil
}

// Intersect returns the boolean intersection of two solids. Disjoint
// operands produce a valid solid with zero volume.
func (k *SdfxKernel) Intersect(a, b kernel.Solid) (kernel.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	return k.wrap(sdf.Intersect3D(sa.s, sb.s)), nil
}

// Volume returns the enclosed volume of the solid.
func (k *SdfxKernel) Volume(s kernel.Solid) (float64, error) {
	m, err := meshOf(s)
	if err != nil {
		return 0, err
	}
	return m.Volume(), nil
}

// Area returns the surface area of the solid.
func (k *SdfxKernel) Area(s kernel.Solid) (float64, error) {
	m, err := meshOf(s)
	if err != nil {
		return 0, err
	}
	return m.Area(), nil
}

// BoundingBox returns the tight axis-aligned bounding box of the
// tessellated boundary. This is tighter than the SDF's own conservative
// box, which boolean operations do not shrink.
func (k *SdfxKernel) BoundingBox(s kernel.Solid) (min, max kernel.Point3, err error) {
	m, err := meshOf(s)
	if err != nil {
		return kernel.Point3{}, kernel.Point3{}, err
	}
	return m.Bounds()
}

// Center returns the center of mass of the solid. It fails with
// kernel.ErrEmptySolid when the solid has no volume.
func (k *SdfxKernel) Center(s kernel.Solid) (kernel.Point3, error) {
	m, err := meshOf(s)
	if err != nil {
		return kernel.Point3{}, err
	}
	return m.Center()
}

// FaceCount returns the number of boundary faces (mesh triangles).
func (k *SdfxKernel) FaceCount(s kernel.Solid) (int, error) {
	m, err := meshOf(s)
	if err != nil {
		return 0, err
	}
	if m.IsEmpty() {
		return 0, kernel.ErrEmptySolid
	}
	return m.TriangleCount(), nil
}

// EdgeCount returns the number of distinct boundary edges.
func (k *SdfxKernel) EdgeCount(s kernel.Solid) (int, error) {
	m, err := meshOf(s)
	if err != nil {
		return 0, err
	}
	return m.UniqueEdgeCount()
}

// VertexCount returns the number of distinct boundary vertices.
func (k *SdfxKernel) VertexCount(s kernel.Solid) (int, error) {
	m, err := meshOf(s)
	if err != nil {
		return 0, err
	}
	return m.UniqueVertexCount()
}

// Import reads a solid from a model file. STL meshes are read natively
// and bridged into the SDF domain; STEP and BREP are boundary
// representation formats that need an OpenCASCADE-backed kernel, so
// importing them here fails with ErrImportUnsupported.
func (k *SdfxKernel) Import(path string, format kernel.Format) (kernel.Solid, error) {
	switch format {
	case kernel.FormatSTL:
		mesh, err := readSTL(path)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", path, err)
		}
		return &sdfxSolid{s: newMeshSDF(mesh), cells: k.cells, mesh: mesh}, nil
	case kernel.FormatSTEP, kernel.FormatBREP:
		return nil, fmt.Errorf("%w: %s import requires an OpenCASCADE-backed kernel", ErrImportUnsupported, format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrImportUnsupported, format)
	}
}

// Export writes the tessellated boundary of a solid to a model file.
func (k *SdfxKernel) Export(s kernel.Solid, path string, format kernel.Format, binary bool) error {
	m, err := meshOf(s)
	if err != nil {
		return err
	}
	switch format {
	case kernel.FormatSTL:
		return writeSTL(path, m, binary)
	case kernel.FormatGLB:
		return writeGLB(path, m)
	default:
		return fmt.Errorf("%w: %s", ErrExportUnsupported, format)
	}
}
