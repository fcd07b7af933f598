package kernel

import (
	"errors"
	"math"
)

// ErrEmptySolid reports a measurement that is undefined on a solid with
// no geometry, such as the center of mass of an empty intersection.
var ErrEmptySolid = errors.New("solid has no geometry")

// Mesh is a watertight triangle mesh, the boundary of a solid.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Measurement methods integrate over the triangles, so they assume the
// mesh is closed and consistently wound.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of stored vertices. Vertices shared by
// several triangles may be stored more than once; see UniqueVertexCount.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// vertex returns the i-th stored vertex in float64 precision.
func (m *Mesh) vertex(i uint32) Point3 {
	return Point3{
		X: float64(m.Vertices[i*3+0]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// signedVolume integrates the divergence theorem over the triangles:
// each triangle contributes the signed volume of the tetrahedron it
// spans with the origin. The result is positive for an outward-wound
// closed mesh.
func (m *Mesh) signedVolume() float64 {
	var sum float64
	for t := 0; t < m.TriangleCount(); t++ {
		a := m.vertex(m.Indices[t*3+0])
		b := m.vertex(m.Indices[t*3+1])
		c := m.vertex(m.Indices[t*3+2])
		sum += a.X*(b.Y*c.Z-b.Z*c.Y) +
			a.Y*(b.Z*c.X-b.X*c.Z) +
			a.Z*(b.X*c.Y-b.Y*c.X)
	}
	return sum / 6.0
}

// Volume returns the enclosed volume of the mesh. An empty mesh has
// volume zero.
func (m *Mesh) Volume() float64 {
	return math.Abs(m.signedVolume())
}

// Area returns the total surface area of the mesh.
func (m *Mesh) Area() float64 {
	var sum float64
	for t := 0; t < m.TriangleCount(); t++ {
		a := m.vertex(m.Indices[t*3+0])
		b := m.vertex(m.Indices[t*3+1])
		c := m.vertex(m.Indices[t*3+2])
		ab := b.Sub(a)
		ac := c.Sub(a)
		cross := Point3{
			X: ab.Y*ac.Z - ab.Z*ac.Y,
			Y: ab.Z*ac.X - ab.X*ac.Z,
			Z: ab.X*ac.Y - ab.Y*ac.X,
		}
		sum += cross.Norm() / 2.0
	}
	return sum
}

// Center returns the center of mass of the enclosed volume, computed as
// the volume-weighted average of the origin-tetrahedron centroids.
// It fails with ErrEmptySolid when the enclosed volume is zero.
func (m *Mesh) Center() (Point3, error) {
	var cx, cy, cz, vol float64
	for t := 0; t < m.TriangleCount(); t++ {
		a := m.vertex(m.Indices[t*3+0])
		b := m.vertex(m.Indices[t*3+1])
		c := m.vertex(m.Indices[t*3+2])
		v := (a.X*(b.Y*c.Z-b.Z*c.Y) +
			a.Y*(b.Z*c.X-b.X*c.Z) +
			a.Z*(b.X*c.Y-b.Y*c.X)) / 6.0
		// Centroid of the tetrahedron (origin, a, b, c).
		cx += v * (a.X + b.X + c.X) / 4.0
		cy += v * (a.Y + b.Y + c.Y) / 4.0
		cz += v * (a.Z + b.Z + c.Z) / 4.0
		vol += v
	}
	if math.Abs(vol) < 1e-12 {
		return Point3{}, ErrEmptySolid
	}
	return Point3{X: cx / vol, Y: cy / vol, Z: cz / vol}, nil
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// It fails with ErrEmptySolid on an empty mesh, for which no box exists.
func (m *Mesh) Bounds() (min, max Point3, err error) {
	if m.IsEmpty() {
		return Point3{}, Point3{}, ErrEmptySolid
	}
	first := m.vertex(0)
	min, max = first, first
	for i := 1; i < m.VertexCount(); i++ {
		v := m.vertex(uint32(i))
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max, nil
}

// UniqueVertexCount returns the number of distinct vertex positions.
func (m *Mesh) UniqueVertexCount() (int, error) {
	if m.IsEmpty() {
		return 0, ErrEmptySolid
	}
	seen := make(map[[3]float32]struct{}, m.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		key := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		seen[key] = struct{}{}
	}
	return len(seen), nil
}

// UniqueEdgeCount returns the number of distinct undirected edges,
// deduplicated by vertex position.
func (m *Mesh) UniqueEdgeCount() (int, error) {
	if m.IsEmpty() {
		return 0, ErrEmptySolid
	}
	// Assign an id per distinct position so duplicated vertices do not
	// inflate the edge count.
	ids := make(map[[3]float32]int, m.VertexCount())
	idOf := func(i uint32) int {
		key := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		id, ok := ids[key]
		if !ok {
			id = len(ids)
			ids[key] = id
		}
		return id
	}
	edges := make(map[[2]int]struct{}, m.TriangleCount()*3/2)
	for t := 0; t < m.TriangleCount(); t++ {
		tri := [3]int{
			idOf(m.Indices[t*3+0]),
			idOf(m.Indices[t*3+1]),
			idOf(m.Indices[t*3+2]),
		}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
		}
	}
	return len(edges), nil
}
