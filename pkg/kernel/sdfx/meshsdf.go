package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Compile-time interface check.
var _ sdf.SDF3 = (*meshSDF)(nil)

// meshSDF adapts a closed triangle mesh into an sdf.SDF3 so that
// imported models can participate in boolean operations alongside
// native SDF primitives. The magnitude is the exact distance to the
// nearest triangle; the sign comes from ray-crossing parity, which
// requires the mesh to be watertight.
type meshSDF struct {
	tris [][3][3]float64
	bb   sdf.Box3
}

// newMeshSDF builds a meshSDF from a kernel mesh. The bounding box is
// padded slightly so the surface lies strictly inside the render
// volume used by marching cubes.
func newMeshSDF(m *kernel.Mesh) sdf.SDF3 {
	s := &meshSDF{}
	if m.IsEmpty() {
		return s
	}

	s.tris = make([][3][3]float64, 0, m.TriangleCount())
	min := [3]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	max := [3]float64{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}

	for t := 0; t < m.TriangleCount(); t++ {
		var tri [3][3]float64
		for j := 0; j < 3; j++ {
			i := m.Indices[t*3+j]
			tri[j] = [3]float64{
				float64(m.Vertices[i*3+0]),
				float64(m.Vertices[i*3+1]),
				float64(m.Vertices[i*3+2]),
			}
			for a := 0; a < 3; a++ {
				min[a] = math.Min(min[a], tri[j][a])
				max[a] = math.Max(max[a], tri[j][a])
			}
		}
		s.tris = append(s.tris, tri)
	}

	var pad [3]float64
	for a := 0; a < 3; a++ {
		pad[a] = (max[a]-min[a])*0.01 + 1e-6
	}
	s.bb = sdf.Box3{
		Min: v3.Vec{X: min[0] - pad[0], Y: min[1] - pad[1], Z: min[2] - pad[2]},
		Max: v3.Vec{X: max[0] + pad[0], Y: max[1] + pad[1], Z: max[2] + pad[2]},
	}
	return s
}

// BoundingBox returns the padded bounding box of the mesh.
func (s *meshSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// Evaluate returns the signed distance from p to the mesh surface:
// negative inside, positive outside.
func (s *meshSDF) Evaluate(p v3.Vec) float64 {
	if len(s.tris) == 0 {
		return math.MaxFloat64
	}
	q := [3]float64{p.X, p.Y, p.Z}
	best := math.MaxFloat64
	for _, tri := range s.tris {
		if d := pointTriangleDistSq(q, tri); d < best {
			best = d
		}
	}
	d := math.Sqrt(best)
	if s.inside(q) {
		return -d
	}
	return d
}

// inside reports whether p is enclosed by the mesh, by counting
// crossings of a ray cast in +X direction.
func (s *meshSDF) inside(p [3]float64) bool {
	crossings := 0
	for _, tri := range s.tris {
		if rayXHitsTriangle(p, tri) {
			crossings++
		}
	}
	return crossings%2 == 1
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// pointTriangleDistSq returns the squared distance from point p to
// triangle (a, b, c), following the closest-point classification of the
// triangle's Voronoi regions.
func pointTriangleDistSq(p [3]float64, tri [3][3]float64) float64 {
	a, b, c := tri[0], tri[1], tri[2]

	ab := sub3(b, a)
	ac := sub3(c, a)
	ap := sub3(p, a)

	d1 := dot3(ab, ap)
	d2 := dot3(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return dot3(ap, ap) // vertex region a
	}

	bp := sub3(p, b)
	d3 := dot3(ab, bp)
	d4 := dot3(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return dot3(bp, bp) // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3) // edge region ab
		e := [3]float64{a[0] + v*ab[0], a[1] + v*ab[1], a[2] + v*ab[2]}
		d := sub3(p, e)
		return dot3(d, d)
	}

	cp := sub3(p, c)
	d5 := dot3(ab, cp)
	d6 := dot3(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return dot3(cp, cp) // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6) // edge region ac
		e := [3]float64{a[0] + w*ac[0], a[1] + w*ac[1], a[2] + w*ac[2]}
		d := sub3(p, e)
		return dot3(d, d)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6)) // edge region bc
		e := [3]float64{b[0] + w*(c[0]-b[0]), b[1] + w*(c[1]-b[1]), b[2] + w*(c[2]-b[2])}
		d := sub3(p, e)
		return dot3(d, d)
	}

	// Face region: project onto the triangle plane.
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	e := [3]float64{
		a[0] + v*ab[0] + w*ac[0],
		a[1] + v*ab[1] + w*ac[1],
		a[2] + v*ab[2] + w*ac[2],
	}
	d := sub3(p, e)
	return dot3(d, d)
}

// rayXHitsTriangle reports whether a ray from p in +X direction hits
// the triangle, using the Moller-Trumbore intersection test.
func rayXHitsTriangle(p [3]float64, tri [3][3]float64) bool {
	const eps = 1e-12
	dir := [3]float64{1, 0, 0}

	e1 := sub3(tri[1], tri[0])
	e2 := sub3(tri[2], tri[0])
	h := cross3(dir, e2)
	det := dot3(e1, h)
	if math.Abs(det) < eps {
		return false // ray parallel to triangle plane
	}
	inv := 1.0 / det

	s := sub3(p, tri[0])
	u := inv * dot3(s, h)
	if u < 0 || u > 1 {
		return false
	}

	q := cross3(s, e1)
	v := inv * dot3(dir, q)
	if v < 0 || u+v > 1 {
		return false
	}

	t := inv * dot3(e2, q)
	return t > eps
}
