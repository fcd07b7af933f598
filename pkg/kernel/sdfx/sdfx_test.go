package sdfx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// testCells keeps marching cubes fast in tests. Measurement tolerances
// below account for the coarser tessellation.
const testCells = 64

func testKernel() *SdfxKernel {
	return NewWithCells(testCells)
}

// within reports whether got is within frac of want.
func within(got, want, frac float64) bool {
	return math.Abs(got-want) <= frac*math.Abs(want)
}

func TestBoxVolume(t *testing.T) {
	k := testKernel()
	box := k.Box(40, 40, 40)

	vol, err := k.Volume(box)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 64000, 0.05) {
		t.Errorf("box volume = %f, expected ~64000", vol)
	}

	area, err := k.Area(box)
	if err != nil {
		t.Fatalf("Area failed: %v", err)
	}
	if !within(area, 9600, 0.05) {
		t.Errorf("box area = %f, expected ~9600", area)
	}
}

func TestBoxBoundingBox(t *testing.T) {
	k := testKernel()
	box := k.Box(100, 50, 25)

	min, max, err := k.BoundingBox(box)
	if err != nil {
		t.Fatalf("BoundingBox failed: %v", err)
	}

	const tol = 2.0
	expectMin := kernel.Point3{X: -50, Y: -25, Z: -12.5}
	expectMax := kernel.Point3{X: 50, Y: 25, Z: 12.5}
	if min.Sub(expectMin).Norm() > tol {
		t.Errorf("min = %+v, expected ~%+v", min, expectMin)
	}
	if max.Sub(expectMax).Norm() > tol {
		t.Errorf("max = %+v, expected ~%+v", max, expectMax)
	}
}

func TestCylinderVolume(t *testing.T) {
	k := testKernel()
	cyl := k.Cylinder(50, 10)

	vol, err := k.Volume(cyl)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, math.Pi*100*50, 0.05) {
		t.Errorf("cylinder volume = %f, expected ~%f", vol, math.Pi*100*50)
	}
}

func TestSubtract(t *testing.T) {
	k := testKernel()

	// Box with a through-hole: the cylinder is taller than the box, so
	// the removed material is pi*r^2 times the box height.
	diff, err := k.Subtract(k.Box(40, 40, 40), k.Cylinder(50, 10))
	if err != nil {
		t.Fatalf("Subtract failed: %v", err)
	}
	vol, err := k.Volume(diff)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	want := 64000 - math.Pi*100*40
	if !within(vol, want, 0.05) {
		t.Errorf("difference volume = %f, expected ~%f", vol, want)
	}
}

func TestIntersectOverlap(t *testing.T) {
	k := testKernel()
	a := k.Box(100, 100, 100)
	b := k.Translate(k.Box(100, 100, 100), 50, 0, 0)

	inter, err := k.Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect failed: %v", err)
	}
	vol, err := k.Volume(inter)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 500000, 0.05) {
		t.Errorf("intersection volume = %f, expected ~500000", vol)
	}
}

func TestIntersectDisjoint(t *testing.T) {
	k := testKernel()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 100, 0, 0)

	inter, err := k.Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect failed: %v", err)
	}

	vol, err := k.Volume(inter)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if vol != 0 {
		t.Errorf("disjoint intersection volume = %f, expected 0", vol)
	}

	// The empty solid is a valid value, but its center is undefined.
	if _, err := k.Center(inter); !errors.Is(err, kernel.ErrEmptySolid) {
		t.Errorf("Center error = %v, expected ErrEmptySolid", err)
	}
	if _, err := k.FaceCount(inter); !errors.Is(err, kernel.ErrEmptySolid) {
		t.Errorf("FaceCount error = %v, expected ErrEmptySolid", err)
	}
}

func TestTranslateCenter(t *testing.T) {
	k := testKernel()
	box := k.Translate(k.Box(10, 10, 10), 100, 200, 300)

	c, err := k.Center(box)
	if err != nil {
		t.Fatalf("Center failed: %v", err)
	}
	want := kernel.Point3{X: 100, Y: 200, Z: 300}
	if c.Sub(want).Norm() > 1.0 {
		t.Errorf("center = %+v, expected ~%+v", c, want)
	}
}

func TestTopologyCounts(t *testing.T) {
	k := testKernel()
	box := k.Box(20, 20, 20)

	faces, err := k.FaceCount(box)
	if err != nil {
		t.Fatalf("FaceCount failed: %v", err)
	}
	if faces == 0 {
		t.Fatal("expected non-zero face count")
	}
	edges, err := k.EdgeCount(box)
	if err != nil {
		t.Fatalf("EdgeCount failed: %v", err)
	}
	verts, err := k.VertexCount(box)
	if err != nil {
		t.Fatalf("VertexCount failed: %v", err)
	}
	// Perfect sharing gives E = 3F/2; vertices that fail to merge
	// bitwise push the count toward 3F.
	if edges < faces*3/2 || edges > faces*3 {
		t.Errorf("edges = %d, outside [%d, %d] for %d faces", edges, faces*3/2, faces*3, faces)
	}
	if verts == 0 || verts > faces*3 {
		t.Errorf("vertices = %d, outside (0, %d]", verts, faces*3)
	}
}

func TestSTLRoundTrip(t *testing.T) {
	k := testKernel()
	box := k.Box(20, 20, 20)

	origVol, err := k.Volume(box)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}

	for _, tc := range []struct {
		name   string
		binary bool
	}{
		{"binary", true},
		{"ascii", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "box.stl")
			if err := k.Export(box, path, kernel.FormatSTL, tc.binary); err != nil {
				t.Fatalf("Export failed: %v", err)
			}

			imported, err := k.Import(path, kernel.FormatSTL)
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			vol, err := k.Volume(imported)
			if err != nil {
				t.Fatalf("Volume failed: %v", err)
			}
			// The imported mesh is the exported mesh, so the volumes
			// differ only by float32 serialization noise.
			if !within(vol, origVol, 0.01) {
				t.Errorf("round-trip volume = %f, expected ~%f", vol, origVol)
			}
		})
	}
}

func TestImportSTEPUnsupported(t *testing.T) {
	k := testKernel()
	for _, format := range []kernel.Format{kernel.FormatSTEP, kernel.FormatBREP} {
		if _, err := k.Import("model.any", format); !errors.Is(err, ErrImportUnsupported) {
			t.Errorf("Import(%s) error = %v, expected ErrImportUnsupported", format, err)
		}
	}
}

func TestExportGLB(t *testing.T) {
	k := testKernel()
	box := k.Box(10, 10, 10)
	path := filepath.Join(t.TempDir(), "box.glb")

	if err := k.Export(box, path, kernel.FormatGLB, true); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "glTF" {
		t.Errorf("exported file does not start with glTF magic")
	}
}

func TestExportGLBEmptySolid(t *testing.T) {
	k := testKernel()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 100, 0, 0)
	empty, err := k.Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := k.Export(empty, path, kernel.FormatGLB, true); !errors.Is(err, kernel.ErrEmptySolid) {
		t.Errorf("Export error = %v, expected ErrEmptySolid", err)
	}
}

// foreignSolid stands in for a solid from another kernel backend.
type foreignSolid struct{}

func (foreignSolid) Kernel() string { return "other" }

func TestForeignSolidRejected(t *testing.T) {
	k := testKernel()
	box := k.Box(10, 10, 10)

	if _, err := k.Subtract(box, foreignSolid{}); !errors.Is(err, ErrForeignSolid) {
		t.Errorf("Subtract error = %v, expected ErrForeignSolid", err)
	}
	if _, err := k.Intersect(foreignSolid{}, box); !errors.Is(err, ErrForeignSolid) {
		t.Errorf("Intersect error = %v, expected ErrForeignSolid", err)
	}
	if _, err := k.Volume(foreignSolid{}); !errors.Is(err, ErrForeignSolid) {
		t.Errorf("Volume error = %v, expected ErrForeignSolid", err)
	}
}
