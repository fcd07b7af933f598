// Package metrics derives similarity and error metrics from a
// reference solid, a generated solid, and their boolean intersection.
//
// Every metric is defined even when its natural denominator is zero:
// empty or degenerate geometry is routine during early-stage generation
// and must not crash a grading pipeline. Metrics that depend on kernel
// queries beyond volume (centers, boxes, areas, topology) degrade per
// block: a failed query marks its block absent or omitted and leaves
// every other block intact.
package metrics

import (
	"fmt"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Compute measures the three solids and derives the full metric set.
// Volume queries are the primary similarity signal: if one of them
// fails there is no meaningful comparison and Compute returns an error.
// All other kernel failures are downgraded to absent or omitted blocks.
func Compute(k kernel.Kernel, reference, generated, common kernel.Solid) (*Result, error) {
	volRef, err := k.Volume(reference)
	if err != nil {
		return nil, fmt.Errorf("measuring reference volume: %w", err)
	}
	volGen, err := k.Volume(generated)
	if err != nil {
		return nil, fmt.Errorf("measuring generated volume: %w", err)
	}
	volCommon, err := k.Volume(common)
	if err != nil {
		return nil, fmt.Errorf("measuring intersection volume: %w", err)
	}
	volUnion := volRef + volGen - volCommon

	r := newResult()

	// IoU (Jaccard index): shared volume over combined volume. Two
	// zero-volume solids are defined as a perfect match.
	iou := 1.0
	if volUnion > 0 {
		iou = volCommon / volUnion
	}
	r.set(IoU, FloatValue(iou))

	// Dice coefficient: more sensitive than IoU for small overlaps.
	dice := 1.0
	if volRef+volGen > 0 {
		dice = 2 * volCommon / (volRef + volGen)
	}
	r.set(Dice, FloatValue(dice))

	// Precision: how much of the generated solid is correct.
	precision := 0.0
	if volGen > 0 {
		precision = volCommon / volGen
	}
	r.set(Precision, FloatValue(precision))

	// Recall: how much of the reference was captured.
	recall := 0.0
	if volRef > 0 {
		recall = volCommon / volRef
	}
	r.set(Recall, FloatValue(recall))

	// F1 from precision/recall. Numerically equal to dice in the
	// non-degenerate case; kept as an independent computation and
	// cross-checked in tests rather than aliased.
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	r.set(F1, FloatValue(f1))

	r.set(VolumeReference, FloatValue(volRef))
	r.set(VolumeGenerated, FloatValue(volGen))
	r.set(VolumeIntersection, FloatValue(volCommon))
	r.set(VolumeUnion, FloatValue(volUnion))
	ratio := 0.0
	if volRef > 0 {
		ratio = volGen / volRef
	}
	r.set(VolumeRatio, FloatValue(ratio))

	computeSpatial(k, reference, generated, r)
	computeBoundingBox(k, reference, generated, r)
	computeSurface(k, reference, generated, r)
	computeTopology(k, reference, generated, r)

	return r, nil
}

// computeSpatial sets the center-of-mass block. A center query can fail
// on degenerate geometry; the block is then absent as a whole, never
// partially filled.
func computeSpatial(k kernel.Kernel, reference, generated kernel.Solid, r *Result) {
	centerRef, errRef := k.Center(reference)
	centerGen, errGen := k.Center(generated)
	if errRef != nil || errGen != nil {
		r.set(CenterOffset, AbsentValue())
		r.set(CenterReference, AbsentValue())
		r.set(CenterGenerated, AbsentValue())
		return
	}
	r.set(CenterOffset, FloatValue(centerGen.Sub(centerRef).Norm()))
	r.set(CenterReference, TripleValue(centerRef.X, centerRef.Y, centerRef.Z))
	r.set(CenterGenerated, TripleValue(centerGen.X, centerGen.Y, centerGen.Z))
}

// computeBoundingBox sets per-axis extents, per-axis size ratios, and
// an axis-aligned box IoU computed independently of the solid-volume
// IoU. The whole block is absent if either box query fails.
func computeBoundingBox(k kernel.Kernel, reference, generated kernel.Solid, r *Result) {
	minRef, maxRef, errRef := k.BoundingBox(reference)
	minGen, maxGen, errGen := k.BoundingBox(generated)
	if errRef != nil || errGen != nil {
		for _, n := range []Name{BBoxSizeReference, BBoxSizeGenerated, SizeRatioX, SizeRatioY, SizeRatioZ, BBoxIoU} {
			r.set(n, AbsentValue())
		}
		return
	}

	sizeRef := maxRef.Sub(minRef)
	sizeGen := maxGen.Sub(minGen)
	r.set(BBoxSizeReference, TripleValue(sizeRef.X, sizeRef.Y, sizeRef.Z))
	r.set(BBoxSizeGenerated, TripleValue(sizeGen.X, sizeGen.Y, sizeGen.Z))

	axisRatio := func(gen, ref float64) float64 {
		if ref > 0 {
			return gen / ref
		}
		return 0.0
	}
	r.set(SizeRatioX, FloatValue(axisRatio(sizeGen.X, sizeRef.X)))
	r.set(SizeRatioY, FloatValue(axisRatio(sizeGen.Y, sizeRef.Y)))
	r.set(SizeRatioZ, FloatValue(axisRatio(sizeGen.Z, sizeRef.Z)))

	// Box IoU: per-axis overlap clamped to zero before multiplying.
	overlap := func(minA, maxA, minB, maxB float64) float64 {
		o := min(maxA, maxB) - max(minA, minB)
		if o < 0 {
			return 0
		}
		return o
	}
	intersection := overlap(minRef.X, maxRef.X, minGen.X, maxGen.X) *
		overlap(minRef.Y, maxRef.Y, minGen.Y, maxGen.Y) *
		overlap(minRef.Z, maxRef.Z, minGen.Z, maxGen.Z)
	boxVolRef := sizeRef.X * sizeRef.Y * sizeRef.Z
	boxVolGen := sizeGen.X * sizeGen.Y * sizeGen.Z
	boxUnion := boxVolRef + boxVolGen - intersection

	boxIoU := 1.0
	if boxUnion > 0 {
		boxIoU = intersection / boxUnion
	}
	r.set(BBoxIoU, FloatValue(boxIoU))
}

// computeSurface sets the surface-area block, absent as a whole on
// failure.
func computeSurface(k kernel.Kernel, reference, generated kernel.Solid, r *Result) {
	areaRef, errRef := k.Area(reference)
	areaGen, errGen := k.Area(generated)
	if errRef != nil || errGen != nil {
		r.set(SurfaceReference, AbsentValue())
		r.set(SurfaceGenerated, AbsentValue())
		r.set(SurfaceRatio, AbsentValue())
		return
	}
	r.set(SurfaceReference, FloatValue(areaRef))
	r.set(SurfaceGenerated, FloatValue(areaGen))
	ratio := 0.0
	if areaRef > 0 {
		ratio = areaGen / areaRef
	}
	r.set(SurfaceRatio, FloatValue(ratio))
}

// computeTopology sets the face/edge/vertex counts for both solids.
// Topology is best-effort diagnostics only: on any failure the block's
// keys are omitted entirely rather than set absent.
func computeTopology(k kernel.Kernel, reference, generated kernel.Solid, r *Result) {
	type query struct {
		name  Name
		count func(kernel.Solid) (int, error)
		solid kernel.Solid
	}
	queries := []query{
		{FacesReference, k.FaceCount, reference},
		{FacesGenerated, k.FaceCount, generated},
		{EdgesReference, k.EdgeCount, reference},
		{EdgesGenerated, k.EdgeCount, generated},
		{VerticesReference, k.VertexCount, reference},
		{VerticesGenerated, k.VertexCount, generated},
	}

	counts := make(map[Name]int, len(queries))
	for _, q := range queries {
		n, err := q.count(q.solid)
		if err != nil {
			return
		}
		counts[q.name] = n
	}
	for name, n := range counts {
		r.set(name, IntValue(n))
	}
}
