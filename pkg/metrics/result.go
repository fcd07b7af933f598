package metrics

// Name identifies one metric in the fixed metric set.
type Name string

// The full metric set, grouped by block. Blocks degrade independently:
// a kernel failure in one block never affects another.
const (
	// Primary similarity metrics.
	IoU       Name = "iou"
	Dice      Name = "dice"
	Precision Name = "precision"
	Recall    Name = "recall"
	F1        Name = "f1"

	// Volume block.
	VolumeReference    Name = "volume_reference"
	VolumeGenerated    Name = "volume_generated"
	VolumeIntersection Name = "volume_intersection"
	VolumeUnion        Name = "volume_union"
	VolumeRatio        Name = "volume_ratio"

	// Spatial block (centers of mass).
	CenterOffset    Name = "center_offset"
	CenterReference Name = "center_reference"
	CenterGenerated Name = "center_generated"

	// Bounding-box block.
	BBoxSizeReference Name = "bbox_size_reference"
	BBoxSizeGenerated Name = "bbox_size_generated"
	SizeRatioX        Name = "size_ratio_x"
	SizeRatioY        Name = "size_ratio_y"
	SizeRatioZ        Name = "size_ratio_z"
	BBoxIoU           Name = "bbox_iou"

	// Surface block.
	SurfaceReference Name = "surface_reference"
	SurfaceGenerated Name = "surface_generated"
	SurfaceRatio     Name = "surface_ratio"

	// Topology block (best-effort diagnostics; omitted on failure).
	FacesReference    Name = "faces_reference"
	FacesGenerated    Name = "faces_generated"
	EdgesReference    Name = "edges_reference"
	EdgesGenerated    Name = "edges_generated"
	VerticesReference Name = "vertices_reference"
	VerticesGenerated Name = "vertices_generated"
)

// order is the canonical report and serialization order.
var order = []Name{
	IoU, Dice, Precision, Recall, F1,
	VolumeReference, VolumeGenerated, VolumeIntersection, VolumeUnion, VolumeRatio,
	CenterOffset, CenterReference, CenterGenerated,
	BBoxSizeReference, BBoxSizeGenerated, SizeRatioX, SizeRatioY, SizeRatioZ, BBoxIoU,
	SurfaceReference, SurfaceGenerated, SurfaceRatio,
	FacesReference, FacesGenerated, EdgesReference, EdgesGenerated, VerticesReference, VerticesGenerated,
}

// Kind discriminates the variants a metric value can take.
type Kind int

const (
	// KindAbsent marks a metric whose block could not be computed.
	KindAbsent Kind = iota
	// KindFloat is a scalar metric.
	KindFloat
	// KindInt is an integer metric (topology counts).
	KindInt
	// KindTriple is a 3-tuple metric (centers, box sizes).
	KindTriple
)

// Value is a tagged union: float | int | float-triple | absent.
// Consumers switch on Kind and never see a numeric placeholder for a
// value that could not be computed.
type Value struct {
	kind Kind
	f    float64
	n    int
	t    [3]float64
}

// FloatValue wraps a scalar metric.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// IntValue wraps an integer metric.
func IntValue(v int) Value { return Value{kind: KindInt, n: v} }

// TripleValue wraps a 3-tuple metric.
func TripleValue(x, y, z float64) Value {
	return Value{kind: KindTriple, t: [3]float64{x, y, z}}
}

// AbsentValue marks a metric that could not be computed.
func AbsentValue() Value { return Value{kind: KindAbsent} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the metric could not be computed.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the scalar value; valid only for KindFloat.
func (v Value) Float() float64 { return v.f }

// Int returns the integer value; valid only for KindInt.
func (v Value) Int() int { return v.n }

// Triple returns the tuple value; valid only for KindTriple.
func (v Value) Triple() [3]float64 { return v.t }

// Result is an ordered mapping from metric name to value, produced once
// per comparison and immutable afterward. Keys a failed best-effort
// block never set (topology) are not present at all, while failed
// enrichment blocks are present with absent values.
type Result struct {
	values map[Name]Value
}

func newResult() *Result {
	return &Result{values: make(map[Name]Value, len(order))}
}

func (r *Result) set(n Name, v Value) {
	r.values[n] = v
}

// Get returns the value for a metric and whether it was set at all.
func (r *Result) Get(n Name) (Value, bool) {
	v, ok := r.values[n]
	return v, ok
}

// Float returns the scalar value of a metric, with ok false when the
// metric is unset, absent, or not a scalar.
func (r *Result) Float(n Name) (float64, bool) {
	v, ok := r.values[n]
	if !ok || v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Names returns the set metric names in canonical order.
func (r *Result) Names() []Name {
	names := make([]Name, 0, len(r.values))
	for _, n := range order {
		if _, ok := r.values[n]; ok {
			names = append(names, n)
		}
	}
	return names
}
