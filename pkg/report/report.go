// Package report renders comparison metrics as a human-readable report
// and as a machine-consumable mapping for grading pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/solidgrade/soliddiff/pkg/metrics"
)

// reportWidth is the column width of the human report.
const reportWidth = 65

// Diffs carries the missing/extra volumes the human report needs for
// its percentage lines. They come from the diff solids, which the
// metrics result itself does not retain.
type Diffs struct {
	MissingVolume float64
	ExtraVolume   float64
}

// Write renders the human-readable comparison report in fixed section
// order: volumes, primary metrics, diagnostics, topology (when
// available), interpretation.
func Write(w io.Writer, m *metrics.Result, d Diffs) {
	rule := strings.Repeat("=", reportWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  3D MODEL COMPARISON REPORT")
	fmt.Fprintln(w, "  Reference (A) vs Generated (B)")
	fmt.Fprintln(w, rule)

	writeVolumes(w, m, d)
	writePrimary(w, m)
	writeDiagnostics(w, m)
	writeTopology(w, m)
	writeInterpretation(w, m)

	fmt.Fprintln(w, rule)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n--- %s %s\n", title, strings.Repeat("-", reportWidth-len(title)-5))
}

// mustFloat reads a scalar that Compute always sets. The zero value
// only surfaces if a caller hands in a result from a different producer.
func mustFloat(m *metrics.Result, n metrics.Name) float64 {
	v, _ := m.Float(n)
	return v
}

func writeVolumes(w io.Writer, m *metrics.Result, d Diffs) {
	volRef := mustFloat(m, metrics.VolumeReference)
	volGen := mustFloat(m, metrics.VolumeGenerated)

	pct := func(part, whole float64) float64 {
		if whole > 0 {
			return 100 * part / whole
		}
		return 0
	}

	section(w, "VOLUMES")
	fmt.Fprintf(w, "  Reference (A):      %14.3f\n", volRef)
	fmt.Fprintf(w, "  Generated (B):      %14.3f\n", volGen)
	fmt.Fprintf(w, "  Intersection (A&B): %14.3f\n", mustFloat(m, metrics.VolumeIntersection))
	fmt.Fprintf(w, "  Union (A|B):        %14.3f\n", mustFloat(m, metrics.VolumeUnion))
	fmt.Fprintf(w, "  Missing (A-B):      %14.3f  (%.1f%% of A)\n", d.MissingVolume, pct(d.MissingVolume, volRef))
	fmt.Fprintf(w, "  Extra (B-A):        %14.3f  (%.1f%% of B)\n", d.ExtraVolume, pct(d.ExtraVolume, volGen))
}

func writePrimary(w io.Writer, m *metrics.Result) {
	section(w, "PRIMARY METRICS")
	fmt.Fprintf(w, "  IoU (Jaccard):      %14.4f  (1.0 = identical)\n", mustFloat(m, metrics.IoU))
	fmt.Fprintf(w, "  Dice (F1):          %14.4f  (1.0 = identical)\n", mustFloat(m, metrics.Dice))
	fmt.Fprintf(w, "  Precision:          %14.4f  (correctness of B)\n", mustFloat(m, metrics.Precision))
	fmt.Fprintf(w, "  Recall:             %14.4f  (coverage of A)\n", mustFloat(m, metrics.Recall))
}

func writeDiagnostics(w io.Writer, m *metrics.Result) {
	section(w, "DIAGNOSTIC METRICS")
	fmt.Fprintf(w, "  Volume ratio (B/A): %14.4f  (1.0 = same size)\n", mustFloat(m, metrics.VolumeRatio))

	if v, ok := m.Float(metrics.SurfaceRatio); ok {
		fmt.Fprintf(w, "  Surface ratio:      %14.4f\n", v)
	}
	if v, ok := m.Float(metrics.CenterOffset); ok {
		fmt.Fprintf(w, "  Center offset:      %14.4f units\n", v)
	}
	if v, ok := m.Float(metrics.BBoxIoU); ok {
		fmt.Fprintf(w, "  BBox IoU:           %14.4f\n", v)
		fmt.Fprintf(w, "  Size ratio X:       %14.4f\n", mustFloat(m, metrics.SizeRatioX))
		fmt.Fprintf(w, "  Size ratio Y:       %14.4f\n", mustFloat(m, metrics.SizeRatioY))
		fmt.Fprintf(w, "  Size ratio Z:       %14.4f\n", mustFloat(m, metrics.SizeRatioZ))
	}
}

func writeTopology(w io.Writer, m *metrics.Result) {
	facesRef, ok := m.Get(metrics.FacesReference)
	if !ok {
		return
	}
	intOf := func(n metrics.Name) int {
		v, _ := m.Get(n)
		return v.Int()
	}

	section(w, "TOPOLOGY")
	fmt.Fprintf(w, "  Faces:    %6d (A)  vs  %6d (B)\n", facesRef.Int(), intOf(metrics.FacesGenerated))
	fmt.Fprintf(w, "  Edges:    %6d (A)  vs  %6d (B)\n", intOf(metrics.EdgesReference), intOf(metrics.EdgesGenerated))
	fmt.Fprintf(w, "  Vertices: %6d (A)  vs  %6d (B)\n", intOf(metrics.VerticesReference), intOf(metrics.VerticesGenerated))
}

// writeInterpretation applies the fixed qualitative bands: IoU quality,
// precision/recall imbalance, size deviation, positional offset.
func writeInterpretation(w io.Writer, m *metrics.Result) {
	iou := mustFloat(m, metrics.IoU)
	precision := mustFloat(m, metrics.Precision)
	recall := mustFloat(m, metrics.Recall)
	volumeRatio := mustFloat(m, metrics.VolumeRatio)

	section(w, "INTERPRETATION")

	switch {
	case iou > 0.95:
		fmt.Fprintln(w, "  [ok] Excellent match (IoU > 95%)")
	case iou > 0.8:
		fmt.Fprintln(w, "  [~]  Good match (IoU > 80%)")
	case iou > 0.5:
		fmt.Fprintln(w, "  [!]  Partial match (IoU > 50%)")
	default:
		fmt.Fprintln(w, "  [x]  Poor match (IoU < 50%)")
	}

	// Both conditions cannot hold at once, so the flags are mutually
	// exclusive by construction.
	if precision < recall-0.05 {
		fmt.Fprintf(w, "  -> Over-generating: %.1f%% of B is extra geometry\n", 100*(1-precision))
	} else if recall < precision-0.05 {
		fmt.Fprintf(w, "  -> Under-generating: %.1f%% of A is missing\n", 100*(1-recall))
	}

	if volumeRatio < 0.95 {
		fmt.Fprintf(w, "  -> Undersized by %.1f%%\n", 100*(1-volumeRatio))
	} else if volumeRatio > 1.05 {
		fmt.Fprintf(w, "  -> Oversized by %.1f%%\n", 100*(volumeRatio-1))
	}

	if offset, ok := m.Float(metrics.CenterOffset); ok && offset > 1.0 {
		fmt.Fprintf(w, "  -> Center offset: %.2f units from reference\n", offset)
	}
}

// Machine projects the result to primitive values only: floats, ints,
// and triples converted to []float64. Absent entries and omitted keys
// are simply not present; the serialized form carries no null
// placeholders. Unsupported kinds are skipped, never raised.
func Machine(m *metrics.Result) map[string]any {
	out := make(map[string]any, len(m.Names()))
	for _, name := range m.Names() {
		v, _ := m.Get(name)
		switch v.Kind() {
		case metrics.KindFloat:
			out[string(name)] = v.Float()
		case metrics.KindInt:
			out[string(name)] = v.Int()
		case metrics.KindTriple:
			t := v.Triple()
			out[string(name)] = []float64{t[0], t[1], t[2]}
		}
	}
	return out
}

// WriteJSON serializes the machine projection as JSON, indented when
// requested.
func WriteJSON(w io.Writer, m *metrics.Result, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(Machine(m))
}
