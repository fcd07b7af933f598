package sdfx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// binarySTLHeaderSize is the fixed prefix of a binary STL file: an
// 80-byte comment header followed by a uint32 triangle count.
const binarySTLHeaderSize = 84

// binarySTLRecordSize is the size of one binary triangle record:
// normal (12 bytes), three vertices (36 bytes), attribute count (2 bytes).
const binarySTLRecordSize = 50

// readSTL reads an STL file, binary or ASCII, into a triangle mesh.
// The variant is detected from the declared triangle count rather than
// the "solid" prefix, which some binary exporters also emit.
func readSTL(path string) (*kernel.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= binarySTLHeaderSize {
		count := binary.LittleEndian.Uint32(data[80:84])
		if binarySTLHeaderSize+int64(count)*binarySTLRecordSize == int64(len(data)) {
			return parseBinarySTL(data, int(count))
		}
	}
	return parseASCIISTL(data)
}

// parseBinarySTL decodes count triangle records following the header.
func parseBinarySTL(data []byte, count int) (*kernel.Mesh, error) {
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, count*9),
		Normals:  make([]float32, 0, count*9),
		Indices:  make([]uint32, 0, count*3),
	}
	for t := 0; t < count; t++ {
		rec := data[binarySTLHeaderSize+t*binarySTLRecordSize:]
		var tri [3][3]float32
		for j := 0; j < 3; j++ {
			for a := 0; a < 3; a++ {
				// Skip the 12-byte stored normal; it is recomputed below.
				bits := binary.LittleEndian.Uint32(rec[12+j*12+a*4:])
				tri[j][a] = math.Float32frombits(bits)
			}
		}
		appendTriangle(m, tri)
	}
	return m, nil
}

// parseASCIISTL decodes the "solid ... facet ... vertex x y z" text
// layout. Only vertex lines carry geometry; everything else is framing.
func parseASCIISTL(data []byte) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	var tri [3][3]float32
	nvert := 0

	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed STL: bad vertex on line %d", line)
		}
		for a := 0; a < 3; a++ {
			v, err := strconv.ParseFloat(fields[a+1], 32)
			if err != nil {
				return nil, fmt.Errorf("malformed STL: bad coordinate on line %d: %w", line, err)
			}
			tri[nvert][a] = float32(v)
		}
		nvert++
		if nvert == 3 {
			appendTriangle(m, tri)
			nvert = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if nvert != 0 {
		return nil, fmt.Errorf("malformed STL: truncated facet with %d vertices", nvert)
	}
	return m, nil
}

// appendTriangle adds one triangle to the mesh with a recomputed face
// normal replicated per vertex.
func appendTriangle(m *kernel.Mesh, tri [3][3]float32) {
	n := faceNormal(tri)
	base := uint32(m.VertexCount())
	for j := 0; j < 3; j++ {
		m.Vertices = append(m.Vertices, tri[j][0], tri[j][1], tri[j][2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

// faceNormal returns the unit normal of a triangle, or the zero vector
// for a degenerate triangle.
func faceNormal(tri [3][3]float32) [3]float32 {
	var e1, e2 [3]float64
	for a := 0; a < 3; a++ {
		e1[a] = float64(tri[1][a] - tri[0][a])
		e2[a] = float64(tri[2][a] - tri[0][a])
	}
	n := cross3(e1, e2)
	length := math.Sqrt(dot3(n, n))
	if length < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{
		float32(n[0] / length),
		float32(n[1] / length),
		float32(n[2] / length),
	}
}

// writeSTL writes a mesh as an STL file, binary or ASCII.
func writeSTL(path string, m *kernel.Mesh, binaryVariant bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if binaryVariant {
		err = writeBinarySTL(w, m)
	} else {
		err = writeASCIISTL(w, m)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

func writeBinarySTL(w *bufio.Writer, m *kernel.Mesh) error {
	var header [80]byte
	copy(header[:], "soliddiff")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := meshTriangle(m, t)
		n := faceNormal(tri)
		record := [12]float32{
			n[0], n[1], n[2],
			tri[0][0], tri[0][1], tri[0][2],
			tri[1][0], tri[1][1], tri[1][2],
			tri[2][0], tri[2][1], tri[2][2],
		}
		if err := binary.Write(w, binary.LittleEndian, record); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}

func writeASCIISTL(w *bufio.Writer, m *kernel.Mesh) error {
	if _, err := fmt.Fprintln(w, "solid soliddiff"); err != nil {
		return err
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := meshTriangle(m, t)
		n := faceNormal(tri)
		fmt.Fprintf(w, "  facet normal %g %g %g\n", n[0], n[1], n[2])
		fmt.Fprintln(w, "    outer loop")
		for j := 0; j < 3; j++ {
			fmt.Fprintf(w, "      vertex %g %g %g\n", tri[j][0], tri[j][1], tri[j][2])
		}
		fmt.Fprintln(w, "    endloop")
		fmt.Fprintln(w, "  endfacet")
	}
	_, err := fmt.Fprintln(w, "endsolid soliddiff")
	return err
}

// meshTriangle returns the t-th triangle of the mesh as vertex triples.
func meshTriangle(m *kernel.Mesh, t int) [3][3]float32 {
	var tri [3][3]float32
	for j := 0; j < 3; j++ {
		i := m.Indices[t*3+j]
		tri[j] = [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
	}
	return tri
}
