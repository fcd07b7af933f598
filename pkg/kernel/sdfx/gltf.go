package sdfx

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// writeGLB writes a mesh as a binary glTF (GLB) scene with a single
// node. An empty mesh cannot be represented as a glTF primitive, so it
// fails with kernel.ErrEmptySolid; callers treat that as a per-file
// export failure, not a fatal one.
func writeGLB(path string, m *kernel.Mesh) error {
	if m.IsEmpty() {
		return kernel.ErrEmptySolid
	}

	positions := make([][3]float32, m.VertexCount())
	normals := make([][3]float32, m.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		positions[i] = [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		normals[i] = [3]float32{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
	}
	indices := make([]uint32, len(m.Indices))
	copy(indices, m.Indices)

	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Mesh: gltf.Index(len(doc.Meshes) - 1),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	return gltf.SaveBinary(doc, path)
}
