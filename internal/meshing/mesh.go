package meshing

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz + color.rgb)
const VertexStride = 9

// Mesh is an indexed triangle list with interleaved vertex attributes, ready
// for upload by a rendering collaborator.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns the position, normal and color of vertex i as three 3-float
// views into the interleaved buffer.
func (m *Mesh) Vertex(i int) (pos, normal, color [3]float32) {
	base := i * VertexStride
	copy(pos[:], m.Vertices[base:base+3])
	copy(normal[:], m.Vertices[base+3:base+6])
	copy(color[:], m.Vertices[base+6:base+9])
	return
}
