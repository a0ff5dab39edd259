package model

// BuildMesh interleaves the normalized geometry into GPU vertex and index
// buffers. Positions stay in model space; the renderer applies
// Transform.Matrix() as the model matrix. Unindexed geometry gets a
// sequential index buffer.
func BuildMesh(n *Normalized) *Mesh {
	g := n.Geometry

	vertices := make([]Vertex, len(g.Positions))
	for i, p := range g.Positions {
		vertices[i].Position = p
		if i < len(g.Normals) {
			vertices[i].Normal = g.Normals[i]
		}
	}

	indices := g.Indices
	if !g.Indexed() {
		indices = make([]uint32, len(g.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	} else {
		indices = append([]uint32(nil), indices...)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   n.Bounds,
	}
}
