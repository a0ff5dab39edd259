// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/modelview/internal/engine/model"

// BoundsVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BoundsVertexCount = 24

// DefaultBoundsPadding keeps the overlay from z-fighting with faces that lie
// on the box.
const DefaultBoundsPadding = 0.01

// BoundsLines creates line vertices for the wireframe of b, grown by padding
// on all sides. Format: [x, y, z] per vertex.
func BoundsLines(b model.Bounds, padding float32) []float32 {
	return boxLines(
		float32(b.Min.X)-padding, float32(b.Min.Y)-padding, float32(b.Min.Z)-padding,
		float32(b.Max.X)+padding, float32(b.Max.Y)+padding, float32(b.Max.Z)+padding,
	)
}

func boxLines(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
