package formats

import (
	"math"
)

// Geometry is a parsed triangle mesh.
//
// Normals is either empty or parallel to Positions. When Indices is set,
// every three entries form a triangle; otherwise every three consecutive
// positions do.
type Geometry struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// Indexed reports whether triangles are described by Indices.
func (g *Geometry) Indexed() bool {
	return len(g.Indices) > 0
}

// VertexCount returns the number of vertex positions.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	if g.Indexed() {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) [3]uint32 {
	if g.Indexed() {
		return [3]uint32{g.Indices[3*i], g.Indices[3*i+1], g.Indices[3*i+2]}
	}
	base := uint32(3 * i)
	return [3]uint32{base, base + 1, base + 2}
}

// Validate checks the structural invariants of the mesh.
func (g *Geometry) Validate() error {
	if len(g.Normals) != 0 && len(g.Normals) != len(g.Positions) {
		return malformed("%d normals for %d vertices", len(g.Normals), len(g.Positions))
	}
	if g.Indexed() {
		if len(g.Indices)%3 != 0 {
			return malformed("index count %d is not a multiple of 3", len(g.Indices))
		}
		for i, idx := range g.Indices {
			if int(idx) >= len(g.Positions) {
				return malformed("index %d at %d out of range (%d vertices)", idx, i, len(g.Positions))
			}
		}
	} else if len(g.Positions)%3 != 0 {
		return malformed("vertex count %d is not a multiple of 3", len(g.Positions))
	}
	if g.TriangleCount() == 0 {
		return malformed("no triangles")
	}
	for i, p := range g.Positions {
		if !finite3(p) {
			return malformed("non-finite coordinate at vertex %d", i)
		}
	}
	return nil
}

// Clone returns a deep copy of g.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{Name: g.Name}
	if g.Positions != nil {
		c.Positions = append([][3]float32(nil), g.Positions...)
	}
	if g.Normals != nil {
		c.Normals = append([][3]float32(nil), g.Normals...)
	}
	if g.Indices != nil {
		c.Indices = append([]uint32(nil), g.Indices...)
	}
	return c
}

// ComputeVertexNormals replaces Normals with the normalized sum of the unit
// face normals adjacent to each vertex. Faces are accumulated in triangle
// order, so the result is stable for identical input.
func (g *Geometry) ComputeVertexNormals() {
	sums := make([][3]float64, len(g.Positions))
	for i := 0; i < g.TriangleCount(); i++ {
		tri := g.Triangle(i)
		n := faceNormal(g.Positions[tri[0]], g.Positions[tri[1]], g.Positions[tri[2]])
		for _, v := range tri {
			sums[v][0] += float64(n[0])
			sums[v][1] += float64(n[1])
			sums[v][2] += float64(n[2])
		}
	}

	g.Normals = make([][3]float32, len(g.Positions))
	for i, s := range sums {
		l := math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
		if l == 0 {
			continue
		}
		g.Normals[i] = [3]float32{float32(s[0] / l), float32(s[1] / l), float32(s[2] / l)}
	}
}

// faceNormal returns the unit normal of the triangle wound v0, v1, v2, or
// the zero vector when the triangle is degenerate.
func faceNormal(v0, v1, v2 [3]float32) [3]float32 {
	e1 := [3]float64{
		float64(v1[0]) - float64(v0[0]),
		float64(v1[1]) - float64(v0[1]),
		float64(v1[2]) - float64(v0[2]),
	}
	e2 := [3]float64{
		float64(v2[0]) - float64(v0[0]),
		float64(v2[1]) - float64(v0[1]),
		float64(v2[2]) - float64(v0[2]),
	}
	c := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := math.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return [3]float32{}
	}
	return [3]float32{float32(c[0] / l), float32(c[1] / l), float32(c[2] / l)}
}

func finite3(v [3]float32) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func isZero3(v [3]float32) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}
