// Package model normalizes parsed meshes into a canonical frame and builds
// GPU-ready vertex data from them.
package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/modelview/pkg/formats"
	"github.com/Faultbox/modelview/pkg/math"
)

// CanonicalSize is the largest extent of a normalized model.
const CanonicalSize = 2.0

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
}

// Center returns the midpoint of the box.
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// MaxDim returns the largest extent of the box.
func (b Bounds) MaxDim() float64 {
	s := b.Size()
	return max(s.X, s.Y, s.Z)
}

// Transform is a translation followed by a uniform scale.
type Transform struct {
	Translation r3.Vec
	Scale       float64
}

// Apply maps a model-space position into the normalized frame.
func (t Transform) Apply(p [3]float32) r3.Vec {
	v := r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	return r3.Scale(t.Scale, r3.Add(v, t.Translation))
}

// ApplyBounds maps a box through the transform. Scale is positive, so the
// corners keep their order.
func (t Transform) ApplyBounds(b Bounds) Bounds {
	return Bounds{
		Min: r3.Scale(t.Scale, r3.Add(b.Min, t.Translation)),
		Max: r3.Scale(t.Scale, r3.Add(b.Max, t.Translation)),
	}
}

// Matrix returns the transform as a column-major model matrix.
func (t Transform) Matrix() math.Mat4 {
	s := float32(t.Scale)
	return math.Scale(s, s, s).Mul(math.Translate(
		float32(t.Translation.X),
		float32(t.Translation.Y),
		float32(t.Translation.Z),
	))
}

// Normalized is a parsed mesh together with the transform that centers it
// at the origin and fits it into CanonicalSize. Values are never modified
// after Normalize returns them; Geometry is a private copy.
type Normalized struct {
	Geometry  *formats.Geometry
	Bounds    Bounds
	Transform Transform
}

// NormalizedBounds returns the bounding box after the transform.
func (n *Normalized) NormalizedBounds() Bounds {
	return n.Transform.ApplyBounds(n.Bounds)
}

// Vertex is an interleaved vertex ready for GPU upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds the vertex and index buffers of a model.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}
