package model

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/modelview/pkg/formats"
)

// ErrEmptyGeometry is returned when a mesh has no vertices to normalize.
var ErrEmptyGeometry = errors.New("empty geometry")

// ComputeBounds returns the axis-aligned box enclosing positions.
// ok is false when positions is empty.
func ComputeBounds(positions [][3]float32) (b Bounds, ok bool) {
	if len(positions) == 0 {
		return Bounds{}, false
	}
	first := toVec(positions[0])
	b = Bounds{Min: first, Max: first}
	for _, p := range positions[1:] {
		updateBounds(&b, toVec(p))
	}
	return b, true
}

// Normalize centers g at the origin and scales it so its largest extent is
// CanonicalSize. A flat or point-like mesh keeps scale 1. The input is not
// modified.
func Normalize(g *formats.Geometry) (*Normalized, error) {
	if g == nil || len(g.Positions) == 0 {
		return nil, ErrEmptyGeometry
	}

	bounds, _ := ComputeBounds(g.Positions)

	scale := 1.0
	if maxDim := bounds.MaxDim(); maxDim > 0 {
		scale = CanonicalSize / maxDim
	}

	n := &Normalized{
		Geometry: g.Clone(),
		Bounds:   bounds,
		Transform: Transform{
			Translation: r3.Scale(-1, bounds.Center()),
			Scale:       scale,
		},
	}
	return n, nil
}

func toVec(p [3]float32) r3.Vec {
	return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

func updateBounds(b *Bounds, p r3.Vec) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}
