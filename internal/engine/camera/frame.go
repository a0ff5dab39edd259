package camera

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/modelview/internal/engine/model"
)

const (
	// DefaultFOV is the vertical field of view in radians (45 degrees).
	DefaultFOV = gomath.Pi / 4
	// DefaultMargin multiplies the fitting distance to leave room around the model.
	DefaultMargin = 2.5
	// DefaultDistance is used when the model has no extent to fit.
	DefaultDistance = 5.0
)

// Up is the fixed camera up vector.
var Up = r3.Vec{Y: 1}

// viewDirection points from the target toward the camera.
var viewDirection = r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})

// Pose is a camera placement looking at a target.
type Pose struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
}

// Distance returns the distance from the camera to its target.
func (p Pose) Distance() float64 {
	return r3.Norm(r3.Sub(p.Position, p.Target))
}

// Framer computes camera poses that fit a bounding box in view.
type Framer struct {
	FOV    float64 // vertical field of view, radians
	Margin float64
}

// NewFramer returns a Framer with the default field of view and margin.
func NewFramer() Framer {
	return Framer{FOV: DefaultFOV, Margin: DefaultMargin}
}

// Frame returns a pose looking at the center of b from the (1,1,1)
// diagonal, far enough that the largest extent fits the field of view.
func (f Framer) Frame(b model.Bounds) Pose {
	return Frame(b, f.FOV, f.Margin)
}

// Frame is the free-function form of Framer.Frame. An fov outside (0, pi)
// or a non-positive margin falls back to the defaults.
func Frame(b model.Bounds, fov, margin float64) Pose {
	if !(fov > 0 && fov < gomath.Pi) {
		fov = DefaultFOV
	}
	if !(margin > 0) || gomath.IsInf(margin, 0) {
		margin = DefaultMargin
	}

	center := b.Center()
	distance := DefaultDistance
	if maxDim := b.MaxDim(); maxDim > 0 {
		distance = (maxDim / 2) / gomath.Tan(fov/2) * margin
	}

	return Pose{
		Position: r3.Add(center, r3.Scale(distance, viewDirection)),
		Target:   center,
		Up:       Up,
	}
}
