// Package camera frames models and provides an orbit camera for the viewer.
package camera

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera sized for normalized models.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		MinDistance:     0.25,
		MaxDistance:     100.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.SetPose(Frame(unitBounds, DefaultFOV, DefaultMargin))
	return c
}

// unitBounds is the box of a normalized model.
var unitBounds = model.Bounds{
	Min: r3.Vec{X: -1, Y: -1, Z: -1},
	Max: r3.Vec{X: 1, Y: 1, Z: 1},
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// AutoRotate advances the yaw by speed (radians per second) over dt seconds.
func (c *OrbitCamera) AutoRotate(dt, speed float32) {
	c.RotationY += dt * speed
	if c.RotationY > 2*gomath.Pi {
		c.RotationY -= 2 * gomath.Pi
	}
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// SetPose places the camera at p, converting it to orbit coordinates around
// p.Target. The distance limits are widened if the pose falls outside them.
func (c *OrbitCamera) SetPose(p Pose) {
	c.SetCenter(float32(p.Target.X), float32(p.Target.Y), float32(p.Target.Z))

	offset := r3.Sub(p.Position, p.Target)
	d := r3.Norm(offset)
	if d == 0 {
		c.Distance = float32(DefaultDistance)
		c.RotationX, c.RotationY = 0, 0
		return
	}

	c.Distance = float32(d)
	c.RotationX = float32(gomath.Asin(offset.Y / d))
	c.RotationY = float32(gomath.Atan2(offset.X, offset.Z))

	c.MinDistance = min(c.MinDistance, c.Distance)
	c.MaxDistance = max(c.MaxDistance, c.Distance)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
