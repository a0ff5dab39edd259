// Package lighting provides the viewer's directional key light.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/modelview/pkg/math"
)

// Default key light placement, in degrees: front-left and above.
const (
	DefaultAzimuth   = 25
	DefaultElevation = 60
)

// SunDirection converts azimuth and elevation angles in degrees to the
// normalized direction pointing towards the light. Azimuth rotates around
// the Y axis starting at +Z; elevation is measured from the horizon.
func SunDirection(azimuth, elevation float64) math.Vec3 {
	az := azimuth * gomath.Pi / 180
	el := elevation * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// IncidentDirection is the direction light travels, from the light into the
// scene, as the model shader expects it.
func IncidentDirection(azimuth, elevation float64) math.Vec3 {
	d := SunDirection(azimuth, elevation)
	return math.Vec3{X: -d.X, Y: -d.Y, Z: -d.Z}
}
