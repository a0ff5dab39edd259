package lighting

import (
	"testing"

	"github.com/Faultbox/modelview/pkg/math"
)

func near(a, b math.Vec3) bool {
	d := a.Sub(b)
	return d.Length() < 1e-6
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name   string
		az, el float64
		want   math.Vec3
	}{
		{"front horizon", 0, 0, math.Vec3{Z: 1}},
		{"right horizon", 90, 0, math.Vec3{X: 1}},
		{"zenith", 0, 90, math.Vec3{Y: 1}},
		{"behind", 180, 0, math.Vec3{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.az, tt.el)
			if !near(got, tt.want) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.az, tt.el, got, tt.want)
			}
		})
	}
}

func TestIncidentDirection(t *testing.T) {
	d := IncidentDirection(DefaultAzimuth, DefaultElevation)
	if l := d.Length(); l < 0.999999 || l > 1.000001 {
		t.Errorf("length = %v, want 1", l)
	}
	if d.Y >= 0 {
		t.Errorf("light from above should travel downwards, got %v", d)
	}
}
