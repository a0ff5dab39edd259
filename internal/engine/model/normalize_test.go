package model

import (
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/modelview/pkg/formats"
)

const epsilon = 1e-6

func mustNormalize(t *testing.T, g *formats.Geometry) *Normalized {
	t.Helper()
	n, err := Normalize(g)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return n
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func box(min, max [3]float32) *formats.Geometry {
	return &formats.Geometry{
		Positions: [][3]float32{
			min,
			{max[0], min[1], min[2]},
			max,
		},
	}
}

func TestNormalize_CentersAndScales(t *testing.T) {
	tests := []struct {
		name      string
		geom      *formats.Geometry
		wantScale float64
	}{
		{"unit at origin", box([3]float32{0, 0, 0}, [3]float32{1, 1, 1}), 2},
		{"offset box", box([3]float32{10, 20, 30}, [3]float32{14, 21, 31}), 0.5},
		{"large part", box([3]float32{-500, -50, 0}, [3]float32{500, 50, 10}), 0.002},
		{"negative octant", box([3]float32{-9, -8, -7}, [3]float32{-8, -7, -6}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.geom)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !near(n.Transform.Scale, tt.wantScale) {
				t.Errorf("scale = %v, want %v", n.Transform.Scale, tt.wantScale)
			}

			nb := n.NormalizedBounds()
			c := nb.Center()
			if !near(c.X, 0) || !near(c.Y, 0) || !near(c.Z, 0) {
				t.Errorf("normalized center = %v, want origin", c)
			}
			if !near(nb.MaxDim(), CanonicalSize) {
				t.Errorf("normalized max dimension = %v, want %v", nb.MaxDim(), CanonicalSize)
			}
		})
	}
}

func TestNormalize_ApplyMatchesBounds(t *testing.T) {
	g := box([3]float32{2, 4, 6}, [3]float32{3, 8, 7})
	n := mustNormalize(t, g)

	nb := n.NormalizedBounds()
	for i, p := range g.Positions {
		v := n.Transform.Apply(p)
		if v.X < nb.Min.X-epsilon || v.X > nb.Max.X+epsilon ||
			v.Y < nb.Min.Y-epsilon || v.Y > nb.Max.Y+epsilon ||
			v.Z < nb.Min.Z-epsilon || v.Z > nb.Max.Z+epsilon {
			t.Errorf("vertex %d maps to %v outside %v", i, v, nb)
		}
	}

	// The GPU matrix must agree with Apply.
	m := n.Transform.Matrix()
	for i, p := range g.Positions {
		got := m.TransformPoint(p)
		want := n.Transform.Apply(p)
		if math.Abs(float64(got[0])-want.X) > 1e-5 ||
			math.Abs(float64(got[1])-want.Y) > 1e-5 ||
			math.Abs(float64(got[2])-want.Z) > 1e-5 {
			t.Errorf("vertex %d: matrix gives %v, Apply gives %v", i, got, want)
		}
	}
}

func TestNormalize_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		geom *formats.Geometry
	}{
		{"single point", &formats.Geometry{Positions: [][3]float32{{3, 3, 3}, {3, 3, 3}, {3, 3, 3}}}},
		{"far point", &formats.Geometry{Positions: [][3]float32{{-1e6, 5, 5}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.geom)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if n.Transform.Scale != 1 {
				t.Errorf("scale = %v, want 1", n.Transform.Scale)
			}
			c := n.NormalizedBounds().Center()
			if !near(c.X, 0) || !near(c.Y, 0) || !near(c.Z, 0) {
				t.Errorf("normalized center = %v, want origin", c)
			}
		})
	}
}

func TestNormalize_FlatMesh(t *testing.T) {
	// Zero thickness along Z is fine; the largest extent still drives scale.
	g := box([3]float32{0, 0, 5}, [3]float32{4, 2, 5})
	n := mustNormalize(t, g)
	if !near(n.Transform.Scale, 0.5) {
		t.Errorf("scale = %v, want 0.5", n.Transform.Scale)
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, g := range []*formats.Geometry{nil, {}} {
		if _, err := Normalize(g); !errors.Is(err, ErrEmptyGeometry) {
			t.Errorf("Normalize(%v) error = %v, want ErrEmptyGeometry", g, err)
		}
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	g := box([3]float32{1, 2, 3}, [3]float32{4, 5, 6})
	g.Indices = []uint32{0, 1, 2}
	orig := g.Clone()

	n := mustNormalize(t, g)
	n.Geometry.Positions[0] = [3]float32{99, 99, 99}

	for i := range orig.Positions {
		if g.Positions[i] != orig.Positions[i] {
			t.Errorf("input vertex %d changed: %v -> %v", i, orig.Positions[i], g.Positions[i])
		}
	}
	if n.Bounds.Min.X != 1 {
		t.Errorf("source bounds min X = %v, want 1", n.Bounds.Min.X)
	}
}

func TestComputeBounds(t *testing.T) {
	if _, ok := ComputeBounds(nil); ok {
		t.Error("ComputeBounds(nil) should report no bounds")
	}

	b, ok := ComputeBounds([][3]float32{{1, -2, 3}, {-1, 2, 0}, {0, 0, 7}})
	if !ok {
		t.Fatal("ComputeBounds reported no bounds")
	}
	if b.Min.X != -1 || b.Min.Y != -2 || b.Min.Z != 0 {
		t.Errorf("min = %v, want (-1,-2,0)", b.Min)
	}
	if b.Max.X != 1 || b.Max.Y != 2 || b.Max.Z != 7 {
		t.Errorf("max = %v, want (1,2,7)", b.Max)
	}
	if b.MaxDim() != 7 {
		t.Errorf("max dimension = %v, want 7", b.MaxDim())
	}
}
