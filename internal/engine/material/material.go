// Package material maps viewer display modes to render material settings.
package material

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by ParseColor for malformed hex colors.
var ErrInvalidColor = errors.New("invalid color")

// ViewMode selects how the model surface is drawn.
type ViewMode int

const (
	Normal ViewMode = iota
	Wireframe
	XRay
)

// XRayOpacity is the surface opacity in XRay mode.
const XRayOpacity = 0.5

var modeNames = map[ViewMode]string{
	Normal:    "normal",
	Wireframe: "wireframe",
	XRay:      "xray",
}

func (m ViewMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// ParseViewMode parses a mode name case-insensitively. "x-ray" is accepted
// as an alias for xray.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "solid":
		return Normal, nil
	case "wireframe", "wire":
		return Wireframe, nil
	case "xray", "x-ray":
		return XRay, nil
	}
	return Normal, fmt.Errorf("unknown view mode %q", s)
}

// Next cycles to the following mode.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % 3
}

// Color is a linear RGB color.
type Color struct {
	R, G, B float32
}

// DefaultColor is the neutral grey used when no object color is configured.
var DefaultColor = Color{R: 0.8, G: 0.8, B: 0.8}

// ParseColor parses "#rrggbb" (the leading # is optional).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// Array returns the color as an array for GL uniform upload.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func channel(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}

// Spec describes how the renderer should draw a surface.
type Spec struct {
	Wireframe   bool
	Opacity     float32
	DoubleSided bool
	Color       Color
}

// Transparent reports whether the surface needs blending.
func (s Spec) Transparent() bool {
	return s.Opacity < 1
}

// For returns the material for a view mode. Unknown modes fall back to
// Normal. The result depends only on its arguments.
func For(mode ViewMode, c Color) Spec {
	switch mode {
	case Wireframe:
		return Spec{Wireframe: true, Opacity: 1, Color: c}
	case XRay:
		return Spec{Opacity: XRayOpacity, DoubleSided: true, Color: c}
	default:
		return Spec{Opacity: 1, Color: c}
	}
}
