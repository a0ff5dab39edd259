// Package formats provides parsers for triangle mesh file formats (STL and OBJ).
package formats

import (
	"errors"
	"fmt"
	"strings"
)

// Mesh parsing errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrMalformedGeometry = errors.New("malformed geometry")
)

// Format identifies a mesh file format.
type Format string

// Supported formats.
const (
	STL Format = "stl"
	OBJ Format = "obj"
)

// String returns the lower-case format name.
func (f Format) String() string {
	return string(f)
}

// ParseFormat resolves a format name such as "STL", "obj" or ".Obj".
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch Format(name) {
	case STL:
		return STL, nil
	case OBJ:
		return OBJ, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Parse decodes mesh data of the given format.
func Parse(data []byte, f Format) (*Geometry, error) {
	var (
		g   *Geometry
		err error
	)
	switch f {
	case STL:
		g, err = ParseSTL(data)
	case OBJ:
		g, err = ParseOBJ(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseNamed resolves the format name and then parses data.
func ParseNamed(data []byte, format string) (*Geometry, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return Parse(data, f)
}

// malformed wraps a message as ErrMalformedGeometry.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedGeometry, fmt.Sprintf(format, args...))
}
