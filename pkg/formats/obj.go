// Wavefront OBJ parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadReference = errors.New("invalid vertex reference")

// objCorner is one face corner: a resolved position index and, when
// present, a resolved normal index (-1 otherwise).
type objCorner struct {
	pos  int
	norm int
}

type objParser struct {
	positions [][3]float32
	normals   [][3]float32
	texCoords int

	geom    *Geometry
	corners map[objCorner]uint32
	// allNormals stays true while every emitted vertex had a vn reference.
	allNormals bool
}

// ParseOBJ parses Wavefront OBJ text. Faces with more than three corners
// are fan-triangulated around their first corner. The result is indexed;
// each distinct position/normal pair referenced by a face becomes one
// vertex, in order of first reference.
func ParseOBJ(data []byte) (*Geometry, error) {
	p := &objParser{
		geom:       &Geometry{},
		corners:    make(map[objCorner]uint32),
		allNormals: true,
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	var pending strings.Builder
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		// A trailing backslash continues the record on the next line.
		if trimmed := strings.TrimRight(line, " \t\r"); strings.HasSuffix(trimmed, "\\") {
			pending.WriteString(strings.TrimSuffix(trimmed, "\\"))
			pending.WriteByte(' ')
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
		}

		if err := p.parseLine(line, lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed("reading OBJ: %v", err)
	}
	if pending.Len() > 0 {
		if err := p.parseLine(pending.String(), lineNum); err != nil {
			return nil, err
		}
	}

	g := p.geom
	if len(g.Indices) == 0 {
		return nil, malformed("no faces")
	}
	if !p.allNormals {
		g.ComputeVertexNormals()
	}
	return g, nil
}

func (p *objParser) parseLine(line string, lineNum int) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		// x y z, optionally followed by w or by an r g b vertex color.
		if n := len(fields); n != 4 && n != 5 && n != 7 {
			return malformed("line %d: expected 'v x y z [w | r g b]'", lineNum)
		}
		v, err := parseVec3(fields[1:4])
		if err != nil {
			return malformed("line %d: vertex: %v", lineNum, err)
		}
		if !finite3(v) {
			return malformed("line %d: non-finite vertex", lineNum)
		}
		p.positions = append(p.positions, v)

	case "vn":
		if len(fields) != 4 {
			return malformed("line %d: expected 'vn x y z'", lineNum)
		}
		n, err := parseVec3(fields[1:4])
		if err != nil {
			return malformed("line %d: normal: %v", lineNum, err)
		}
		if !finite3(n) {
			return malformed("line %d: non-finite normal", lineNum)
		}
		p.normals = append(p.normals, n)

	case "vt":
		p.texCoords++

	case "f":
		return p.parseFace(fields[1:], lineNum)

	case "o":
		if len(fields) > 1 && p.geom.Name == "" {
			p.geom.Name = strings.Join(fields[1:], " ")
		}
	}
	// g, s, usemtl, mtllib, l, p and vendor extensions carry nothing
	// needed for geometry.
	return nil
}

func (p *objParser) parseFace(refs []string, lineNum int) error {
	if len(refs) < 3 {
		return malformed("line %d: face needs at least 3 vertices, got %d", lineNum, len(refs))
	}

	verts := make([]uint32, len(refs))
	for i, ref := range refs {
		c, err := p.resolve(ref)
		if err != nil {
			return malformed("line %d: face vertex %q: %v", lineNum, ref, err)
		}
		verts[i] = p.vertex(c)
	}

	for i := 1; i < len(verts)-1; i++ {
		p.geom.Indices = append(p.geom.Indices, verts[0], verts[i], verts[i+1])
	}
	return nil
}

// resolve parses a v, v/vt, v//vn or v/vt/vn reference.
func (p *objParser) resolve(ref string) (objCorner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objCorner{}, errBadReference
	}

	pos, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return objCorner{}, err
	}

	// Texture coordinates are not kept, but a dangling reference still
	// makes the face invalid.
	if len(parts) >= 2 && parts[1] != "" {
		if _, err := resolveIndex(parts[1], p.texCoords); err != nil {
			return objCorner{}, err
		}
	}

	c := objCorner{pos: pos, norm: -1}
	if len(parts) == 3 && parts[2] != "" {
		c.norm, err = resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return objCorner{}, err
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index into a
// 0-based index into a list of n records.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadReference
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, fmt.Errorf("index %d out of range (%d defined)", i, n)
	}
}

// vertex returns the output vertex for a corner, emitting it on first use.
func (p *objParser) vertex(c objCorner) uint32 {
	if idx, ok := p.corners[c]; ok {
		return idx
	}
	idx := uint32(len(p.geom.Positions))
	p.corners[c] = idx
	p.geom.Positions = append(p.geom.Positions, p.positions[c.pos])
	if c.norm >= 0 {
		p.geom.Normals = append(p.geom.Normals, p.normals[c.norm])
	} else {
		p.allNormals = false
		p.geom.Normals = append(p.geom.Normals, [3]float32{})
	}
	return idx
}
