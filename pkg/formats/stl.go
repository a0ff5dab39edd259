// STL (stereolithography) parser for binary and ASCII triangle meshes.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	stlHeaderSize   = 80
	stlPreambleSize = stlHeaderSize + 4
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + attribute count
)

// ParseSTL parses binary or ASCII STL data. Binary layout is chosen only
// when the byte length matches the declared triangle count exactly.
func ParseSTL(data []byte) (*Geometry, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !hasPrefixFold(trimmed, "solid") {
		if len(data) < stlPreambleSize {
			return nil, malformed("STL data too short: %d bytes", len(data))
		}
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:stlPreambleSize])
		return nil, malformed("binary STL size mismatch: %d triangles need %d bytes, got %d",
			count, binarySTLSize(count), len(data))
	}
	return parseASCIISTL(data)
}

func binarySTLSize(count uint32) uint64 {
	return stlPreambleSize + uint64(count)*stlTriangleSize
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlPreambleSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:stlPreambleSize])
	return uint64(len(data)) == binarySTLSize(count)
}

func parseBinarySTL(data []byte) (*Geometry, error) {
	count := int(binary.LittleEndian.Uint32(data[stlHeaderSize:stlPreambleSize]))

	g := &Geometry{
		Name:      headerName(data[:stlHeaderSize]),
		Positions: make([][3]float32, 0, 3*count),
		Normals:   make([][3]float32, 0, 3*count),
	}

	offset := stlPreambleSize
	for i := 0; i < count; i++ {
		normal := readVec3(data[offset:])
		var verts [3][3]float32
		for v := range verts {
			verts[v] = readVec3(data[offset+12+12*v:])
			if !finite3(verts[v]) {
				return nil, malformed("triangle %d: non-finite vertex", i)
			}
		}
		offset += stlTriangleSize

		g.appendFacet(normal, verts)
	}
	return g, nil
}

func parseASCIISTL(data []byte) (*Geometry, error) {
	g := &Geometry{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	const (
		stateTop = iota
		stateSolid
		stateFacet
		stateLoop
		stateEndLoop
		stateDone
	)

	state := stateTop
	lineNum := 0
	var normal [3]float32
	var verts [3][3]float32
	nverts := 0

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		keyword := strings.ToLower(fields[0])

		switch {
		case state == stateTop && keyword == "solid":
			if len(fields) > 1 {
				g.Name = strings.Join(fields[1:], " ")
			}
			state = stateSolid

		case state == stateSolid && keyword == "facet":
			if len(fields) != 5 || strings.ToLower(fields[1]) != "normal" {
				return nil, malformed("line %d: expected 'facet normal nx ny nz'", lineNum)
			}
			n, err := parseVec3(fields[2:5])
			if err != nil {
				return nil, malformed("line %d: facet normal: %v", lineNum, err)
			}
			normal = n
			state = stateFacet

		case state == stateSolid && keyword == "endsolid":
			state = stateDone

		case state == stateFacet && keyword == "outer":
			if len(fields) != 2 || strings.ToLower(fields[1]) != "loop" {
				return nil, malformed("line %d: expected 'outer loop'", lineNum)
			}
			nverts = 0
			state = stateLoop

		case state == stateLoop && keyword == "vertex":
			if len(fields) != 4 {
				return nil, malformed("line %d: expected 'vertex x y z'", lineNum)
			}
			if nverts == 3 {
				return nil, malformed("line %d: facet has more than 3 vertices", lineNum)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, malformed("line %d: vertex: %v", lineNum, err)
			}
			if !finite3(v) {
				return nil, malformed("line %d: non-finite vertex", lineNum)
			}
			verts[nverts] = v
			nverts++

		case state == stateLoop && keyword == "endloop":
			if nverts != 3 {
				return nil, malformed("line %d: facet has %d vertices, want 3", lineNum, nverts)
			}
			state = stateEndLoop

		case state == stateEndLoop && keyword == "endfacet":
			g.appendFacet(normal, verts)
			state = stateSolid

		case state == stateDone && keyword == "solid":
			// Multi-body exports concatenate solids; facets accumulate.
			state = stateSolid

		case state == stateDone:
			return nil, malformed("line %d: unexpected %q after endsolid", lineNum, fields[0])

		default:
			return nil, malformed("line %d: unexpected %q", lineNum, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed("reading ASCII STL: %v", err)
	}
	if state != stateDone {
		return nil, malformed("ASCII STL ended before endsolid")
	}
	return g, nil
}

// appendFacet adds one unindexed triangle. The supplied normal is kept when
// usable; otherwise it is derived from the winding order.
func (g *Geometry) appendFacet(normal [3]float32, verts [3][3]float32) {
	if !finite3(normal) || isZero3(normal) {
		normal = faceNormal(verts[0], verts[1], verts[2])
	}
	for _, v := range verts {
		g.Positions = append(g.Positions, v)
		g.Normals = append(g.Normals, normal)
	}
}

// headerName extracts a printable name from the 80-byte binary header.
// Headers are free-form bytes, so anything that is not UTF-8 is read as
// ISO-8859-1.
func headerName(header []byte) string {
	if i := bytes.IndexByte(header, 0); i >= 0 {
		header = header[:i]
	}
	header = bytes.TrimSpace(header)
	if utf8.Valid(header) {
		return string(header)
	}
	name, err := charmap.ISO8859_1.NewDecoder().Bytes(header)
	if err != nil {
		return ""
	}
	return string(name)
}

func readVec3(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func parseVec3(fields []string) ([3]float32, error) {
	var v [3]float32
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && strings.EqualFold(string(b[:len(prefix)]), prefix)
}
