package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// ErrMalformed is returned for input that is neither ASCII nor binary STL
var ErrMalformed = errors.New("stl: malformed file")

const (
	headerSize = 80
	facetSize  = 50
)

// Parse reads an STL file and returns a Model.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	model, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return model, nil
}

// ParseBytes decodes an in-memory STL file. A file whose size matches the
// binary facet count is binary even if its header starts with "solid".
func ParseBytes(data []byte) (*Model, error) {
	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize:])
		if uint64(len(data)) == headerSize+4+uint64(count)*facetSize {
			return parseBinary(data)
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

// parseASCII parses an ASCII STL file
func parseASCII(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	model := NewModel("")

	var vertices []geometry.Vector3
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, line)
			}
			var xyz [3]float64
			for k := range xyz {
				v, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
				}
				xyz[k] = v
			}
			vertices = append(vertices, geometry.FromArray(xyz))

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrMalformed, line, len(vertices))
			}
			model.AddTriangle(vertices[0], vertices[1], vertices[2])
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

// parseBinary parses a binary STL file
func parseBinary(data []byte) (*Model, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the binary header", ErrMalformed, len(data))
	}
	model := NewModel(string(bytes.TrimRight(data[:headerSize], "\x00 ")))

	count := binary.LittleEndian.Uint32(data[headerSize:])
	body := data[headerSize+4:]
	if uint64(len(body)) < uint64(count)*facetSize {
		return nil, fmt.Errorf("%w: header declares %d triangles, file holds %d", ErrMalformed, count, len(body)/facetSize)
	}

	// Each facet: normal, three corners, attribute byte count. The stored
	// normal is ignored; winding defines orientation.
	for i := 0; i < int(count); i++ {
		facet := body[i*facetSize : (i+1)*facetSize]
		var corners [3]geometry.Vector3
		for k := range corners {
			corners[k] = vec(facet[12*(k+1):])
		}
		model.AddTriangle(corners[0], corners[1], corners[2])
	}

	return model, nil
}

func vec(b []byte) geometry.Vector3 {
	f := func(o int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[o:])))
	}
	return geometry.NewVector3(f(0), f(4), f(8))
}
