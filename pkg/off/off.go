// Package off reads and writes triangle meshes in the Object File Format:
//
//	OFF
//	<points> <faces> 0
//	x y z            (one line per point)
//	3 i j k          (one line per face)
package off

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// ErrMalformed is returned for input that is not a triangle OFF file
var ErrMalformed = errors.New("off: malformed file")

// Write encodes the mesh to w. Coordinates use the shortest decimal form
// that parses back to the same float64.
func Write(w io.Writer, points []geometry.Vector3, faces []mesh.Face) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "OFF\n%d %d 0\n", len(points), len(faces))

	buf := make([]byte, 0, 80)
	for _, p := range points {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, p.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, p.Y, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, p.Z, 'g', -1, 64)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for _, f := range faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("off: write: %w", err)
	}
	return nil
}

// WriteFile writes the mesh to a file, replacing it if it exists
func WriteFile(path string, points []geometry.Vector3, faces []mesh.Face) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(file, points, faces); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Read decodes a triangle OFF file. Comments starting with '#' and blank
// lines are skipped. Polygons with more than three corners are rejected.
func Read(r io.Reader) (*mesh.Mesh, error) {
	sc := &scanner{Scanner: bufio.NewScanner(r)}
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	header, err := sc.next()
	if err != nil {
		return nil, err
	}
	// The counts may share the header line
	counts := strings.Fields(strings.TrimPrefix(header, "OFF"))
	if !strings.HasPrefix(header, "OFF") {
		return nil, fmt.Errorf("%w: line %d: missing OFF header", ErrMalformed, sc.line)
	}
	if len(counts) == 0 {
		line, err := sc.next()
		if err != nil {
			return nil, err
		}
		counts = strings.Fields(line)
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: line %d: expected point and face counts", ErrMalformed, sc.line)
	}
	n, err1 := strconv.Atoi(counts[0])
	nf, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil || n < 0 || nf < 0 {
		return nil, fmt.Errorf("%w: line %d: bad counts %q", ErrMalformed, sc.line, counts)
	}

	m := &mesh.Mesh{
		Points: make([]geometry.Vector3, 0, n),
		Faces:  make([]mesh.Face, 0, nf),
	}
	for i := 0; i < n; i++ {
		line, err := sc.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 coordinates", ErrMalformed, sc.line)
		}
		var xyz [3]float64
		for k := range xyz {
			if xyz[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, sc.line, err)
			}
		}
		m.Points = append(m.Points, geometry.FromArray(xyz))
	}
	for i := 0; i < nf; i++ {
		line, err := sc.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != "3" {
			return nil, fmt.Errorf("%w: line %d: expected a triangle", ErrMalformed, sc.line)
		}
		var face mesh.Face
		for k := range face {
			v, err := strconv.Atoi(fields[k+1])
			if err != nil || v < 0 || v >= n {
				return nil, fmt.Errorf("%w: line %d: bad vertex index %q", ErrMalformed, sc.line, fields[k+1])
			}
			face[k] = v
		}
		m.Faces = append(m.Faces, face)
	}
	return m, nil
}

// ReadFile reads a triangle OFF file from disk
func ReadFile(path string) (*mesh.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

type scanner struct {
	*bufio.Scanner
	line int
}

// next returns the next line with content, stripped of comments
func (s *scanner) next() (string, error) {
	for s.Scan() {
		s.line++
		line := s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("off: read: %w", err)
	}
	return "", fmt.Errorf("%w: unexpected end of file after line %d", ErrMalformed, s.line)
}
