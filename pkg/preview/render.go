// Package preview renders a triangle mesh to an image without a display,
// using a software z-buffer.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/philipparndt/alphashape/pkg/mesh"
)

var (
	ErrEmptyMesh = errors.New("preview: mesh has no faces")
	ErrImageSize = errors.New("preview: width and height must be positive")
)

// Options controls the rendered view
type Options struct {
	Width, Height int
	// Yaw and Pitch orbit the default front view, in degrees
	Yaw, Pitch float64
	Wireframe  bool
	Background color.RGBA
	Surface    color.RGBA
	Edges      color.RGBA
}

// DefaultOptions returns a 800x600 three-quarter view
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Yaw:        30,
		Pitch:      20,
		Background: color.RGBA{R: 30, G: 30, B: 36, A: 255},
		Surface:    color.RGBA{R: 120, G: 170, B: 220, A: 255},
		Edges:      color.RGBA{R: 20, G: 20, B: 20, A: 255},
	}
}

// Render draws the faces of m with flat, two-sided diffuse shading lit
// from the camera
func Render(m *mesh.Mesh, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageSize, opts.Width, opts.Height)
	}
	if len(m.Faces) == 0 {
		return nil, ErrEmptyMesh
	}

	cam := NewCamera(m.BoundingBox())
	cam.Orbit(opts.Pitch*math.Pi/180, opts.Yaw*math.Pi/180)
	light := cam.ViewDirection()

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = opts.Background.R, opts.Background.G, opts.Background.B, opts.Background.A
	}
	zbuffer := make([]float64, opts.Width*opts.Height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	w, h := float64(opts.Width), float64(opts.Height)
	projected := make([]vertex, len(m.Points))
	for i, p := range m.Points {
		x, y, z := cam.Project(p, w, h)
		projected[i] = vertex{x, y, z}
	}

	for f, face := range m.Faces {
		normal := m.Triangle(f).UnitNormal()
		intensity := 0.25 + 0.75*math.Abs(normal.Dot(light))
		tri := [3]vertex{projected[face[0]], projected[face[1]], projected[face[2]]}
		fillTriangle(img, zbuffer, tri, shade(opts.Surface, intensity))
	}

	if opts.Wireframe {
		for _, e := range m.Edges() {
			a, b := projected[e[0]], projected[e[1]]
			drawLine(img, int(math.Round(a.x)), int(math.Round(a.y)), int(math.Round(b.x)), int(math.Round(b.y)), opts.Edges)
		}
	}
	return img, nil
}

func shade(c color.RGBA, intensity float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*intensity))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// WritePNG renders m and writes the image to path
func WritePNG(path string, m *mesh.Mesh, opts Options) error {
	img, err := Render(m, opts)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
