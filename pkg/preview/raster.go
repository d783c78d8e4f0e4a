package preview

import (
	"image"
	"image/color"
	"math"
	"slices"
)

// vertex is a projected corner: screen x, y and view depth
type vertex struct {
	x, y, z float64
}

// fillTriangle scan-converts a triangle into img, keeping a pixel only
// when it is nearer than the depth already stored for it
func fillTriangle(img *image.RGBA, zbuffer []float64, tri [3]vertex, col color.RGBA) {
	slices.SortFunc(tri[:], func(a, b vertex) int {
		switch {
		case a.y < b.y:
			return -1
		case a.y > b.y:
			return 1
		default:
			return 0
		}
	})
	top, mid, bottom := tri[0], tri[1], tri[2]
	if bottom.y == top.y {
		return
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	yStart := int(math.Max(0, math.Ceil(top.y)))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), math.Floor(bottom.y)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// the long edge spans every scanline; the short one switches at mid
		xa, za := edgeAt(top, bottom, fy)
		var xb, zb float64
		if fy < mid.y {
			xb, zb = edgeAt(top, mid, fy)
		} else {
			xb, zb = edgeAt(mid, bottom, fy)
		}
		if xa > xb {
			xa, xb = xb, xa
			za, zb = zb, za
		}

		xStart := int(math.Max(0, math.Ceil(xa)))
		xEnd := int(math.Min(float64(bounds.Max.X-1), math.Floor(xb)))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xb != xa {
				t = (float64(x) - xa) / (xb - xa)
			}
			z := za + t*(zb-za)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// edgeAt interpolates x and depth along the edge a-b at height y
func edgeAt(a, b vertex, y float64) (float64, float64) {
	if b.y == a.y {
		return a.x, a.z
	}
	t := (y - a.y) / (b.y - a.y)
	return a.x + t*(b.x-a.x), a.z + t*(b.z-a.z)
}

// drawLine draws a line with Bresenham's algorithm, clipped to img
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if image.Pt(x1, y1).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
