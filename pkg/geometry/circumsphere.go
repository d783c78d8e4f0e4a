package geometry

import "math"

// Sphere is a center and squared radius. Alpha values are squared radii.
type Sphere struct {
	Center  Vector3
	Radius2 float64
}

// TetraCircumsphere returns the sphere through the four corners of a
// tetrahedron. ok is false when the corners are coplanar.
//
// With u = b-a, v = c-a, w = d-a:
//
//	center = a + (|u|²(v×w) + |v|²(w×u) + |w|²(u×v)) / (2 u·(v×w))
func TetraCircumsphere(a, b, c, d Vector3) (Sphere, bool) {
	u := b.Sub(a)
	v := c.Sub(a)
	w := d.Sub(a)
	denom := 2 * u.Dot(v.Cross(w))
	if denom == 0 {
		return Sphere{Radius2: math.Inf(1)}, false
	}
	num := v.Cross(w).Mul(u.LengthSquared()).
		Add(w.Cross(u).Mul(v.LengthSquared())).
		Add(u.Cross(v).Mul(w.LengthSquared()))
	offset := num.Mul(1 / denom)
	return Sphere{Center: a.Add(offset), Radius2: offset.LengthSquared()}, true
}

// TetraCircumradius2 returns the squared circumradius of a tetrahedron, or
// +Inf for a flat one.
func TetraCircumradius2(a, b, c, d Vector3) float64 {
	s, _ := TetraCircumsphere(a, b, c, d)
	return s.Radius2
}

// TriangleCircumcenter returns the center of the circle through a, b and c.
// That circle's center is also the center of the smallest sphere through
// the three points. ok is false for collinear points.
func TriangleCircumcenter(a, b, c Vector3) (Vector3, bool) {
	u := b.Sub(a)
	v := c.Sub(a)
	w := u.Cross(v)
	w2 := w.LengthSquared()
	if w2 == 0 {
		return Vector3{}, false
	}
	num := v.Mul(u.LengthSquared()).Sub(u.Mul(v.LengthSquared())).Cross(w)
	return a.Add(num.Mul(1 / (2 * w2))), true
}

// TriangleCircumradius2 returns the squared circumradius of a triangle,
// |ab|²|bc|²|ca|² / (4|ab × ac|²), or +Inf when the triangle is degenerate.
func TriangleCircumradius2(a, b, c Vector3) float64 {
	u := b.Sub(a)
	v := c.Sub(a)
	w2 := u.Cross(v).LengthSquared()
	if w2 == 0 {
		return math.Inf(1)
	}
	return u.LengthSquared() * v.LengthSquared() * c.Sub(b).LengthSquared() / (4 * w2)
}
