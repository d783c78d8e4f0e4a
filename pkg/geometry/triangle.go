package geometry

// Triangle represents a triangular facet in 3D space. Winding order is
// A -> B -> C; the normal follows the right-hand rule.
type Triangle struct {
	A, B, C Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(a, b, c Vector3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the unnormalized face normal (B-A) x (C-A)
func (t Triangle) Normal() Vector3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// UnitNormal returns the normalized face normal, or the zero vector for a
// degenerate triangle
func (t Triangle) UnitNormal() Vector3 {
	return t.Normal().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.Normal().Length() / 2.0
}

// SignedVolume returns the signed volume of the tetrahedron spanned by the
// origin and the triangle. Summed over a closed, outward-oriented mesh it
// yields the enclosed volume.
func (t Triangle) SignedVolume() float64 {
	return t.A.Dot(t.B.Cross(t.C)) / 6.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.A.Distance(t.B),
		t.B.Distance(t.C),
		t.C.Distance(t.A),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.A.X + t.B.X + t.C.X) / 3.0,
		Y: (t.A.Y + t.B.Y + t.C.Y) / 3.0,
		Z: (t.A.Z + t.B.Z + t.C.Z) / 3.0,
	}
}

// IsDegenerate reports whether the three corners are exactly collinear
func (t Triangle) IsDegenerate() bool {
	return Collinear(t.A, t.B, t.C)
}
