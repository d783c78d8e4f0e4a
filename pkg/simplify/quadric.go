package simplify

import (
	"gonum.org/v1/gonum/mat"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// quadric is a symmetric 4x4 error matrix stored as its upper triangle:
// a², ab, ac, ad, b², bc, bd, c², cd, d²
type quadric [10]float64

// planeQuadric returns the squared distance quadric of the plane through
// p with unit normal n, scaled by weight
func planeQuadric(n, p geometry.Vector3, weight float64) quadric {
	a, b, c := n.X, n.Y, n.Z
	d := -n.Dot(p)
	return quadric{
		weight * a * a, weight * a * b, weight * a * c, weight * a * d,
		weight * b * b, weight * b * c, weight * b * d,
		weight * c * c, weight * c * d,
		weight * d * d,
	}
}

func (q quadric) add(o quadric) quadric {
	for i := range q {
		q[i] += o[i]
	}
	return q
}

// eval returns vᵀQv for v = (x, y, z, 1)
func (q quadric) eval(v geometry.Vector3) float64 {
	x, y, z := v.X, v.Y, v.Z
	return q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
}

// minimizer solves ∇(vᵀQv) = 0. ok is false when the system is singular
// or too badly conditioned to trust.
func (q quadric) minimizer() (geometry.Vector3, bool) {
	a := mat.NewDense(3, 3, []float64{
		q[0], q[1], q[2],
		q[1], q[4], q[5],
		q[2], q[5], q[7],
	})
	b := mat.NewVecDense(3, []float64{-q[3], -q[6], -q[8]})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return geometry.Vector3{}, false
	}
	v := geometry.NewVector3(x.AtVec(0), x.AtVec(1), x.AtVec(2))
	return v, v.IsFinite()
}
