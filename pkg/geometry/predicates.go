package geometry

import (
	"math"
	"math/big"
)

// Error bounds for the floating-point filters, after Shewchuk's
// "Adaptive Precision Floating-Point Arithmetic and Fast Robust Geometric
// Predicates". When a filter cannot certify the sign, the determinant is
// re-evaluated exactly in rational arithmetic.
var (
	epsilon      = math.Ldexp(1, -53)
	o2dErrBoundA = (3.0 + 16.0*epsilon) * epsilon
	o3dErrBoundA = (7.0 + 56.0*epsilon) * epsilon
	ispErrBoundA = (16.0 + 224.0*epsilon) * epsilon
	dotErrBound  = 8.0 * epsilon
)

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Orient3D returns +1 when d lies on the side of the plane through a, b, c
// that (b-a) x (c-a) points to, -1 when it lies on the other side and 0
// when the four points are coplanar. The sign is exact.
func Orient3D(a, b, c, d Vector3) int {
	adx, bdx, cdx := a.X-d.X, b.X-d.X, c.X-d.X
	ady, bdy, cdy := a.Y-d.Y, b.Y-d.Y, c.Y-d.Y
	adz, bdz, cdz := a.Z-d.Z, b.Z-d.Z, c.Z-d.Z

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	cdxady, adxcdy := cdx*ady, adx*cdy
	adxbdy, bdxady := adx*bdy, bdx*ady

	det := adz*(bdxcdy-cdxbdy) + bdz*(cdxady-adxcdy) + cdz*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*math.Abs(adz) +
		(math.Abs(cdxady)+math.Abs(adxcdy))*math.Abs(bdz) +
		(math.Abs(adxbdy)+math.Abs(bdxady))*math.Abs(cdz)
	errBound := o3dErrBoundA * permanent
	if det > errBound || -det > errBound {
		// det[a-d; b-d; c-d] has the opposite sign of det[b-a; c-a; d-a].
		return -sign(det)
	}
	return orient3DExact(a, b, c, d)
}

func orient3DExact(a, b, c, d Vector3) int {
	ra := toRat(a)
	u := toRat(b).sub(ra)
	v := toRat(c).sub(ra)
	w := toRat(d).sub(ra)
	return u.cross(v).dot(w).Sign()
}

// InSphere returns +1 when e lies strictly inside the sphere through a, b,
// c, d, -1 when strictly outside and 0 when on it. The points a, b, c, d
// must satisfy Orient3D(a, b, c, d) > 0, otherwise the sign is reversed.
func InSphere(a, b, c, d, e Vector3) int {
	aex, bex, cex, dex := a.X-e.X, b.X-e.X, c.X-e.X, d.X-e.X
	aey, bey, cey, dey := a.Y-e.Y, b.Y-e.Y, c.Y-e.Y, d.Y-e.Y
	aez, bez, cez, dez := a.Z-e.Z, b.Z-e.Z, c.Z-e.Z, d.Z-e.Z

	aexbey, bexaey := aex*bey, bex*aey
	bexcey, cexbey := bex*cey, cex*bey
	cexdey, dexcey := cex*dey, dex*cey
	dexaey, aexdey := dex*aey, aex*dey
	aexcey, cexaey := aex*cey, cex*aey
	bexdey, dexbey := bex*dey, dex*bey

	ab := aexbey - bexaey
	bc := bexcey - cexbey
	cd := cexdey - dexcey
	da := dexaey - aexdey
	ac := aexcey - cexaey
	bd := bexdey - dexbey

	abc := aez*bc - bez*ac + cez*ab
	bcd := bez*cd - cez*bd + dez*bc
	cda := cez*da + dez*ac + aez*cd
	dab := dez*ab + aez*bd + bez*da

	alift := aex*aex + aey*aey + aez*aez
	blift := bex*bex + bey*bey + bez*bez
	clift := cex*cex + cey*cey + cez*cez
	dlift := dex*dex + dey*dey + dez*dez

	det := (dlift*abc - clift*dab) + (blift*cda - alift*bcd)

	abs := math.Abs
	aezp, bezp, cezp, dezp := abs(aez), abs(bez), abs(cez), abs(dez)
	permanent := ((abs(cexdey)+abs(dexcey))*bezp+
		(abs(dexbey)+abs(bexdey))*cezp+
		(abs(bexcey)+abs(cexbey))*dezp)*alift +
		((abs(dexaey)+abs(aexdey))*cezp+
			(abs(aexcey)+abs(cexaey))*dezp+
			(abs(cexdey)+abs(dexcey))*aezp)*blift +
		((abs(aexbey)+abs(bexaey))*dezp+
			(abs(bexdey)+abs(dexbey))*aezp+
			(abs(dexaey)+abs(aexdey))*bezp)*clift +
		((abs(bexcey)+abs(cexbey))*aezp+
			(abs(cexaey)+abs(aexcey))*bezp+
			(abs(aexbey)+abs(bexaey))*cezp)*dlift
	errBound := ispErrBoundA * permanent
	if det > errBound || -det > errBound {
		// Positive det means inside for the opposite orientation convention.
		return -sign(det)
	}
	return inSphereExact(a, b, c, d, e)
}

func inSphereExact(a, b, c, d, e Vector3) int {
	re := toRat(e)
	ae, be, ce, de := toRat(a).sub(re), toRat(b).sub(re), toRat(c).sub(re), toRat(d).sub(re)

	ab := minor2(ae, be)
	bc := minor2(be, ce)
	cd := minor2(ce, de)
	da := minor2(de, ae)
	ac := minor2(ae, ce)
	bd := minor2(be, de)

	abc := rsub(radd(rmul(ae[2], bc), rmul(ce[2], ab)), rmul(be[2], ac))
	bcd := rsub(radd(rmul(be[2], cd), rmul(de[2], bc)), rmul(ce[2], bd))
	cda := radd(radd(rmul(ce[2], da), rmul(de[2], ac)), rmul(ae[2], cd))
	dab := radd(radd(rmul(de[2], ab), rmul(ae[2], bd)), rmul(be[2], da))

	det := radd(
		rsub(rmul(de.dot(de), abc), rmul(ce.dot(ce), dab)),
		rsub(rmul(be.dot(be), cda), rmul(ae.dot(ae), bcd)),
	)
	return -det.Sign()
}

// InTriangleSphere returns +1 when p lies strictly inside the smallest
// sphere circumscribing triangle a, b, c, 0 on it and -1 outside. For p in
// the plane of the triangle this is the in-circumcircle test. Degenerate
// triangles have no bounded circumsphere and report -1.
func InTriangleSphere(a, b, c, p Vector3) int {
	center, ok := TriangleCircumcenter(a, b, c)
	if ok {
		r2 := center.DistanceSquared(a)
		d2 := center.DistanceSquared(p)
		diff := r2 - d2
		if math.Abs(diff) > 1e-9*math.Max(r2, d2) {
			return sign(diff)
		}
	}
	return inTriangleSphereExact(a, b, c, p)
}

func inTriangleSphereExact(a, b, c, p Vector3) int {
	ra := toRat(a)
	u := toRat(b).sub(ra)
	v := toRat(c).sub(ra)
	w := u.cross(v)
	w2 := w.dot(w)
	if w2.Sign() == 0 {
		return -1
	}
	num := v.scale(u.dot(u)).sub(u.scale(v.dot(v))).cross(w)
	inv := new(big.Rat).Inv(rmul(big.NewRat(2, 1), w2))
	offset := num.scale(inv)
	// center = a + offset; compare |p - center|^2 with |offset|^2
	pc := toRat(p).sub(ra).sub(offset)
	return rsub(offset.dot(offset), pc.dot(pc)).Sign()
}

// InDiametralSphere returns +1 when p lies strictly inside the sphere having
// segment a-b as a diameter, 0 on it and -1 outside.
func InDiametralSphere(a, b, p Vector3) int {
	pa := p.Sub(a)
	pb := p.Sub(b)
	dot := pa.Dot(pb)
	permanent := math.Abs(pa.X*pb.X) + math.Abs(pa.Y*pb.Y) + math.Abs(pa.Z*pb.Z)
	if math.Abs(dot) > dotErrBound*permanent {
		return -sign(dot)
	}
	rp := toRat(p)
	return -rp.sub(toRat(a)).dot(rp.sub(toRat(b))).Sign()
}

// Collinear reports whether a, b and c lie exactly on a common line
func Collinear(a, b, c Vector3) bool {
	return orient2D(a.X, a.Y, b.X, b.Y, c.X, c.Y) == 0 &&
		orient2D(a.Y, a.Z, b.Y, b.Z, c.Y, c.Z) == 0 &&
		orient2D(a.Z, a.X, b.Z, b.X, c.Z, c.X) == 0
}

func orient2D(ax, ay, bx, by, cx, cy float64) int {
	detLeft := (ax - cx) * (by - cy)
	detRight := (ay - cy) * (bx - cx)
	det := detLeft - detRight
	errBound := o2dErrBoundA * (math.Abs(detLeft) + math.Abs(detRight))
	if det > errBound || -det > errBound {
		return sign(det)
	}
	l := rmul(rsub(rat(ax), rat(cx)), rsub(rat(by), rat(cy)))
	r := rmul(rsub(rat(ay), rat(cy)), rsub(rat(bx), rat(cx)))
	return rsub(l, r).Sign()
}

type ratVec [3]*big.Rat

func rat(x float64) *big.Rat {
	r := new(big.Rat)
	if r.SetFloat64(x) == nil {
		return new(big.Rat)
	}
	return r
}

func toRat(v Vector3) ratVec {
	return ratVec{rat(v.X), rat(v.Y), rat(v.Z)}
}

func radd(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func rsub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func rmul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }

func (r ratVec) sub(o ratVec) ratVec {
	return ratVec{rsub(r[0], o[0]), rsub(r[1], o[1]), rsub(r[2], o[2])}
}

func (r ratVec) scale(s *big.Rat) ratVec {
	return ratVec{rmul(r[0], s), rmul(r[1], s), rmul(r[2], s)}
}

func (r ratVec) dot(o ratVec) *big.Rat {
	return radd(radd(rmul(r[0], o[0]), rmul(r[1], o[1])), rmul(r[2], o[2]))
}

func (r ratVec) cross(o ratVec) ratVec {
	return ratVec{
		rsub(rmul(r[1], o[2]), rmul(r[2], o[1])),
		rsub(rmul(r[2], o[0]), rmul(r[0], o[2])),
		rsub(rmul(r[0], o[1]), rmul(r[1], o[0])),
	}
}

// minor2 is the xy determinant of two lifted rows.
func minor2(p, q ratVec) *big.Rat {
	return rsub(rmul(p[0], q[1]), rmul(q[0], p[1]))
}
