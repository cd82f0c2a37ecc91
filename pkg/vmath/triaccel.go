package vmath

import "math"

// TriAccel is the precomputed dominant-axis projection form of a triangle
// used for fast ray-triangle intersection (spec §4.1 "TriAccel"). K==3
// marks a degenerate triangle that can never be hit.
type TriAccel struct {
	K          int // dominant axis: 0, 1, or 2; 3 means degenerate
	Nu, Nv, Nd float64
	// barycentric-edge coefficients for the two non-dominant axes
	Bnu, Bnv, Bd   float64
	Cnu, Cnv, Cd   float64
}

// NewTriAccel builds the projection form from three world-space vertices.
// Returns K==3 on a degenerate (zero-area, or axis-degenerate) triangle.
func NewTriAccel(p0, p1, p2 Vec3) TriAccel {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)

	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	k := 0
	if ay >= ax && ay >= az {
		k = 1
	} else if az >= ax && az >= ay {
		k = 2
	}
	if n.Component(k) == 0 {
		return TriAccel{K: 3}
	}

	u := (k + 1) % 3
	v := (k + 2) % 3

	nu := n.Component(u) / n.Component(k)
	nv := n.Component(v) / n.Component(k)
	nd := p0.Component(u)*nu + p0.Component(v)*nv + p0.Component(k)

	// edge (p0, p2) used for the b-coefficient (beta), matches the
	// standard Wald/Benthin projection-form derivation.
	denom := e1.Component(u)*e2.Component(v) - e1.Component(v)*e2.Component(u)
	if denom == 0 {
		return TriAccel{K: 3}
	}
	invDenom := 1 / denom

	bnu := e2.Component(v) * invDenom
	bnv := -e2.Component(u) * invDenom
	bd := -(bnu*p0.Component(u) + bnv*p0.Component(v))

	cnu := -e1.Component(v) * invDenom
	cnv := e1.Component(u) * invDenom
	cd := -(cnu*p0.Component(u) + cnv*p0.Component(v))

	return TriAccel{
		K: k, Nu: nu, Nv: nv, Nd: nd,
		Bnu: bnu, Bnv: bnv, Bd: bd,
		Cnu: cnu, Cnv: cnv, Cd: cd,
	}
}

// Hit intersects a ray against the projection form. Returns (t, b1, b2, ok).
// b1, b2 are barycentric coordinates of vertices p1, p2 respectively
// (so the hit point is (1-b1-b2)*p0 + b1*p1 + b2*p2).
func (t TriAccel) Hit(origin, dir Vec3, tMin, tMax float64) (hitT, b1, b2 float64, ok bool) {
	if t.K == 3 {
		return 0, 0, 0, false
	}
	k, u, v := t.K, (t.K+1)%3, (t.K+2)%3

	dk, uk, vk := dir.Component(k), dir.Component(u), dir.Component(v)
	denom := dk + t.Nu*uk + t.Nv*vk
	if denom == 0 {
		return 0, 0, 0, false
	}

	origK, origU, origV := origin.Component(k), origin.Component(u), origin.Component(v)
	hitT = (t.Nd - origK - t.Nu*origU - t.Nv*origV) / denom
	if hitT < tMin || hitT > tMax {
		return 0, 0, 0, false
	}

	hu := origU + hitT*uk
	hv := origV + hitT*vk

	b1 = hu*t.Bnu + hv*t.Bnv + t.Bd
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}
	b2 = hu*t.Cnu + hv*t.Cnv + t.Cd
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}
	return hitT, b1, b2, true
}

// QuadTriangle packs four TriAccel-equivalent triangles as structure-of-
// arrays origin/edge1/edge2, tested against one ray simultaneously (spec
// §4.1 "SIMD quad-triangle"). Tail lanes of a partially-filled quad are
// padded with duplicates of the last real triangle so they can never win
// a nearest-hit comparison spuriously (they still may "hit", but at the
// same parameters as the real triangle they duplicate).
type QuadTriangle struct {
	OX, OY, OZ [4]float64
	E1X, E1Y, E1Z [4]float64
	E2X, E2Y, E2Z [4]float64
	// Count is the number of real (non-padding) triangles packed (1..4).
	Count int
}

// NewQuadTriangle packs up to four triangles given as (p0,p1,p2) triples.
// tris must have length in [1,4]; shorter inputs are padded by repeating
// the last triangle.
func NewQuadTriangle(tris [][3]Vec3) QuadTriangle {
	var q QuadTriangle
	q.Count = len(tris)
	last := tris[len(tris)-1]
	for lane := 0; lane < 4; lane++ {
		tri := last
		if lane < len(tris) {
			tri = tris[lane]
		}
		p0, p1, p2 := tri[0], tri[1], tri[2]
		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		q.OX[lane], q.OY[lane], q.OZ[lane] = p0.X, p0.Y, p0.Z
		q.E1X[lane], q.E1Y[lane], q.E1Z[lane] = e1.X, e1.Y, e1.Z
		q.E2X[lane], q.E2Y[lane], q.E2Z[lane] = e2.X, e2.Y, e2.Z
	}
	return q
}

// Hit runs a Moller-Trumbore test against all four lanes ("SIMD" in the
// sense of a single logical vector operation; expressed here as an
// unrolled scalar loop over the SoA layout, since the pack's dependency
// surface offers no portable SIMD intrinsic — see DESIGN.md). Returns the
// nearest valid hit within [tMin,tMax], or ok=false.
func (q QuadTriangle) Hit(origin, dir Vec3, tMin, tMax float64) (lane int, hitT, b1, b2 float64, ok bool) {
	bestT := tMax
	bestLane := -1
	for l := 0; l < 4; l++ {
		e1 := Vec3{q.E1X[l], q.E1Y[l], q.E1Z[l]}
		e2 := Vec3{q.E2X[l], q.E2Y[l], q.E2Z[l]}
		p0 := Vec3{q.OX[l], q.OY[l], q.OZ[l]}

		pvec := dir.Cross(e2)
		det := e1.Dot(pvec)
		if math.Abs(det) < 1e-12 {
			continue
		}
		invDet := 1 / det
		tvec := origin.Sub(p0)
		u := tvec.Dot(pvec) * invDet
		if u < 0 || u > 1 {
			continue
		}
		qvec := tvec.Cross(e1)
		v := dir.Dot(qvec) * invDet
		if v < 0 || u+v > 1 {
			continue
		}
		t := e2.Dot(qvec) * invDet
		if t < tMin || t >= bestT {
			continue
		}
		bestT = t
		hitT, b1, b2 = t, u, v
		bestLane = l
	}
	if bestLane < 0 {
		return -1, 0, 0, 0, false
	}
	return bestLane, hitT, b1, b2, true
}
