package vmath

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func vecAlmostEqual(a, b Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -1, Z: 0.5}

	if got := a.Add(b); !vecAlmostEqual(got, Vec3{5, 1, 3.5}) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); !vecAlmostEqual(got, Vec3{-3, 3, 2.5}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 1*4+2*-1+3*0.5) {
		t.Errorf("Dot: got %v", got)
	}
	cross := a.Cross(b)
	if !almostEqual(cross.Dot(a), 0) || !almostEqual(cross.Dot(b), 0) {
		t.Errorf("Cross result not orthogonal to either input: %v", cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 0}
	n := v.Normalize()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}
	if zero := (Vec3{}).Normalize(); !zero.IsZero() {
		t.Errorf("normalizing the zero vector should stay zero, got %v", zero)
	}
}

func TestVec3Clamp(t *testing.T) {
	v := Vec3{X: -1, Y: 0.5, Z: 2}
	got := v.Clamp(0, 1)
	if !vecAlmostEqual(got, Vec3{0, 0.5, 1}) {
		t.Errorf("Clamp: got %v", got)
	}
}

func TestMat4IdentityIsNoOp(t *testing.T) {
	id := Identity4()
	p := Vec3{X: 1, Y: -2, Z: 3}
	if got := id.MulPoint(p); !vecAlmostEqual(got, p) {
		t.Errorf("identity MulPoint changed point: got %v", got)
	}
	if got := id.MulDir(p); !vecAlmostEqual(got, p) {
		t.Errorf("identity MulDir changed direction: got %v", got)
	}
}

func TestMat4TranslateAffectsPointsNotDirections(t *testing.T) {
	m := Translate(Vec3{X: 1, Y: 2, Z: 3})
	p := Vec3{X: 0, Y: 0, Z: 0}
	if got := m.MulPoint(p); !vecAlmostEqual(got, Vec3{1, 2, 3}) {
		t.Errorf("MulPoint: got %v", got)
	}
	d := Vec3{X: 5, Y: 6, Z: 7}
	if got := m.MulDir(d); !vecAlmostEqual(got, d) {
		t.Errorf("MulDir should ignore translation, got %v", got)
	}
}

func TestMat4ScaleComposesWithTranslate(t *testing.T) {
	scale := Scale(Vec3{X: 2, Y: 2, Z: 2})
	translate := Translate(Vec3{X: 1, Y: 0, Z: 0})
	combined := translate.Mul(scale)
	p := Vec3{X: 1, Y: 1, Z: 1}
	if got := combined.MulPoint(p); !vecAlmostEqual(got, Vec3{3, 2, 2}) {
		t.Errorf("translate*scale*p: got %v, want {3 2 2}", got)
	}
}

func TestRotatePreservesLength(t *testing.T) {
	m := Rotate(math.Pi/3, Vec3{X: 0, Y: 0, Z: 1})
	v := Vec3{X: 1, Y: 0, Z: 0}
	got := m.MulDir(v)
	if !almostEqual(got.Length(), 1) {
		t.Errorf("rotation changed vector length: got %v", got.Length())
	}
	if almostEqual(got.X, 1) {
		t.Errorf("rotation by 60deg should move the vector, got %v", got)
	}
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	m := Rotate(2*math.Pi, Vec3{X: 0, Y: 1, Z: 0})
	v := Vec3{X: 1, Y: 2, Z: 3}
	if got := m.MulDir(v); !vecAlmostEqual(got, v) {
		t.Errorf("full turn rotation should be identity, got %v", got)
	}
}

func TestInverseTranspose3UndoesUniformScale(t *testing.T) {
	m := Scale(Vec3{X: 2, Y: 2, Z: 2})
	n := Vec3{X: 0, Y: 0, Z: 1}
	transformed := m.InverseTranspose3().MulVec(n).Normalize()
	if !vecAlmostEqual(transformed, n) {
		t.Errorf("inverse-transpose of uniform scale should preserve normal direction, got %v", transformed)
	}
}

func TestInverseTranspose3NonUniformScale(t *testing.T) {
	// Scaling the X axis by 2 should compress normals that aren't axis
	// aligned toward the unscaled axes once renormalized; check the
	// invariant that the transformed normal stays perpendicular to every
	// tangent vector of the scaled surface.
	m := Scale(Vec3{X: 2, Y: 1, Z: 1})
	tangent := Vec3{X: 0, Y: 1, Z: 1}   // lies in the surface with normal (1,0,0) pre-scale... use a plane instead
	normal := Vec3{X: 1, Y: 0, Z: 0}
	scaledTangent := m.MulDir(tangent)
	scaledNormal := m.InverseTranspose3().MulVec(normal)
	if !almostEqual(scaledTangent.Dot(scaledNormal), 0) {
		t.Errorf("inverse-transpose normal not orthogonal to scaled tangent: dot=%v", scaledTangent.Dot(scaledNormal))
	}
}

func TestFrameFromNormalOrthonormal(t *testing.T) {
	normals := []Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 0},
		Vec3{X: 1, Y: 1, Z: 1}.Normalize(),
		Vec3{X: -1, Y: 2, Z: -3}.Normalize(),
	}
	for _, n := range normals {
		ss, st := FrameFromNormal(n)
		if !almostEqual(ss.Length(), 1) || !almostEqual(st.Length(), 1) {
			t.Errorf("normal %v: basis vectors not unit length (ss=%v st=%v)", n, ss.Length(), st.Length())
		}
		if !almostEqual(ss.Dot(n), 0) || !almostEqual(st.Dot(n), 0) {
			t.Errorf("normal %v: basis not orthogonal to normal", n)
		}
		if !almostEqual(ss.Dot(st.Vec3), 0) {
			t.Errorf("normal %v: ss and st not orthogonal to each other", n)
		}
		cross := ss.Cross(st.Vec3)
		if !vecAlmostEqual(cross, n) {
			t.Errorf("normal %v: cross(ss, st) = %v, want right-handed match to n", n, cross)
		}
	}
}

func TestWorldToShadingRoundTrips(t *testing.T) {
	sn := Vec3{X: 0, Y: 1, Z: 0}
	ss, st := FrameFromNormal(sn)
	w2s := WorldToShading(ss.Vec3, sn, st.Vec3)
	s2w := w2s.Transpose()

	v := Vec3{X: 1, Y: 2, Z: 3}
	shading := w2s.MulVec(v)
	back := s2w.MulVec(shading)
	if !vecAlmostEqual(back, v) {
		t.Errorf("world->shading->world round trip: got %v, want %v", back, v)
	}
}

func TestQuatFromAxisAngleMatchesRotate(t *testing.T) {
	axis := Vec3{X: 0, Y: 0, Z: 1}
	angle := math.Pi / 4
	q := QuatFromAxisAngle(axis, angle)
	fromQuat := q.ToMat4()
	fromAxisAngle := Rotate(angle, axis)

	v := Vec3{X: 1, Y: 0, Z: 0}
	a := fromQuat.MulDir(v)
	b := fromAxisAngle.MulDir(v)
	if !vecAlmostEqual(a, b) {
		t.Errorf("quat rotation disagrees with axis-angle rotation: %v vs %v", a, b)
	}
}
