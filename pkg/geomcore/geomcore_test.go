package geomcore

import (
	"math"
	"testing"

	"github.com/lumetra/pathbench/pkg/vmath"
)

func TestEmptyAABBUnionWithPointYieldsThatPoint(t *testing.T) {
	b := EmptyAABB()
	p := vmath.Vec3{X: 1, Y: 2, Z: 3}
	b = b.UnionPoint(p)
	if b.Min != p || b.Max != p {
		t.Errorf("union of empty box with a point should collapse to that point, got min=%v max=%v", b.Min, b.Max)
	}
}

func TestAABBUnionContainsBothInputs(t *testing.T) {
	a := NewAABB(vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 1, Y: 1, Z: 1})
	b := NewAABB(vmath.Vec3{X: -1, Y: 2, Z: 0.5}, vmath.Vec3{X: 0.5, Y: 3, Z: 2})
	u := a.Union(b)
	want := NewAABB(vmath.Vec3{X: -1, Y: 0, Z: 0}, vmath.Vec3{X: 1, Y: 3, Z: 2})
	if u.Min != want.Min || u.Max != want.Max {
		t.Errorf("Union: got min=%v max=%v, want min=%v max=%v", u.Min, u.Max, want.Min, want.Max)
	}
}

func TestAABBSurfaceAreaUnitCube(t *testing.T) {
	b := NewAABB(vmath.Vec3{}, vmath.Vec3{X: 1, Y: 1, Z: 1})
	if got := b.SurfaceArea(); math.Abs(got-6) > 1e-9 {
		t.Errorf("unit cube surface area = %v, want 6", got)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	b := NewAABB(vmath.Vec3{}, vmath.Vec3{X: 1, Y: 5, Z: 2})
	if got := b.LongestAxis(); got != 1 {
		t.Errorf("LongestAxis = %d, want 1 (Y)", got)
	}
}

func TestAABBHitThroughCenter(t *testing.T) {
	b := NewAABB(vmath.Vec3{X: -1, Y: -1, Z: -1}, vmath.Vec3{X: 1, Y: 1, Z: 1})
	r := NewRay(vmath.Vec3{X: 0, Y: 0, Z: -5}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	if !b.Hit(r, r.MinT, r.MaxT) {
		t.Error("ray through box center should hit")
	}
}

func TestAABBHitMissesWhenOffsetPastExtent(t *testing.T) {
	b := NewAABB(vmath.Vec3{X: -1, Y: -1, Z: -1}, vmath.Vec3{X: 1, Y: 1, Z: 1})
	r := NewRay(vmath.Vec3{X: 5, Y: 5, Z: -5}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	if b.Hit(r, r.MinT, r.MaxT) {
		t.Error("ray that passes beside the box should miss")
	}
}

func TestNewSurfaceGeometryFrameIsOrthonormal(t *testing.T) {
	sn := vmath.Vec3{X: 0, Y: 1, Z: 0}
	geom := NewSurfaceGeometry(vmath.Vec3{X: 1, Y: 2, Z: 3}, sn, sn, vmath.Vec2{X: 0.5, Y: 0.5})
	if geom.Degenerate {
		t.Fatal("non-degenerate surface geometry should not be flagged Degenerate")
	}
	if math.Abs(geom.Ss.Dot(geom.Sn)) > 1e-9 || math.Abs(geom.St.Dot(geom.Sn)) > 1e-9 {
		t.Errorf("shading tangent/bitangent not orthogonal to shading normal")
	}
	v := vmath.Vec3{X: 2, Y: -1, Z: 4}
	roundTrip := geom.ShadingToWorld.MulVec(geom.WorldToShading.MulVec(v))
	if math.Abs(roundTrip.X-v.X) > 1e-9 || math.Abs(roundTrip.Y-v.Y) > 1e-9 || math.Abs(roundTrip.Z-v.Z) > 1e-9 {
		t.Errorf("world->shading->world round trip failed: got %v, want %v", roundTrip, v)
	}
}

func TestDegenerateSurfaceGeometryFlag(t *testing.T) {
	geom := DegenerateSurfaceGeometry(vmath.Vec3{X: 1, Y: 1, Z: 1})
	if !geom.Degenerate {
		t.Error("DegenerateSurfaceGeometry should set Degenerate")
	}
}

func unitTriangleMesh() *Mesh {
	return &Mesh{
		Positions: []vmath.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: []Face{{I0: 0, I1: 1, I2: 2}},
	}
}

func TestMeshSurfaceArea(t *testing.T) {
	m := unitTriangleMesh()
	if got := m.SurfaceArea(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("right-triangle mesh area = %v, want 0.5", got)
	}
}

func TestMeshGeometricNormal(t *testing.T) {
	m := unitTriangleMesh()
	n := m.GeometricNormal(m.Faces[0])
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("geometric normal not unit length: %v", n)
	}
	if math.Abs(n.Z-1) > 1e-9 {
		t.Errorf("expected +Z normal for counter-clockwise XY triangle, got %v", n)
	}
}

func TestMeshNormalFallsBackToZeroWhenAbsent(t *testing.T) {
	m := unitTriangleMesh()
	if got := m.Normal(0); !got.IsZero() {
		t.Errorf("mesh with no normals should return zero normal, got %v", got)
	}
}

func TestPrimitiveWorldBoundsAppliesTransform(t *testing.T) {
	mesh := unitTriangleMesh()
	prim := &Primitive{Transform: vmath.Translate(vmath.Vec3{X: 10, Y: 0, Z: 0}), Mesh: mesh}
	b := prim.WorldBounds()
	if b.Min.X != 10 || b.Max.X != 11 {
		t.Errorf("translated mesh bounds: got min=%v max=%v", b.Min, b.Max)
	}
}

func TestPrimitiveWorldBoundsEmptyWithoutMesh(t *testing.T) {
	prim := &Primitive{Transform: vmath.Identity4()}
	b := prim.WorldBounds()
	if b.Min.X < b.Max.X {
		t.Errorf("primitive without a mesh should have an empty bounding box, got %v", b)
	}
}

func TestPrimitiveWorldSurfaceAreaScalesWithTransform(t *testing.T) {
	mesh := unitTriangleMesh()
	prim := &Primitive{Transform: vmath.Scale(vmath.Vec3{X: 2, Y: 2, Z: 2}), Mesh: mesh}
	if got := prim.WorldSurfaceArea(); math.Abs(got-2) > 1e-9 {
		t.Errorf("2x uniform scale should quadruple area (0.5 -> 2), got %v", got)
	}
}

func TestPrimitiveIsCameraIsLight(t *testing.T) {
	prim := &Primitive{}
	if prim.IsCamera() || prim.IsLight() {
		t.Error("bare primitive should be neither camera nor light")
	}
}
