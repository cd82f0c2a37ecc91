package bpt

import (
	"math"
	"testing"

	"github.com/lumetra/pathbench/pkg/gbsdf"
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/qbvh"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
	"github.com/lumetra/pathbench/pkg/worldscene"
)

func unitQuad(z float64) *geomcore.Mesh {
	return &geomcore.Mesh{
		Positions: []vmath.Vec3{
			{X: -1, Y: -1, Z: z}, {X: 1, Y: -1, Z: z}, {X: -1, Y: 1, Z: z}, {X: 1, Y: 1, Z: z},
		},
		Faces: []geomcore.Face{{I0: 0, I1: 1, I2: 2}, {I0: 1, I1: 3, I2: 2}},
	}
}

// unitQuadFacingDown is unitQuad with reversed winding, so its geometric
// normal points toward -Z (used for the overhead light, so it emits
// downward onto the floor without moving its world position).
func unitQuadFacingDown(z float64) *geomcore.Mesh {
	return &geomcore.Mesh{
		Positions: []vmath.Vec3{
			{X: -1, Y: -1, Z: z}, {X: 1, Y: -1, Z: z}, {X: -1, Y: 1, Z: z}, {X: 1, Y: 1, Z: z},
		},
		Faces: []geomcore.Face{{I0: 0, I1: 2, I2: 1}, {I0: 1, I1: 2, I2: 3}},
	}
}

// cornellLikeScene builds a floor quad at z=0 facing +Z, a diffuse area
// light quad at z=3 facing -Z (toward the floor), and a pinhole camera
// at z=2 looking down the -Z axis at the floor.
func cornellLikeScene(t *testing.T) *worldscene.Scene {
	t.Helper()
	floor := &geomcore.Primitive{
		Transform: vmath.Identity4(),
		Mesh:      unitQuad(0),
		BSDF:      gbsdf.NewDiffuse(vmath.Vec3{X: 0.7, Y: 0.7, Z: 0.7}),
	}

	lightMesh := unitQuadFacingDown(3)
	light := &geomcore.Primitive{
		Transform: vmath.Identity4(),
		Mesh:      lightMesh,
		Light:     gbsdf.NewAreaLight(lightMesh, vmath.Identity4(), vmath.Vec3{X: 8, Y: 8, Z: 8}),
	}

	cam := gbsdf.NewThinLensCamera(
		vmath.Vec3{X: 0, Y: 0, Z: 2}, vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 0, Y: 1, Z: 0},
		60, 1, 0, 2)
	camPrim := &geomcore.Primitive{Transform: vmath.Identity4(), Camera: cam}

	return worldscene.Build([]*geomcore.Primitive{floor, light, camPrim}, qbvh.QuadMode)
}

func TestMISWeightTrivialForTwoVertexPath(t *testing.T) {
	if w := MISWeight(nil, []*Vertex{{}, {}}, 0, 2, Power); w != 1 {
		t.Errorf("s+t==2 should always weight 1, got %v", w)
	}
}

func TestMISWeightBoundedAndNonNegative(t *testing.T) {
	scene := cornellLikeScene(t)
	sampler := sampling.NewRewindableSampler(7)
	arena := NewVertexArena(16)

	camera, _ := scene.MainCamera()
	eyePath := SampleCameraSubpath(arena, scene, camera, vmath.Vec2{X: 0.5, Y: 0.5}, sampler, 4, 2)
	lightPath := SampleLightSubpath(arena, scene, sampler, 4, 2)

	tested := 0
	for s := 0; s <= lightPath.Len(); s++ {
		for tt := 1; tt <= eyePath.Len(); tt++ {
			if s+tt < 2 {
				continue
			}
			res, ok := Connect(scene, lightPath.Vertices, eyePath.Vertices, s, tt, Power)
			if !ok {
				continue
			}
			tested++
			if res.Weight < 0 || res.Weight > 1 {
				t.Errorf("s=%d t=%d: MIS weight %v out of [0,1]", s, tt, res.Weight)
			}
			if !res.Contribution.IsFinite() {
				t.Errorf("s=%d t=%d: non-finite contribution %v", s, tt, res.Contribution)
			}
		}
	}
	if tested == 0 {
		t.Fatal("expected at least one valid connection strategy in a simple two-quad scene")
	}
}

func TestDirectLightingConnectionPositive(t *testing.T) {
	scene := cornellLikeScene(t)
	sampler := sampling.NewRewindableSampler(11)
	arena := NewVertexArena(16)

	camera, _ := scene.MainCamera()
	eyePath := SampleCameraSubpath(arena, scene, camera, vmath.Vec2{X: 0.5, Y: 0.5}, sampler, 1, 8)
	if eyePath.Len() < 2 {
		t.Fatal("expected the primary ray to hit the floor")
	}
	lightPath := SampleLightSubpath(arena, scene, sampler, 0, 8)
	if lightPath.Len() != 1 {
		t.Fatalf("expected a single-vertex light subpath at maxDepth 0, got %d", lightPath.Len())
	}

	res, ok := Connect(scene, lightPath.Vertices, eyePath.Vertices, 1, 2, Power)
	if !ok {
		t.Fatal("expected a valid s=1,t=2 direct-lighting connection")
	}
	if res.Contribution.Luminance() <= 0 {
		t.Errorf("expected positive direct-lighting contribution, got %v", res.Contribution)
	}
}

func TestSubpathVerticesCarryAreaMeasurePdfs(t *testing.T) {
	scene := cornellLikeScene(t)
	sampler := sampling.NewRewindableSampler(3)
	arena := NewVertexArena(16)

	lightPath := SampleLightSubpath(arena, scene, sampler, 4, 8)
	for i, v := range lightPath.Vertices {
		if v.PdfForward.Measure != vmath.Area {
			t.Errorf("light vertex %d PdfForward measure = %v, want Area", i, v.PdfForward.Measure)
		}
	}
}

func TestRewindableSamplerMakesSubpathsDeterministic(t *testing.T) {
	scene := cornellLikeScene(t)
	arena1 := NewVertexArena(16)
	arena2 := NewVertexArena(16)

	s1 := sampling.NewRewindableSampler(42)
	s2 := sampling.NewRewindableSampler(42)
	p1 := SampleLightSubpath(arena1, scene, s1, 4, 8)
	p2 := SampleLightSubpath(arena2, scene, s2, 4, 8)

	if p1.Len() != p2.Len() {
		t.Fatalf("same seed produced different subpath lengths: %d vs %d", p1.Len(), p2.Len())
	}
	for i := range p1.Vertices {
		d := p1.Vertices[i].Geom.P.Sub(p2.Vertices[i].Geom.P).Length()
		if math.Abs(d) > 1e-12 {
			t.Errorf("vertex %d diverged between identically-seeded runs: %v vs %v", i, p1.Vertices[i].Geom.P, p2.Vertices[i].Geom.P)
		}
	}
}
