// Package worldscene assembles primitives, the QBVH accelerator, and the
// light-selection distribution into the Scene that the BPT core queries
// (spec §4.3). Grounded on the teacher's pkg/core/scene.go (world Hit,
// light collection) and pkg/core/weighted_light_sampler.go (area-weighted
// discrete light selection).
package worldscene

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/qbvh"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// Scene owns every primitive in the world plus the derived acceleration
// structures built once at load time (spec §4.3).
type Scene struct {
	Primitives []*geomcore.Primitive
	Accel      *qbvh.Accel

	lightIndices []int // indices into Primitives that are emitters
	lightDist    sampling.Distribution1D
	cameraIdx    int
}

// Build triangulates every primitive's mesh into world space, builds the
// QBVH over the full triangle set, caches each primitive's
// inverse-transpose for shading-normal transforms, and constructs the
// area-weighted light-selection distribution (spec §4.3).
func Build(primitives []*geomcore.Primitive, mode qbvh.Mode) *Scene {
	s := &Scene{Primitives: primitives, cameraIdx: -1}

	var refs []qbvh.TriRef
	var lightWeights []float64
	for pi, p := range primitives {
		p.InverseTranspose = p.Transform.InverseTranspose3()
		if p.Mesh != nil {
			for fi, f := range p.Mesh.Faces {
				p0, p1, p2 := p.Mesh.FacePositions(f)
				refs = append(refs, qbvh.TriRef{
					PrimitiveIndex: int32(pi),
					FaceIndex:      int32(fi),
					P0:             p.Transform.MulPoint(p0),
					P1:             p.Transform.MulPoint(p1),
					P2:             p.Transform.MulPoint(p2),
				})
			}
		}
		if p.IsLight() {
			s.lightIndices = append(s.lightIndices, pi)
			lightWeights = append(lightWeights, p.WorldSurfaceArea())
		}
		if p.IsCamera() && s.cameraIdx < 0 {
			s.cameraIdx = pi
		}
	}

	s.Accel = qbvh.Build(refs, mode)
	s.lightDist = sampling.NewDistribution1D(lightWeights)
	return s
}

func (s *Scene) NumLights() int { return len(s.lightIndices) }

func (s *Scene) Light(i int) geomcore.Emitter {
	return s.Primitives[s.lightIndices[i]].Light
}

func (s *Scene) LightPrimitiveIndex(i int) int { return s.lightIndices[i] }

// MainCamera returns the scene's first registered camera primitive, or
// (nil, nil) if none was registered. config.Build rejects a scene tree
// with no camera node before Build ever runs, so callers such as
// SampleCameraSubpath may assume a non-nil result once a Scene exists;
// a tree with more than one camera node silently keeps the first.
func (s *Scene) MainCamera() (geomcore.Camera, *geomcore.Primitive) {
	if s.cameraIdx < 0 {
		return nil, nil
	}
	p := s.Primitives[s.cameraIdx]
	return p.Camera, p
}

// SampleLightSelection picks a light proportional to its world-space
// surface area (spec §4.3) and returns its local index (for Light(i))
// alongside its discrete selection Pdf.
func (s *Scene) SampleLightSelection(u float64) (lightIdx int, pdf vmath.Pdf) {
	idx, selectPdf, _ := s.lightDist.SampleDiscrete(u)
	return idx, selectPdf
}

// LightSelectionPdf returns the selection Pdf of the light at local index
// i, used by MIS to evaluate the alternate (light-origin) sampling
// technique without re-drawing (spec §4.5.3).
func (s *Scene) LightSelectionPdf(i int) vmath.Pdf {
	return s.lightDist.PdfDiscrete(i)
}

// Intersect finds the nearest primitive hit along the ray, reconstructing
// full SurfaceGeometry (interpolated normal, UV, shading frame) from the
// QBVH's barycentric hit record (spec §4.3, "post-intersection
// reconstruction").
func (s *Scene) Intersect(origin, dir vmath.Vec3, tMin, tMax float64) (geomcore.Intersection, bool) {
	hit, ok := s.Accel.Intersect(origin, dir, tMin, tMax)
	if !ok {
		return geomcore.Intersection{}, false
	}
	prim := s.Primitives[hit.PrimitiveIndex]
	face := prim.Mesh.Faces[hit.FaceIndex]

	b0 := 1 - hit.B1 - hit.B2
	p0 := prim.Mesh.Position(face.I0)
	p1 := prim.Mesh.Position(face.I1)
	p2 := prim.Mesh.Position(face.I2)
	localP := p0.Mul(b0).Add(p1.Mul(hit.B1)).Add(p2.Mul(hit.B2))
	worldP := prim.Transform.MulPoint(localP)

	gn := prim.Mesh.GeometricNormal(face)
	worldGn := prim.InverseTranspose.MulVec(gn).Normalize()

	var sn vmath.Vec3
	if len(prim.Mesh.Normals) > 0 {
		n0 := prim.Mesh.Normal(face.I0)
		n1 := prim.Mesh.Normal(face.I1)
		n2 := prim.Mesh.Normal(face.I2)
		localSn := n0.Mul(b0).Add(n1.Mul(hit.B1)).Add(n2.Mul(hit.B2))
		worldSn := prim.InverseTranspose.MulVec(localSn).Normalize()
		if worldSn.Dot(worldGn) < 0 {
			worldSn = worldSn.Negate()
		}
		sn = worldSn
	} else {
		sn = worldGn
	}

	var uv vmath.Vec2
	if len(prim.Mesh.UVs) > 0 {
		uv0 := prim.Mesh.UV(face.I0)
		uv1 := prim.Mesh.UV(face.I1)
		uv2 := prim.Mesh.UV(face.I2)
		uv = uv0.Mul(b0).Add(uv1.Mul(hit.B1)).Add(uv2.Mul(hit.B2))
	}

	geom := geomcore.NewSurfaceGeometry(worldP, worldGn, sn, uv)
	return geomcore.Intersection{
		Geom: geom, PrimitiveIdx: int(hit.PrimitiveIndex), FaceIdx: int(hit.FaceIndex), T: hit.T,
	}, true
}

// IntersectP is the occlusion-only shadow-ray test (spec §4.3).
func (s *Scene) IntersectP(origin, dir vmath.Vec3, tMin, tMax float64) bool {
	return s.Accel.IntersectP(origin, dir, tMin, tMax)
}

// Unoccluded tests visibility between two surface points (spec §4.5.2
// connection strategies), offsetting both ends along their geometric
// normals to avoid self-shadowing.
func (s *Scene) Unoccluded(from, fromNormal, to, toNormal vmath.Vec3) bool {
	r := geomcore.NewRayBetween(from.Add(fromNormal.Mul(vmath.LargeEps)), to.Add(toNormal.Mul(vmath.LargeEps)))
	return !s.IntersectP(r.Origin, r.Direction, r.MinT, r.MaxT)
}
