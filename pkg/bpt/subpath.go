package bpt

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
	"github.com/lumetra/pathbench/pkg/worldscene"
)

// Scene is the subset of worldscene.Scene that subpath sampling and
// connection need; declared here so bpt depends only on the methods it
// actually calls.
type Scene interface {
	Intersect(origin, dir vmath.Vec3, tMin, tMax float64) (geomcore.Intersection, bool)
	IntersectP(origin, dir vmath.Vec3, tMin, tMax float64) bool
	Unoccluded(from, fromNormal, to, toNormal vmath.Vec3) bool
	NumLights() int
	Light(i int) geomcore.Emitter
	SampleLightSelection(u float64) (int, vmath.Pdf)
	LightSelectionPdf(i int) vmath.Pdf
	MainCamera() (geomcore.Camera, *geomcore.Primitive)
}

var _ Scene = (*worldscene.Scene)(nil)

// convertToArea converts a directional PDF measured at curr into an area
// PDF at next, multiplying by |cosTheta| at next only when next lies on
// a real surface (spec §4.5.1, mirrors the teacher's convertPDFDensity /
// PBRT's Vertex::ConvertDensity). pdf may be SolidAngle (a real BSDF or
// emission density) or Discrete (the unit placeholder a specular sample
// carries, per spec §9's specular-vertex convention); both convert by the
// same cos/distance^2 rule, since the Discrete case only ever appears
// paired with a specular vertex that mis.go excludes from the ratio sum
// by its IsSpecular flag rather than by its Pdf.Value.
func convertToArea(pdf vmath.Pdf, currP vmath.Vec3, next *Vertex) vmath.Pdf {
	d := next.Geom.P.Sub(currP)
	distSq := d.LengthSquared()
	if distSq == 0 {
		return vmath.NewPdf(0, vmath.Area)
	}
	areaValue := pdf.Value / distSq
	if next.IsOnSurface() {
		cosAtNext := d.Mul(1 / math.Sqrt(distSq)).AbsDot(next.Geom.Gn)
		areaValue *= cosAtNext
	}
	return vmath.NewPdf(areaValue, vmath.Area)
}

// toSolidAngle normalizes a GBSDF-reported directional Pdf to a true
// SolidAngle-measure density before it feeds convertToArea or a
// throughput update. pkg/gbsdf reports Diffuse/AreaLight direction
// densities in ProjectedSolidAngle measure (value already divided by the
// cosine at the evaluating vertex, spec §9 "PDF measure discipline"), so
// recovering the real solid-angle density means multiplying that cosine
// back in; Camera already reports true SolidAngle, and the Discrete unit
// placeholder a specular sample carries passes through unchanged (its
// value is a bookkeeping token, not a density, per the mirror/glass
// EvaluateDirection convention).
func toSolidAngle(pdf vmath.Pdf, cosThetaAtCurrent float64) vmath.Pdf {
	if pdf.Measure == vmath.ProjectedSolidAngle {
		return vmath.NewPdf(pdf.Value*math.Abs(cosThetaAtCurrent), vmath.SolidAngle)
	}
	return pdf
}

// SampleCameraSubpath traces the eye subpath starting at the camera's
// primary ray (spec §4.5.1). The camera vertex itself is always present
// even with maxDepth 0, matching the teacher's generateCameraSubpath.
func SampleCameraSubpath(arena *VertexArena, scene Scene, camera geomcore.Camera, raster vmath.Vec2, sampler *sampling.RewindableSampler, maxDepth, rrDepth int) Path {
	camGeom, camPdf := camera.SamplePosition(sampler.Vec2())
	ray, dirPdf := camera.GenerateRay(raster, sampler.Vec2())

	v0 := arena.Alloc()
	*v0 = Vertex{
		Kind: CameraVertex, Geom: camGeom, Camera: camera,
		Beta: vmath.Vec3{X: 1, Y: 1, Z: 1},
		PdfForward: camPdf,
	}

	path := Path{Vertices: []*Vertex{v0}}
	beta := vmath.Vec3{X: 1, Y: 1, Z: 1}
	extend(&path, arena, scene, ray, beta, dirPdf, maxDepth, rrDepth, sampler, geomcore.EyeToLight)
	return path
}

// SampleLightSubpath traces the light subpath starting at a sampled
// emitter surface point (spec §4.5.1).
func SampleLightSubpath(arena *VertexArena, scene Scene, sampler *sampling.RewindableSampler, maxDepth, rrDepth int) Path {
	if scene.NumLights() == 0 {
		return Path{}
	}
	lightIdx, selectPdf := scene.SampleLightSelection(sampler.Float64())
	light := scene.Light(lightIdx)
	lightGeom, posPdf := light.SamplePosition(sampler.Vec2())

	dirQuery := geomcore.DirectionQuery{Geom: lightGeom, Transport: geomcore.LightToEye, U1: sampler.Vec2()}
	dirSample := light.SampleDirection(dirQuery)
	emission := light.EvaluatePosition(lightGeom)

	v0 := arena.Alloc()
	*v0 = Vertex{
		Kind: LightVertex, Geom: lightGeom, AreaLight: light, LightIdx: lightIdx,
		Beta:       emission,
		PdfForward: vmath.NewPdf(posPdf.Value*selectPdf.Value, vmath.Area),
	}
	path := Path{Vertices: []*Vertex{v0}}
	if !dirSample.Valid {
		return path
	}

	cosTheta := dirSample.Wo.Dot(lightGeom.Gn)
	if cosTheta <= 0 || dirSample.Pdf.Value <= 0 {
		return path
	}
	// Cosine-weighted emission sampling: the cosTheta this direction was
	// weighted by exactly cancels the cosTheta a solid-angle throughput
	// update would divide out, so beta reduces to emission/pdfSelection.
	beta := emission.Mul(1 / (posPdf.Value * selectPdf.Value * dirSample.Pdf.Value))
	solidDirPdf := toSolidAngle(dirSample.Pdf, cosTheta)
	ray := geomcore.NewRay(lightGeom.P, dirSample.Wo)
	extend(&path, arena, scene, ray, beta, solidDirPdf, maxDepth-1, rrDepth, sampler, geomcore.LightToEye)
	return path
}

// extend is the shared bounce loop behind both subpath constructors
// (spec §4.5.1, "extendPath"): at each bounce it intersects the scene,
// records the hit's forward area PDF (converted from the previous
// vertex's solid-angle sampling PDF), samples a new direction from the
// hit's BSDF, writes the previous vertex's reverse PDF from that
// sample's density, and applies Russian roulette once depth >= rrDepth.
func extend(path *Path, arena *VertexArena, scene Scene, ray geomcore.Ray, beta vmath.Vec3, dirPdf vmath.Pdf, maxBounces, rrDepth int, sampler *sampling.RewindableSampler, transport geomcore.TransportDirection) {
	bounces := 0
	for bounces < maxBounces {
		hit, ok := scene.Intersect(ray.Origin, ray.Direction, ray.MinT, ray.MaxT)
		if !ok {
			return
		}

		prev := path.Vertices[len(path.Vertices)-1]
		v := arena.Alloc()
		*v = Vertex{Kind: SurfaceVertex, Geom: hit.Geom, Beta: beta, Wi: ray.Direction.Negate()}

		prim := primitiveAt(scene, hit.PrimitiveIdx)
		if prim != nil && prim.IsLight() {
			v.Kind = LightVertex
			v.AreaLight = prim.Light
			v.LightIdx = -1
		}
		v.BSDF = bsdfAt(scene, hit.PrimitiveIdx)
		v.PdfForward = convertToArea(dirPdf, prev.Geom.P, v)
		path.Vertices = append(path.Vertices, v)
		bounces++

		if v.BSDF == nil {
			return
		}

		q := geomcore.DirectionQuery{Geom: v.Geom, Wi: v.Wi, Transport: transport, U1: sampler.Vec2(), U2: sampler.Float64()}
		sample := v.BSDF.SampleDirection(q)
		if !sample.Valid || sample.Pdf.Value <= 0 {
			return
		}
		v.IsSpecular = sample.Type.IsSpecular()

		cosWo := sample.Wo.AbsDot(v.Geom.Sn)
		solidPdf := toSolidAngle(sample.Pdf, cosWo)
		if solidPdf.Value <= 0 {
			return
		}
		f := v.BSDF.EvaluateDirection(geomcore.DirectionQuery{Geom: v.Geom, Wi: v.Wi, Wo: sample.Wo, Transport: transport})
		beta = beta.MulVec(f).Mul(cosWo / solidPdf.Value)
		if beta.IsZero() || !beta.IsFinite() {
			return
		}

		if !sample.Type.IsSpecular() {
			cosWi := v.Wi.AbsDot(v.Geom.Sn)
			revQ := geomcore.DirectionQuery{Geom: v.Geom, Wi: sample.Wo, Wo: v.Wi, Transport: reverseTransport(transport)}
			revPdf := toSolidAngle(v.BSDF.EvaluateDirectionPdf(revQ), cosWi)
			prev.PdfReverse = convertToArea(revPdf, v.Geom.P, prev)
		}

		if bounces >= rrDepth {
			q := math.Min(1, beta.MaxComponent())
			if sampler.Float64() >= q {
				return
			}
			beta = beta.Mul(1 / q)
		}

		dirPdf = solidPdf
		ray = geomcore.NewRay(v.Geom.P, sample.Wo)
	}
}

func reverseTransport(t geomcore.TransportDirection) geomcore.TransportDirection {
	if t == geomcore.EyeToLight {
		return geomcore.LightToEye
	}
	return geomcore.EyeToLight
}

func primitiveAt(scene Scene, idx int) *geomcore.Primitive {
	s, ok := scene.(*worldscene.Scene)
	if !ok || idx < 0 || idx >= len(s.Primitives) {
		return nil
	}
	return s.Primitives[idx]
}

func bsdfAt(scene Scene, idx int) geomcore.GBSDF {
	p := primitiveAt(scene, idx)
	if p == nil {
		return nil
	}
	return p.BSDF
}
