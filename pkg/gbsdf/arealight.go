package gbsdf

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// AreaLight is a diffuse (Lambertian) emitter bound to a primitive's
// transformed mesh, adapted from the teacher's lights.QuadLight/
// lights.SphereLight family generalized to an arbitrary triangle mesh:
// position sampling picks a face proportional to its world-space area
// (pkg's Distribution1D) and a uniform point within it, while the
// directional component emits cosine-weighted about the geometric
// normal, mirroring material.Emissive plus lights.QuadLight.SampleEmission.
type AreaLight struct {
	Mesh      *geomcore.Mesh
	Transform vmath.Mat4
	Radiance  vmath.Vec3

	faceDist sampling.Distribution1D
	area     float64
}

// NewAreaLight builds the per-face area CDF once at scene-build time.
func NewAreaLight(mesh *geomcore.Mesh, transform vmath.Mat4, radiance vmath.Vec3) *AreaLight {
	weights := make([]float64, mesh.NumFaces())
	var total float64
	for i, f := range mesh.Faces {
		p0, p1, p2 := mesh.FacePositions(f)
		wp0 := transform.MulPoint(p0)
		wp1 := transform.MulPoint(p1)
		wp2 := transform.MulPoint(p2)
		a := 0.5 * wp1.Sub(wp0).Cross(wp2.Sub(wp0)).Length()
		weights[i] = a
		total += a
	}
	return &AreaLight{
		Mesh: mesh, Transform: transform, Radiance: radiance,
		faceDist: sampling.NewDistribution1D(weights), area: total,
	}
}

func (l *AreaLight) Type() geomcore.BSDFType { return geomcore.Diffuse | geomcore.LightDirection }

// SamplePosition draws a uniform point on the light's surface: u.X
// selects the face via the area CDF, and the reparameterized remainder
// of that draw (not u.X itself, which is now correlated with the face
// choice) drives UniformSampleTriangle's barycentric draw within it.
func (l *AreaLight) SamplePosition(u vmath.Vec2) (geomcore.SurfaceGeometry, vmath.Pdf) {
	faceIdx, facePdf, uRemap := l.faceDist.SampleDiscrete(u.X)
	if faceIdx < 0 {
		return geomcore.DegenerateSurfaceGeometry(vmath.Vec3{}), vmath.NewPdf(0, vmath.Area)
	}
	face := l.Mesh.Faces[faceIdx]
	p0, p1, p2 := l.Mesh.FacePositions(face)
	b0, b1 := sampling.UniformSampleTriangle(vmath.Vec2{X: uRemap, Y: u.Y})
	b2 := 1 - b0 - b1
	local := p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
	world := l.Transform.MulPoint(local)
	gn := l.Mesh.GeometricNormal(face)
	worldGn := l.Transform.InverseTranspose3().MulVec(gn).Normalize()
	geom := geomcore.NewSurfaceGeometry(world, worldGn, worldGn, vmath.Vec2{})
	pdf := vmath.NewPdf(facePdf.Value/faceArea(l.Mesh, face, l.Transform), vmath.Area)
	return geom, pdf
}

func faceArea(mesh *geomcore.Mesh, f geomcore.Face, transform vmath.Mat4) float64 {
	p0, p1, p2 := mesh.FacePositions(f)
	wp0 := transform.MulPoint(p0)
	wp1 := transform.MulPoint(p1)
	wp2 := transform.MulPoint(p2)
	return 0.5 * wp1.Sub(wp0).Cross(wp2.Sub(wp0)).Length()
}

func (l *AreaLight) EvaluatePosition(g geomcore.SurfaceGeometry) vmath.Vec3 {
	return l.Radiance
}

func (l *AreaLight) EvaluatePositionPdf(g geomcore.SurfaceGeometry) vmath.Pdf {
	if l.area <= 0 {
		return vmath.NewPdf(0, vmath.Area)
	}
	return vmath.NewPdf(1/l.area, vmath.Area)
}

// SampleDirection draws a cosine-weighted emission direction about the
// geometric normal (Lambertian emitter, spec §3).
func (l *AreaLight) SampleDirection(q geomcore.DirectionQuery) geomcore.DirectionSample {
	localWo, pdf := sampling.CosineSampleHemisphere(q.U1)
	wo := q.Geom.ShadingToWorld.MulVec(localWo)
	return geomcore.DirectionSample{Wo: wo, Pdf: pdf, Type: l.Type(), Valid: true}
}

func (l *AreaLight) EvaluateDirection(q geomcore.DirectionQuery) vmath.Vec3 {
	cosTheta := q.Wo.Dot(q.Geom.Gn)
	if cosTheta <= 0 {
		return vmath.Vec3{}
	}
	return l.Radiance
}

func (l *AreaLight) EvaluateDirectionPdf(q geomcore.DirectionQuery) vmath.Pdf {
	cosTheta := q.Wo.Dot(q.Geom.Gn)
	if cosTheta <= 0 {
		return vmath.NewPdf(0, vmath.ProjectedSolidAngle)
	}
	return sampling.CosineHemispherePdf(cosTheta)
}
