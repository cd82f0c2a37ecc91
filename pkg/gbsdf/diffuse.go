package gbsdf

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// Diffuse is a perfectly Lambertian surface, adapted from the teacher's
// material.Lambertian: cosine-weighted hemisphere sampling, BRDF =
// albedo/pi, PDF = cos(theta)/pi in projected-solid-angle measure.
type Diffuse struct {
	Albedo ColorSource
}

func NewDiffuse(albedo vmath.Vec3) Diffuse {
	return Diffuse{Albedo: NewSolidColor(albedo)}
}

func (d Diffuse) Type() geomcore.BSDFType { return geomcore.Diffuse | geomcore.Reflection }

func (d Diffuse) SampleDirection(q geomcore.DirectionQuery) geomcore.DirectionSample {
	localWo, pdf := sampling.CosineSampleHemisphere(q.U1)
	wo := q.Geom.ShadingToWorld.MulVec(localWo)
	if wo.Dot(q.Geom.Gn)*localWo.Z < 0 {
		return geomcore.DirectionSample{}
	}
	return geomcore.DirectionSample{Wo: wo, Pdf: pdf, Type: d.Type(), Valid: true}
}

func (d Diffuse) EvaluateDirection(q geomcore.DirectionQuery) vmath.Vec3 {
	if q.Wi.Dot(q.Geom.Gn)*q.Wo.Dot(q.Geom.Gn) <= 0 {
		return vmath.Vec3{}
	}
	albedo := d.Albedo.Evaluate(q.Geom.UV)
	brdf := albedo.Mul(vmath.InvPi)
	return brdf.Mul(cosineCorrection(q))
}

func (d Diffuse) EvaluateDirectionPdf(q geomcore.DirectionQuery) vmath.Pdf {
	if q.Wi.Dot(q.Geom.Gn)*q.Wo.Dot(q.Geom.Gn) <= 0 {
		return vmath.NewPdf(0, vmath.ProjectedSolidAngle)
	}
	localWo := q.Geom.WorldToShading.MulVec(q.Wo)
	return sampling.CosineHemispherePdf(math.Abs(localWo.Z))
}
