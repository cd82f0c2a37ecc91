package gbsdf

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

const specularMatchTolerance = 1e-3

// Mirror is a perfect specular reflector, adapted from the teacher's
// material.Metal with Fuzzness pinned to zero: its PDF is a delta
// function (Discrete measure, weight 1) so the BPT core never attempts
// to connect through it directly and instead folds it into the adjacent
// ratio term (spec §4.5.3).
type Mirror struct {
	Albedo vmath.Vec3
}

func NewMirror(albedo vmath.Vec3) Mirror { return Mirror{Albedo: albedo} }

func (m Mirror) Type() geomcore.BSDFType { return geomcore.Specular | geomcore.Reflection }

func (m Mirror) SampleDirection(q geomcore.DirectionQuery) geomcore.DirectionSample {
	wo := reflect(q.Wi.Negate(), q.Geom.Sn)
	if wo.Dot(q.Geom.Gn) <= 0 {
		return geomcore.DirectionSample{}
	}
	return geomcore.DirectionSample{
		Wo:    wo,
		Pdf:   vmath.NewPdf(1, vmath.Discrete),
		Type:  m.Type(),
		Valid: true,
	}
}

// EvaluateDirection returns Albedo/|cos(wo,sn)| when Wo matches the
// perfect-reflection direction within tolerance, and zero otherwise. The
// 1/|cosTheta| factor is the standard delta-BSDF convention (PBRT §8.2.2)
// that lets the BPT path-weight recurrence apply its uniform
// f*|cosTheta|/pdf formula to specular vertices without a special case:
// since Pdf is a unit-weight Discrete measure, the result cancels back to
// exactly Albedo.
func (m Mirror) EvaluateDirection(q geomcore.DirectionQuery) vmath.Vec3 {
	reflected := reflect(q.Wi.Negate(), q.Geom.Sn)
	if q.Wo.Sub(reflected).Length() > specularMatchTolerance {
		return vmath.Vec3{}
	}
	cosTheta := q.Wo.AbsDot(q.Geom.Sn)
	if cosTheta < vmath.Epsilon {
		return vmath.Vec3{}
	}
	return m.Albedo.Mul(1 / cosTheta)
}

func (m Mirror) EvaluateDirectionPdf(q geomcore.DirectionQuery) vmath.Pdf {
	return vmath.NewPdf(0, vmath.Discrete)
}
