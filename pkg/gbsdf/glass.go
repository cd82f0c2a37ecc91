package gbsdf

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// Glass is a smooth dielectric interface, adapted from the teacher's
// material.Dielectric: Schlick-approximated Fresnel selects reflection
// vs. refraction, both delta events. EvaluateDirection scales a refracted
// direction by (eta_i/eta_t)^2 under EyeToLight transport, the standard
// adjoint BSDF correction for non-symmetric scattering at a refractive
// interface (PBRT §16.1).
type Glass struct {
	RefractiveIndex float64
}

func NewGlass(ior float64) Glass { return Glass{RefractiveIndex: ior} }

func (g Glass) Type() geomcore.BSDFType {
	return geomcore.Specular | geomcore.Reflection | geomcore.Transmission
}

func (g Glass) SampleDirection(q geomcore.DirectionQuery) geomcore.DirectionSample {
	entering := q.Wi.Dot(q.Geom.Gn) < 0
	n := q.Geom.Sn
	if !entering {
		n = n.Negate()
	}
	var eta float64
	if entering {
		eta = 1.0 / g.RefractiveIndex
	} else {
		eta = g.RefractiveIndex
	}

	unitWi := q.Wi.Negate().Normalize()
	cosTheta := math.Min(unitWi.Negate().Dot(n), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	cannotRefract := eta*sinTheta > 1.0

	var wo vmath.Vec3
	var transmitted bool
	if cannotRefract || schlick(cosTheta, eta) > q.U2 {
		wo = reflect(unitWi, n)
	} else {
		refracted, ok := refract(unitWi, n, eta)
		if !ok {
			wo = reflect(unitWi, n)
		} else {
			wo = refracted
			transmitted = true
		}
	}

	typ := geomcore.Specular | geomcore.Reflection
	if transmitted {
		typ = geomcore.Specular | geomcore.Transmission
	}
	return geomcore.DirectionSample{Wo: wo, Pdf: vmath.NewPdf(1, vmath.Discrete), Type: typ, Valid: true}
}

func (g Glass) EvaluateDirection(q geomcore.DirectionQuery) vmath.Vec3 {
	entering := q.Wi.Dot(q.Geom.Gn) < 0
	n := q.Geom.Sn
	if !entering {
		n = n.Negate()
	}
	var eta float64
	if entering {
		eta = 1.0 / g.RefractiveIndex
	} else {
		eta = g.RefractiveIndex
	}
	unitWi := q.Wi.Negate().Normalize()

	reflected := reflect(unitWi, n)
	if q.Wo.Sub(reflected).Length() < specularMatchTolerance {
		cosTheta := q.Wo.AbsDot(n)
		if cosTheta < vmath.Epsilon {
			return vmath.Vec3{}
		}
		return vmath.Vec3{X: 1, Y: 1, Z: 1}.Mul(1 / cosTheta)
	}

	refracted, ok := refract(unitWi, n, eta)
	if ok && q.Wo.Sub(refracted).Length() < specularMatchTolerance {
		cosTheta := q.Wo.AbsDot(n)
		if cosTheta < vmath.Epsilon {
			return vmath.Vec3{}
		}
		scale := 1.0
		if q.Transport == geomcore.EyeToLight {
			scale = eta * eta
		}
		return vmath.Vec3{X: 1, Y: 1, Z: 1}.Mul(scale / cosTheta)
	}
	return vmath.Vec3{}
}

func (g Glass) EvaluateDirectionPdf(q geomcore.DirectionQuery) vmath.Pdf {
	return vmath.NewPdf(0, vmath.Discrete)
}
