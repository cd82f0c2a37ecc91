// Package gbsdf implements the sealed, finite set of GBSDF/Emitter/Camera
// concrete types (spec §3, §9): surface scattering models adapted from
// the teacher's pkg/material, and the emitter/camera directional
// components adapted from pkg/lights and pkg/renderer/camera.go.
//
// Every type here implements geomcore.GBSDF (and, for area lights and
// cameras, the wider Emitter/Camera interfaces); the BPT core never
// type-switches on these concrete types, only on the interface, so the
// "sealed set" is a closed-world convention rather than an enforced
// language feature.
package gbsdf

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

func reflect(v, n vmath.Vec3) vmath.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

func refract(uv, n vmath.Vec3, etaiOverEtat float64) (vmath.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	k := 1.0 - rOutPerp.LengthSquared()
	if k < 0 {
		return vmath.Vec3{}, false
	}
	rOutParallel := n.Mul(-math.Sqrt(k))
	return rOutPerp.Add(rOutParallel), true
}

// schlick is the Fresnel reflectance approximation used by Glass.
func schlick(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// cosineCorrection applies the shading-normal adjoint correction factor
// (spec §4.5.2, "non-physical shading normals"): only active for
// LightToEye transport at non-specular vertices, it restores the energy
// balance that a shading normal diverging from the geometric normal would
// otherwise break under adjoint (light-to-eye) transport.
func cosineCorrection(q geomcore.DirectionQuery) float64 {
	if q.Transport != geomcore.LightToEye {
		return 1
	}
	g := q.Geom
	num := math.Abs(q.Wi.Dot(g.Gn)) * math.Abs(q.Wo.Dot(g.Sn))
	den := math.Abs(q.Wi.Dot(g.Sn)) * math.Abs(q.Wo.Dot(g.Gn))
	if den < vmath.Epsilon {
		return 0
	}
	return num / den
}
