package sampling

import (
	"math"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// ConcentricSampleDisk maps u in [0,1)^2 to a point on the unit disk
// using Shirley's concentric mapping (avoids the polar-mapping density
// distortion near the origin).
func ConcentricSampleDisk(u vmath.Vec2) vmath.Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return vmath.Vec2{}
	}
	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (vmath.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (vmath.Pi / 2) - (vmath.Pi/4)*(ox/oy)
	}
	return vmath.Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// CosineSampleHemisphere draws a direction about +Z with PDF cos(theta)/pi
// in projected-solid-angle measure, i.e. a constant 1/pi (spec §4.4).
func CosineSampleHemisphere(u vmath.Vec2) (vmath.Vec3, vmath.Pdf) {
	d := ConcentricSampleDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return vmath.Vec3{X: d.X, Y: d.Y, Z: z}, vmath.NewPdf(vmath.InvPi, vmath.ProjectedSolidAngle)
}

// CosineHemispherePdf returns the PDF (projected solid angle measure) of
// the cosine-weighted hemisphere sampling above, given cosTheta.
func CosineHemispherePdf(cosTheta float64) vmath.Pdf {
	return vmath.NewPdf(vmath.InvPi, vmath.ProjectedSolidAngle)
}

// UniformSampleHemisphere draws a direction about +Z uniformly in solid
// angle, PDF = 1/(2*pi).
func UniformSampleHemisphere(u vmath.Vec2) (vmath.Vec3, vmath.Pdf) {
	z := u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * vmath.Pi * u.Y
	return vmath.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}, vmath.NewPdf(vmath.Inv2Pi, vmath.SolidAngle)
}

// UniformSampleSphere draws a direction over the full sphere uniformly in
// solid angle, PDF = 1/(4*pi).
func UniformSampleSphere(u vmath.Vec2) (vmath.Vec3, vmath.Pdf) {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * vmath.Pi * u.Y
	return vmath.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}, vmath.NewPdf(1/(4*vmath.Pi), vmath.SolidAngle)
}

// UniformSampleTriangle returns barycentric coordinates (b0, b1; b2 =
// 1-b0-b1) uniformly distributed over a triangle, via the standard
// sqrt-remapping.
func UniformSampleTriangle(u vmath.Vec2) (b0, b1 float64) {
	su0 := math.Sqrt(u.X)
	b0 = 1 - su0
	b1 = u.Y * su0
	return b0, b1
}
