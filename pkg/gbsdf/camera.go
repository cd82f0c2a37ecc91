package gbsdf

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/sampling"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// ThinLensCamera generalizes the teacher's renderer.Camera (origin +
// basis-vector viewport rectangle) with a finite lens radius for depth
// of field; LensRadius 0 degenerates to the teacher's pinhole case.
type ThinLensCamera struct {
	Origin          vmath.Vec3
	LowerLeftCorner vmath.Vec3
	Horizontal      vmath.Vec3
	Vertical        vmath.Vec3
	U, V, W         vmath.Vec3 // camera basis (right, up, back)
	LensRadius      float64
	FocusDistance   float64
}

// NewThinLensCamera builds a camera from the lookfrom/lookat/vup/vfov
// convention, focusDist in world units and aperture as the lens
// diameter (aperture/2 = LensRadius).
func NewThinLensCamera(lookFrom, lookAt, vup vmath.Vec3, vfovDegrees, aspectRatio, aperture, focusDist float64) *ThinLensCamera {
	theta := vfovDegrees * vmath.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h
	viewportWidth := aspectRatio * viewportHeight

	w := lookFrom.Sub(lookAt).Normalize()
	u := vup.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Mul(viewportWidth * focusDist)
	vertical := v.Mul(viewportHeight * focusDist)
	lowerLeft := lookFrom.Sub(horizontal.Mul(0.5)).Sub(vertical.Mul(0.5)).Sub(w.Mul(focusDist))

	return &ThinLensCamera{
		Origin: lookFrom, LowerLeftCorner: lowerLeft,
		Horizontal: horizontal, Vertical: vertical,
		U: u, V: v, W: w,
		LensRadius: aperture / 2, FocusDistance: focusDist,
	}
}

func (c *ThinLensCamera) Type() geomcore.BSDFType { return geomcore.EyeDirection }

// SamplePosition draws a point on the (possibly zero-radius) lens disk;
// for a pinhole (LensRadius == 0) this always returns Origin with a
// Discrete-measure unit PDF.
func (c *ThinLensCamera) SamplePosition(u vmath.Vec2) (geomcore.SurfaceGeometry, vmath.Pdf) {
	if c.LensRadius <= 0 {
		return geomcore.DegenerateSurfaceGeometry(c.Origin), vmath.NewPdf(1, vmath.Discrete)
	}
	rd := sampling.ConcentricSampleDisk(u).Mul(c.LensRadius)
	offset := c.U.Mul(rd.X).Add(c.V.Mul(rd.Y))
	p := c.Origin.Add(offset)
	area := vmath.Pi * c.LensRadius * c.LensRadius
	geom := geomcore.NewSurfaceGeometry(p, c.W.Negate(), c.W.Negate(), vmath.Vec2{})
	return geom, vmath.NewPdf(1/area, vmath.Area)
}

func (c *ThinLensCamera) EvaluatePosition(g geomcore.SurfaceGeometry) vmath.Vec3 {
	return vmath.Vec3{X: 1, Y: 1, Z: 1}
}

func (c *ThinLensCamera) EvaluatePositionPdf(g geomcore.SurfaceGeometry) vmath.Pdf {
	if c.LensRadius <= 0 {
		return vmath.NewPdf(1, vmath.Discrete)
	}
	area := vmath.Pi * c.LensRadius * c.LensRadius
	return vmath.NewPdf(1/area, vmath.Area)
}

// RayToRaster projects world point p (seen from the camera) back onto
// raster space [0,1]^2, inverting GenerateRay's basis-vector mapping.
func (c *ThinLensCamera) RayToRaster(p vmath.Vec3, d vmath.Vec3) (vmath.Vec2, bool) {
	toPlane := p.Sub(c.Origin)
	denom := c.W.Negate().Dot(d.Negate())
	if denom <= 0 {
		return vmath.Vec2{}, false
	}
	rel := toPlane.Sub(c.LowerLeftCorner.Sub(c.Origin))
	hLen := c.Horizontal.Length()
	vLen := c.Vertical.Length()
	s := rel.Dot(c.Horizontal.Normalize()) / hLen
	t := rel.Dot(c.Vertical.Normalize()) / vLen
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return vmath.Vec2{}, false
	}
	return vmath.Vec2{X: s, Y: t}, true
}

// GenerateRay spawns a primary ray through raster position px (0,0 =
// bottom-left, matching the teacher's GetRay(s,t) convention), offsetting
// the origin by a sampled lens point when LensRadius > 0 (spec §4.5.1,
// "camera subpath x0"). The returned Pdf is the same solid-angle density
// EvaluateDirectionPdf would report for this direction, so a t==1
// light-tracing connection (which samples the camera's importance
// independently, see EvaluateDirection) composes correctly with this
// subpath's own forward density in the MIS ratio recurrence.
func (c *ThinLensCamera) GenerateRay(px vmath.Vec2, lensU vmath.Vec2) (geomcore.Ray, vmath.Pdf) {
	origin := c.Origin
	if c.LensRadius > 0 {
		rd := sampling.ConcentricSampleDisk(lensU).Mul(c.LensRadius)
		origin = origin.Add(c.U.Mul(rd.X)).Add(c.V.Mul(rd.Y))
	}
	target := c.LowerLeftCorner.Add(c.Horizontal.Mul(px.X)).Add(c.Vertical.Mul(px.Y))
	dir := target.Sub(origin).Normalize()
	return geomcore.NewRay(origin, dir), c.directionPdf(dir)
}

func (c *ThinLensCamera) SampleDirection(q geomcore.DirectionQuery) geomcore.DirectionSample {
	return geomcore.DirectionSample{}
}

// imagePlaneArea is the image rectangle's area at unit distance along
// the camera's forward axis (Horizontal/Vertical are already scaled by
// FocusDistance, so that scale is divided back out), matching the area
// term in a standard perspective-camera importance function.
func (c *ThinLensCamera) imagePlaneArea() float64 {
	hLen := c.Horizontal.Length() / c.FocusDistance
	vLen := c.Vertical.Length() / c.FocusDistance
	return hLen * vLen
}

func (c *ThinLensCamera) lensArea() float64 {
	if c.LensRadius <= 0 {
		return 1
	}
	return vmath.Pi * c.LensRadius * c.LensRadius
}

func (c *ThinLensCamera) directionPdf(wo vmath.Vec3) vmath.Pdf {
	cosTheta := wo.Dot(c.W.Negate())
	if cosTheta <= 0 {
		return vmath.NewPdf(0, vmath.SolidAngle)
	}
	return vmath.NewPdf(1/(c.imagePlaneArea()*cosTheta*cosTheta*cosTheta), vmath.SolidAngle)
}

// EvaluateDirection is the pinhole/thin-lens camera's importance
// function We(wo) (spec §9, only exercised by the t==1 light-tracing
// connection strategy in pkg/bpt): standard perspective-camera
// derivation, 1/(A * lensArea * cosTheta^4), where A is imagePlaneArea.
func (c *ThinLensCamera) EvaluateDirection(q geomcore.DirectionQuery) vmath.Vec3 {
	cosTheta := q.Wo.Dot(c.W.Negate())
	if cosTheta <= 0 {
		return vmath.Vec3{}
	}
	we := 1 / (c.imagePlaneArea() * c.lensArea() * cosTheta * cosTheta * cosTheta * cosTheta)
	return vmath.Vec3{X: we, Y: we, Z: we}
}

func (c *ThinLensCamera) EvaluateDirectionPdf(q geomcore.DirectionQuery) vmath.Pdf {
	return c.directionPdf(q.Wo)
}
