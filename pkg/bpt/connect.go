package bpt

import (
	"math"

	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// ConnectionResult is the outcome of assembling and weighting one (s, t)
// full path (spec §4.5.2).
type ConnectionResult struct {
	Contribution vmath.Vec3
	Weight       float64

	// Raster/RasterValid are only set for the t==1 light-tracing
	// strategy, whose contribution lands on a film pixel other than the
	// one the eye subpath was traced through (spec §4.5.4 splat path).
	Raster      vmath.Vec2
	RasterValid bool
}

// Connect assembles the full path x_{s,t} from lightPath[:s] and
// cameraPath[:t], evaluates its unweighted contribution C*_{s,t}, and
// computes its MIS weight under the given heuristic (spec §4.5.2, §4.5.3). ok is
// false when the strategy is degenerate (no light in the scene, zero
// BSDF value, occluded, camera point out of frame).
func Connect(scene Scene, lightPath, cameraPath []*Vertex, s, t int, heuristic Heuristic) (ConnectionResult, bool) {
	switch {
	case t == 0:
		return ConnectionResult{}, false
	case s == 0:
		return connectEmissionHit(scene, cameraPath, t, heuristic)
	default:
		return connectGeneral(scene, lightPath, cameraPath, s, t, heuristic)
	}
}

// connectEmissionHit handles s==0: the eye subpath directly intersected
// an emitter, so the full path's only "connection" is the emission
// already recorded at cameraPath[t-1] by SampleCameraSubpath's extend loop. No
// new edge is introduced, but the light subpath's origin-sampling
// technique would have generated this same vertex with a different
// reverse density than the BSDF-scatter one extend's loop left behind, so
// pt's and (when t>=2) ptMinus's PdfReverse are overridden to the
// light-origin and light-emission-direction area PDFs before MISWeight
// runs, same as connectGeneral does for its own connecting edge.
func connectEmissionHit(scene Scene, cameraPath []*Vertex, t int, heuristic Heuristic) (ConnectionResult, bool) {
	pt := cameraPath[t-1]
	if pt.AreaLight == nil {
		return ConnectionResult{}, false
	}
	cosTheta := pt.Wi.Dot(pt.Geom.Gn)
	if cosTheta <= 0 {
		return ConnectionResult{}, false
	}
	le := pt.AreaLight.EvaluateDirection(geomcore.DirectionQuery{Geom: pt.Geom, Wo: pt.Wi})
	if le.IsZero() {
		return ConnectionResult{}, false
	}
	contribution := pt.Beta.MulVec(le)

	var ptMinus *Vertex
	if t >= 2 {
		ptMinus = cameraPath[t-2]
	}

	var saved []pdfOverride
	setPdfReverse(pt, lightOriginPdf(scene, pt), &saved)
	if ptMinus != nil {
		setPdfReverse(ptMinus, pt.pdfToward(nil, ptMinus), &saved)
	}

	weight := MISWeight(nil, cameraPath[:t], 0, t, heuristic)
	restorePdfReverse(saved)

	return ConnectionResult{Contribution: contribution, Weight: weight}, true
}

// connectGeneral handles every s>=1 strategy uniformly, including t==1
// (light tracing onto an arbitrary raster position via the camera's
// importance function) and s==1 (direct lighting, reusing the light
// subpath's own sampled vertex rather than resampling a fresh one).
func connectGeneral(scene Scene, lightPath, cameraPath []*Vertex, s, t int, heuristic Heuristic) (ConnectionResult, bool) {
	qs := lightPath[s-1]
	pt := cameraPath[t-1]
	// A subpath ends on an emitter hit that has no BSDF; nothing connects
	// through such a vertex.
	if (s > 1 && qs.BSDF == nil) || (t > 1 && pt.BSDF == nil) {
		return ConnectionResult{}, false
	}

	d := pt.Geom.P.Sub(qs.Geom.P)
	distSq := d.LengthSquared()
	if distSq <= 0 {
		return ConnectionResult{}, false
	}
	dist := math.Sqrt(distSq)
	dirToPt := d.Mul(1 / dist)
	dirToQs := dirToPt.Negate()

	var fLight vmath.Vec3
	if s == 1 {
		fLight = qs.AreaLight.EvaluateDirection(geomcore.DirectionQuery{Geom: qs.Geom, Wo: dirToPt})
	} else {
		fLight = qs.BSDF.EvaluateDirection(geomcore.DirectionQuery{Geom: qs.Geom, Wi: qs.Wi, Wo: dirToPt, Transport: geomcore.LightToEye})
	}
	if fLight.IsZero() {
		return ConnectionResult{}, false
	}

	var fEye vmath.Vec3
	var raster vmath.Vec2
	rasterValid := false
	if t == 1 {
		fEye = pt.Camera.EvaluateDirection(geomcore.DirectionQuery{Geom: pt.Geom, Wo: dirToQs})
		raster, rasterValid = pt.Camera.RayToRaster(qs.Geom.P, dirToPt)
		if !rasterValid {
			return ConnectionResult{}, false
		}
	} else {
		fEye = pt.BSDF.EvaluateDirection(geomcore.DirectionQuery{Geom: pt.Geom, Wi: pt.Wi, Wo: dirToQs, Transport: geomcore.EyeToLight})
	}
	if fEye.IsZero() {
		return ConnectionResult{}, false
	}

	if !scene.Unoccluded(qs.Geom.P, qs.Geom.Gn, pt.Geom.P, pt.Geom.Gn) {
		return ConnectionResult{}, false
	}

	g := dirToPt.AbsDot(qs.Geom.Gn) / distSq
	if t > 1 {
		g *= dirToQs.AbsDot(pt.Geom.Gn)
	}

	contribution := qs.Beta.MulVec(fLight).Mul(g).MulVec(fEye).MulVec(pt.Beta)
	if contribution.IsZero() || !contribution.IsFinite() {
		return ConnectionResult{}, false
	}

	var qsMinus, ptMinus *Vertex
	if s >= 2 {
		qsMinus = lightPath[s-2]
	}
	if t >= 2 {
		ptMinus = cameraPath[t-2]
	}

	var saved []pdfOverride
	setPdfReverse(pt, qs.pdfToward(qsMinus, pt), &saved)
	if ptMinus != nil {
		setPdfReverse(ptMinus, pt.pdfToward(qs, ptMinus), &saved)
	}
	setPdfReverse(qs, pt.pdfToward(ptMinus, qs), &saved)
	if qsMinus != nil {
		setPdfReverse(qsMinus, qs.pdfToward(pt, qsMinus), &saved)
	}

	weight := MISWeight(lightPath[:s], cameraPath[:t], s, t, heuristic)
	restorePdfReverse(saved)

	return ConnectionResult{Contribution: contribution, Weight: weight, Raster: raster, RasterValid: rasterValid}, true
}
