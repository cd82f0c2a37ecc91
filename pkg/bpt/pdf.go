package bpt

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// pdfToward returns the area-measure PDF of having sampled the direction
// from v toward next, given that the path arrived at v from prev (prev
// may be nil for the subpath's origin vertex, in which case v's own Wi
// field supplies the arrival direction; the camera and area-light
// EvaluateDirectionPdf implementations ignore Wi entirely, so a nil
// arrival is only ever meaningful for those two vertex kinds). This is
// the building block ConnectBDPT-style reverse-density recomputation
// uses when grafting a new connecting edge onto an existing subpath
// (spec §4.5.2, §4.5.3), mirroring PBRT's Vertex::Pdf(scene, prev, next).
func (v *Vertex) pdfToward(prev *Vertex, next *Vertex) vmath.Pdf {
	wi := v.Wi
	if prev != nil {
		wi = prev.Geom.P.Sub(v.Geom.P).Normalize()
	}
	wo := next.Geom.P.Sub(v.Geom.P).Normalize()
	q := geomcore.DirectionQuery{Geom: v.Geom, Wi: wi, Wo: wo}

	var dirPdf vmath.Pdf
	switch {
	case v.BSDF != nil:
		dirPdf = v.BSDF.EvaluateDirectionPdf(q)
	case v.AreaLight != nil:
		dirPdf = v.AreaLight.EvaluateDirectionPdf(q)
	case v.Camera != nil:
		dirPdf = v.Camera.EvaluateDirectionPdf(q)
	default:
		return vmath.NewPdf(0, vmath.Area)
	}
	cosAtV := wo.AbsDot(v.Geom.Sn)
	return convertToArea(toSolidAngle(dirPdf, cosAtV), v.Geom.P, next)
}

// lightOriginPdf is the area-measure PDF vertex v would have carried had
// it been sampled as a light subpath's origin instead of hit by the eye
// subpath: the scene's selection probability for v's light times that
// light's own positional density at v.Geom (spec §4.5.3 "light origin
// pdf", the s==0 strategy's reverse-density override).
func lightOriginPdf(scene Scene, v *Vertex) vmath.Pdf {
	posPdf := v.AreaLight.EvaluatePositionPdf(v.Geom)
	selectPdf := lightSelectionPdfFor(scene, v.AreaLight)
	return vmath.NewPdf(posPdf.Value*selectPdf.Value, vmath.Area)
}

// lightSelectionPdfFor recovers a light's selection PDF from its Emitter
// value alone. extend doesn't retain a usable light index on an eye-path
// vertex that terminates on a light (Vertex.LightIdx is -1 there, since
// that field is only meaningful for a light subpath's own origin vertex),
// so the scene's handful of lights are scanned for the matching Emitter.
func lightSelectionPdfFor(scene Scene, light geomcore.Emitter) vmath.Pdf {
	for i := 0; i < scene.NumLights(); i++ {
		if scene.Light(i) == light {
			return scene.LightSelectionPdf(i)
		}
	}
	return vmath.NewPdf(0, vmath.Discrete)
}

// pdfOverride records a Vertex's PdfReverse before a connection strategy
// temporarily rewrites it for the MISWeight recurrence; restore undoes
// every override in reverse order once the weight has been computed, so
// the subpath's own vertices are left exactly as SampleCameraSubpath and
// SampleLightSubpath produced
// them for the next (s, t) enumerated against the same paths.
type pdfOverride struct {
	vertex *Vertex
	old    vmath.Pdf
}

func setPdfReverse(v *Vertex, pdf vmath.Pdf, saved *[]pdfOverride) {
	*saved = append(*saved, pdfOverride{vertex: v, old: v.PdfReverse})
	v.PdfReverse = pdf
}

func restorePdfReverse(saved []pdfOverride) {
	for i := len(saved) - 1; i >= 0; i-- {
		saved[i].vertex.PdfReverse = saved[i].old
	}
}
