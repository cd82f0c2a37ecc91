package geomcore

import "github.com/lumetra/pathbench/pkg/vmath"

// TransportDirection selects the adjoint branch of a GBSDF evaluation
// (spec §3, §9 "Transport direction").
type TransportDirection int

const (
	LightToEye TransportDirection = iota
	EyeToLight
)

// BSDFType is a bitflag set describing the kind of scattering event a
// GBSDF sample produced (spec §3).
type BSDFType uint32

const (
	Diffuse BSDFType = 1 << iota
	Specular
	Glossy
	Reflection
	Transmission
	LightDirection
	EyeDirection
)

func (t BSDFType) Has(flag BSDFType) bool { return t&flag != 0 }

// IsSpecular reports whether the sampled type is a delta (specular)
// scattering event, which cannot be evaluated/connected to directly and
// must be folded into the adjacent MIS ratio instead (spec §4.5.3).
func (t BSDFType) IsSpecular() bool { return t.Has(Specular) }

// DirectionQuery bundles the inputs to a GBSDF direction sample/eval:
// the surface geometry at the vertex, the known direction (wi for
// sampling, or both wi/wo for evaluation), the transport direction, and
// the uniform variates driving the sample.
type DirectionQuery struct {
	Geom      SurfaceGeometry
	Wi        vmath.Vec3 // incident direction (world space, points away from surface)
	Wo        vmath.Vec3 // outgoing direction, set by the caller for Evaluate*, ignored for Sample
	Transport TransportDirection
	U1        vmath.Vec2 // primary sample for direction selection
	U2        float64    // secondary scalar sample (e.g. component selection)
}

// DirectionSample is the result of GBSDF.SampleDirection.
type DirectionSample struct {
	Wo      vmath.Vec3
	Pdf     vmath.Pdf // ProjectedSolidAngle (Diffuse, AreaLight), SolidAngle (camera), or Discrete (Mirror, Glass)
	Type    BSDFType
	Valid   bool
}

// GBSDF is the unified interface covering surface BSDFs and the
// directional components of emitters and sensors (spec §3 "Generalized
// BSDF"). Concrete implementations are a sealed, finite set (pkg/gbsdf);
// this interface is the only thing the BPT core depends on, so those
// implementations can be freely inlined/monomorphized by the Go compiler
// at each call site (spec §9 "Virtual GBSDF interface").
type GBSDF interface {
	SampleDirection(q DirectionQuery) DirectionSample
	EvaluateDirection(q DirectionQuery) vmath.Vec3
	EvaluateDirectionPdf(q DirectionQuery) vmath.Pdf
	Type() BSDFType
}

// Emitter extends GBSDF with positional sampling (spec §3).
type Emitter interface {
	GBSDF
	SamplePosition(u vmath.Vec2) (SurfaceGeometry, vmath.Pdf)
	EvaluatePosition(g SurfaceGeometry) vmath.Vec3
	EvaluatePositionPdf(g SurfaceGeometry) vmath.Pdf
}

// Camera is the sensor-side counterpart: a GBSDF over EyeDirection plus
// the raster/importance machinery the BPT driver needs to turn a
// connection into a film splat (spec §4.5.2, §4.5.4).
type Camera interface {
	GBSDF
	// SamplePosition returns the camera's (possibly degenerate, for a
	// pinhole) positional sample and an area/Discrete Pdf, mirroring
	// Emitter.SamplePosition for symmetry between SampleCameraSubpath and
	// SampleLightSubpath (spec §4.5.1).
	SamplePosition(u vmath.Vec2) (SurfaceGeometry, vmath.Pdf)
	// RayToRaster projects a world-space point as seen from the camera's
	// position in direction d onto raster space [0,1]^2; ok is false
	// when the point falls outside the view frustum or behind the lens.
	RayToRaster(p vmath.Vec3, d vmath.Vec3) (raster vmath.Vec2, ok bool)
	// GenerateRay spawns a primary ray through raster position px (in
	// [0,1]^2) and returns it along with the importance-sampling Pdf
	// of that ray's direction (used by EyeToLight subpath construction).
	GenerateRay(px vmath.Vec2, lensU vmath.Vec2) (Ray, vmath.Pdf)
}
