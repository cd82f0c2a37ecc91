package geomcore

import "github.com/lumetra/pathbench/pkg/vmath"

// SurfaceGeometry is the record produced at an intersection (spec §3).
type SurfaceGeometry struct {
	P  vmath.Vec3 // world position
	Gn vmath.Vec3 // geometric normal
	Sn vmath.Vec3 // shading normal
	Ss vmath.Vec3 // shading tangent
	St vmath.Vec3 // shading bitangent
	UV vmath.Vec2

	WorldToShading vmath.Mat3
	ShadingToWorld vmath.Mat3

	// Degenerate is set when the positional geometry has no well-defined
	// tangent frame (e.g. environment sampling, which this engine does
	// not implement, or a zero-area source).
	Degenerate bool
}

// NewSurfaceGeometry builds the orthonormal frame from a shading normal,
// constructing (Ss, St) via FrameFromNormal so that cross(ss, sn) == st
// (spec §4.3).
func NewSurfaceGeometry(p, gn, sn vmath.Vec3, uv vmath.Vec2) SurfaceGeometry {
	ss, st := vmath.FrameFromNormal(sn)
	w2s := vmath.WorldToShading(ss.Vec3, sn, st.Vec3)
	return SurfaceGeometry{
		P: p, Gn: gn, Sn: sn, Ss: ss.Vec3, St: st.Vec3, UV: uv,
		WorldToShading: w2s,
		ShadingToWorld: w2s.Transpose(),
	}
}

// DegenerateSurfaceGeometry returns a SurfaceGeometry with the Degenerate
// flag set, used by positional samples that have no physical tangent
// frame (spec §3).
func DegenerateSurfaceGeometry(p vmath.Vec3) SurfaceGeometry {
	return SurfaceGeometry{P: p, Degenerate: true}
}

// Intersection is a SurfaceGeometry plus the identity of the hit primitive.
type Intersection struct {
	Geom          SurfaceGeometry
	PrimitiveIdx  int
	FaceIdx       int
	T             float64
}
