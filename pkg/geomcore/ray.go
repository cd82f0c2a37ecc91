// Package geomcore implements the scene-independent geometry primitives:
// rays, AABBs, surface-geometry and intersection records, triangle
// meshes, and scene-graph primitives (spec §3).
package geomcore

import "github.com/lumetra/pathbench/pkg/vmath"

// Ray is a ray with an origin, unit direction, and a mutable [MinT, MaxT]
// parametric interval. MaxT is tightened as nearer hits are found during
// acceleration-structure traversal (spec §4.2.2).
type Ray struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
	MinT      float64
	MaxT      float64
}

func NewRay(origin, direction vmath.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, MinT: vmath.Epsilon, MaxT: vmath.Infinity}
}

// NewRayBetween builds a shadow ray from `from` toward `to`, with MaxT
// tightened to just short of the target distance so grazing self-
// intersection at the target surface is not reported as an occluder.
func NewRayBetween(from, to vmath.Vec3) Ray {
	d := to.Sub(from)
	dist := d.Length()
	if dist == 0 {
		return Ray{Origin: from, Direction: vmath.Vec3{X: 0, Y: 0, Z: 1}, MinT: 0, MaxT: 0}
	}
	unit := d.Mul(1 / dist)
	return Ray{Origin: from, Direction: unit, MinT: vmath.Epsilon, MaxT: dist * (1 - vmath.LargeEps)}
}

func (r Ray) At(t float64) vmath.Vec3 { return r.Origin.Add(r.Direction.Mul(t)) }
