package geomcore

import (
	"math"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// AABB is an axis-aligned bounding box. The zero value is not the empty
// box; use EmptyAABB for the union identity (spec §3: empty has
// min=+inf, max=-inf).
type AABB struct {
	Min, Max vmath.Vec3
}

func EmptyAABB() AABB {
	inf := vmath.Infinity
	return AABB{
		Min: vmath.Vec3{X: inf, Y: inf, Z: inf},
		Max: vmath.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func NewAABB(min, max vmath.Vec3) AABB { return AABB{Min: min, Max: max} }

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: vmath.Vec3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: vmath.Vec3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b AABB) UnionPoint(p vmath.Vec3) AABB {
	return AABB{
		Min: vmath.Vec3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: vmath.Vec3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

func (b AABB) Center() vmath.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }
func (b AABB) Size() vmath.Vec3   { return b.Max.Sub(b.Min) }

func (b AABB) SurfaceArea() float64 {
	s := b.Size()
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return 0
	}
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

func (b AABB) LongestAxis() int {
	s := b.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

// Hit performs a scalar slab test of the ray against this one box.
func (b AABB) Hit(r Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1 / r.Direction.Component(axis)
		t0 := (b.Min.Component(axis) - r.Origin.Component(axis)) * invD
		t1 := (b.Max.Component(axis) - r.Origin.Component(axis)) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}
