package qbvh

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

const stackSize = 64

// Hit is the result of a nearest-hit Intersect query: enough to rebuild a
// geomcore.Intersection without re-touching the leaf payload.
type Hit struct {
	T              float64
	B1, B2         float64
	PrimitiveIndex int32
	FaceIndex      int32
}

// Intersect walks the tree with a fixed 64-slot explicit stack, testing
// all four children of a node against the ray's slab bounds before
// pushing the ones the ray can reach (spec §4.2.2). Child push order is
// unordered front-to-back; soundness only requires ray.MaxT to monotonically
// tighten, which it does since every leaf test clamps tMax on a strictly
// closer hit.
func (a *Accel) Intersect(origin, dir vmath.Vec3, tMin, tMax float64) (Hit, bool) {
	if a.Empty {
		return Hit{}, false
	}

	invX, invY, invZ := safeInv(dir.X), safeInv(dir.Y), safeInv(dir.Z)

	var stack [stackSize]uint32
	sp := 0
	stack[sp] = 0
	sp++

	bestT := tMax
	var best Hit
	found := false

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		n := &a.Nodes[nodeIdx]

		for c := 0; c < 4; c++ {
			child := n.Children[c]
			if child == emptyChild {
				continue
			}
			t0x := (n.BoundsMin[0][c] - origin.X) * invX
			t1x := (n.BoundsMax[0][c] - origin.X) * invX
			if invX < 0 {
				t0x, t1x = t1x, t0x
			}
			t0y := (n.BoundsMin[1][c] - origin.Y) * invY
			t1y := (n.BoundsMax[1][c] - origin.Y) * invY
			if invY < 0 {
				t0y, t1y = t1y, t0y
			}
			t0z := (n.BoundsMin[2][c] - origin.Z) * invZ
			t1z := (n.BoundsMax[2][c] - origin.Z) * invZ
			if invZ < 0 {
				t0z, t1z = t1z, t0z
			}

			tEnter := tMin
			if t0x > tEnter {
				tEnter = t0x
			}
			if t0y > tEnter {
				tEnter = t0y
			}
			if t0z > tEnter {
				tEnter = t0z
			}
			tExit := bestT
			if t1x < tExit {
				tExit = t1x
			}
			if t1y < tExit {
				tExit = t1y
			}
			if t1z < tExit {
				tExit = t1z
			}
			if tEnter > tExit {
				continue
			}

			if child&leafBit != 0 {
				count := int((child&countMask)>>countShift) + 1
				offset := int(child & offsetMask)
				if hit, ok := a.intersectLeaf(a.Mode, offset, count, origin, dir, tMin, bestT); ok {
					bestT = hit.T
					best = hit
					found = true
				}
				continue
			}

			if sp < stackSize {
				stack[sp] = child
				sp++
			}
		}
	}

	return best, found
}

func (a *Accel) intersectLeaf(mode Mode, offset, count int, origin, dir vmath.Vec3, tMin, tMax float64) (Hit, bool) {
	switch mode {
	case QuadMode:
		bestT := tMax
		var best Hit
		found := false
		for i := 0; i < count; i++ {
			q := a.Quads[offset+i]
			lane, t, b1, b2, ok := q.Hit(origin, dir, tMin, bestT)
			if !ok {
				continue
			}
			br := a.QuadBackRefs[offset+i][lane]
			bestT = t
			best = Hit{T: t, B1: b1, B2: b2, PrimitiveIndex: br.PrimitiveIndex, FaceIndex: br.FaceIndex}
			found = true
		}
		return best, found
	default: // ScalarMode
		bestT := tMax
		var best Hit
		found := false
		for i := 0; i < count; i++ {
			lt := a.Tris[offset+i]
			t, b1, b2, ok := lt.Accel.Hit(origin, dir, tMin, bestT)
			if !ok {
				continue
			}
			bestT = t
			best = Hit{T: t, B1: b1, B2: b2, PrimitiveIndex: lt.PrimitiveIndex, FaceIndex: lt.FaceIndex}
			found = true
		}
		return best, found
	}
}

// IntersectP is the shadow-ray ("does anything occlude") variant: it
// returns as soon as any leaf primitive reports a hit inside [tMin,tMax],
// without tracking the nearest one.
func (a *Accel) IntersectP(origin, dir vmath.Vec3, tMin, tMax float64) bool {
	if a.Empty {
		return false
	}
	invX, invY, invZ := safeInv(dir.X), safeInv(dir.Y), safeInv(dir.Z)

	var stack [stackSize]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		n := &a.Nodes[nodeIdx]

		for c := 0; c < 4; c++ {
			child := n.Children[c]
			if child == emptyChild {
				continue
			}
			t0x := (n.BoundsMin[0][c] - origin.X) * invX
			t1x := (n.BoundsMax[0][c] - origin.X) * invX
			if invX < 0 {
				t0x, t1x = t1x, t0x
			}
			t0y := (n.BoundsMin[1][c] - origin.Y) * invY
			t1y := (n.BoundsMax[1][c] - origin.Y) * invY
			if invY < 0 {
				t0y, t1y = t1y, t0y
			}
			t0z := (n.BoundsMin[2][c] - origin.Z) * invZ
			t1z := (n.BoundsMax[2][c] - origin.Z) * invZ
			if invZ < 0 {
				t0z, t1z = t1z, t0z
			}
			tEnter := tMin
			if t0x > tEnter {
				tEnter = t0x
			}
			if t0y > tEnter {
				tEnter = t0y
			}
			if t0z > tEnter {
				tEnter = t0z
			}
			tExit := tMax
			if t1x < tExit {
				tExit = t1x
			}
			if t1y < tExit {
				tExit = t1y
			}
			if t1z < tExit {
				tExit = t1z
			}
			if tEnter > tExit {
				continue
			}

			if child&leafBit != 0 {
				count := int((child&countMask)>>countShift) + 1
				offset := int(child & offsetMask)
				if leafAnyHit(a, offset, count, origin, dir, tMin, tMax) {
					return true
				}
				continue
			}
			if sp < stackSize {
				stack[sp] = child
				sp++
			}
		}
	}
	return false
}

func leafAnyHit(a *Accel, offset, count int, origin, dir vmath.Vec3, tMin, tMax float64) bool {
	switch a.Mode {
	case QuadMode:
		for i := 0; i < count; i++ {
			if _, _, _, _, ok := a.Quads[offset+i].Hit(origin, dir, tMin, tMax); ok {
				return true
			}
		}
	default:
		for i := 0; i < count; i++ {
			if _, _, _, ok := a.Tris[offset+i].Accel.Hit(origin, dir, tMin, tMax); ok {
				return true
			}
		}
	}
	return false
}

func safeInv(d float64) float64 {
	if d == 0 {
		if 1/d > 0 {
			return vmath.Infinity
		}
		return -vmath.Infinity
	}
	return 1 / d
}

// WorldBounds returns the AABB of the root node's populated children,
// used to validate the accelerator's top-level bounds invariant
// (spec §8, "accelerator bounds must contain every input triangle").
func (a *Accel) WorldBounds() geomcore.AABB {
	b := geomcore.EmptyAABB()
	if len(a.Nodes) == 0 {
		return b
	}
	root := a.Nodes[0]
	for c := 0; c < 4; c++ {
		if root.Children[c] == emptyChild {
			continue
		}
		b = b.Union(geomcore.AABB{
			Min: vmath.Vec3{X: root.BoundsMin[0][c], Y: root.BoundsMin[1][c], Z: root.BoundsMin[2][c]},
			Max: vmath.Vec3{X: root.BoundsMax[0][c], Y: root.BoundsMax[1][c], Z: root.BoundsMax[2][c]},
		})
	}
	return b
}
