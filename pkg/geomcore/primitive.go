package geomcore

import "github.com/lumetra/pathbench/pkg/vmath"

// Primitive is a scene node: a world transform plus at most one of
// {Camera, Light} and an optional Mesh/BSDF pair (spec §3). Primitives
// are owned by the Scene and addressed by a stable 0..N-1 index.
type Primitive struct {
	Transform        vmath.Mat4
	InverseTranspose vmath.Mat3 // transform.InverseTranspose3(), cached at scene build

	Mesh *Mesh
	BSDF GBSDF

	Camera Camera
	Light  Emitter
}

func (p *Primitive) IsCamera() bool { return p.Camera != nil }
func (p *Primitive) IsLight() bool  { return p.Light != nil }

// WorldBounds returns the AABB of the primitive's mesh under its
// transform; primitives without a mesh (pure camera/light nodes with no
// finite-area emitter shape) return an empty box.
func (p *Primitive) WorldBounds() AABB {
	if p.Mesh == nil {
		return EmptyAABB()
	}
	b := EmptyAABB()
	for _, pos := range p.Mesh.Positions {
		b = b.UnionPoint(p.Transform.MulPoint(pos))
	}
	return b
}

// WorldSurfaceArea returns the surface area of the primitive's mesh
// under its transform, used to weight light selection (spec §4.3). It
// sums the exact areas of the transformed triangles, so it holds for any
// affine transform, including non-uniform scale.
func (p *Primitive) WorldSurfaceArea() float64 {
	if p.Mesh == nil {
		return 0
	}
	var area float64
	for _, f := range p.Mesh.Faces {
		p0, p1, p2 := p.Mesh.FacePositions(f)
		wp0 := p.Transform.MulPoint(p0)
		wp1 := p.Transform.MulPoint(p1)
		wp2 := p.Transform.MulPoint(p2)
		area += 0.5 * wp1.Sub(wp0).Cross(wp2.Sub(wp0)).Length()
	}
	return area
}
