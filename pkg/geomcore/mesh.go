package geomcore

import "github.com/lumetra/pathbench/pkg/vmath"

// Face is a triangle's three 0-based indices into a Mesh's vertex arrays.
type Face struct {
	I0, I1, I2 int32
}

// Mesh is an immutable-after-load triangle mesh (spec §3). Positions are
// required; normals and UVs fall back to a flat-shaded / zero default
// when absent so every mesh, however loaded, satisfies the same
// capability surface.
type Mesh struct {
	Positions []vmath.Vec3
	Normals   []vmath.Vec3
	UVs       []vmath.Vec2
	Faces     []Face
}

func (m *Mesh) NumVertices() int { return len(m.Positions) }
func (m *Mesh) NumFaces() int    { return len(m.Faces) }

func (m *Mesh) Position(i int32) vmath.Vec3 { return m.Positions[i] }

func (m *Mesh) Normal(i int32) vmath.Vec3 {
	if len(m.Normals) == 0 {
		return vmath.Vec3{}
	}
	return m.Normals[i]
}

func (m *Mesh) UV(i int32) vmath.Vec2 {
	if len(m.UVs) == 0 {
		return vmath.Vec2{}
	}
	return m.UVs[i]
}

// FacePositions returns the three world-space-untransformed vertex
// positions of face f (used by the QBVH builder, which triangulates in
// world space after the primitive transform has already been applied by
// the caller).
func (m *Mesh) FacePositions(f Face) (p0, p1, p2 vmath.Vec3) {
	return m.Positions[f.I0], m.Positions[f.I1], m.Positions[f.I2]
}

// GeometricNormal computes the unit geometric normal of a face from its
// raw positions, oriented by the face's winding order.
func (m *Mesh) GeometricNormal(f Face) vmath.Vec3 {
	p0, p1, p2 := m.FacePositions(f)
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// SurfaceArea returns the total surface area of the mesh in its own
// local space. The Scene's light-selection CDF uses
// Primitive.WorldSurfaceArea instead (spec §4.3).
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for _, f := range m.Faces {
		p0, p1, p2 := m.FacePositions(f)
		area += 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Length()
	}
	return area
}
