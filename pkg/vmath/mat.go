package vmath

import "math"

// Mat3 is a 3x3 row-major matrix, used for orthonormal shading frames and
// for transforming normals (via its inverse-transpose).
type Mat3 struct {
	M [3][3]float64
}

func Identity3() Mat3 {
	var m Mat3
	m.M[0][0], m.M[1][1], m.M[2][2] = 1, 1, 1
	return m
}

// FrameFromNormal builds a right-handed orthonormal frame (ss, sn, st)
// around the given unit normal using the Duff et al. branchless
// construction, matching the teacher's style of avoiding a Gram-Schmidt
// branch on sign(normal.Z).
func FrameFromNormal(n Vec3) (ss, st Mat3Basis) {
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	b := n.X * n.Y * a
	ss = Mat3Basis{Vec3{1 + sign*n.X*n.X*a, sign * b, -sign * n.X}}
	st = Mat3Basis{Vec3{b, sign + n.Y*n.Y*a, -n.Y}}
	return ss, st
}

// Mat3Basis wraps a single basis vector; used only to give FrameFromNormal's
// two return values distinct, self-documenting types at call sites.
type Mat3Basis struct{ Vec3 }

// WorldToShading returns the 3x3 change-of-basis matrix from world space
// into the shading frame (ss, sn, st), and ShadingToWorld its transpose
// (orthonormal matrices are self-inverse-transposing).
func WorldToShading(ss, sn, st Vec3) Mat3 {
	return Mat3{M: [3][3]float64{
		{ss.X, ss.Y, ss.Z},
		{sn.X, sn.Y, sn.Z},
		{st.X, st.Y, st.Z},
	}}
}

func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Mat4 is a 4x4 row-major matrix used for scene-graph transforms.
type Mat4 struct {
	M [4][4]float64
}

func Identity4() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

func Translate(v Vec3) Mat4 {
	m := Identity4()
	m.M[0][3], m.M[1][3], m.M[2][3] = v.X, v.Y, v.Z
	return m
}

func Scale(v Vec3) Mat4 {
	m := Identity4()
	m.M[0][0], m.M[1][1], m.M[2][2] = v.X, v.Y, v.Z
	return m
}

// Rotate builds a rotation matrix of `angle` radians around `axis`
// (Rodrigues' formula), matching the teacher's axis-angle camera rigging.
func Rotate(angle float64, axis Vec3) Mat4 {
	a := axis.Normalize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	m := Identity4()
	m.M[0][0] = t*a.X*a.X + c
	m.M[0][1] = t*a.X*a.Y - s*a.Z
	m.M[0][2] = t*a.X*a.Z + s*a.Y
	m.M[1][0] = t*a.X*a.Y + s*a.Z
	m.M[1][1] = t*a.Y*a.Y + c
	m.M[1][2] = t*a.Y*a.Z - s*a.X
	m.M[2][0] = t*a.X*a.Z - s*a.Y
	m.M[2][1] = t*a.Y*a.Z + s*a.X
	m.M[2][2] = t*a.Z*a.Z + c
	return m
}

func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.M[i][k] * o.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// MulPoint transforms a point (implicit w=1).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	x := m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z + m.M[0][3]
	y := m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z + m.M[1][3]
	z := m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z + m.M[2][3]
	w := m.M[3][0]*v.X + m.M[3][1]*v.Y + m.M[3][2]*v.Z + m.M[3][3]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// MulDir transforms a direction (implicit w=0); does not apply translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// InverseTranspose3 returns the upper-left 3x3 inverse-transpose of m,
// the matrix required to correctly transform normals under non-uniform
// scale (spec §3, Primitive).
func (m Mat4) InverseTranspose3() Mat3 {
	a := [3][3]float64{
		{m.M[0][0], m.M[0][1], m.M[0][2]},
		{m.M[1][0], m.M[1][1], m.M[1][2]},
		{m.M[2][0], m.M[2][1], m.M[2][2]},
	}
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if det == 0 {
		return Identity3()
	}
	inv := 1 / det
	var cof [3][3]float64
	cof[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * inv
	cof[0][1] = -(a[1][0]*a[2][2] - a[1][2]*a[2][0]) * inv
	cof[0][2] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * inv
	cof[1][0] = -(a[0][1]*a[2][2] - a[0][2]*a[2][1]) * inv
	cof[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * inv
	cof[1][2] = -(a[0][0]*a[2][1] - a[0][1]*a[2][0]) * inv
	cof[2][0] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * inv
	cof[2][1] = -(a[0][0]*a[1][2] - a[0][2]*a[1][0]) * inv
	cof[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * inv
	// cof is the cofactor matrix divided by det; since the inverse is
	// adj(a)/det = cof^T, cof itself is the inverse-transpose.
	return Mat3{M: cof}
}

// Quat is a unit quaternion, used by camera and asset loaders that express
// orientation as a rotation quaternion (glTF nodes) rather than axis-angle.
type Quat struct {
	X, Y, Z, W float64
}

func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(angle / 2)}
}

func (q Quat) ToMat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	m := Identity4()
	m.M[0][0] = 1 - 2*(y*y+z*z)
	m.M[0][1] = 2 * (x*y - z*w)
	m.M[0][2] = 2 * (x*z + y*w)
	m.M[1][0] = 2 * (x*y + z*w)
	m.M[1][1] = 1 - 2*(x*x+z*z)
	m.M[1][2] = 2 * (y*z - x*w)
	m.M[2][0] = 2 * (x*z - y*w)
	m.M[2][1] = 2 * (y*z + x*w)
	m.M[2][2] = 1 - 2*(x*x+y*y)
	return m
}
