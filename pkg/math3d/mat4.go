package math3d

import "math"

// Mat4 is a 4x4 matrix stored column by column: element (row, col) is at
// index row+col*4, and the translation of an affine transform occupies
// indices 12, 13 and 14. Vectors are columns, so a.Mul(b) applies b first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a scaling by v along each axis.
func Scale(v Vec3) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = v.X, v.Y, v.Z, 1
	return m
}

// ScaleUniform returns a scaling by s along every axis.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX returns a counter-clockwise rotation about +X, seen from +X.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY returns a counter-clockwise rotation about +Y, seen from +Y.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// LookAt returns a right-handed view matrix for an eye at eye looking at
// center. The eye looks down -Z in view space. up must not be parallel to
// the view direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// PerspectiveZO returns a right-handed perspective projection that maps
// the near plane to depth 0 and the far plane to depth 1. fovy is the
// vertical field of view in radians and aspect is width / height.
func PerspectiveZO(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, far * near * nf, 0,
	}
}

// Viewport maps normalized device coordinates to pixel space with the origin
// in the top-left corner. Pixel centers sit on integer coordinates and depth
// passes through unchanged.
func Viewport(width, height int) Mat4 {
	hw := float64(width) / 2
	hh := float64(height) / 2

	return Mat4{
		hw, 0, 0, 0,
		0, -hh, 0, 0,
		0, 0, 1, 0,
		hw - 0.5, hh - 0.5, 0, 1,
	}
}

// Mul returns a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		b0, b1, b2, b3 := b[col*4], b[col*4+1], b[col*4+2], b[col*4+3]
		for row := range 4 {
			m[row+col*4] = a[row]*b0 + a[row+4]*b1 + a[row+8]*b2 + a[row+12]*b3
		}
	}
	return m
}

// MulVec3 transforms v as a point and divides by the resulting w. A zero w
// is treated as 1.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]) / w,
		(m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]) / w,
		(m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]) / w,
	}
}

// MulVec3Dir transforms v as a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// minors holds the 2x2 determinants of the top two rows (s) and the bottom
// two rows (c), from which both the determinant and the inverse follow.
type minors struct {
	s0, s1, s2, s3, s4, s5 float64
	c0, c1, c2, c3, c4, c5 float64
}

func (m *Mat4) minors() minors {
	a00, a10, a20, a30 := m[0], m[1], m[2], m[3]
	a01, a11, a21, a31 := m[4], m[5], m[6], m[7]
	a02, a12, a22, a32 := m[8], m[9], m[10], m[11]
	a03, a13, a23, a33 := m[12], m[13], m[14], m[15]

	return minors{
		s0: a00*a11 - a10*a01,
		s1: a00*a12 - a10*a02,
		s2: a00*a13 - a10*a03,
		s3: a01*a12 - a11*a02,
		s4: a01*a13 - a11*a03,
		s5: a02*a13 - a12*a03,
		c0: a20*a31 - a30*a21,
		c1: a20*a32 - a30*a22,
		c2: a20*a33 - a30*a23,
		c3: a21*a32 - a31*a22,
		c4: a21*a33 - a31*a23,
		c5: a22*a33 - a32*a23,
	}
}

func (k minors) det() float64 {
	return k.s0*k.c5 - k.s1*k.c4 + k.s2*k.c3 + k.s3*k.c2 - k.s4*k.c1 + k.s5*k.c0
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of m, or the identity when m is singular.
func (m Mat4) Inverse() Mat4 {
	k := m.minors()
	det := k.det()
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	a00, a10, a20, a30 := m[0], m[1], m[2], m[3]
	a01, a11, a21, a31 := m[4], m[5], m[6], m[7]
	a02, a12, a22, a32 := m[8], m[9], m[10], m[11]
	a03, a13, a23, a33 := m[12], m[13], m[14], m[15]

	return Mat4{
		// column 0
		(a11*k.c5 - a12*k.c4 + a13*k.c3) * inv,
		(-a10*k.c5 + a12*k.c2 - a13*k.c1) * inv,
		(a10*k.c4 - a11*k.c2 + a13*k.c0) * inv,
		(-a10*k.c3 + a11*k.c1 - a12*k.c0) * inv,
		// column 1
		(-a01*k.c5 + a02*k.c4 - a03*k.c3) * inv,
		(a00*k.c5 - a02*k.c2 + a03*k.c1) * inv,
		(-a00*k.c4 + a01*k.c2 - a03*k.c0) * inv,
		(a00*k.c3 - a01*k.c1 + a02*k.c0) * inv,
		// column 2
		(a31*k.s5 - a32*k.s4 + a33*k.s3) * inv,
		(-a30*k.s5 + a32*k.s2 - a33*k.s1) * inv,
		(a30*k.s4 - a31*k.s2 + a33*k.s0) * inv,
		(-a30*k.s3 + a31*k.s1 - a32*k.s0) * inv,
		// column 3
		(-a21*k.s5 + a22*k.s4 - a23*k.s3) * inv,
		(a20*k.s5 - a22*k.s2 + a23*k.s1) * inv,
		(-a20*k.s4 + a21*k.s2 - a23*k.s0) * inv,
		(a20*k.s3 - a21*k.s1 + a22*k.s0) * inv,
	}
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translation returns the translation of an affine transform.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
