package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mat4 is a 4x4 matrix stored row-major for row vectors (v' = v * M).
// Layout: [m0  m1  m2  m3 ]
//
//	[m4  m5  m6  m7 ]
//	[m8  m9  m10 m11]
//	[m12 m13 m14 m15]
//
// Translation lives in m12..m14. The memory layout is identical to a
// column-major OpenGL matrix used with column vectors.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// PerspectiveFovLH returns a left-handed perspective projection.
// fovY is in radians, aspect is width/height. Depth maps to [-1, 1].
func PerspectiveFovLH(fovY, aspect, near, far float32) Mat4 {
	h := 1 / math32.Tan(fovY/2)
	w := h / aspect
	fr := far - near

	return Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, (far + near) / fr, 1,
		0, 0, -2 * far * near / fr, 0,
	}
}

// LookToLH returns a left-handed view matrix for an eye looking along dir.
func LookToLH(eye, dir, up Vec3) Mat4 {
	z := dir.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateRollPitchYaw returns the rotation that applies roll (Z), then
// pitch (X), then yaw (Y). Angles are in radians.
func RotateRollPitchYaw(pitch, yaw, roll float32) Mat4 {
	return RotateZ(roll).Mul(RotateX(pitch)).Mul(RotateY(yaw))
}

// RotateAxis creates a rotation matrix around an arbitrary axis.
// angle is in radians. The axis is normalized here.
func RotateAxis(axis Vec3, angle float32) Mat4 {
	n := axis.Normalize()
	s, c := math32.Sincos(angle)
	t := 1 - c

	x, y, z := n.X, n.Y, n.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * other. With row vectors the result applies m first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row*4+col] =
				m[row*4+0]*other[0*4+col] +
					m[row*4+1]*other[1*4+col] +
					m[row*4+2]*other[2*4+col] +
					m[row*4+3]*other[3*4+col]
		}
	}
	return result
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var result Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[col*4+row] = m[row*4+col]
		}
	}
	return result
}

// Inverse returns the inverse of the matrix.
// Returns the zero matrix if m is singular.
func (m Mat4) Inverse() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Det returns the determinant.
func (m Mat4) Det() float32 {
	return mgl32.Mat4(m).Det()
}

// TransformPoint transforms a point (w=1) by this matrix.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12]
	y := p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13]
	z := p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14]
	w := p.X*m[3] + p.Y*m[7] + p.Z*m[11] + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		d.X*m[0] + d.Y*m[4] + d.Z*m[8],
		d.X*m[1] + d.Y*m[5] + d.Z*m[9],
		d.X*m[2] + d.Y*m[6] + d.Z*m[10],
	}
}

// MulVec4 returns v * m.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8] + v[3]*m[12],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9] + v[3]*m[13],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10] + v[3]*m[14],
		v[0]*m[3] + v[1]*m[7] + v[2]*m[11] + v[3]*m[15],
	}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
