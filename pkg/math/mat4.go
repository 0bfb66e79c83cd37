package math

import "math"

// Mat4 is a 4x4 matrix stored column by column, the layout OpenGL expects.
// Element (row, col) lives at index col*4+row.
type Mat4 [16]float32

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i*5] = 1
	}
	return m
}

// cols builds a matrix from its four columns.
func cols(c0, c1, c2, c3 Vec4) Mat4 {
	var m Mat4
	for i, c := range [4]Vec4{c0, c1, c2, c3} {
		copy(m[i*4:i*4+4], c[:])
	}
	return m
}

// Perspective returns an OpenGL projection matrix mapping the view frustum
// to clip space with depth in [-1, 1]. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	focal := float32(1 / math.Tan(float64(fovY)/2))
	depth := 1 / (near - far)
	return cols(
		Vec4{focal / aspect, 0, 0, 0},
		Vec4{0, focal, 0, 0},
		Vec4{0, 0, (near + far) * depth, -1},
		Vec4{0, 0, 2 * near * far * depth, 0},
	)
}

// LookAt returns a right-handed view matrix for a camera at eye facing
// target.
func LookAt(eye, target, up Vec3) Mat4 {
	fwd := target.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	camUp := right.Cross(fwd)
	return cols(
		Vec4{right.X, camUp.X, -fwd.X, 0},
		Vec4{right.Y, camUp.Y, -fwd.Y, 0},
		Vec4{right.Z, camUp.Z, -fwd.Z, 0},
		Vec4{-right.Dot(eye), -camUp.Dot(eye), fwd.Dot(eye), 1},
	)
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func sinCos(angle float32) (s, c float32) {
	sin, cos := math.Sincos(float64(angle))
	return float32(sin), float32(cos)
}

// RotateX rotates counter-clockwise about +X when looking down the axis.
// Positive angles tip +Z toward -Y.
func RotateX(angle float32) Mat4 {
	s, c := sinCos(angle)
	return cols(
		Vec4{1, 0, 0, 0},
		Vec4{0, c, s, 0},
		Vec4{0, -s, c, 0},
		Vec4{0, 0, 0, 1},
	)
}

// RotateY rotates about +Y. Positive angles swing +Z toward +X.
func RotateY(angle float32) Mat4 {
	s, c := sinCos(angle)
	return cols(
		Vec4{c, 0, -s, 0},
		Vec4{0, 1, 0, 0},
		Vec4{s, 0, c, 0},
		Vec4{0, 0, 0, 1},
	)
}

// Mul returns m * o, so o applies first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var r Vec4
	for row := 0; row < 4; row++ {
		for k := 0; k < 4; k++ {
			r[row] += m[k*4+row] * v[k]
		}
	}
	return r
}

// TransformPoint transforms p as a point and divides by w when w is
// non-zero.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	r := m.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	if r[3] == 0 {
		return Vec3{r[0], r[1], r[2]}
	}
	return Vec3{r[0] / r[3], r[1] / r[3], r[2] / r[3]}
}

// Ptr returns a pointer to the first element for GL uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
