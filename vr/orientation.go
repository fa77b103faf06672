package vr

import (
	"cogentcore.org/core/math32"
	fmath "github.com/chewxy/math32"
)

// Orientation is a unit quaternion.
type Orientation struct {
	X, Y, Z, W float32
}

// IdentityOrientation looks down -Z with +Y up.
func IdentityOrientation() Orientation {
	return Orientation{W: 1}
}

// OrientationFromYawPitch rotates by yaw radians about +Y, then pitch
// radians about +X.
func OrientationFromYawPitch(yaw, pitch float32) Orientation {
	y := Orientation{Y: fmath.Sin(yaw / 2), W: fmath.Cos(yaw / 2)}
	p := Orientation{X: fmath.Sin(pitch / 2), W: fmath.Cos(pitch / 2)}
	return y.Mul(p)
}

// Mul returns o*q, the rotation q followed by o.
func (o Orientation) Mul(q Orientation) Orientation {
	return Orientation{
		X: o.W*q.X + o.X*q.W + o.Y*q.Z - o.Z*q.Y,
		Y: o.W*q.Y - o.X*q.Z + o.Y*q.W + o.Z*q.X,
		Z: o.W*q.Z + o.X*q.Y - o.Y*q.X + o.Z*q.W,
		W: o.W*q.W - o.X*q.X - o.Y*q.Y - o.Z*q.Z,
	}
}

// Conjugate is the inverse rotation of a unit quaternion.
func (o Orientation) Conjugate() Orientation {
	return Orientation{X: -o.X, Y: -o.Y, Z: -o.Z, W: o.W}
}

// Normalize scales o to unit length. A zero quaternion becomes the identity.
func (o Orientation) Normalize() Orientation {
	n := fmath.Sqrt(o.X*o.X + o.Y*o.Y + o.Z*o.Z + o.W*o.W)
	if n == 0 {
		return IdentityOrientation()
	}
	return Orientation{X: o.X / n, Y: o.Y / n, Z: o.Z / n, W: o.W / n}
}

// Matrix returns the column-major rotation matrix of o.
func (o Orientation) Matrix() math32.Matrix4 {
	x, y, z, w := o.X, o.Y, o.Z, o.W
	return math32.Matrix4{
		1 - 2*y*y - 2*z*z, 2*x*y + 2*z*w, 2*x*z - 2*y*w, 0,
		2*x*y - 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z + 2*w*x, 0,
		2*x*z + 2*y*w, 2*y*z - 2*w*x, 1 - 2*x*x - 2*y*y, 0,
		0, 0, 0, 1,
	}
}

// Identity returns the 4x4 identity matrix.
func Identity() math32.Matrix4 {
	return math32.Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a GL clip-space projection. fovY is the vertical field
// of view in degrees.
func Perspective(fovY, aspect, near, far float32) math32.Matrix4 {
	tangent := fmath.Tan((fovY * fmath.Pi / 180) / 2)
	return math32.Matrix4{
		1 / (tangent * aspect), 0, 0, 0,
		0, 1 / tangent, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, (near * far * 2) / (near - far), 0,
	}
}

// Translation returns a matrix translating by (x, y, z).
func Translation(x, y, z float32) math32.Matrix4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// MulMatrix4 returns a*b for column-major matrices.
func MulMatrix4(a, b math32.Matrix4) math32.Matrix4 {
	var out math32.Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies m to the point (x, y, z, 1) and returns the
// homogeneous result.
func TransformPoint(m math32.Matrix4, p math32.Vector3) math32.Vector4 {
	return math32.Vector4{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
		W: m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15],
	}
}
