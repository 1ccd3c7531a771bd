package common

import (
	"math"
	"unsafe"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
type Mat4 = [16]float32

// Vec3 is a three component vector used for positions, Euler angles and scale factors.
type Vec3 = [3]float32

// Identity resets a 4x4 matrix to the identity matrix.
//
// Parameters:
//   - m: destination matrix
func Identity(m *Mat4) {
	*m = Mat4{}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes reinterprets a slice as raw bytes for GPU buffer uploads.
// The returned slice shares memory with the input.
//
// Parameters:
//   - data: source slice of any fixed-size element type
//
// Returns:
//   - []byte: byte view of the input, or nil if the input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Mul4 computes out = a * b. out may alias a or b.
//
// Parameters:
//   - out: destination matrix
//   - a: left-hand matrix
//   - b: right-hand matrix
func Mul4(out, a, b *Mat4) {
	var buf Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	*out = buf
}

// Perspective writes a perspective projection for the WebGPU [0, 1] depth range.
//
// Parameters:
//   - out: destination matrix
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (> 0)
//   - far: far clipping plane distance (> near)
func Perspective(out *Mat4, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	*out = Mat4{}
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
}

// ComposeTRS builds a model matrix from translation, XYZ Euler rotation and scale.
// The rotation is Rx * Ry * Rz, so the Z rotation is applied to the object first.
//
// Parameters:
//   - out: destination matrix
//   - pos: translation in world space
//   - rot: Euler angles in radians
//   - scale: scale factors per axis
func ComposeTRS(out *Mat4, pos, rot, scale Vec3) {
	a, b := cosSin(rot[0])
	c, d := cosSin(rot[1])
	e, f := cosSin(rot[2])

	out[0] = c * e * scale[0]
	out[1] = (a*f + b*e*d) * scale[0]
	out[2] = (b*f - a*e*d) * scale[0]
	out[3] = 0

	out[4] = -c * f * scale[1]
	out[5] = (a*e - b*f*d) * scale[1]
	out[6] = (b*e + a*f*d) * scale[1]
	out[7] = 0

	out[8] = d * scale[2]
	out[9] = -b * c * scale[2]
	out[10] = a * c * scale[2]
	out[11] = 0

	out[12], out[13], out[14], out[15] = pos[0], pos[1], pos[2], 1
}

func cosSin(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return float32(c), float32(s)
}

// LookAt writes a view matrix for an eye looking at center with the given up vector.
//
// Parameters:
//   - out: destination matrix
//   - eye: camera position in world space
//   - center: target point
//   - up: up direction, typically (0, 1, 0)
func LookAt(out *Mat4, eye, center, up Vec3) {
	z := normalize(Vec3{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]})
	x := normalize(cross(up, z))
	y := cross(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -dot(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -dot(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -dot(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// TransformPoint applies m to the point p (w = 1) and returns the homogeneous result.
//
// Parameters:
//   - m: the transform
//   - p: the point
//
// Returns:
//   - [4]float32: the transformed x, y, z, w
func TransformPoint(m *Mat4, p Vec3) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return out
}

func dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v Vec3) Vec3 {
	l := float32(math.Sqrt(float64(dot(v, v))))
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}
