package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// wireframeShaderSource draws flat-coloured geometry transformed by a single MVP matrix.
// The uniform layout matches GPUDrawUniform.
const wireframeShaderSource = `
struct DrawUniform {
    mvp: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> draw: DrawUniform;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return draw.mvp * vec4<f32>(position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return draw.color;
}
`

// GPUDrawUniform is the per-draw uniform block.
// Size: 80 bytes (mat4x4<f32> + vec4<f32>, std140 aligned).
type GPUDrawUniform struct {
	MVP   [16]float32 // offset 0: column-major clip transform (64 bytes)
	Color [4]float32  // offset 64: linear RGB + alpha (16 bytes)
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, 80)
	for i, v := range g.MVP {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	return buf
}
