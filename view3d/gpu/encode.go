// Package gpu uploads generated scene buffers and gizmo lines to WebGPU.
package gpu

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/simvicus/vic3d/view3d/buffers"
)

// VertexStride is the size of one interleaved scene vertex:
// position (3 x f32), normal (3 x f32), color (4 x unorm8).
const VertexStride = 28

// LineStride is the size of one gizmo line vertex:
// position (3 x f32), color (4 x f32).
const LineStride = 28

// SceneVertexLayout matches the scene shader inputs.
func SceneVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatUnorm8x4, Offset: 24, ShaderLocation: 2},
		},
	}
}

// LineVertexLayout matches the gizmo line shader inputs.
func LineVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: LineStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// EncodeVertices interleaves positions, normals and colors.
func EncodeVertices(b *buffers.Buffers) []byte {
	out := make([]byte, len(b.Vertices)*VertexStride)
	for i, v := range b.Vertices {
		off := i * VertexStride
		for k := 0; k < 3; k++ {
			putF32(out, off+4*k, v.Position[k])
			putF32(out, off+12+4*k, v.Normal[k])
		}
		var c color.RGBA
		if i < len(b.Colors) {
			c = b.Colors[i]
		}
		out[off+24], out[off+25], out[off+26], out[off+27] = c.R, c.G, c.B, c.A
	}
	return out
}

// EncodeIndices writes the index list as little-endian uint32.
func EncodeIndices(idx []uint32) []byte {
	out := make([]byte, len(idx)*4)
	for i, v := range idx {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// EncodeLines writes gizmo line vertices.
func EncodeLines(lines []LineVertex) []byte {
	out := make([]byte, len(lines)*LineStride)
	for i, v := range lines {
		off := i * LineStride
		for k := 0; k < 3; k++ {
			putF32(out, off+4*k, v.Pos[k])
		}
		for k := 0; k < 4; k++ {
			putF32(out, off+12+4*k, v.Color[k])
		}
	}
	return out
}

// DrawRange is a slice of the index buffer drawn by one call.
type DrawRange struct {
	First, Count uint32
}

func (r DrawRange) Empty() bool { return r.Count == 0 }

// Ranges splits the index buffer into the opaque and the blended range.
func Ranges(b *buffers.Buffers) (opaque, transparent DrawRange) {
	ts := b.TransparentStart
	if ts > len(b.Indices) {
		ts = len(b.Indices)
	}
	opaque = DrawRange{First: 0, Count: uint32(ts)}
	transparent = DrawRange{First: uint32(ts), Count: uint32(len(b.Indices) - ts)}
	return opaque, transparent
}
