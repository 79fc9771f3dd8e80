package gpu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
)

// CameraSize is the size of the camera uniform:
// view_proj (mat4x4<f32>), eye (vec4<f32>).
const CameraSize = 80

// clipDepth maps OpenGL clip depth [-w, w] to the WebGPU range [0, w].
var clipDepth = mgl64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// ViewProjection is the world to clip matrix in WebGPU conventions.
func ViewProjection(cam *core.Camera) mgl64.Mat4 {
	return clipDepth.Mul4(cam.WorldToView())
}

// EncodeCamera writes the camera uniform.
func EncodeCamera(cam *core.Camera) []byte {
	out := make([]byte, CameraSize)
	m := ViewProjection(cam)
	for i := 0; i < 16; i++ {
		putF32(out, 4*i, float32(m[i]))
	}
	eye := cam.Translation
	for k := 0; k < 3; k++ {
		putF32(out, 64+4*k, float32(eye[k]))
	}
	putF32(out, 76, 1)
	return out
}
