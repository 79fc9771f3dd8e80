package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
)

// WorldUp is +Z, as in every building model.
var WorldUp = mgl64.Vec3{0, 0, 1}

// Viewport is the size of the drawing area in device pixels.
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) Aspect() float64 {
	if v.Height <= 0 || v.Width <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// ToNDC maps a pixel (origin top-left, y down) to normalized device
// coordinates.
func (v Viewport) ToNDC(px mgl64.Vec2) mgl64.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{2*px.X()/v.Width - 1, 1 - 2*px.Y()/v.Height}
}

func (v Viewport) FromNDC(ndc mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{(ndc.X() + 1) * 0.5 * v.Width, (1 - ndc.Y()) * 0.5 * v.Height}
}

// Contains reports whether the pixel lies inside the viewport.
func (v Viewport) Contains(px mgl64.Vec2) bool {
	return px.X() >= 0 && px.Y() >= 0 && px.X() <= v.Width && px.Y() <= v.Height
}

// Camera looks down its local -Z axis with local +Y up.
type Camera struct {
	Transform
	FieldOfView float64 // vertical, degrees
	NearPlane   float64
	FarPlane    float64
	Viewport    Viewport
}

func NewCamera() *Camera {
	c := &Camera{
		Transform:   NewTransform(),
		FieldOfView: 45,
		NearPlane:   0.1,
		FarPlane:    10000,
		Viewport:    Viewport{Width: 800, Height: 600},
	}
	c.LookAt(mgl64.Vec3{-20, -30, 25}, mgl64.Vec3{0, 0, 0})
	return c
}

func (c *Camera) Forward() mgl64.Vec3 { return c.LocalZ().Mul(-1) }
func (c *Camera) Right() mgl64.Vec3 { return c.LocalX() }
func (c *Camera) Up() mgl64.Vec3 { return c.LocalY() }

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.WorldToObject()
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FieldOfView), c.Viewport.Aspect(), c.NearPlane, c.FarPlane)
}

// WorldToView is the combined projection * view matrix.
func (c *Camera) WorldToView() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// LookAt places the camera at eye and turns it towards target, keeping world
// up as the reference. Looking straight up or down uses +Y as reference.
func (c *Camera) LookAt(eye, target mgl64.Vec3) {
	c.Translation = eye
	c.Rotation = LookRotation(target.Sub(eye))
}

// LookRotation returns the camera rotation for a view direction.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	f := geom.SafeNormalize(dir, mgl64.Vec3{0, 1, 0})
	up := WorldUp
	if math.Abs(f.Dot(up)) > 0.999 {
		up = mgl64.Vec3{0, 1, 0}
	}
	r := f.Cross(up).Normalize()
	u := r.Cross(f)
	return BasisToQuat(r, u, f.Mul(-1))
}

// PickRay returns the ray through a pixel, starting on the near plane.
func (c *Camera) PickRay(px mgl64.Vec2) (origin, dir mgl64.Vec3, ok bool) {
	near, far, ok := Unproject(c.WorldToView(), c.Viewport, px)
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return near, geom.SafeNormalize(far.Sub(near), c.Forward()), true
}

// Unproject maps a pixel to points on the near and far clip planes. It fails
// for singular matrices.
func Unproject(worldToView mgl64.Mat4, vp Viewport, px mgl64.Vec2) (near, far mgl64.Vec3, ok bool) {
	det := worldToView.Det()
	if math.IsNaN(det) || math.Abs(det) < 1e-12 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	inv := worldToView.Inv()
	ndc := vp.ToNDC(px)

	unproj := func(z float64) (mgl64.Vec3, bool) {
		v := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), z, 1})
		if math.Abs(v.W()) < geom.Epsilon {
			return mgl64.Vec3{}, false
		}
		return v.Vec3().Mul(1 / v.W()), true
	}
	near, okN := unproj(-1)
	far, okF := unproj(1)
	return near, far, okN && okF
}

// Project maps a world point to a pixel. ok is false for points behind the
// camera.
func Project(worldToView mgl64.Mat4, vp Viewport, p mgl64.Vec3) (px mgl64.Vec2, ok bool) {
	clip := worldToView.Mul4x1(p.Vec4(1))
	if clip.W() <= geom.Epsilon {
		return mgl64.Vec2{}, false
	}
	ndc := mgl64.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}
	return vp.FromNDC(ndc), true
}
