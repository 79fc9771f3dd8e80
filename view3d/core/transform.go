package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid transform: rotation followed by translation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

func NewTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func (t Transform) ObjectToWorld() mgl64.Mat4 {
	// M = T * R
	translate := mgl64.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	return translate.Mul4(t.Rotation.Mat4())
}

func (t Transform) WorldToObject() mgl64.Mat4 {
	// inv(M) = inv(R) * inv(T); unit quaternion inverse is the conjugate
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl64.Translate3D(-t.Translation.X(), -t.Translation.Y(), -t.Translation.Z())
	return invRotate.Mul4(invTranslate)
}

func (t Transform) LocalX() mgl64.Vec3 { return t.Rotation.Rotate(mgl64.Vec3{1, 0, 0}) }
func (t Transform) LocalY() mgl64.Vec3 { return t.Rotation.Rotate(mgl64.Vec3{0, 1, 0}) }
func (t Transform) LocalZ() mgl64.Vec3 { return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1}) }

// Translate moves the transform in world space.
func (t *Transform) Translate(d mgl64.Vec3) {
	t.Translation = t.Translation.Add(d)
}

// Rotate applies q in the world frame, keeping the translation.
func (t *Transform) Rotate(q mgl64.Quat) {
	t.Rotation = q.Mul(t.Rotation).Normalize()
}

// RotateAround rotates position and orientation around a world-space pivot.
func (t *Transform) RotateAround(q mgl64.Quat, pivot mgl64.Vec3) {
	t.Translation = pivot.Add(q.Rotate(t.Translation.Sub(pivot)))
	t.Rotate(q)
}

// BasisToQuat converts an orthonormal basis (columns x, y, z) to a rotation.
func BasisToQuat(x, y, z mgl64.Vec3) mgl64.Quat {
	m := mgl64.Mat4{
		x.X(), x.Y(), x.Z(), 0,
		y.X(), y.Y(), y.Z(), 0,
		z.X(), z.Y(), z.Z(), 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}
