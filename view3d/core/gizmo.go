package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
)

// GizmoMode is the transform sub-mode of the movable coordinate system.
type GizmoMode int

const (
	GizmoIdle GizmoMode = iota
	GizmoTranslate
	GizmoRotateX
	GizmoRotateY
	GizmoRotateZ
	GizmoScaleX
	GizmoScaleY
	GizmoScaleZ
)

func (m GizmoMode) String() string {
	switch m {
	case GizmoIdle:
		return "Idle"
	case GizmoTranslate:
		return "Translate"
	case GizmoRotateX:
		return "RotateX"
	case GizmoRotateY:
		return "RotateY"
	case GizmoRotateZ:
		return "RotateZ"
	case GizmoScaleX:
		return "ScaleX"
	case GizmoScaleY:
		return "ScaleY"
	case GizmoScaleZ:
		return "ScaleZ"
	}
	return fmt.Sprintf("GizmoMode(%d)", int(m))
}

func (m GizmoMode) IsRotate() bool { return m >= GizmoRotateX && m <= GizmoRotateZ }
func (m GizmoMode) IsScale() bool { return m >= GizmoScaleX && m <= GizmoScaleZ }

// Axis returns the local axis index (0..2) of a rotate or scale mode, or -1.
func (m GizmoMode) Axis() int {
	switch {
	case m.IsRotate():
		return int(m - GizmoRotateX)
	case m.IsScale():
		return int(m - GizmoScaleX)
	}
	return -1
}

// AxisHandleMode selects what the axis-end handles do when grabbed.
type AxisHandleMode int

const (
	HandleRotate AxisHandleMode = iota
	HandleScale
)

// HandleKind identifies one pick point of the gizmo.
type HandleKind int

const (
	HandleCenter HandleKind = iota
	HandleAxisX
	HandleAxisY
	HandleAxisZ
)

// PickPoint is a sphere that makes a gizmo handle clickable.
type PickPoint struct {
	Handle   HandleKind
	Position mgl64.Vec3
	Radius   float64
}

// CoordinateSystem is the movable local coordinate system used to transform
// the selection.
type CoordinateSystem struct {
	Transform    Transform
	Mode         GizmoMode
	HandleMode   AxisHandleMode
	AxisLength   float64
	HandleRadius float64

	snapshot Transform
}

func NewCoordinateSystem(axisLength, handleRadius float64) *CoordinateSystem {
	return &CoordinateSystem{
		Transform:    NewTransform(),
		AxisLength:   axisLength,
		HandleRadius: handleRadius,
		snapshot:     NewTransform(),
	}
}

// Axis returns local axis i in world space.
func (cs *CoordinateSystem) Axis(i int) mgl64.Vec3 {
	switch i {
	case 0:
		return cs.Transform.LocalX()
	case 1:
		return cs.Transform.LocalY()
	}
	return cs.Transform.LocalZ()
}

// Enter switches to a transform sub-mode and captures the current transform.
func (cs *CoordinateSystem) Enter(mode GizmoMode) {
	cs.snapshot = cs.Transform
	cs.Mode = mode
}

// Snapshot is the transform captured when the current sub-mode was entered.
func (cs *CoordinateSystem) Snapshot() Transform {
	return cs.snapshot
}

// Restore rolls back to the captured transform and leaves the sub-mode.
func (cs *CoordinateSystem) Restore() {
	cs.Transform = cs.snapshot
	cs.Mode = GizmoIdle
}

// Finish leaves the sub-mode keeping the current transform.
func (cs *CoordinateSystem) Finish() {
	cs.snapshot = cs.Transform
	cs.Mode = GizmoIdle
}

// Reset returns to the identity transform and idle mode.
func (cs *CoordinateSystem) Reset() {
	cs.Transform = NewTransform()
	cs.snapshot = cs.Transform
	cs.Mode = GizmoIdle
}

// SetTranslation moves the gizmo without touching its rotation.
func (cs *CoordinateSystem) SetTranslation(p mgl64.Vec3) {
	cs.Transform.Translation = p
}

// SetRotation is ignored while a sub-mode is active.
func (cs *CoordinateSystem) SetRotation(q mgl64.Quat) bool {
	if cs.Mode != GizmoIdle {
		return false
	}
	cs.Transform.Rotation = q
	return true
}

// AlignTo orients the local Z axis along normal and local X along xAxis
// projected into the plane of normal.
func (cs *CoordinateSystem) AlignTo(normal, xAxis mgl64.Vec3) bool {
	z := geom.SafeNormalize(normal, mgl64.Vec3{})
	if z.LenSqr() == 0 {
		return false
	}
	x := xAxis.Sub(z.Mul(xAxis.Dot(z)))
	if x.Len() < geom.GeometricEpsilon {
		return false
	}
	x = x.Normalize()
	return cs.SetRotation(BasisToQuat(x, z.Cross(x), z))
}

// ModeForHandle maps a grabbed handle to the sub-mode it starts.
func (cs *CoordinateSystem) ModeForHandle(h HandleKind) GizmoMode {
	if h == HandleCenter {
		return GizmoTranslate
	}
	axis := GizmoMode(h - HandleAxisX)
	if cs.HandleMode == HandleScale {
		return GizmoScaleX + axis
	}
	return GizmoRotateX + axis
}

// PickPoints returns the clickable handles. While a sub-mode is active only
// the handle driving it is returned.
func (cs *CoordinateSystem) PickPoints() []PickPoint {
	center := PickPoint{Handle: HandleCenter, Position: cs.Transform.Translation, Radius: cs.HandleRadius}
	axisPoint := func(i int) PickPoint {
		return PickPoint{
			Handle:   HandleAxisX + HandleKind(i),
			Position: cs.Transform.Translation.Add(cs.Axis(i).Mul(cs.AxisLength)),
			Radius:   cs.HandleRadius,
		}
	}
	switch {
	case cs.Mode == GizmoTranslate:
		return []PickPoint{center}
	case cs.Mode.IsRotate() || cs.Mode.IsScale():
		return []PickPoint{axisPoint(cs.Mode.Axis())}
	}
	return []PickPoint{center, axisPoint(0), axisPoint(1), axisPoint(2)}
}

// AxisLock constrains movement to one local axis of the gizmo.
type AxisLock int

const (
	AxisNone AxisLock = iota
	AxisX
	AxisY
	AxisZ
)

func (a AxisLock) String() string {
	switch a {
	case AxisNone:
		return "None"
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("AxisLock(%d)", int(a))
}

// Toggle returns b, or AxisNone when b is already locked.
func (a AxisLock) Toggle(b AxisLock) AxisLock {
	if a == b {
		return AxisNone
	}
	return b
}

// Direction returns the locked axis in world space for a gizmo rotation.
func (a AxisLock) Direction(rot mgl64.Quat) (mgl64.Vec3, bool) {
	switch a {
	case AxisX:
		return rot.Rotate(mgl64.Vec3{1, 0, 0}), true
	case AxisY:
		return rot.Rotate(mgl64.Vec3{0, 1, 0}), true
	case AxisZ:
		return rot.Rotate(mgl64.Vec3{0, 0, 1}), true
	}
	return mgl64.Vec3{}, false
}
