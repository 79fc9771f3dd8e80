package vic3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/snap"
)

// NavigationMode is the single active mouse-driven mode of a viewport.
type NavigationMode int

const (
	NavNone NavigationMode = iota
	NavOrbit
	NavFirstPerson
	NavPan
	NavRubberbandSelect
	NavInteractiveTranslate
	NavInteractiveRotate
	NavInteractiveScale
)

func (m NavigationMode) String() string {
	switch m {
	case NavNone:
		return "None"
	case NavOrbit:
		return "Orbit"
	case NavFirstPerson:
		return "FirstPerson"
	case NavPan:
		return "Pan"
	case NavRubberbandSelect:
		return "RubberbandSelect"
	case NavInteractiveTranslate:
		return "InteractiveTranslate"
	case NavInteractiveRotate:
		return "InteractiveRotate"
	case NavInteractiveScale:
		return "InteractiveScale"
	}
	return fmt.Sprintf("NavigationMode(%d)", int(m))
}

// IsCamera reports whether the mode moves the camera.
func (m NavigationMode) IsCamera() bool {
	return m == NavOrbit || m == NavFirstPerson || m == NavPan
}

// IsTransform reports whether the mode moves the gizmo.
func (m NavigationMode) IsTransform() bool {
	return m == NavInteractiveTranslate || m == NavInteractiveRotate || m == NavInteractiveScale
}

// OperationMode reflects what the surrounding UI is doing with the view.
type OperationMode int

const (
	OpNoSelection OperationMode = iota
	OpHasSelection
	OpPlacingVertex
	OpAligningGizmo
	OpMovingGizmo
	OpMeasuring
	OpRubberbandSelecting
	OpThreePointRotation
)

func (m OperationMode) String() string {
	switch m {
	case OpNoSelection:
		return "NoSelection"
	case OpHasSelection:
		return "HasSelection"
	case OpPlacingVertex:
		return "PlacingVertex"
	case OpAligningGizmo:
		return "AligningGizmo"
	case OpMovingGizmo:
		return "MovingGizmo"
	case OpMeasuring:
		return "Measuring"
	case OpRubberbandSelecting:
		return "RubberbandSelecting"
	case OpThreePointRotation:
		return "ThreePointRotation"
	}
	return fmt.Sprintf("OperationMode(%d)", int(m))
}

// selectionMode reports whether m only mirrors the selection state.
func (m OperationMode) selectionMode() bool {
	return m == OpNoSelection || m == OpHasSelection
}

// InteractionContext is the state of one 3D viewport. Every reference into
// the project it keeps is an ID.
type InteractionContext struct {
	Camera   *core.Camera
	Gizmo    *core.CoordinateSystem
	Nav      NavigationMode
	Op       OperationMode
	Snap     snap.Config
	AxisLock core.AxisLock
	Pick     *pick.Object
	Config   Config
}

// NewInteractionContext builds a context from a validated config.
func NewInteractionContext(cfg Config) *InteractionContext {
	cam := core.NewCamera()
	cam.FieldOfView = cfg.View.FieldOfView
	cam.NearPlane = cfg.View.NearPlane
	cam.FarPlane = cfg.View.FarPlane
	cam.LookAt(mgl64.Vec3{-20, -30, 25}, mgl64.Vec3{})

	ctx := &InteractionContext{
		Camera: cam,
		Gizmo:  core.NewCoordinateSystem(cfg.Gizmo.AxisLength, cfg.Gizmo.HandleRadius),
		Snap:   cfg.SnapConfig(),
		Pick:   pick.NewObject(mgl64.Vec2{}, cam.WorldToView(), cam.Viewport),
		Config: cfg,
	}
	ctx.Pick.Grids = cfg.GridPlanes()
	return ctx
}
