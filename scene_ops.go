package vic3d

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/snap"
	"github.com/simvicus/vic3d/view3d/undo"
)

var (
	ErrNoSurface          = errors.New("scene: no surface under the cursor")
	ErrDegenerateRotation = errors.New("scene: rotation points coincide with the pivot")
)

// BeginVertexPlacement starts collecting snapped points. Enter finishes,
// Backspace drops the last point.
func (s *Scene) BeginVertexPlacement() error { return s.beginOperation(OpPlacingVertex, false) }

// BeginMeasuring starts measuring distances between pairs of clicks.
func (s *Scene) BeginMeasuring() error { return s.beginOperation(OpMeasuring, false) }

// BeginAligningGizmo lets the next click on a surface orient the gizmo.
func (s *Scene) BeginAligningGizmo() error { return s.beginOperation(OpAligningGizmo, true) }

// BeginMovingGizmo lets the gizmo follow the snapped cursor until a click.
func (s *Scene) BeginMovingGizmo() error { return s.beginOperation(OpMovingGizmo, true) }

// BeginThreePointRotation rotates the selection about the gizmo Z axis by
// three clicks: pivot, source direction and target direction.
func (s *Scene) BeginThreePointRotation() error {
	return s.beginOperation(OpThreePointRotation, true)
}

func (s *Scene) beginOperation(op OperationMode, needsSelection bool) error {
	if s.Ctx.Nav != NavNone {
		return s.reject(ErrBusy)
	}
	if needsSelection && !s.Project.HasSelection() {
		return s.reject(undo.ErrEmptySelection)
	}
	if !s.Ctx.Op.selectionMode() {
		s.cancelOperation()
	}
	s.prevOp = s.Ctx.Op
	s.placed, s.measureFrom, s.rotatePoints = nil, nil, nil
	s.gizmoBefore = s.Ctx.Gizmo.Transform.Translation
	s.Ctx.AxisLock = core.AxisNone
	s.setOp(op)
	return nil
}

// FinishVertexPlacement ends vertex placement and returns the placed
// vertices, which are also sent as a VerticesPlaced event.
func (s *Scene) FinishVertexPlacement() []mgl64.Vec3 {
	if s.Ctx.Op != OpPlacingVertex {
		return nil
	}
	v := s.placed
	if len(v) > 0 {
		s.Events.Emit(Event{Kind: VerticesPlaced, Vertices: append([]mgl64.Vec3(nil), v...)})
	}
	s.endOperation()
	return v
}

func (s *Scene) cancelOperation() {
	if s.Ctx.Op == OpMovingGizmo {
		s.Ctx.Gizmo.SetTranslation(s.gizmoBefore)
	}
	s.Ctx.AxisLock = core.AxisNone
	if !s.Ctx.Op.selectionMode() {
		s.endOperation()
	}
}

func (s *Scene) endOperation() {
	s.placed, s.measureFrom, s.rotatePoints = nil, nil, nil
	s.hover = snap.Result{}
	s.Ctx.AxisLock = core.AxisNone
	s.setOp(selectionOp(s.Project.HasSelection()))
}

// hoverOperation tracks the snapped cursor in point placing modes.
func (s *Scene) hoverOperation() {
	if s.Ctx.Nav != NavNone {
		return
	}
	switch s.Ctx.Op {
	case OpPlacingVertex, OpMeasuring, OpThreePointRotation, OpMovingGizmo:
		s.hover = s.snapPoint()
		if s.Ctx.Op == OpMovingGizmo {
			s.Ctx.Gizmo.SetTranslation(s.hover.Point)
		}
	}
}

// click handles a left button release that did not move the mouse.
func (s *Scene) click(in *Input) {
	switch s.Ctx.Op {
	case OpPlacingVertex:
		s.placed = append(s.placed, s.snapPoint().Point)
	case OpMeasuring:
		s.measureClick()
	case OpMovingGizmo:
		s.Ctx.Gizmo.SetTranslation(s.snapPoint().Point)
		s.endOperation()
	case OpAligningGizmo:
		s.alignClick()
	case OpThreePointRotation:
		s.rotationClick()
	default:
		s.selectClick(in)
	}
}

// selectClick changes the selection for the object under the cursor:
// Shift selects the parent with all its children, Alt selects only the
// object, a plain click toggles the object with its children. A click into
// empty space deselects everything.
func (s *Scene) selectClick(in *Input) {
	c, ok := s.pickOnce().FrontObject()
	if !ok {
		if s.Project.HasSelection() {
			_ = s.commit(undo.NewDeselectAll())
		}
		return
	}
	id := c.ObjectID
	var cmd *undo.SelectObjects
	switch {
	case in.Shift():
		if parent := s.Project.Parent(id); parent != project.InvalidID {
			id = parent
		}
		cmd = undo.NewSelectObjects([]project.ID{id}, true, true)
	case in.Alt():
		cmd = undo.NewSelectObjects([]project.ID{id}, true, false)
		cmd.Exclusive = true
	default:
		r, ok := s.Project.Lookup(id)
		if !ok {
			return
		}
		cmd = undo.NewSelectObjects([]project.ID{id}, !r.Object().Selected, true)
	}
	_ = s.commit(cmd)
}

func (s *Scene) measureClick() {
	p := s.snapPoint().Point
	if s.measureFrom == nil {
		s.measureFrom = &p
		return
	}
	from := *s.measureFrom
	s.measureFrom = nil
	d := p.Sub(from).Len()
	s.Log.Debugf("measured %.3f m", d)
	s.Events.Emit(Event{Kind: MeasurementDone, Vertices: []mgl64.Vec3{from, p}, Distance: d})
}

// alignClick orients the gizmo: local Z along the clicked surface normal,
// local X along its first edge.
func (s *Scene) alignClick() {
	c, ok := s.pickOnce().FrontObject()
	if !ok {
		_ = s.reject(ErrNoSurface)
		return
	}
	r, ok := s.Project.Lookup(c.ObjectID)
	if !ok || !r.HasPolygon() {
		_ = s.reject(ErrNoSurface)
		return
	}
	poly := r.Polygon()
	if !s.Ctx.Gizmo.AlignTo(poly.Normal(), poly.LocalX()) {
		_ = s.reject(ErrNoSurface)
		return
	}
	s.endOperation()
}

func (s *Scene) rotationClick() {
	s.rotatePoints = append(s.rotatePoints, s.snapPoint().Point)
	if len(s.rotatePoints) < 3 {
		return
	}
	pivot, from, to := s.rotatePoints[0], s.rotatePoints[1], s.rotatePoints[2]
	s.rotatePoints = nil

	axis := s.Ctx.Gizmo.Axis(2)
	a := from.Sub(pivot)
	a = a.Sub(axis.Mul(a.Dot(axis)))
	b := to.Sub(pivot)
	b = b.Sub(axis.Mul(b.Dot(axis)))
	if a.Len() < geom.GeometricEpsilon || b.Len() < geom.GeometricEpsilon {
		_ = s.reject(ErrDegenerateRotation)
		return
	}
	angle := math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
	ids := s.Project.SelectedIDs()
	s.endOperation()
	_ = s.commit(undo.NewRotate(ids, mgl64.QuatRotate(angle, axis), pivot))
}

// EnterAxisValue finishes an interactive translation with a typed offset
// from the start point: one coordinate along the locked axis, or three
// world coordinates without a lock.
func (s *Scene) EnterAxisValue(text string) error {
	if s.Ctx.Nav != NavInteractiveTranslate {
		return s.reject(ErrNotInteractive)
	}
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return s.reject(fmt.Errorf("%w: %q", ErrInvalidAxisValue, f))
		}
		vals = append(vals, v)
	}

	gz := s.Ctx.Gizmo
	start := gz.Snapshot().Translation
	var d mgl64.Vec3
	if dir, ok := s.Ctx.AxisLock.Direction(gz.Transform.Rotation); ok {
		if len(vals) != 1 {
			return s.reject(fmt.Errorf("%w: axis %s takes one coordinate, got %d", ErrInvalidAxisValue, s.Ctx.AxisLock, len(vals)))
		}
		d = dir.Mul(vals[0])
	} else {
		if len(vals) != 3 {
			return s.reject(fmt.Errorf("%w: want three coordinates, got %d", ErrInvalidAxisValue, len(vals)))
		}
		d = mgl64.Vec3{vals[0], vals[1], vals[2]}
	}

	gz.SetTranslation(start.Add(d))
	p := identityPreview(start)
	p.Translation = d
	s.setPreview(p)
	s.pressing = false
	s.finishTransform(false)
	return nil
}
