package vic3d

import (
	"math"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/nav"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/rubberband"
	"github.com/simvicus/vic3d/view3d/snap"
	"github.com/simvicus/vic3d/view3d/undo"
)

// smallest scale factor a drag can produce
const minScaleFactor = 1e-3

// Tick advances the view by one input frame of dt seconds. The input is only
// read; at most one pick is cast.
func (s *Scene) Tick(in *Input, dt float64) {
	s.updateViewport(in)
	s.keys(in)
	s.flyKeys(in, dt)
	s.updateTransition(dt)
	s.navigate(in)

	// everything below sees the camera of this tick
	s.resetPick(in)
	s.press(in)
	s.drag(in)
	s.hoverOperation()
	s.release(in)
	s.wheel(in)
}

func (s *Scene) dpr() float64 {
	if d := s.Ctx.Config.View.DevicePixelRatio; d > 0 {
		return d
	}
	return 1
}

// pixel is the cursor position in viewport pixels.
func (s *Scene) pixel(in *Input) mgl64.Vec2 {
	return mgl64.Vec2{in.MouseX, in.MouseY}.Mul(s.dpr())
}

func (s *Scene) updateViewport(in *Input) {
	if in.WindowWidth <= 0 || in.WindowHeight <= 0 {
		return
	}
	d := s.dpr()
	s.Ctx.Camera.Viewport = core.Viewport{
		Width:  float64(in.WindowWidth) * d,
		Height: float64(in.WindowHeight) * d,
	}
}

func (s *Scene) keys(in *Input) {
	if in.JustPressed[KeyEscape] {
		s.Cancel()
		return
	}

	if s.Ctx.Nav == NavInteractiveTranslate {
		s.typeAxisValue(in)
	}
	if s.Ctx.Nav == NavInteractiveTranslate || s.Ctx.Nav == NavInteractiveScale || s.placingPoints() {
		for i, key := range [3]int{KeyX, KeyY, KeyZ} {
			if in.JustPressed[key] {
				s.Ctx.AxisLock = s.Ctx.AxisLock.Toggle(core.AxisX + core.AxisLock(i))
				s.Log.Debugf("axis lock %s", s.Ctx.AxisLock)
			}
		}
	}
	if s.Ctx.Nav != NavNone {
		return
	}

	switch {
	case in.JustPressed[KeyT]:
		gz := s.Ctx.Gizmo
		if gz.HandleMode == core.HandleRotate {
			gz.HandleMode = core.HandleScale
		} else {
			gz.HandleMode = core.HandleRotate
		}
	case in.JustPressed[KeyDelete] && s.Ctx.Op == OpHasSelection:
		_ = s.commit(undo.NewDeleteSelected())
	case in.JustPressed[KeyH] && in.Shift():
		s.showAll()
	case in.JustPressed[KeyH] && s.Ctx.Op == OpHasSelection:
		_ = s.commit(undo.NewSetVisibility(s.Project.SelectedIDs(), false))
	case in.JustPressed[KeyHome]:
		_ = s.FocusSelection()
	case in.JustPressed[KeyEnter] && s.Ctx.Op == OpPlacingVertex:
		s.FinishVertexPlacement()
	case in.JustPressed[KeyBackspace] && s.Ctx.Op == OpPlacingVertex:
		if n := len(s.placed); n > 0 {
			s.placed = s.placed[:n-1]
		}
	}
}

// typeAxisValue collects numeric keyboard entry while translating. Enter
// applies it.
func (s *Scene) typeAxisValue(in *Input) {
	for _, r := range in.CharBuffer {
		if unicode.IsDigit(r) || strings.ContainsRune("+-. ,;", r) {
			s.typed = append(s.typed, r)
		}
	}
	if in.JustPressed[KeyBackspace] && len(s.typed) > 0 {
		s.typed = s.typed[:len(s.typed)-1]
	}
	if in.JustPressed[KeyEnter] && len(s.typed) > 0 {
		text := string(s.typed)
		s.typed = s.typed[:0]
		_ = s.EnterAxisValue(text)
	}
}

func (s *Scene) showAll() {
	var hidden []project.ID
	s.Project.ForEach(func(r project.Ref) bool {
		if !r.Object().Visible {
			hidden = append(hidden, r.ID)
		}
		return true
	})
	if len(hidden) > 0 {
		_ = s.commit(undo.NewSetVisibility(hidden, true))
	}
}

func (s *Scene) placingPoints() bool {
	switch s.Ctx.Op {
	case OpPlacingVertex, OpMovingGizmo, OpMeasuring:
		return true
	}
	return false
}

func (s *Scene) flyKeys(in *Input, dt float64) {
	if s.Ctx.Nav.IsTransform() || s.Ctx.Nav == NavRubberbandSelect {
		return
	}
	k := nav.FlyKeys{
		Forward:   in.Pressed[KeyW],
		Backward:  in.Pressed[KeyS],
		Left:      in.Pressed[KeyA],
		Right:     in.Pressed[KeyD],
		Up:        in.Pressed[KeyR],
		Down:      in.Pressed[KeyF],
		RollLeft:  in.Pressed[KeyQ],
		RollRight: in.Pressed[KeyE],
		Slow:      in.Shift(),
		Control:   in.Control(),
	}
	if s.fly.Apply(s.Ctx.Camera, k, dt) {
		s.transition = nil
	}
}

func (s *Scene) updateTransition(dt float64) {
	if s.transition == nil {
		return
	}
	if s.transition.Update(s.Ctx.Camera, float32(dt)) {
		s.transition = nil
	}
}

// navigate continues the active camera mode with this tick's mouse delta.
func (s *Scene) navigate(in *Input) {
	dx, dy := in.MouseDeltaX, in.MouseDeltaY
	if s.pressing {
		s.clickAccum += dx*dx + dy*dy
	}
	cam := s.Ctx.Camera
	switch s.Ctx.Nav {
	case NavOrbit:
		s.orbit.Rotate(cam, dx, dy)
	case NavFirstPerson:
		s.first.Rotate(cam, dx, dy)
	case NavPan:
		s.updatePan(in)
	case NavRubberbandSelect:
		s.band.Update(mgl64.Vec2{in.MouseX, in.MouseY})
	}
}

func (s *Scene) updatePan(in *Input) {
	cam := s.Ctx.Camera
	s.pan.Update(cam, s.pixel(in))
	if s.Warper == nil || in.WindowWidth <= 0 || in.WindowHeight <= 0 {
		return
	}
	win := core.Viewport{Width: float64(in.WindowWidth), Height: float64(in.WindowHeight)}
	to, wrapped := nav.WrapPixel(win, mgl64.Vec2{in.MouseX, in.MouseY}, s.Ctx.Config.Navigation.WrapMargin)
	if !wrapped {
		return
	}
	s.Warper.WarpCursor(to.X(), to.Y())
	s.pan.Rebase(cam, to.Mul(s.dpr()))
}

func (s *Scene) gizmoPickable() bool {
	return s.Ctx.Op == OpHasSelection && s.Ctx.Nav == NavNone
}

// GizmoVisible reports whether the coordinate system should be drawn.
func (s *Scene) GizmoVisible() bool {
	switch s.Ctx.Op {
	case OpHasSelection, OpMovingGizmo, OpAligningGizmo, OpThreePointRotation:
		return true
	}
	return s.Ctx.Nav.IsTransform()
}

func (s *Scene) resetPick(in *Input) {
	o := s.Ctx.Pick
	cam := s.Ctx.Camera
	o.Reset(s.pixel(in), cam.WorldToView(), cam.Viewport)
	o.Gizmo = nil
	o.Options = pick.Options{ExcludeIDs: s.moving}
	if s.gizmoPickable() {
		o.Gizmo = s.Ctx.Gizmo.PickPoints()
		o.Options.GizmoActive = true
	}
}

// focusPoint is the world point under the cursor, or a point at the
// dampening distance along the ray when nothing was hit.
func (s *Scene) focusPoint(o *pick.Object) mgl64.Vec3 {
	front := o.Front()
	if front.Kind != pick.FarPlaneHit {
		return front.Point
	}
	d := s.Ctx.Config.Navigation.DampeningDistance
	if d <= 0 {
		d = 100
	}
	return o.RayOrigin.Add(o.RayDir.Mul(d))
}

func (s *Scene) press(in *Input) {
	if s.Ctx.Nav != NavNone {
		return
	}
	cam := s.Ctx.Camera
	switch {
	case in.JustPressed[MouseButtonLeft]:
		s.transition = nil
		s.pressing = true
		s.clickAccum = 0
		s.pressLeft(in)
	case in.JustPressed[MouseButtonRight]:
		s.transition = nil
		s.setNav(NavFirstPerson)
	case in.JustPressed[MouseButtonMiddle]:
		o := s.pickOnce()
		if s.pan.Begin(cam, o.Pixel, o.Front().Point) {
			s.transition = nil
			s.setNav(NavPan)
		}
	}
}

func (s *Scene) pressLeft(in *Input) {
	if in.Control() && s.Ctx.Op.selectionMode() {
		s.prevOp = s.Ctx.Op
		s.band.Begin(mgl64.Vec2{in.MouseX, in.MouseY})
		s.setNav(NavRubberbandSelect)
		s.setOp(OpRubberbandSelecting)
		return
	}
	o := s.pickOnce()
	if s.Ctx.Op == OpHasSelection {
		if c, ok := o.FrontGizmo(); ok {
			s.beginTransform(c.Handle)
			return
		}
	}
	s.orbit.Begin(s.Ctx.Camera, s.focusPoint(o))
	s.setNav(NavOrbit)
}

func (s *Scene) beginTransform(h core.HandleKind) {
	gz := s.Ctx.Gizmo
	mode := gz.ModeForHandle(h)

	ids := s.Project.SelectedIDs()
	s.moving = make(map[project.ID]bool, len(ids))
	for _, id := range ids {
		s.moving[id] = true
	}
	s.typed = s.typed[:0]
	s.Ctx.AxisLock = core.AxisNone

	gz.Enter(mode)
	center := gz.Transform.Translation
	s.preview = identityPreview(center)

	switch {
	case mode == core.GizmoTranslate:
		s.setNav(NavInteractiveTranslate)
	case mode.IsRotate():
		i := mode.Axis()
		start, ok := s.rotationVector(gz.Axis(i), center)
		if !ok {
			start = gz.Axis((i + 1) % 3)
		}
		s.rotateStart = start
		s.setNav(NavInteractiveRotate)
	case mode.IsScale():
		o := s.Ctx.Pick
		_, _, d := geom.LineToLineDistance(o.RayOrigin, o.RayDir, center, gz.Axis(mode.Axis()))
		if math.Abs(d) < geom.GeometricEpsilon {
			d = gz.AxisLength
		}
		s.scaleStart = d
		s.setNav(NavInteractiveScale)
	}
}

// rotationVector is the unit vector from center to the cursor ray's hit on
// the rotation plane.
func (s *Scene) rotationVector(axis, center mgl64.Vec3) (mgl64.Vec3, bool) {
	origin, dir, ok := s.Ctx.Camera.PickRay(s.Ctx.Pick.Pixel)
	if !ok {
		return mgl64.Vec3{}, false
	}
	hit, _, ok := geom.LinePlaneIntersection(center, axis, origin, dir)
	if !ok {
		return mgl64.Vec3{}, false
	}
	v := hit.Sub(center)
	v = v.Sub(axis.Mul(v.Dot(axis)))
	if v.Len() < geom.GeometricEpsilon {
		return mgl64.Vec3{}, false
	}
	return v.Normalize(), true
}

func snapAngle(rad, stepDegrees float64) float64 {
	if stepDegrees <= 0 {
		return rad
	}
	step := mgl64.DegToRad(stepDegrees)
	return math.Round(rad/step) * step
}

func (s *Scene) setPreview(p Preview) {
	if p == s.preview {
		return
	}
	s.preview = p
	s.Events.Emit(Event{Kind: TransformPreview, Preview: p})
}

func (s *Scene) drag(in *Input) {
	if in.JustPressed[MouseButtonLeft] {
		// the press tick only enters the mode
		return
	}
	switch s.Ctx.Nav {
	case NavInteractiveTranslate:
		s.dragTranslate()
	case NavInteractiveRotate:
		s.dragRotate(in)
	case NavInteractiveScale:
		s.dragScale()
	}
}

func (s *Scene) dragTranslate() {
	gz := s.Ctx.Gizmo
	start := gz.Snapshot().Translation
	cfg := s.Ctx.Snap
	if dir, ok := s.Ctx.AxisLock.Direction(gz.Transform.Rotation); ok {
		cfg.Axis = &snap.Axis{Offset: start, Direction: dir}
	}
	res := snap.Resolve(s.pickOnce(), cfg, s.Project)
	if res.Kind == snap.None {
		return
	}
	s.hover = res
	gz.SetTranslation(res.Point)

	p := identityPreview(start)
	p.Translation = res.Point.Sub(start)
	s.setPreview(p)
}

func (s *Scene) dragRotate(in *Input) {
	gz := s.Ctx.Gizmo
	axis := gz.Axis(gz.Mode.Axis())
	center := gz.Transform.Translation
	v, ok := s.rotationVector(axis, center)
	if !ok {
		return
	}
	angle := math.Atan2(axis.Dot(s.rotateStart.Cross(v)), s.rotateStart.Dot(v))
	if !in.Shift() {
		angle = snapAngle(angle, s.Ctx.Config.Gizmo.RotationSnapDegrees)
	}

	p := identityPreview(center)
	p.Rotation = mgl64.QuatRotate(angle, axis)
	s.setPreview(p)
}

func (s *Scene) dragScale() {
	gz := s.Ctx.Gizmo
	i := gz.Mode.Axis()
	axis := gz.Axis(i)
	center := gz.Transform.Translation

	cfg := s.Ctx.Snap
	cfg.Axis = &snap.Axis{Offset: center, Direction: axis}
	res := snap.Resolve(s.pickOnce(), cfg, s.Project)
	if res.Kind == snap.None {
		return
	}
	s.hover = res
	f := res.Point.Sub(center).Dot(axis) / s.scaleStart
	if math.Abs(f) < minScaleFactor {
		f = math.Copysign(minScaleFactor, f)
	}

	p := identityPreview(center)
	p.Scale[i] = f
	s.setPreview(p)
}

// finishTransform leaves a transform mode. A drag commits the previewed
// transformation once, a click on a handle changes nothing.
func (s *Scene) finishTransform(click bool) {
	if click {
		s.cancelTransform()
		return
	}
	gz := s.Ctx.Gizmo
	p := s.preview
	ids := s.Project.SelectedIDs()

	var cmd undo.Command
	switch s.Ctx.Nav {
	case NavInteractiveTranslate:
		if p.Translation.Len() > geom.GeometricEpsilon {
			cmd = undo.NewTranslate(ids, p.Translation)
		}
	case NavInteractiveRotate:
		if !p.Rotation.ApproxEqual(mgl64.QuatIdent()) {
			cmd = undo.NewRotate(ids, p.Rotation, p.Pivot)
		}
	case NavInteractiveScale:
		if !p.Scale.ApproxEqual(mgl64.Vec3{1, 1, 1}) {
			cmd = undo.NewScale(ids, p.Scale, p.Pivot, gz.Transform.Rotation)
		}
	}
	rotating := s.Ctx.Nav == NavInteractiveRotate
	s.endTransform()

	if cmd == nil || s.commit(cmd) != nil {
		gz.Restore()
		return
	}
	gz.Finish()
	if rotating {
		gz.SetRotation(p.Rotation.Mul(gz.Transform.Rotation).Normalize())
	}
}

// cancelTransform rolls the gizmo back and leaves the transform mode.
func (s *Scene) cancelTransform() {
	if !s.Ctx.Nav.IsTransform() {
		return
	}
	s.Ctx.Gizmo.Restore()
	s.endTransform()
}

func (s *Scene) endTransform() {
	s.setNav(NavNone)
	s.moving = nil
	s.typed = s.typed[:0]
	s.Ctx.AxisLock = core.AxisNone
	s.setPreview(identityPreview(s.Ctx.Gizmo.Snapshot().Translation))
}

func (s *Scene) release(in *Input) {
	if in.JustReleased[MouseButtonLeft] {
		click := s.pressing && s.clickAccum < s.Ctx.Config.Navigation.ClickThreshold
		s.pressing = false
		switch m := s.Ctx.Nav; {
		case m == NavOrbit:
			s.orbit.End()
			s.setNav(NavNone)
			if click {
				s.click(in)
			}
		case m == NavRubberbandSelect:
			s.finishRubberband()
		case m.IsTransform():
			s.finishTransform(click)
		case m == NavNone:
			if click {
				s.click(in)
			}
		}
	}
	if in.JustReleased[MouseButtonRight] && s.Ctx.Nav == NavFirstPerson {
		s.setNav(NavNone)
	}
	if in.JustReleased[MouseButtonMiddle] && s.Ctx.Nav == NavPan {
		s.pan.End()
		s.setNav(NavNone)
	}
}

func (s *Scene) finishRubberband() {
	r := s.band.Finish()
	s.setNav(NavNone)
	s.setOp(s.prevOp)
	cam := s.Ctx.Camera
	ids := rubberband.Select(s.Project, cam.WorldToView(), cam.Viewport, r)
	if len(ids) == 0 {
		return
	}
	_ = s.commit(undo.NewSelectObjects(ids, true, false))
}

func (s *Scene) wheel(in *Input) {
	if in.Scroll == 0 || s.Ctx.Nav != NavNone {
		return
	}
	target := s.focusPoint(s.pickOnce())
	nav.Zoom(s.Ctx.Camera, target, in.Scroll, in.Shift(), s.fly.Settings)
	s.transition = nil
}

// Cancel leaves the current mode the way Escape does: a transform restores
// the gizmo, a camera mode stops, and without either the current operation
// is abandoned.
func (s *Scene) Cancel() {
	s.transition = nil
	s.pressing = false
	switch m := s.Ctx.Nav; {
	case m.IsTransform():
		s.cancelTransform()
	case m == NavOrbit:
		s.orbit.End()
		s.setNav(NavNone)
	case m == NavPan:
		s.pan.End()
		s.setNav(NavNone)
	case m == NavFirstPerson:
		s.setNav(NavNone)
	case m == NavRubberbandSelect:
		s.band.Cancel()
		s.setNav(NavNone)
		s.setOp(s.prevOp)
	default:
		s.cancelOperation()
	}
}
