package vic3d

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/buffers"
	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/nav"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/rubberband"
	"github.com/simvicus/vic3d/view3d/snap"
	"github.com/simvicus/vic3d/view3d/undo"
)

// Change flags accepted by Scene.Notify.
const (
	ChangeSelection  = undo.ChangeSelection
	ChangeVisibility = undo.ChangeVisibility
	ChangeGeometry   = undo.ChangeGeometry
	ChangeColorMode  = undo.ChangeColorMode

	ChangeAll = ChangeSelection | ChangeVisibility | ChangeGeometry | ChangeColorMode
)

var (
	ErrNotInteractive   = errors.New("scene: no interactive translation in progress")
	ErrInvalidAxisValue = errors.New("scene: invalid axis value")
	ErrBusy             = errors.New("scene: navigation in progress")
	ErrNoCommitter      = errors.New("scene: no committer")
)

// CursorWarper moves the mouse cursor to a position in window pixels.
type CursorWarper interface {
	WarpCursor(x, y float64)
}

// Scene drives one 3D view: it turns input ticks into camera moves, gizmo
// previews and commands, and owns the render buffers of the project.
//
// The project is only read. Every modification goes through Committer, which
// must apply the command before it returns.
type Scene struct {
	Ctx       *InteractionContext
	Project   *project.Project
	Committer undo.Committer
	Generator *buffers.Generator
	Events    Events
	Log       Logger
	Profiler  *Profiler
	Warper    CursorWarper

	warn  *passLogger
	index *pick.Index

	fly        nav.Fly
	first      nav.FirstPerson
	orbit      nav.Orbit
	pan        nav.Pan
	band       rubberband.Band
	transition *nav.Transition

	// left button down, not yet known to be a click or a drag
	pressing   bool
	clickAccum float64

	prevOp  OperationMode
	preview Preview
	moving  map[project.ID]bool
	typed   []rune

	rotateStart mgl64.Vec3
	scaleStart  float64

	gizmoBefore  mgl64.Vec3
	placed       []mgl64.Vec3
	measureFrom  *mgl64.Vec3
	rotatePoints []mgl64.Vec3
	hover        snap.Result
}

// NewScene builds a scene for p and generates its buffers once. log may be
// nil.
func NewScene(p *project.Project, cfg Config, committer undo.Committer, log Logger) *Scene {
	if log == nil {
		log = NewNopLogger()
	}
	if cfg.Debug {
		log.SetDebug(true)
	}
	s := &Scene{
		Ctx:       NewInteractionContext(cfg),
		Project:   p,
		Committer: committer,
		Generator: buffers.NewGenerator(),
		Log:       log,
		Profiler:  NewProfiler(),
		warn:      newPassLogger(log),
		preview:   identityPreview(mgl64.Vec3{}),
	}
	s.Generator.Mode = cfg.ColorMode()
	s.Generator.Log = s.warn
	s.applyConfig()
	s.Notify(ChangeAll)
	return s
}

func (s *Scene) applyConfig() {
	cfg := s.Ctx.Config
	settings := cfg.NavSettings()
	s.fly.Settings = settings
	s.first.Settings = settings
	s.orbit.Settings = settings
	s.band.DPIScale = cfg.View.DevicePixelRatio
}

// SetConfig replaces the configuration. It fails for invalid configs.
func (s *Scene) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.Ctx.Config = cfg
	s.Ctx.Snap = cfg.SnapConfig()
	s.Ctx.Pick.Grids = cfg.GridPlanes()
	s.Ctx.Camera.FieldOfView = cfg.View.FieldOfView
	s.Ctx.Camera.NearPlane = cfg.View.NearPlane
	s.Ctx.Camera.FarPlane = cfg.View.FarPlane
	s.Ctx.Gizmo.AxisLength = cfg.Gizmo.AxisLength
	s.Ctx.Gizmo.HandleRadius = cfg.Gizmo.HandleRadius
	s.Log.SetDebug(cfg.Debug)
	s.applyConfig()
	return nil
}

func identityPreview(pivot mgl64.Vec3) Preview {
	return Preview{Rotation: mgl64.QuatIdent(), Pivot: pivot, Scale: mgl64.Vec3{1, 1, 1}}
}

// Preview is the live transformation while a transform mode is active.
func (s *Scene) Preview() Preview { return s.preview }

// Hover is the snapped point of the last tick in a point placing mode.
func (s *Scene) Hover() snap.Result { return s.hover }

// PlacedVertices returns the vertices placed so far.
func (s *Scene) PlacedVertices() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), s.placed...)
}

// Notify tells the scene that the project changed. It is the only place
// that regenerates the render buffers.
func (s *Scene) Notify(change undo.Change) {
	if change == 0 {
		return
	}
	if change.Has(ChangeGeometry | ChangeVisibility) {
		s.index = nil
	}
	if change.Has(ChangeGeometry) {
		s.Project.Reindex()
	}

	s.warn.Reset()
	s.Profiler.BeginScope(StageRegenerate)
	s.Generator.Regenerate(s.Project)
	d := s.Profiler.EndScope(StageRegenerate)
	vertices := len(s.Generator.Building.Vertices) + len(s.Generator.Network.Vertices)
	s.Profiler.SetCount(CountVertices, vertices)
	s.Log.Debugf("buffers regenerated (%s): %d vertices in %s", change, vertices, d)

	if change.Has(ChangeSelection | ChangeVisibility | ChangeGeometry) {
		s.syncSelection(change)
	}

	if change.Has(ChangeSelection) {
		s.Events.Emit(Event{Kind: SelectionChanged, IDs: s.Project.SelectedIDs()})
	}
	if change.Has(ChangeVisibility) {
		s.Events.Emit(Event{Kind: VisibilityChanged})
	}
	if change.Has(ChangeGeometry) {
		s.Events.Emit(Event{Kind: GeometryChanged})
	}
	if change.Has(ChangeColorMode) {
		s.Events.Emit(Event{Kind: ColorModeChanged, ColorMode: s.Generator.Mode})
	}
	s.Events.Emit(Event{Kind: BuffersRegenerated})
}

func selectionOp(has bool) OperationMode {
	if has {
		return OpHasSelection
	}
	return OpNoSelection
}

// syncSelection keeps the operation mode and the gizmo in line with the
// selection.
func (s *Scene) syncSelection(change undo.Change) {
	has := s.Project.HasSelection()
	gz := s.Ctx.Gizmo

	if !has && s.Ctx.Nav.IsTransform() {
		s.cancelTransform()
	}
	if change.Has(ChangeSelection) && s.Ctx.Op.selectionMode() {
		if has {
			gz.SetTranslation(s.Project.SelectionBounds().Center())
		} else {
			gz.Reset()
		}
	}
	if s.prevOp.selectionMode() {
		s.prevOp = selectionOp(has)
	}
	if s.Ctx.Op.selectionMode() {
		s.setOp(selectionOp(has))
	}
}

func (s *Scene) setNav(m NavigationMode) {
	if s.Ctx.Nav == m {
		return
	}
	s.Log.Debugf("navigation mode %s -> %s", s.Ctx.Nav, m)
	s.Ctx.Nav = m
	s.Events.Emit(Event{Kind: NavigationModeChanged, Navigation: m})
}

func (s *Scene) setOp(m OperationMode) {
	if s.Ctx.Op == m {
		return
	}
	s.Log.Debugf("operation mode %s -> %s", s.Ctx.Op, m)
	s.Ctx.Op = m
	s.Events.Emit(Event{Kind: OperationModeChanged, Operation: m})
}

// commit hands cmd to the committer and notifies the scene on success.
func (s *Scene) commit(cmd undo.Command) error {
	if s.Committer == nil {
		s.Log.Errorf("%s: %v", cmd.Description(), ErrNoCommitter)
		return ErrNoCommitter
	}
	if err := s.Committer.Commit(cmd); err != nil {
		s.Log.Errorf("%s: %v", cmd.Description(), err)
		return err
	}
	s.Log.Debugf("committed %q (%s)", cmd.Description(), cmd.Changes())
	s.Notify(cmd.Changes())
	return nil
}

// reject reports invalid user input.
func (s *Scene) reject(err error) error {
	s.Log.Infof("input rejected: %v", err)
	s.Events.Emit(Event{Kind: InputRejected, Err: err})
	return err
}

func (s *Scene) pickSource() pick.Source {
	if s.index == nil {
		s.index = pick.BuildIndex(s.Project, s.Generator.Annotations)
	}
	return pick.Source{
		Project: s.Project,
		Index:   s.index,
		Radii:   s.Generator.Annotations,
		Log:     s.warn,
	}
}

// pickOnce casts the ray of this tick unless it was already cast.
func (s *Scene) pickOnce() *pick.Object {
	o := s.Ctx.Pick
	if o.Picked() {
		return o
	}
	s.Profiler.BeginScope(StagePick)
	o.Pick(s.pickSource())
	s.Profiler.EndScope(StagePick)
	s.Profiler.SetCount(CountCandidates, len(o.Candidates))
	return o
}

// snapPoint resolves the cursor to a point. In point placing modes a locked
// axis runs through the last placed point.
func (s *Scene) snapPoint() snap.Result {
	cfg := s.Ctx.Snap
	offset := s.Ctx.Gizmo.Transform.Translation
	if n := len(s.placed); n > 0 && s.Ctx.Op == OpPlacingVertex {
		offset = s.placed[n-1]
	}
	if s.measureFrom != nil && s.Ctx.Op == OpMeasuring {
		offset = *s.measureFrom
	}
	if dir, ok := s.Ctx.AxisLock.Direction(s.Ctx.Gizmo.Transform.Rotation); ok {
		cfg.Axis = &snap.Axis{Offset: offset, Direction: dir}
	}
	return snap.Resolve(s.pickOnce(), cfg, s.Project)
}

// SetColorMode recolors the buffers.
func (s *Scene) SetColorMode(m buffers.ColorMode) {
	if s.Generator.Mode == m {
		return
	}
	s.Generator.Mode = m
	s.Notify(ChangeColorMode)
}

func (s *Scene) projectBounds() geom.AABB {
	b := geom.EmptyAABB()
	s.Project.ForEach(func(r project.Ref) bool {
		if r.Object().Visible {
			b = b.Union(s.Project.Bounds(r.ID))
		}
		return true
	})
	return b
}

// FocusSelection moves the camera so that the selection, or the whole
// project without one, fills the view. The view direction is kept.
func (s *Scene) FocusSelection() error {
	b := s.Project.SelectionBounds()
	if b.Empty() {
		b = s.projectBounds()
	}
	return s.flyTo(nav.FrameDirection(s.Ctx.Camera, b))
}

// SetStandardView looks at the whole project from a fixed direction.
func (s *Scene) SetStandardView(v nav.StandardView) error {
	return s.flyTo(nav.FrameBounds(s.Ctx.Camera, s.projectBounds(), v))
}

func (s *Scene) flyTo(t core.Transform) error {
	if s.Ctx.Nav != NavNone {
		return ErrBusy
	}
	cam := s.Ctx.Camera
	d := s.Ctx.Config.View.TransitionTime
	if d <= 0 {
		cam.Transform = t
		s.transition = nil
		return nil
	}
	s.transition = nav.NewTransition(cam.Transform, t, float32(d), nil)
	return nil
}

// Transitioning reports whether an animated camera move is running.
func (s *Scene) Transitioning() bool { return s.transition != nil }
