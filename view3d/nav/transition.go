package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
)

// Transition flies the camera from one transform to another. The position
// is interpolated linearly and the rotation spherically, both driven by a
// single eased parameter.
type Transition struct {
	from, to core.Transform
	tween    *gween.Tween
	done     bool
}

func NewTransition(from, to core.Transform, duration float32, fn ease.TweenFunc) *Transition {
	if fn == nil {
		fn = ease.InOutCubic
	}
	return &Transition{
		from:  from,
		to:    to,
		tween: gween.New(0, 1, duration, fn),
	}
}

func (t *Transition) Target() core.Transform { return t.to }
func (t *Transition) Done() bool             { return t.done }

// Update advances the transition by dt seconds and writes the camera. It
// returns true once the target is reached.
func (t *Transition) Update(cam *core.Camera, dt float32) bool {
	if t.done {
		return true
	}
	v, finished := t.tween.Update(dt)
	s := float64(v)
	if finished {
		s = 1
	}
	cam.Translation = t.from.Translation.Add(t.to.Translation.Sub(t.from.Translation).Mul(s))
	cam.Rotation = mgl64.QuatSlerp(t.from.Rotation, t.to.Rotation, s).Normalize()
	t.done = finished
	return finished
}

// Standard views of the scene.
type StandardView int

const (
	ViewTop StandardView = iota
	ViewBottom
	ViewNorth
	ViewSouth
	ViewEast
	ViewWest
)

// FrameBounds returns the camera transform that looks at bounds from the
// given direction with the whole box in view.
func FrameBounds(cam *core.Camera, b geom.AABB, view StandardView) core.Transform {
	if b.Empty() {
		b = geom.EmptyAABB().Extend(mgl64.Vec3{}).Grow(10)
	}
	center := b.Center()
	radius := b.Max.Sub(b.Min).Len() / 2
	if radius < 1 {
		radius = 1
	}
	var dir mgl64.Vec3
	switch view {
	case ViewTop:
		dir = mgl64.Vec3{0, 0, -1}
	case ViewBottom:
		dir = mgl64.Vec3{0, 0, 1}
	case ViewNorth:
		dir = mgl64.Vec3{0, -1, 0}
	case ViewSouth:
		dir = mgl64.Vec3{0, 1, 0}
	case ViewEast:
		dir = mgl64.Vec3{-1, 0, 0}
	case ViewWest:
		dir = mgl64.Vec3{1, 0, 0}
	}
	return lookFrom(cam, center, dir, radius)
}

// FrameDirection keeps the current view direction and backs off from
// the box so that it fills the view.
func FrameDirection(cam *core.Camera, b geom.AABB) core.Transform {
	if b.Empty() {
		return cam.Transform
	}
	radius := b.Max.Sub(b.Min).Len() / 2
	if radius < 1 {
		radius = 1
	}
	return lookFrom(cam, b.Center(), cam.Forward(), radius)
}

func lookFrom(cam *core.Camera, center, dir mgl64.Vec3, radius float64) core.Transform {
	half := mgl64.DegToRad(cam.FieldOfView) / 2
	dist := radius / math.Max(math.Sin(half), 0.05)
	eye := center.Sub(dir.Mul(dist))
	return core.Transform{Translation: eye, Rotation: core.LookRotation(dir)}
}
