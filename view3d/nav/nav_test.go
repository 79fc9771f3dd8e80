package nav

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
)

func lookingAt(eye, target mgl64.Vec3) *core.Camera {
	c := core.NewCamera()
	c.Viewport = core.Viewport{Width: 800, Height: 600}
	c.LookAt(eye, target)
	return c
}

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDeltaf(t, 0, want.Sub(got).Len(), eps, "want %v, got %v", want, got)
}

func TestFirstPersonYaw(t *testing.T) {
	c := lookingAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	fp := FirstPerson{Settings: DefaultSettings()}

	fp.Rotate(c, 10, 0)
	a := mgl64.DegToRad(4)
	vecNear(t, mgl64.Vec3{math.Sin(a), math.Cos(a), 0}, c.Forward(), 1e-9)
	vecNear(t, mgl64.Vec3{}, c.Translation, 1e-12)

	// mouse down looks down
	fp.Rotate(c, 0, 10)
	assert.Less(t, c.Forward().Z(), 0.0)

	fp.Settings.InvertY = true
	c = lookingAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	fp.Rotate(c, 0, 10)
	assert.Greater(t, c.Forward().Z(), 0.0)
}

func TestFirstPersonStaysLevel(t *testing.T) {
	c := lookingAt(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{0, 0, 0})
	fp := FirstPerson{Settings: DefaultSettings()}
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 500; i++ {
		fp.Rotate(c, rng.Float64()*40-20, rng.Float64()*40-20)
		require.GreaterOrEqual(t, c.Up().Dot(core.WorldUp), 0.0)
		if math.Abs(c.Forward().Dot(core.WorldUp)) < LevelThreshold {
			require.InDelta(t, 0, c.Right().Z(), 1e-9)
		}
	}
	vecNear(t, mgl64.Vec3{3, 4, 5}, c.Translation, 1e-9)
}

func TestOrbitKeepsDistance(t *testing.T) {
	c := lookingAt(mgl64.Vec3{0, -10, 5}, mgl64.Vec3{})
	o := Orbit{Settings: DefaultSettings()}

	o.Rotate(c, 10, 10)
	vecNear(t, mgl64.Vec3{0, -10, 5}, c.Translation, 0)

	o.Begin(c, mgl64.Vec3{})
	require.True(t, o.Active())
	dist := o.Distance()

	// dragging down lifts the camera
	o.Rotate(c, 0, 10)
	assert.Greater(t, c.Translation.Z(), 5.0)
	assert.InDelta(t, dist, c.Translation.Len(), 1e-9)

	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		o.Rotate(c, rng.Float64()*20-10, rng.Float64()*20-10)
		require.InDelta(t, dist, c.Translation.Len(), 1e-6)
		require.GreaterOrEqual(t, c.Up().Dot(core.WorldUp), 0.0)
	}
	o.End()
	assert.False(t, o.Active())
}

func TestOrbitInvertY(t *testing.T) {
	c := lookingAt(mgl64.Vec3{0, -10, 5}, mgl64.Vec3{})
	s := DefaultSettings()
	s.InvertY = true
	o := Orbit{Settings: s}
	o.Begin(c, mgl64.Vec3{})
	o.Rotate(c, 0, 10)
	assert.Less(t, c.Translation.Z(), 5.0)
}

func TestDampening(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 1.0, s.Dampening(10))
	assert.Equal(t, 1.0, s.Dampening(100))
	assert.InDelta(t, 0.1, s.Dampening(1000), 1e-12)
	assert.Equal(t, 0.05, s.Dampening(1e9))

	// yaw angle shrinks with pivot distance
	near := lookingAt(mgl64.Vec3{0, -10, 0}, mgl64.Vec3{})
	far := lookingAt(mgl64.Vec3{0, -1000, 0}, mgl64.Vec3{})
	for _, c := range []*core.Camera{near, far} {
		o := Orbit{Settings: s}
		o.Begin(c, mgl64.Vec3{})
		o.Rotate(c, 10, 0)
	}
	angle := func(c *core.Camera) float64 {
		return math.Atan2(-c.Translation.X(), -c.Translation.Y())
	}
	assert.InDelta(t, 10*angle(far), angle(near), 1e-9)
}

func TestPanKeepsGrabbedPointUnderCursor(t *testing.T) {
	c := lookingAt(mgl64.Vec3{5, -20, 10}, mgl64.Vec3{5, 0, 0})
	start := mgl64.Vec2{400, 300}
	_, far, ok := core.Unproject(c.WorldToView(), c.Viewport, start)
	require.True(t, ok)
	grab := c.Translation.Add(far.Sub(c.Translation).Mul(0.002))

	var p Pan
	require.True(t, p.Begin(c, start, grab))
	rot := c.Rotation

	for _, px := range []mgl64.Vec2{{450, 320}, {100, 500}, {700, 50}} {
		p.Update(c, px)
		got, ok := core.Project(c.WorldToView(), c.Viewport, grab)
		require.True(t, ok)
		assert.InDelta(t, px.X(), got.X(), 1e-4)
		assert.InDelta(t, px.Y(), got.Y(), 1e-4)
		assert.Equal(t, rot, c.Rotation)
	}

	// after a cursor warp the camera does not jump
	before := c.Translation
	p.Rebase(c, mgl64.Vec2{200, 200})
	p.Update(c, mgl64.Vec2{200, 200})
	vecNear(t, before, c.Translation, 1e-6)

	p.End()
	p.Update(c, mgl64.Vec2{0, 0})
	vecNear(t, before, c.Translation, 1e-6)
}

func TestWrapPixel(t *testing.T) {
	vp := core.Viewport{Width: 800, Height: 600}

	px, ok := WrapPixel(vp, mgl64.Vec2{400, 300}, 10)
	assert.False(t, ok)
	assert.Equal(t, mgl64.Vec2{400, 300}, px)

	px, ok = WrapPixel(vp, mgl64.Vec2{795, 300}, 10)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec2{15, 300}, px)

	px, ok = WrapPixel(vp, mgl64.Vec2{400, 2}, 10)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec2{400, 582}, px)

	_, ok = WrapPixel(core.Viewport{Width: 15, Height: 15}, mgl64.Vec2{1, 1}, 10)
	assert.False(t, ok)
}

func TestFly(t *testing.T) {
	f := Fly{Settings: DefaultSettings()}
	c := lookingAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})

	assert.True(t, f.Apply(c, FlyKeys{Forward: true}, 0.5))
	vecNear(t, mgl64.Vec3{0, 5, 0}, c.Translation, 1e-9)

	assert.True(t, f.Apply(c, FlyKeys{Up: true, Slow: true}, 0.5))
	vecNear(t, mgl64.Vec3{0, 5, 0.5}, c.Translation, 1e-9)

	assert.False(t, f.Apply(c, FlyKeys{Forward: true, Control: true}, 0.5))
	assert.False(t, f.Apply(c, FlyKeys{}, 0.5))
	vecNear(t, mgl64.Vec3{0, 5, 0.5}, c.Translation, 1e-9)

	// opposite keys cancel
	f.Apply(c, FlyKeys{Left: true, Right: true}, 1)
	vecNear(t, mgl64.Vec3{0, 5, 0.5}, c.Translation, 1e-9)

	fwd := c.Forward()
	f.Apply(c, FlyKeys{RollRight: true}, 1)
	vecNear(t, fwd, c.Forward(), 1e-9)
	assert.InDelta(t, math.Cos(mgl64.DegToRad(45)), c.Up().Dot(core.WorldUp), 1e-9)
}

func TestZoom(t *testing.T) {
	s := DefaultSettings()
	c := lookingAt(mgl64.Vec3{0, -100, 0}, mgl64.Vec3{})

	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, -90, 0}, c.Translation, 1e-9)

	Zoom(c, mgl64.Vec3{}, -1, false, s)
	vecNear(t, mgl64.Vec3{0, -99, 0}, c.Translation, 1e-9)

	Zoom(c, mgl64.Vec3{}, 1, true, s)
	vecNear(t, mgl64.Vec3{0, -49.5, 0}, c.Translation, 1e-9)

	// never reaches the target
	for i := 0; i < 5; i++ {
		Zoom(c, mgl64.Vec3{}, 10, true, s)
		require.Less(t, c.Translation.Y(), 0.0)
	}

	c = lookingAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, 0.1, 0}, c.Translation, 1e-9)
}

func TestZoomDampening(t *testing.T) {
	s := DefaultSettings()

	// beyond the dampening distance a notch covers a fixed stretch
	c := lookingAt(mgl64.Vec3{0, -1000, 0}, mgl64.Vec3{})
	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, -990, 0}, c.Translation, 1e-9)

	c = lookingAt(mgl64.Vec3{0, -400, 0}, mgl64.Vec3{})
	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, -390, 0}, c.Translation, 1e-9)

	// clamped for very distant targets
	c = lookingAt(mgl64.Vec3{0, -1e5, 0}, mgl64.Vec3{})
	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, -1e5 + 500, 0}, c.Translation, 1e-6)

	s.DampeningDistance = 0
	c = lookingAt(mgl64.Vec3{0, -1000, 0}, mgl64.Vec3{})
	Zoom(c, mgl64.Vec3{}, 1, false, s)
	vecNear(t, mgl64.Vec3{0, -900, 0}, c.Translation, 1e-9)
}

func TestTransition(t *testing.T) {
	c := lookingAt(mgl64.Vec3{0, -10, 0}, mgl64.Vec3{})
	from := c.Transform
	to := core.Transform{Translation: mgl64.Vec3{0, 0, 10}, Rotation: core.LookRotation(mgl64.Vec3{0, 0, -1})}

	tr := NewTransition(from, to, 1, ease.Linear)
	assert.False(t, tr.Update(c, 0.5))
	vecNear(t, mgl64.Vec3{0, -5, 5}, c.Translation, 1e-6)
	assert.False(t, tr.Done())

	assert.True(t, tr.Update(c, 0.6))
	assert.True(t, tr.Done())
	vecNear(t, to.Translation, c.Translation, 1e-9)
	vecNear(t, mgl64.Vec3{0, 0, -1}, c.Forward(), 1e-9)
	assert.Equal(t, to, tr.Target())

	// further updates are no-ops
	c.Translation = mgl64.Vec3{1, 1, 1}
	assert.True(t, tr.Update(c, 1))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, c.Translation)
}

func TestFrameBounds(t *testing.T) {
	c := lookingAt(mgl64.Vec3{-20, -30, 25}, mgl64.Vec3{})
	b := geom.EmptyAABB().Extend(mgl64.Vec3{0, 0, 0}).Extend(mgl64.Vec3{10, 10, 3})

	c.Transform = FrameBounds(c, b, ViewTop)
	vecNear(t, mgl64.Vec3{0, 0, -1}, c.Forward(), 1e-9)
	px, ok := core.Project(c.WorldToView(), c.Viewport, b.Center())
	require.True(t, ok)
	assert.InDelta(t, 400, px.X(), 1e-6)
	assert.InDelta(t, 300, px.Y(), 1e-6)
	for _, corner := range []mgl64.Vec3{b.Min, b.Max} {
		px, ok := core.Project(c.WorldToView(), c.Viewport, corner)
		require.True(t, ok)
		assert.True(t, c.Viewport.Contains(px))
	}

	c.Transform = FrameBounds(c, b, ViewSouth)
	vecNear(t, mgl64.Vec3{0, 1, 0}, c.Forward(), 1e-9)

	fwd := c.Forward()
	c.Transform = FrameDirection(c, b)
	vecNear(t, fwd, c.Forward(), 1e-9)
	assert.Equal(t, c.Transform, FrameDirection(c, geom.EmptyAABB()))
}
