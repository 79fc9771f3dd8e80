package pick

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/project/fixture"
)

var center = mgl64.Vec2{400, 300}

func camera(eye, target mgl64.Vec3) *core.Camera {
	c := core.NewCamera()
	c.Viewport = core.Viewport{Width: 800, Height: 600}
	c.LookAt(eye, target)
	return c
}

func pickAt(c *core.Camera, p *project.Project, opts Options, grids ...GridPlane) *Object {
	o := NewObject(center, c.WorldToView(), c.Viewport)
	o.Grids = grids
	o.Options = opts
	o.Pick(Source{Project: p})
	return o
}

type recordingLog struct{ warnings int }

func (l *recordingLog) Warnf(string, ...any) { l.warnings++ }

func TestPickOrderingFromAbove(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{5, 5, 50}, mgl64.Vec3{5, 5, 0})

	o := pickAt(c, p, Options{}, DefaultGrid())
	require.Len(t, o.Candidates, 4)

	assert.Equal(t, ObjectHit, o.Candidates[0].Kind)
	assert.Equal(t, fixture.Roof, o.Candidates[0].ObjectID)
	assert.InDelta(t, 47-c.NearPlane, o.Candidates[0].Depth, 1e-6)

	// floor and grid share a depth: grid was accumulated first
	assert.Equal(t, GridPlaneHit, o.Candidates[1].Kind)
	assert.Equal(t, ObjectHit, o.Candidates[2].Kind)
	assert.Equal(t, fixture.Floor, o.Candidates[2].ObjectID)
	assert.Equal(t, FarPlaneHit, o.Candidates[3].Kind)

	assert.Equal(t, o.Candidates[0], o.Front())
	front, ok := o.FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Roof, front.ObjectID)
	vecNear(t, mgl64.Vec3{5, 5, 3}, front.Point, 1e-6)
}

func TestPickSkipsInvisibleAndExcluded(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{5, 5, 50}, mgl64.Vec3{5, 5, 0})

	p.SetVisible([]project.ID{fixture.Roof}, false)
	front, ok := pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Floor, front.ObjectID)

	p.SetVisible([]project.ID{fixture.Roof}, true)
	front, ok = pickAt(c, p, Options{ExcludeIDs: map[project.ID]bool{fixture.Roof: true}}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Floor, front.ObjectID)
}

func TestPickHoleRule(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{5, -20, 1.5}, mgl64.Vec3{5, 0, 1.5})

	front, ok := pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Window, front.ObjectID)
	assert.Equal(t, 0, front.HoleIndex)

	// hidden window: the hit belongs to the wall itself
	p.SetVisible([]project.ID{fixture.Window}, false)
	front, ok = pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Wall, front.ObjectID)
	assert.Equal(t, 0, front.HoleIndex)

	// hidden wall, visible window: the window still counts
	p.SetVisible([]project.ID{fixture.Window}, true)
	p.SetVisible([]project.ID{fixture.Wall}, false)
	front, ok = pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Window, front.ObjectID)

	p.SetVisible([]project.ID{fixture.Window}, false)
	_, ok = pickAt(c, p, Options{}).FrontObject()
	assert.False(t, ok)

	// a plain wall hit outside the window
	p.SetVisible([]project.ID{fixture.Wall, fixture.Window}, true)
	c = camera(mgl64.Vec3{8, -20, 1.5}, mgl64.Vec3{8, 0, 1.5})
	front, ok = pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Wall, front.ObjectID)
	assert.Equal(t, geom.NoHole, front.HoleIndex)
}

func TestPickNetwork(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{0, 20, 30}, mgl64.Vec3{0, 20, 0})

	o := pickAt(c, p, Options{})
	require.GreaterOrEqual(t, len(o.Candidates), 3)
	assert.Equal(t, fixture.NodeSource, o.Candidates[0].ObjectID)
	assert.InDelta(t, 30-c.NearPlane-DefaultNodeRadius, o.Candidates[0].Depth, 1e-6)
	assert.Equal(t, fixture.Edge, o.Candidates[1].ObjectID)

	// in the middle of the pipe only the edge is hit
	c = camera(mgl64.Vec3{5, 20, 30}, mgl64.Vec3{5, 20, 0})
	front, ok := pickAt(c, p, Options{}).FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Edge, front.ObjectID)
}

type fixedRadii map[project.ID]float64

func (r fixedRadii) VisualizationRadius(id project.ID) (float64, bool) {
	v, ok := r[id]
	return v, ok
}

func TestPickUsesAnnotatedRadius(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{1.5, 20, 30}, mgl64.Vec3{1.5, 20, 0})
	radii := fixedRadii{fixture.NodeSource: 2, fixture.Edge: 0.01}

	o := NewObject(center, c.WorldToView(), c.Viewport)
	o.Pick(Source{Project: p, Radii: radii, Index: BuildIndex(p, radii)})
	front, ok := o.FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.NodeSource, front.ObjectID)

	// default radius misses the node, the ray still passes over the pipe
	o.Pick(Source{Project: p, Radii: fixedRadii{fixture.Edge: 0.01}})
	front, ok = o.FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Edge, front.ObjectID)
}

func TestPickGizmo(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{5, 5, 50}, mgl64.Vec3{5, 5, 0})
	cs := core.NewCoordinateSystem(2, 0.5)
	cs.SetTranslation(mgl64.Vec3{5, 5, 10})

	o := NewObject(center, c.WorldToView(), c.Viewport)
	o.Gizmo = cs.PickPoints()
	o.Pick(Source{Project: p})
	_, ok := o.FrontGizmo()
	assert.False(t, ok, "gizmo handles are ignored unless active")

	// looking down the Z axis handle, which sits above the center
	o.Options.GizmoActive = true
	o.Pick(Source{Project: p})
	g, ok := o.FrontGizmo()
	require.True(t, ok)
	assert.Equal(t, GizmoAxisHit, g.Kind)
	assert.Equal(t, core.HandleAxisZ, g.Handle)
	assert.Equal(t, GizmoAxisHit, o.Front().Kind)

	// in translate mode only the center is offered
	cs.Enter(core.GizmoTranslate)
	o.Gizmo = cs.PickPoints()
	o.Pick(Source{Project: p})
	g, ok = o.FrontGizmo()
	require.True(t, ok)
	assert.Equal(t, GizmoCenterHit, g.Kind)
	assert.InDelta(t, 40-c.NearPlane, g.Depth, 1e-6)
}

func TestPickSingularMatrix(t *testing.T) {
	p := fixture.Sample()
	o := NewObject(center, mgl64.Mat4{}, core.Viewport{Width: 800, Height: 600})
	o.Grids = []GridPlane{DefaultGrid()}
	o.Pick(Source{Project: p})

	require.Len(t, o.Candidates, 1)
	assert.Equal(t, FarPlaneHit, o.Front().Kind)
	assert.Equal(t, math.MaxFloat64, o.Front().Depth)
}

func TestPickOnceMemoizes(t *testing.T) {
	p := fixture.Sample()
	c := camera(mgl64.Vec3{5, 5, 50}, mgl64.Vec3{5, 5, 0})
	o := NewObject(center, c.WorldToView(), c.Viewport)

	o.PickOnce(Source{Project: p})
	require.True(t, o.Picked())
	first := append([]Candidate(nil), o.Candidates...)

	// moving the pixel without a reset does not cast again
	o.Pixel = mgl64.Vec2{0, 0}
	o.PickOnce(Source{Project: p})
	assert.Equal(t, first, o.Candidates)

	o.Reset(mgl64.Vec2{0, 0}, c.WorldToView(), c.Viewport)
	assert.False(t, o.Picked())
	o.PickOnce(Source{Project: p})
	assert.NotEqual(t, first, o.Candidates)
}

func TestPickWarnsOnDanglingIndex(t *testing.T) {
	p := fixture.Sample()
	ix := BuildIndex(p, nil)
	p.Delete([]project.ID{fixture.Roof})

	c := camera(mgl64.Vec3{5, 5, 50}, mgl64.Vec3{5, 5, 0})
	log := &recordingLog{}
	o := NewObject(center, c.WorldToView(), c.Viewport)
	o.Pick(Source{Project: p, Index: ix, Log: log})

	assert.Equal(t, 1, log.warnings)
	front, ok := o.FrontObject()
	require.True(t, ok)
	assert.Equal(t, fixture.Floor, front.ObjectID)
}

func TestPickAlwaysSortedAndNonEmpty(t *testing.T) {
	p := fixture.Sample()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		eye := mgl64.Vec3{rng.Float64()*60 - 20, rng.Float64()*60 - 20, rng.Float64()*40 - 5}
		target := mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 20, rng.Float64() * 3}
		c := camera(eye, target)
		o := NewObject(mgl64.Vec2{rng.Float64() * 800, rng.Float64() * 600}, c.WorldToView(), c.Viewport)
		o.Grids = []GridPlane{DefaultGrid()}
		o.Pick(Source{Project: p})

		require.NotEmpty(t, o.Candidates)
		for j := 1; j < len(o.Candidates); j++ {
			require.LessOrEqual(t, o.Candidates[j-1].Depth, o.Candidates[j].Depth)
		}
	}
}

func TestGridNearestPoint(t *testing.T) {
	g := DefaultGrid()
	vecNear(t, mgl64.Vec3{2, 8, 0}, g.NearestGridPoint(mgl64.Vec3{2.4, 7.6, 0}), 1e-9)

	g = GridPlane{Offset: mgl64.Vec3{0, 0, 3}, Normal: mgl64.Vec3{0, 0, 1}, LocalX: mgl64.Vec3{1, 0, 0}, Spacing: 0.5}
	vecNear(t, mgl64.Vec3{1, -0.5, 3}, g.NearestGridPoint(mgl64.Vec3{1.2, -0.3, 3}), 1e-9)

	_, _, ok := g.Intersect(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1})
	assert.False(t, ok, "plane behind the ray")
}

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDeltaf(t, 0, want.Sub(got).Len(), eps, "want %v, got %v", want, got)
}
