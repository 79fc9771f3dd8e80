package snap

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/project/fixture"
)

const floorID project.ID = 7

func floorProject() *project.Project {
	p := &project.Project{
		Buildings: []project.Building{{
			Object: project.Object{ID: 1, Visible: true},
			Levels: []project.BuildingLevel{{
				Object: project.Object{ID: 2, Visible: true},
				Rooms: []project.Room{{
					Object: project.Object{ID: 3, Visible: true},
					Surfaces: []project.Surface{{
						Object:  project.Object{ID: floorID, Visible: true},
						Polygon: fixture.Rect(0, 0, 10, 10, 0),
					}},
				}},
			}},
		}},
	}
	p.Reindex()
	return p
}

func objectHit(id project.ID, pt mgl64.Vec3, depth float64) *pick.Object {
	return &pick.Object{
		RayOrigin: pt.Add(mgl64.Vec3{0, 0, depth}),
		RayDir:    mgl64.Vec3{0, 0, -1},
		Candidates: []pick.Candidate{
			{Kind: pick.ObjectHit, ObjectID: id, Point: pt, Depth: depth, HoleIndex: geom.NoHole},
			{Kind: pick.FarPlaneHit, ObjectID: project.InvalidID, Point: pt.Sub(mgl64.Vec3{0, 0, 1000}), Depth: depth + 1000},
		},
	}
}

func TestScenarioCentroidSnap(t *testing.T) {
	p := floorProject()

	// pick through a real camera so the whole chain is exercised
	c := core.NewCamera()
	c.Viewport = core.Viewport{Width: 800, Height: 600}
	c.LookAt(mgl64.Vec3{5.2, 4.9, 20}, mgl64.Vec3{5.2, 4.9, 0})
	o := pick.NewObject(mgl64.Vec2{400, 300}, c.WorldToView(), c.Viewport)
	o.Pick(pick.Source{Project: p})

	cfg := Config{Enabled: true, Options: Grid | ObjectCenter, Distance: 0.5}
	res := Resolve(o, cfg, p)
	assert.Equal(t, Center, res.Kind)
	assert.Equal(t, floorID, res.ObjectID)
	vecNear(t, mgl64.Vec3{5, 5, 0}, res.Point, 1e-9)

	// vertices are 5 m away: nothing qualifies, the raw hit is kept
	cfg.Options = ObjectVertex
	res = Resolve(o, cfg, p)
	assert.Equal(t, Raw, res.Kind)
	vecNear(t, mgl64.Vec3{5.2, 4.9, 0}, res.Point, 1e-6)
}

func TestSnapPrefersClosestFeature(t *testing.T) {
	p := floorProject()
	cfg := Config{Enabled: true, Options: AllOptions, Distance: 2}

	res := Resolve(objectHit(floorID, mgl64.Vec3{0.5, 0.4, 0}, 10), cfg, p)
	assert.Equal(t, Vertex, res.Kind)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, res.Point)

	res = Resolve(objectHit(floorID, mgl64.Vec3{5.3, 0.4, 0}, 10), cfg, p)
	assert.Equal(t, EdgeCenter, res.Kind)
	vecNear(t, mgl64.Vec3{5, 0, 0}, res.Point, 1e-9)
}

func TestSnapIsIdempotent(t *testing.T) {
	p := floorProject()
	cfg := Config{Enabled: true, Options: AllOptions, Distance: 2}
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 200; i++ {
		q := mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 10, 0}
		first := Resolve(objectHit(floorID, q, 10), cfg, p)
		again := Resolve(objectHit(floorID, first.Point, 10), cfg, p)
		require.InDelta(t, 0, again.Point.Sub(first.Point).Len(), 1e-9, "q=%v", q)
	}
}

func TestSnapGrid(t *testing.T) {
	o := &pick.Object{
		RayOrigin: mgl64.Vec3{2.3, 7.8, 10},
		RayDir:    mgl64.Vec3{0, 0, -1},
		Grids:     []pick.GridPlane{pick.DefaultGrid()},
		Candidates: []pick.Candidate{
			{Kind: pick.GridPlaneHit, ObjectID: project.InvalidID, Point: mgl64.Vec3{2.3, 7.8, 0}, Depth: 10, GridIndex: 0, HoleIndex: geom.NoHole},
		},
	}
	res := Resolve(o, DefaultConfig(), nil)
	assert.Equal(t, GridPoint, res.Kind)
	vecNear(t, mgl64.Vec3{2, 8, 0}, res.Point, 1e-9)

	cfg := DefaultConfig()
	cfg.Distance = 0.1
	res = Resolve(o, cfg, nil)
	assert.Equal(t, Raw, res.Kind)
	assert.Equal(t, mgl64.Vec3{2.3, 7.8, 0}, res.Point)

	cfg = DefaultConfig()
	cfg.Options = ObjectCenter
	assert.Equal(t, Raw, Resolve(o, cfg, nil).Kind)
}

func TestSnapSkipsGizmoCandidates(t *testing.T) {
	p := floorProject()
	o := objectHit(floorID, mgl64.Vec3{5.1, 5.1, 0}, 10)
	o.Candidates = append([]pick.Candidate{{Kind: pick.GizmoCenterHit, ObjectID: project.InvalidID, Point: mgl64.Vec3{5, 5, 5}, Depth: 5}}, o.Candidates...)

	res := Resolve(o, DefaultConfig(), p)
	assert.Equal(t, Center, res.Kind)
}

func TestSnapEmptyFallsBackToOrigin(t *testing.T) {
	res := Resolve(&pick.Object{}, DefaultConfig(), nil)
	assert.Equal(t, None, res.Kind)
	assert.Equal(t, mgl64.Vec3{}, res.Point)

	res = Resolve(nil, DefaultConfig(), nil)
	assert.Equal(t, mgl64.Vec3{}, res.Point)
}

func TestSnapDisabled(t *testing.T) {
	p := floorProject()
	o := objectHit(floorID, mgl64.Vec3{5.1, 5.1, 0}, 10)
	cfg := Config{Enabled: false, Options: AllOptions, Distance: 2}

	res := Resolve(o, cfg, p)
	assert.Equal(t, Raw, res.Kind)
	assert.Equal(t, mgl64.Vec3{5.1, 5.1, 0}, res.Point)

	// the ray passes 1 m from the locked axis, closer than the hit depth
	cfg.Axis = &Axis{Offset: mgl64.Vec3{0, 6.1, 3}, Direction: mgl64.Vec3{1, 0, 0}}
	res = Resolve(o, cfg, p)
	assert.Equal(t, AxisPoint, res.Kind)
	vecNear(t, mgl64.Vec3{5.1, 6.1, 3}, res.Point, 1e-9)
}

func TestScenarioAxisLockKeepsOffset(t *testing.T) {
	p := fixture.Sample()
	axis := &Axis{Offset: mgl64.Vec3{3, 4, 5}, Direction: mgl64.Vec3{1, 0, 0}}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		c := core.NewCamera()
		c.Viewport = core.Viewport{Width: 800, Height: 600}
		eye := mgl64.Vec3{rng.Float64()*40 - 20, rng.Float64()*40 - 30, rng.Float64()*30 + 1}
		c.LookAt(eye, mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 10, 0})
		o := pick.NewObject(mgl64.Vec2{rng.Float64() * 800, rng.Float64() * 600}, c.WorldToView(), c.Viewport)
		o.Grids = []pick.GridPlane{pick.DefaultGrid()}
		o.Pick(pick.Source{Project: p})

		for _, enabled := range []bool{true, false} {
			cfg := Config{Enabled: enabled, Options: AllOptions, Distance: 2, Axis: axis}
			res := Resolve(o, cfg, p)
			require.InDelta(t, 4.0, res.Point.Y(), 1e-9)
			require.InDelta(t, 5.0, res.Point.Z(), 1e-9)
		}
	}
}

func TestAxisProjectionLaw(t *testing.T) {
	p := fixture.Sample()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		dir := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if dir.Len() < 1e-3 {
			continue
		}
		axis := &Axis{Offset: mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 3}, Direction: dir}
		o := objectHit(fixture.Floor, mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 10, 0}, 20)
		cfg := Config{Enabled: rng.Intn(2) == 0, Options: Options(rng.Intn(16)), Distance: rng.Float64() * 3, Axis: axis}

		res := Resolve(o, cfg, p)
		d, _, _ := geom.LineToPointDistance(axis.Offset, axis.Direction, res.Point)
		require.InDelta(t, 0, d, 1e-9)

		// no hidden state
		require.Equal(t, res, Resolve(o, cfg, p))
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions([]string{"grid", " Center ", "edge-center"})
	require.NoError(t, err)
	assert.Equal(t, Grid|ObjectCenter|ObjectEdgeCenter, o)
	assert.Equal(t, "grid|center|edge-center", o.String())

	_, err = ParseOptions([]string{"corner"})
	assert.Error(t, err)
}

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDeltaf(t, 0, want.Sub(got).Len(), eps, "want %v, got %v", want, got)
}
