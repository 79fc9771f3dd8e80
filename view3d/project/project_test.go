package project_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/project/fixture"
)

func TestLookupAndHierarchy(t *testing.T) {
	p := fixture.Sample()

	r, ok := p.Lookup(fixture.Window)
	require.True(t, ok)
	assert.Equal(t, project.KindSubSurface, r.Kind)
	assert.Equal(t, fixture.Wall, r.Parent)
	assert.Equal(t, fixture.Wall, r.Surface().ID)
	assert.True(t, r.HasPolygon())

	_, ok = p.Lookup(project.InvalidID)
	assert.False(t, ok)

	assert.Equal(t, []project.ID{fixture.Floor, fixture.Wall, fixture.Roof}, p.Children(fixture.Room, false))
	assert.Equal(t, []project.ID{fixture.Level, fixture.Room, fixture.Floor, fixture.Wall, fixture.Window, fixture.Roof},
		p.Children(fixture.Building, true))
	assert.Equal(t, []project.ID{fixture.NodeSource, fixture.NodeBuilding, fixture.Edge}, p.Children(fixture.Network, false))
	assert.Equal(t, project.InvalidID, p.Parent(fixture.Building))
	assert.Equal(t, project.InvalidID, p.Parent(999))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SubSurface", project.KindSubSurface.String())
	assert.Equal(t, "Kind(42)", project.Kind(42).String())
}

func TestForEachWalkOrder(t *testing.T) {
	p := fixture.Sample()
	var kinds []project.Kind
	p.ForEach(func(r project.Ref) bool {
		kinds = append(kinds, r.Kind)
		return true
	})
	assert.Equal(t, []project.Kind{
		project.KindBuilding, project.KindBuildingLevel, project.KindRoom,
		project.KindSurface, project.KindSurface, project.KindSubSurface, project.KindSurface,
		project.KindPlainSurface,
		project.KindNetwork, project.KindNetworkNode, project.KindNetworkNode, project.KindNetworkEdge,
	}, kinds)

	n := 0
	p.ForEach(func(project.Ref) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)
}

func TestSelection(t *testing.T) {
	p := fixture.Sample()
	assert.False(t, p.HasSelection())
	assert.True(t, p.SelectionBounds().Empty())

	missing := p.SetSelected([]project.ID{fixture.Roof, fixture.NodeBuilding, 999}, true)
	assert.Equal(t, []project.ID{999}, missing)
	assert.True(t, p.HasSelection())
	assert.Equal(t, []project.ID{fixture.Roof, fixture.NodeBuilding}, p.SelectedIDs())

	b := p.SelectionBounds()
	vecNear(t, mgl64.Vec3{0, 0, 0}, b.Min, 1e-9)
	vecNear(t, mgl64.Vec3{10, 20, 3}, b.Max, 1e-9)
}

func TestRepresentativePoints(t *testing.T) {
	p := fixture.Sample()

	pts := p.RepresentativePoints(fixture.Floor)
	require.Len(t, pts, 1)
	vecNear(t, mgl64.Vec3{5, 5, 0}, pts[0], 1e-9)

	pts = p.RepresentativePoints(fixture.Edge)
	require.Len(t, pts, 2)
	assert.Equal(t, mgl64.Vec3{0, 20, 0}, pts[0])
	assert.Equal(t, mgl64.Vec3{10, 20, 0}, pts[1])

	assert.Nil(t, p.RepresentativePoints(fixture.Room))
	assert.Nil(t, p.RepresentativePoints(999))
}

func TestComponentInstanceLookup(t *testing.T) {
	p := fixture.Sample()

	ci, side, ok := p.ComponentInstanceFor(fixture.Roof)
	require.True(t, ok)
	assert.Equal(t, fixture.ComponentInstance, ci.ID)
	assert.Equal(t, project.SideB, side)

	_, _, ok = p.ComponentInstanceFor(fixture.Wall)
	assert.False(t, ok)

	sci, side, ok := p.SubSurfaceComponentInstanceFor(fixture.Window)
	require.True(t, ok)
	assert.Equal(t, fixture.WindowComponent, sci.SubSurfaceComponentID)
	assert.Equal(t, project.SideA, side)
}

func TestTransformPointsMovesChildrenOnce(t *testing.T) {
	p := fixture.Sample()
	shift := func(v mgl64.Vec3) mgl64.Vec3 { return v.Add(mgl64.Vec3{1, 0, 0}) }

	p.TransformPoints([]project.ID{fixture.Wall, fixture.Window}, shift)

	r, _ := p.Lookup(fixture.Window)
	assert.Equal(t, mgl64.Vec3{5, 0, 1}, r.SubSurface().Polygon[0])
	r, _ = p.Lookup(fixture.Wall)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, r.Surface().Polygon[0])

	// an edge moves its nodes
	p.TransformPoints([]project.ID{fixture.Edge}, shift)
	n, ok := p.Node(fixture.NodeSource)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 20, 0}, n.Position)
}

func TestSnapshotRestore(t *testing.T) {
	p := fixture.Sample()
	g := p.Snapshot()

	p.TransformPoints([]project.ID{fixture.Room}, func(v mgl64.Vec3) mgl64.Vec3 { return v.Mul(2) })
	p.Delete([]project.ID{fixture.NodeSource})

	r, _ := p.Lookup(fixture.Roof)
	assert.Equal(t, mgl64.Vec3{0, 0, 6}, r.Surface().Polygon[0])
	_, ok := p.Lookup(fixture.Edge)
	assert.False(t, ok, "edge of a deleted node is removed")
	assert.Equal(t, mgl64.Vec3{0, 0, 3}, g.Buildings[0].Levels[0].Rooms[0].Surfaces[2].Polygon[0], "snapshot is a deep copy")

	p.Restore(g)
	r, _ = p.Lookup(fixture.Roof)
	assert.Equal(t, mgl64.Vec3{0, 0, 3}, r.Surface().Polygon[0])
	_, ok = p.Lookup(fixture.Edge)
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	p := fixture.Sample()
	p.Delete([]project.ID{fixture.Wall, fixture.Plain})

	_, ok := p.Lookup(fixture.Wall)
	assert.False(t, ok)
	_, ok = p.Lookup(fixture.Window)
	assert.False(t, ok, "children go with their parent")
	_, ok = p.Lookup(fixture.Plain)
	assert.False(t, ok)
	assert.Equal(t, []project.ID{fixture.Floor, fixture.Roof}, p.Children(fixture.Room, false))
}

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDeltaf(t, 0, want.Sub(got).Len(), eps, "want %v, got %v", want, got)
}
