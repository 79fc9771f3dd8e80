package buffers

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/project"
	"github.com/simvicus/vic3d/view3d/project/fixture"
)

var _ pick.Radii = Annotations{}

func generate(p *project.Project, mode ColorMode) *Generator {
	g := NewGenerator()
	g.Mode = mode
	g.Regenerate(p)
	return g
}

func TestRegenerationIsDeterministic(t *testing.T) {
	for m := ColorMode(0); m < numColorModes; m++ {
		t.Run(m.String(), func(t *testing.T) {
			a := generate(fixture.Sample(), m)
			b := generate(fixture.Sample(), m)
			assert.Equal(t, a.Building, b.Building)
			assert.Equal(t, a.Network, b.Network)
			assert.Equal(t, a.Annotations, b.Annotations)

			// a second pass of the same generator changes nothing
			p := fixture.Sample()
			g := generate(p, m)
			building := cloneBuffers(g.Building)
			network := cloneBuffers(g.Network)
			g.Regenerate(p)
			assert.Equal(t, building, g.Building)
			assert.Equal(t, network, g.Network)
		})
	}
}

func cloneBuffers(b Buffers) Buffers {
	return Buffers{
		Vertices:         append([]Vertex(nil), b.Vertices...),
		Colors:           append([]color.RGBA(nil), b.Colors...),
		Indices:          append([]uint32(nil), b.Indices...),
		TransparentStart: b.TransparentStart,
	}
}

func TestBuildingBuffersLayout(t *testing.T) {
	p := fixture.Sample()
	g := generate(p, ColorDefault)
	b := g.Building

	require.Len(t, b.Colors, len(b.Vertices))
	assert.Zero(t, len(b.Indices)%3)
	for _, i := range b.Indices {
		require.Less(t, int(i), len(b.Vertices))
	}

	// the window: two triangles, front and back
	assert.Len(t, b.Transparent(), 12)
	for _, i := range b.Transparent() {
		assert.Less(t, b.Colors[i].A, uint8(255))
	}
	for _, i := range b.Opaque() {
		assert.Equal(t, uint8(255), b.Colors[i].A)
	}

	// a selected window is drawn opaque
	p.SetSelected([]project.ID{fixture.Window}, true)
	g.Regenerate(p)
	assert.Empty(t, g.Building.Transparent())
	assert.Len(t, g.Building.Indices, len(b.Indices))

	p.SetSelected([]project.ID{fixture.Window}, false)
	p.SetVisible([]project.ID{fixture.Window, fixture.Roof}, false)
	g.Regenerate(p)
	assert.Empty(t, g.Building.Transparent())
	assert.Len(t, g.Building.Indices, len(b.Indices)-24)
}

func TestBackFacesAreFlipped(t *testing.T) {
	p := &project.Project{PlainGeometry: []project.PlainSurface{{
		Object:  project.Object{ID: 1, Visible: true},
		Polygon: fixture.Rect(0, 0, 1, 1, 0),
	}}}
	p.Reindex()
	g := generate(p, ColorDefault)
	b := g.Building

	require.Len(t, b.Vertices, 8)
	require.Len(t, b.Indices, 12)
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(1), b.Vertices[i].Normal.Z())
		assert.Equal(t, float32(-1), b.Vertices[i+4].Normal.Z())
	}
	// winding agrees with the normal on both halves
	for tri := 0; tri < 4; tri++ {
		i0, i1, i2 := b.Indices[3*tri], b.Indices[3*tri+1], b.Indices[3*tri+2]
		v0, v1, v2 := b.Vertices[i0].Position, b.Vertices[i1].Position, b.Vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		assert.Greater(t, n.Dot(b.Vertices[i0].Normal), float32(0))
	}
}

type recordingLog struct{ warnings int }

func (l *recordingLog) Warnf(string, ...any) { l.warnings++ }

func TestDegeneratePolygonIsSkipped(t *testing.T) {
	p := fixture.Sample()
	p.PlainGeometry = append(p.PlainGeometry, project.PlainSurface{
		Object:  project.Object{ID: 99, Visible: true},
		Polygon: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}},
	})
	p.Reindex()

	g := NewGenerator()
	log := &recordingLog{}
	g.Log = log
	g.Regenerate(p)
	assert.Equal(t, 1, log.warnings)
	assert.NotEmpty(t, g.Building.Indices)
}

func TestNetworkRadiiAndGeometry(t *testing.T) {
	p := fixture.Sample()
	g := generate(p, ColorDefault)

	r, ok := g.Annotations.VisualizationRadius(fixture.Edge)
	require.True(t, ok)
	assert.InDelta(t, 0.1, r, 1e-12)
	r, _ = g.Annotations.VisualizationRadius(fixture.NodeSource)
	assert.InDelta(t, 0.15, r, 1e-12)
	r, _ = g.Annotations.VisualizationRadius(fixture.NodeBuilding)
	assert.InDelta(t, 0.1*math.Sqrt(20), r, 1e-12)
	_, ok = g.Annotations.VisualizationRadius(fixture.Floor)
	assert.False(t, ok)

	n := g.Network
	sphere := (sphereRings + 1) * (sphereSegments + 1)
	assert.Len(t, n.Vertices, 2*cylinderSegments+2*sphere)
	assert.Len(t, n.Indices, cylinderSegments*6+2*sphereRings*sphereSegments*6)
	assert.Empty(t, n.Transparent())

	// the pipe surface lies on its radius around the axis (0,20,0)-(10,20,0)
	for _, v := range n.Vertices[:2*cylinderSegments] {
		d := math.Hypot(float64(v.Position.Y())-20, float64(v.Position.Z()))
		assert.InDelta(t, 0.1, d, 1e-5)
	}
	// followed by the node spheres, in node order
	centers := []mgl64.Vec3{{0, 20, 0}, {10, 20, 0}}
	radii := []float64{0.15, 0.1 * math.Sqrt(20)}
	for i := range centers {
		start := 2*cylinderSegments + i*sphere
		for _, v := range n.Vertices[start : start+sphere] {
			d := mgl64.Vec3{float64(v.Position.X()), float64(v.Position.Y()), float64(v.Position.Z())}.Sub(centers[i]).Len()
			assert.InDelta(t, radii[i], d, 1e-5)
		}
	}

	// scaling stretches both
	p.Networks[0].ScaleEdges = 2
	p.Networks[0].ScaleNodes = 3
	g.Regenerate(p)
	r, _ = g.Annotations.VisualizationRadius(fixture.Edge)
	assert.InDelta(t, 0.2, r, 1e-12)
	r, _ = g.Annotations.VisualizationRadius(fixture.NodeSource)
	assert.InDelta(t, 0.9, r, 1e-12)

	p.SetVisible([]project.ID{fixture.Edge}, false)
	g.Regenerate(p)
	assert.Len(t, g.Network.Vertices, 2*sphere)
}

func TestRecolorModes(t *testing.T) {
	p := fixture.Sample()
	comp := p.DB.Components[fixture.Component].Color
	gray := NotAssignedColor

	tests := []struct {
		mode ColorMode
		want map[project.ID]color.RGBA
	}{
		{ColorDefault, map[project.ID]color.RGBA{
			fixture.Floor: RoofColor, fixture.Wall: WallColor, fixture.Window: WindowColor,
			fixture.Plain: PlainColor, fixture.NodeSource: NodeSourceColor,
			fixture.NodeBuilding: NodeBuildColor, fixture.Edge: SupplyColor,
		}},
		{ColorComponent, map[project.ID]color.RGBA{fixture.Floor: comp, fixture.Roof: comp, fixture.Wall: gray}},
		{ColorComponentOrientationSideA, map[project.ID]color.RGBA{fixture.Floor: comp, fixture.Roof: FadedColor, fixture.Wall: gray}},
		{ColorComponentOrientationSideB, map[project.ID]color.RGBA{fixture.Floor: FadedColor, fixture.Roof: comp}},
		{ColorBoundaryCondition, map[project.ID]color.RGBA{
			fixture.Floor: p.DB.BoundaryConditions[fixture.BCInside].Color,
			fixture.Roof:  p.DB.BoundaryConditions[fixture.BCOutside].Color,
		}},
		{ColorSurfaceHeating, map[project.ID]color.RGBA{fixture.Floor: p.DB.SurfaceHeatings[fixture.SurfaceHeating].Color, fixture.Wall: gray}},
		{ColorSupplySystem, map[project.ID]color.RGBA{fixture.Roof: p.DB.SupplySystems[fixture.SupplySystem].Color}},
		{ColorZoneTemplate, map[project.ID]color.RGBA{fixture.Wall: p.DB.ZoneTemplates[fixture.ZoneTemplate].Color}},
		{ColorAcousticRoomType, map[project.ID]color.RGBA{fixture.Wall: PaletteColor(int(project.AcousticOffice))}},
		{ColorSubSurfaceComponent, map[project.ID]color.RGBA{
			fixture.Window: withAlpha(p.DB.SubSurfaceComponents[fixture.WindowComponent].Color, windowAlpha),
			fixture.Floor:  FadedColor,
		}},
		{ColorNetworkEdge, map[project.ID]color.RGBA{fixture.Edge: p.DB.Pipes[fixture.Pipe].Color, fixture.Floor: RoofColor}},
		{ColorNetworkSubNetwork, map[project.ID]color.RGBA{fixture.NodeSource: p.DB.SubNetworks[fixture.SubNetwork].Color}},
		{ColorNetworkHeatExchange, map[project.ID]color.RGBA{
			fixture.NodeSource: PaletteColor(int(project.HeatExchangeTemperatureConstant)),
			fixture.Edge:       PaletteColor(int(project.HeatExchangeHeatLossSpline)),
		}},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			g := NewGenerator()
			g.RecolorObjects(p, tc.mode)
			assert.Equal(t, tc.mode, g.Mode)
			for id, want := range tc.want {
				got, ok := g.Annotations.ColorOf(id)
				require.True(t, ok, "no color for %d", id)
				assert.Equal(t, want, got, "object %d", id)
			}
		})
	}
}

func TestRecolorNeverTouchesProject(t *testing.T) {
	p := fixture.Sample()
	before := p.Snapshot()
	dbBefore := p.DB.Components[fixture.Component]
	for m := ColorMode(0); m < numColorModes; m++ {
		generate(p, m)
	}
	assert.Equal(t, before, p.Snapshot())
	assert.Equal(t, dbBefore, p.DB.Components[fixture.Component])
}

func TestSelectedSurfacesHighlighted(t *testing.T) {
	p := fixture.Sample()
	p.SetSelected([]project.ID{fixture.Floor}, true)
	g := NewGenerator()
	g.RecolorObjects(p, ColorSelectedSurfacesHighlighted)
	c, _ := g.Annotations.ColorOf(fixture.Floor)
	assert.Equal(t, HighlightColor, c)
	c, _ = g.Annotations.ColorOf(fixture.Roof)
	assert.Equal(t, FadedColor, c)
}

func TestInterlinkedSurfaces(t *testing.T) {
	p := fixture.Sample()
	g := generate(p, ColorInterlinkedSurfaces)

	floor, _ := g.Annotations.ColorOf(fixture.Floor)
	roof, _ := g.Annotations.ColorOf(fixture.Roof)
	wall, _ := g.Annotations.ColorOf(fixture.Wall)
	assert.Equal(t, PaletteColor(0), floor)
	assert.Equal(t, floor, roof)
	assert.Equal(t, NotAssignedColor, wall)

	// the link box: four sides, each quad front and back
	plain := generate(fixture.Sample(), ColorDefault)
	assert.Len(t, g.Building.Vertices, len(plain.Building.Vertices)+32)

	// colors survive a second pass
	g.Regenerate(p)
	again, _ := g.Annotations.ColorOf(fixture.Floor)
	assert.Equal(t, floor, again)

	// removing the link evicts the cache entries
	p.ComponentInstances = nil
	p.Reindex()
	g.Regenerate(p)
	assert.Empty(t, g.InterlinkColors())
	floor, _ = g.Annotations.ColorOf(fixture.Floor)
	assert.Equal(t, NotAssignedColor, floor)
	assert.Len(t, g.Building.Vertices, len(plain.Building.Vertices))

	// a new link gets a fresh color
	p.ComponentInstances = fixture.Sample().ComponentInstances
	p.Reindex()
	g.Regenerate(p)
	floor, _ = g.Annotations.ColorOf(fixture.Floor)
	assert.Equal(t, PaletteColor(1), floor)
	assert.Len(t, g.InterlinkColors(), 2)
}

func TestAlignCorners(t *testing.T) {
	square := [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	lifted := [4]mgl64.Vec3{}
	for i, v := range square {
		lifted[i] = v.Add(mgl64.Vec3{0, 0, 2})
	}

	for r := 1; r <= 3; r++ {
		b := RotateCorners(lifted, r)
		aligned := AlignCorners(square, b)
		got := CornerDistance(square, aligned)
		for k := 0; k < 4; k++ {
			assert.LessOrEqual(t, got, CornerDistance(square, RotateCorners(b, k)))
		}
		assert.InDelta(t, 8, got, 1e-12)
		assert.Equal(t, lifted, aligned)
	}
	assert.Equal(t, lifted, AlignCorners(square, lifted))
}

func TestParseColorMode(t *testing.T) {
	for m := ColorMode(0); m < numColorModes; m++ {
		got, err := ParseColorMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, ColorDefault, m)
	_, err = ParseColorMode("rainbow")
	assert.Error(t, err)

	assert.Equal(t, ColorComponent, ColorDefault.Next())
	assert.Equal(t, ColorDefault, ColorInterlinkedSurfaces.Next())
}

func TestPaletteColorsDiffer(t *testing.T) {
	seen := map[color.RGBA]bool{}
	for i := 0; i < 8; i++ {
		c := PaletteColor(i)
		assert.Equal(t, uint8(255), c.A)
		assert.False(t, seen[c], "palette repeats at %d", i)
		seen[c] = true
	}
}
