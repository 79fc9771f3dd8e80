package buffers

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/simvicus/vic3d/view3d/project"
)

// ColorMode selects how RecolorObjects colors the scene.
type ColorMode int

const (
	ColorDefault ColorMode = iota
	ColorComponent
	ColorComponentOrientationSideA
	ColorComponentOrientationSideB
	ColorSubSurfaceComponent
	ColorBoundaryCondition
	ColorSurfaceHeating
	ColorSupplySystem
	ColorZoneTemplate
	ColorAcousticRoomType
	ColorNetworkNode
	ColorNetworkEdge
	ColorNetworkHeatExchange
	ColorNetworkSubNetwork
	ColorSelectedSurfacesHighlighted
	ColorInterlinkedSurfaces
	numColorModes
)

var colorModeNames = [numColorModes]string{
	"default",
	"component",
	"component-orientation-a",
	"component-orientation-b",
	"sub-surface-component",
	"boundary-condition",
	"surface-heating",
	"supply-system",
	"zone-template",
	"acoustic-room-type",
	"network-node",
	"network-edge",
	"network-heat-exchange",
	"network-sub-network",
	"selected-surfaces",
	"interlinked-surfaces",
}

// Next cycles through all color modes.
func (m ColorMode) Next() ColorMode {
	return (m + 1) % numColorModes
}

func (m ColorMode) String() string {
	if m >= 0 && m < numColorModes {
		return colorModeNames[m]
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

func ParseColorMode(s string) (ColorMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorDefault, nil
	}
	for i, n := range colorModeNames {
		if n == s {
			return ColorMode(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color mode %q", s)
}

// Network modes leave building geometry in default colors and vice versa.
func (m ColorMode) network() bool {
	return m >= ColorNetworkNode && m <= ColorNetworkSubNetwork
}

const windowAlpha = 96

// Fixed scene colors.
var (
	WallColor        = colornames.Wheat
	RoofColor        = colornames.Firebrick
	FloorColor       = colornames.Dimgray
	WindowColor      = withAlpha(colornames.Lightskyblue, windowAlpha)
	DoorColor        = colornames.Sienna
	PlainColor       = colornames.Lightgray
	NotAssignedColor = colornames.Darkgray
	FadedColor       = colornames.Gainsboro
	HighlightColor   = colornames.Gold
	SupplyColor      = colornames.Indianred
	ReturnColor      = colornames.Steelblue
	NodeMixerColor   = colornames.Slategray
	NodeSourceColor  = colornames.Crimson
	NodeBuildColor   = colornames.Royalblue
)

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// PaletteColor returns the i-th color of an endless palette of well
// separated hues.
func PaletteColor(i int) color.RGBA {
	const golden = 0.618033988749895
	h := math.Mod(float64(i)*golden, 1) * 360
	r, g, b := colorful.Hsv(h, 0.55, 0.9).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// inclination classifies a surface by its normal.
func inclinationColor(n mgl64.Vec3) color.RGBA {
	switch {
	case n[2] > 0.707:
		return RoofColor
	case n[2] < -0.707:
		return FloorColor
	}
	return WallColor
}

// RecolorObjects assigns the display color of every surface, sub-surface,
// plain surface, node and edge. Only the annotations change. The result
// depends on the project, the mode and the interlink cache only.
func (g *Generator) RecolorObjects(p *project.Project, mode ColorMode) {
	g.Mode = mode
	ann := make(Annotations, len(g.Annotations))
	set := func(id project.ID, c color.RGBA) {
		a := ann[id]
		a.Color = c
		ann[id] = a
	}

	if mode == ColorInterlinkedSurfaces {
		g.updateInterlinks(p)
	}

	p.ForEach(func(r project.Ref) bool {
		switch r.Kind {
		case project.KindSurface:
			set(r.ID, g.surfaceColor(p, r, mode))
		case project.KindSubSurface:
			set(r.ID, g.subSurfaceColor(p, r, mode))
		case project.KindPlainSurface:
			set(r.ID, PlainColor)
		case project.KindNetworkNode:
			set(r.ID, nodeColor(p, r.Node(), mode))
		case project.KindNetworkEdge:
			set(r.ID, edgeColor(p, r.Edge(), mode))
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom, project.KindNetwork:
		}
		return true
	})
	g.updateRadii(p, ann)
	g.Annotations = ann
}

func dbColor(items map[project.ID]project.DatabaseItem, id project.ID) color.RGBA {
	if it, ok := items[id]; ok {
		return it.Color
	}
	return NotAssignedColor
}

func (g *Generator) surfaceColor(p *project.Project, r project.Ref, mode ColorMode) color.RGBA {
	if mode == ColorDefault || mode.network() {
		return inclinationColor(r.Polygon().Normal())
	}
	ci, side, hasCI := p.ComponentInstanceFor(r.ID)
	comp, hasComp := project.Component{}, false
	if hasCI {
		comp, hasComp = p.DB.Components[ci.ComponentID]
	}

	switch mode {
	case ColorComponent:
		if hasComp {
			return comp.Color
		}
	case ColorComponentOrientationSideA, ColorComponentOrientationSideB:
		want := project.SideA
		if mode == ColorComponentOrientationSideB {
			want = project.SideB
		}
		if hasComp && side == want {
			return comp.Color
		}
		if hasComp {
			return FadedColor
		}
	case ColorBoundaryCondition:
		if hasComp {
			bc := comp.BoundaryConditionSideA
			if side == project.SideB {
				bc = comp.BoundaryConditionSideB
			}
			return dbColor(p.DB.BoundaryConditions, bc)
		}
	case ColorSurfaceHeating:
		if hasCI && ci.SurfaceHeatingID != project.InvalidID {
			return dbColor(p.DB.SurfaceHeatings, ci.SurfaceHeatingID)
		}
	case ColorSupplySystem:
		if hasCI && ci.SupplySystemID != project.InvalidID {
			return dbColor(p.DB.SupplySystems, ci.SupplySystemID)
		}
	case ColorZoneTemplate:
		if room := r.Room(); room != nil && room.ZoneTemplateID != project.InvalidID {
			return dbColor(p.DB.ZoneTemplates, room.ZoneTemplateID)
		}
	case ColorAcousticRoomType:
		if room := r.Room(); room != nil && room.AcousticRoomType != project.AcousticNone {
			return PaletteColor(int(room.AcousticRoomType))
		}
	case ColorSelectedSurfacesHighlighted:
		if r.Object().Selected {
			return HighlightColor
		}
		return FadedColor
	case ColorInterlinkedSurfaces:
		if c, ok := g.interlinked[r.ID]; ok {
			return c
		}
	case ColorSubSurfaceComponent:
		return FadedColor
	}
	return NotAssignedColor
}

func subSurfaceComponentOf(p *project.Project, subID project.ID) (project.SubSurfaceComponent, bool) {
	inst, _, ok := p.SubSurfaceComponentInstanceFor(subID)
	if !ok {
		return project.SubSurfaceComponent{}, false
	}
	ssc, ok := p.DB.SubSurfaceComponents[inst.SubSurfaceComponentID]
	return ssc, ok
}

func (g *Generator) subSurfaceColor(p *project.Project, r project.Ref, mode ColorMode) color.RGBA {
	ssc, ok := subSurfaceComponentOf(p, r.ID)
	switch mode {
	case ColorSubSurfaceComponent:
		if !ok {
			return NotAssignedColor
		}
		if ssc.WindowLike() {
			return withAlpha(ssc.Color, windowAlpha)
		}
		return ssc.Color
	case ColorSelectedSurfacesHighlighted:
		if r.Object().Selected {
			return HighlightColor
		}
		return FadedColor
	}
	if ok && ssc.WindowLike() {
		return WindowColor
	}
	return DoorColor
}

func nodeColor(p *project.Project, n *project.NetworkNode, mode ColorMode) color.RGBA {
	switch mode {
	case ColorNetworkHeatExchange:
		if n.HeatExchange == project.HeatExchangeNone {
			return NotAssignedColor
		}
		return PaletteColor(int(n.HeatExchange))
	case ColorNetworkSubNetwork:
		return dbColor(p.DB.SubNetworks, n.SubNetworkID)
	}
	switch n.Type {
	case project.NodeSource:
		return NodeSourceColor
	case project.NodeBuilding:
		return NodeBuildColor
	case project.NodeMixer:
	}
	return NodeMixerColor
}

func edgeColor(p *project.Project, e *project.NetworkEdge, mode ColorMode) color.RGBA {
	switch mode {
	case ColorNetworkEdge:
		if pipe, ok := p.DB.Pipes[e.PipeID]; ok {
			return pipe.Color
		}
		return NotAssignedColor
	case ColorNetworkHeatExchange:
		if e.HeatExchange == project.HeatExchangeNone {
			return NotAssignedColor
		}
		return PaletteColor(int(e.HeatExchange))
	}
	if e.Supply {
		return SupplyColor
	}
	return ReturnColor
}
