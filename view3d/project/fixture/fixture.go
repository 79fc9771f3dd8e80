// Package fixture builds small projects for tests.
package fixture

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/project"
)

// IDs used by Sample.
const (
	Building     project.ID = 1
	Level        project.ID = 2
	Room         project.ID = 3
	Floor        project.ID = 10
	Wall         project.ID = 11
	Window       project.ID = 12
	Roof         project.ID = 13
	Plain        project.ID = 20
	Network      project.ID = 30
	NodeSource   project.ID = 31
	NodeBuilding project.ID = 32
	Edge         project.ID = 33

	Pipe              project.ID = 100
	Component         project.ID = 200
	WindowComponent   project.ID = 210
	BCInside          project.ID = 220
	BCOutside         project.ID = 221
	SurfaceHeating    project.ID = 230
	SupplySystem      project.ID = 240
	ZoneTemplate      project.ID = 250
	SubNetwork        project.ID = 260
	ComponentInstance project.ID = 300
	WindowInstance    project.ID = 310
)

func obj(id project.ID, name string) project.Object {
	return project.Object{ID: id, DisplayName: name, Visible: true}
}

// Rect returns an axis-aligned rectangle in the plane z.
func Rect(x0, y0, x1, y1, z float64) []mgl64.Vec3 {
	return []mgl64.Vec3{{x0, y0, z}, {x1, y0, z}, {x1, y1, z}, {x0, y1, z}}
}

// Sample is a single room (10x10x3 m) with a floor, a south wall holding a
// window and a roof, one plain surface beside it and a two-node network.
// Floor and roof are interlinked through one component instance.
func Sample() *project.Project {
	p := &project.Project{
		Buildings: []project.Building{{
			Object: obj(Building, "Building"),
			Levels: []project.BuildingLevel{{
				Object: obj(Level, "Ground floor"),
				Height: 3,
				Rooms: []project.Room{{
					Object:           obj(Room, "Office"),
					ZoneTemplateID:   ZoneTemplate,
					AcousticRoomType: project.AcousticOffice,
					Surfaces: []project.Surface{
						{Object: obj(Floor, "Floor"), Polygon: Rect(0, 0, 10, 10, 0)},
						{
							Object:  obj(Wall, "Wall south"),
							Polygon: []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 3}, {0, 0, 3}},
							SubSurfaces: []project.SubSurface{{
								Object:  obj(Window, "Window"),
								Polygon: []mgl64.Vec3{{4, 0, 1}, {6, 0, 1}, {6, 0, 2}, {4, 0, 2}},
							}},
						},
						{Object: obj(Roof, "Roof"), Polygon: Rect(0, 0, 10, 10, 3)},
					},
				}},
			}},
		}},
		PlainGeometry: []project.PlainSurface{
			{Object: obj(Plain, "Terrain"), Polygon: Rect(20, 0, 30, 10, 0)},
		},
		Networks: []project.Network{{
			Object: obj(Network, "District"),
			Nodes: []project.NetworkNode{
				{Object: obj(NodeSource, "Plant"), Position: mgl64.Vec3{0, 20, 0}, Type: project.NodeSource,
					HeatExchange: project.HeatExchangeTemperatureConstant, SubNetworkID: SubNetwork},
				{Object: obj(NodeBuilding, "House"), Position: mgl64.Vec3{10, 20, 0}, Type: project.NodeBuilding,
					HeatExchange: project.HeatExchangeConstantLoss, SubNetworkID: SubNetwork, MaxHeatingDemand: 20000},
			},
			Edges: []project.NetworkEdge{
				{Object: obj(Edge, "Pipe"), NodeA: NodeSource, NodeB: NodeBuilding, PipeID: Pipe,
					HeatExchange: project.HeatExchangeHeatLossSpline, Supply: true},
			},
			ScaleNodes: 1,
			ScaleEdges: 1,
		}},
		ComponentInstances: []project.ComponentInstance{{
			ID: ComponentInstance, ComponentID: Component,
			SideASurfaceID: Floor, SideBSurfaceID: Roof,
			SurfaceHeatingID: SurfaceHeating, SupplySystemID: SupplySystem,
		}},
		SubSurfaceComponentInstances: []project.SubSurfaceComponentInstance{{
			ID: WindowInstance, SubSurfaceComponentID: WindowComponent,
			SideASurfaceID: Window, SideBSurfaceID: project.InvalidID,
		}},
		DB: project.Databases{
			Components: map[project.ID]project.Component{
				Component: {
					DatabaseItem:           project.DatabaseItem{ID: Component, Name: "Concrete slab", Color: color.RGBA{R: 160, G: 120, B: 80, A: 255}},
					BoundaryConditionSideA: BCInside,
					BoundaryConditionSideB: BCOutside,
				},
			},
			SubSurfaceComponents: map[project.ID]project.SubSurfaceComponent{
				WindowComponent: {
					DatabaseItem: project.DatabaseItem{ID: WindowComponent, Name: "Double glazing", Color: color.RGBA{R: 90, G: 160, B: 220, A: 255}},
					Type:         project.SubSurfaceWindow,
				},
			},
			BoundaryConditions: map[project.ID]project.DatabaseItem{
				BCInside:  {ID: BCInside, Name: "Inside", Color: color.RGBA{R: 250, G: 200, B: 40, A: 255}},
				BCOutside: {ID: BCOutside, Name: "Outside", Color: color.RGBA{R: 40, G: 120, B: 250, A: 255}},
			},
			SurfaceHeatings: map[project.ID]project.DatabaseItem{
				SurfaceHeating: {ID: SurfaceHeating, Name: "Floor heating", Color: color.RGBA{R: 230, G: 60, B: 60, A: 255}},
			},
			SupplySystems: map[project.ID]project.DatabaseItem{
				SupplySystem: {ID: SupplySystem, Name: "Heat pump", Color: color.RGBA{R: 60, G: 200, B: 120, A: 255}},
			},
			ZoneTemplates: map[project.ID]project.DatabaseItem{
				ZoneTemplate: {ID: ZoneTemplate, Name: "Office", Color: color.RGBA{R: 200, G: 200, B: 90, A: 255}},
			},
			SubNetworks: map[project.ID]project.DatabaseItem{
				SubNetwork: {ID: SubNetwork, Name: "Loop A", Color: color.RGBA{R: 140, G: 60, B: 200, A: 255}},
			},
			Pipes: map[project.ID]project.Pipe{
				Pipe: {DatabaseItem: project.DatabaseItem{ID: Pipe, Name: "DN200", Color: color.RGBA{R: 120, G: 120, B: 120, A: 255}}, OuterDiameter: 200},
			},
		},
	}
	p.Reindex()
	return p
}
