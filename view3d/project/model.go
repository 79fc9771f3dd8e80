package project

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// ID identifies an object for the duration of a session.
type ID uint32

// InvalidID marks an unset reference.
const InvalidID ID = 0xFFFFFFFF

// Kind is the discriminant of every object in the geometry graph.
type Kind int

const (
	KindBuilding Kind = iota
	KindBuildingLevel
	KindRoom
	KindSurface
	KindSubSurface
	KindPlainSurface
	KindNetwork
	KindNetworkNode
	KindNetworkEdge
)

func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "Building"
	case KindBuildingLevel:
		return "BuildingLevel"
	case KindRoom:
		return "Room"
	case KindSurface:
		return "Surface"
	case KindSubSurface:
		return "SubSurface"
	case KindPlainSurface:
		return "PlainSurface"
	case KindNetwork:
		return "Network"
	case KindNetworkNode:
		return "NetworkNode"
	case KindNetworkEdge:
		return "NetworkEdge"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Object holds the fields shared by every node of the graph.
type Object struct {
	ID          ID
	DisplayName string
	Visible     bool
	Selected    bool
}

type Building struct {
	Object
	Levels []BuildingLevel
}

type BuildingLevel struct {
	Object
	Elevation float64
	Height    float64
	Rooms     []Room
}

type AcousticRoomType int

const (
	AcousticNone AcousticRoomType = iota
	AcousticLivingRoom
	AcousticBedroom
	AcousticOffice
	AcousticClassroom
	AcousticCorridor
	AcousticStairwell
	NumAcousticRoomTypes
)

type Room struct {
	Object
	ZoneTemplateID   ID
	AcousticRoomType AcousticRoomType
	Surfaces         []Surface
}

// Surface is a planar building surface. Each sub-surface is a hole in it.
type Surface struct {
	Object
	Polygon     []mgl64.Vec3
	SubSurfaces []SubSurface
}

// SubSurface is a window, door or other opening. Its loop lies in the plane
// of its parent surface.
type SubSurface struct {
	Object
	Polygon []mgl64.Vec3
}

// PlainSurface is anonymous geometry not attached to a room. Holes without an
// owner object are plain cut-outs.
type PlainSurface struct {
	Object
	Polygon []mgl64.Vec3
	Holes   [][]mgl64.Vec3
}

type NodeType int

const (
	NodeMixer NodeType = iota
	NodeSource
	NodeBuilding
)

type HeatExchangeType int

const (
	HeatExchangeNone HeatExchangeType = iota
	HeatExchangeConstantLoss
	HeatExchangeHeatLossSpline
	HeatExchangeTemperatureConstant
	HeatExchangeTemperatureSpline
	NumHeatExchangeTypes
)

type NetworkNode struct {
	Object
	Position     mgl64.Vec3
	Type         NodeType
	HeatExchange HeatExchangeType
	SubNetworkID ID
	// MaxHeatingDemand in W, used to size building nodes.
	MaxHeatingDemand float64
}

type NetworkEdge struct {
	Object
	NodeA        ID
	NodeB        ID
	PipeID       ID
	HeatExchange HeatExchangeType
	Supply       bool
}

type Network struct {
	Object
	Nodes []NetworkNode
	Edges []NetworkEdge
	// ScaleNodes and ScaleEdges stretch the visualization radii.
	ScaleNodes float64
	ScaleEdges float64
}

// DatabaseItem is the part of a database element the 3D view needs.
type DatabaseItem struct {
	ID    ID
	Name  string
	Color color.RGBA
}

type Component struct {
	DatabaseItem
	BoundaryConditionSideA ID
	BoundaryConditionSideB ID
}

type SubSurfaceType int

const (
	SubSurfaceWindow SubSurfaceType = iota
	SubSurfaceDoor
	SubSurfaceOther
)

type SubSurfaceComponent struct {
	DatabaseItem
	Type SubSurfaceType
}

// WindowLike reports whether sub-surfaces of this component are drawn in the
// transparent pass.
func (c SubSurfaceComponent) WindowLike() bool {
	return c.Type == SubSurfaceWindow
}

type Pipe struct {
	DatabaseItem
	// OuterDiameter in mm.
	OuterDiameter float64
}

type Databases struct {
	Components           map[ID]Component
	SubSurfaceComponents map[ID]SubSurfaceComponent
	BoundaryConditions   map[ID]DatabaseItem
	SurfaceHeatings      map[ID]DatabaseItem
	SupplySystems        map[ID]DatabaseItem
	ZoneTemplates        map[ID]DatabaseItem
	SubNetworks          map[ID]DatabaseItem
	Pipes                map[ID]Pipe
}

// ComponentInstance links one or two surfaces through a construction.
type ComponentInstance struct {
	ID               ID
	ComponentID      ID
	SideASurfaceID   ID
	SideBSurfaceID   ID
	SurfaceHeatingID ID
	SupplySystemID   ID
}

type SubSurfaceComponentInstance struct {
	ID                    ID
	SubSurfaceComponentID ID
	SideASurfaceID        ID
	SideBSurfaceID        ID
}

// Project is the geometry graph consumed by the 3D core.
type Project struct {
	Buildings                    []Building
	PlainGeometry                []PlainSurface
	Networks                     []Network
	ComponentInstances           []ComponentInstance
	SubSurfaceComponentInstances []SubSurfaceComponentInstance
	DB                           Databases

	index *index
}
