package buffers

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
)

// Visualization radii, in meters.
const (
	DefaultEdgeRadius = 0.1
	MinNodeRadius     = 0.1
	// nodes are drawn a bit thicker than the pipes they join
	nodeToEdgeRatio = 1.5

	cylinderSegments = 16
	sphereRings      = 8
	sphereSegments   = 16
)

// Logger is the subset of the application logger the generator needs.
type Logger interface {
	Warnf(format string, args ...any)
}

// Generator owns the render buffers and annotations of one view.
type Generator struct {
	Mode        ColorMode
	Annotations Annotations

	Building Buffers
	Network  Buffers

	Log Logger

	interlinked map[project.ID]color.RGBA
	links       []link
	nextLink    int
}

func NewGenerator() *Generator {
	return &Generator{
		Annotations: make(Annotations),
		interlinked: make(map[project.ID]color.RGBA),
	}
}

// Regenerate recolors with the current mode and rebuilds both buffer sets.
func (g *Generator) Regenerate(p *project.Project) {
	g.RecolorObjects(p, g.Mode)
	g.GenerateBuildingGeometry(p)
	g.GenerateNetworkGeometry(p)
}

func (g *Generator) colorOf(id project.ID) color.RGBA {
	if c, ok := g.Annotations.ColorOf(id); ok {
		return c
	}
	return NotAssignedColor
}

// GenerateBuildingGeometry rebuilds the building buffers: surfaces,
// sub-surfaces and plain geometry in walk order. Visible window-like
// sub-surfaces that are not selected go to the transparent range.
func (g *Generator) GenerateBuildingGeometry(p *project.Project) {
	b := &g.Building
	b.Reset()

	type deferred struct {
		poly geom.Polygon3D
		col  color.RGBA
	}
	var transparent []deferred
	invalid := 0

	p.ForEach(func(r project.Ref) bool {
		switch r.Kind {
		case project.KindSurface, project.KindPlainSurface:
			if !r.Object().Visible {
				return true
			}
			if !b.addPolygon(r.Polygon(), g.colorOf(r.ID), true) {
				invalid++
			}
		case project.KindSubSurface:
			if !r.Object().Visible {
				return true
			}
			col := g.colorOf(r.ID)
			if ssc, ok := subSurfaceComponentOf(p, r.ID); ok && ssc.WindowLike() && !r.Object().Selected {
				if col.A == 255 {
					col.A = windowAlpha
				}
				transparent = append(transparent, deferred{r.Polygon(), col})
				return true
			}
			col.A = 255
			if !b.addPolygon(r.Polygon(), col, true) {
				invalid++
			}
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom,
			project.KindNetwork, project.KindNetworkNode, project.KindNetworkEdge:
		}
		return true
	})

	if g.Mode == ColorInterlinkedSurfaces {
		for _, l := range g.links {
			g.addLinkBox(p, l)
		}
	}

	b.TransparentStart = len(b.Indices)
	for _, d := range transparent {
		if !b.addPolygon(d.poly, d.col, true) {
			invalid++
		}
	}
	if invalid > 0 && g.Log != nil {
		g.Log.Warnf("buffers: skipped %d degenerate polygons", invalid)
	}
}

// GenerateNetworkGeometry rebuilds the network buffers: cylinders for all
// edges, then spheres for all nodes. Radii come from the last RecolorObjects.
func (g *Generator) GenerateNetworkGeometry(p *project.Project) {
	b := &g.Network
	b.Reset()

	var nodes []project.Ref
	p.ForEach(func(r project.Ref) bool {
		switch r.Kind {
		case project.KindNetworkEdge:
			if !r.Object().Visible {
				return true
			}
			a, c, ok := p.EdgeEndpoints(r.Edge())
			if !ok {
				return true
			}
			rad, _ := g.Annotations.VisualizationRadius(r.ID)
			b.addCylinder(a, c, rad, g.colorOf(r.ID))
		case project.KindNetworkNode:
			if r.Object().Visible {
				nodes = append(nodes, r)
			}
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom, project.KindSurface,
			project.KindSubSurface, project.KindPlainSurface, project.KindNetwork:
		}
		return true
	})
	for _, r := range nodes {
		rad, _ := g.Annotations.VisualizationRadius(r.ID)
		b.addSphere(r.Node().Position, rad, g.colorOf(r.ID))
	}
	b.TransparentStart = len(b.Indices)
}

func scale(s float64) float64 {
	if s <= 0 {
		return 1
	}
	return s
}

// updateRadii derives the visualization radius of every edge (half the pipe
// outer diameter) and node (the thickest adjacent pipe, or the heating
// demand for building nodes).
func (g *Generator) updateRadii(p *project.Project, ann Annotations) {
	for ni := range p.Networks {
		n := &p.Networks[ni]
		adjacent := make(map[project.ID]float64)
		for _, e := range n.Edges {
			r := DefaultEdgeRadius
			if pipe, ok := p.DB.Pipes[e.PipeID]; ok && pipe.OuterDiameter > 0 {
				r = pipe.OuterDiameter / 2000 // mm diameter to m radius
			}
			r *= scale(n.ScaleEdges)
			a := ann[e.ID]
			a.Radius = r
			ann[e.ID] = a
			adjacent[e.NodeA] = math.Max(adjacent[e.NodeA], r)
			adjacent[e.NodeB] = math.Max(adjacent[e.NodeB], r)
		}
		for _, node := range n.Nodes {
			r := adjacent[node.ID] * nodeToEdgeRatio
			if node.Type == project.NodeBuilding && node.MaxHeatingDemand > 0 {
				// 0.1 m per sqrt(kW)
				r = math.Max(r, 0.1*math.Sqrt(node.MaxHeatingDemand/1000))
			}
			r = math.Max(r, MinNodeRadius) * scale(n.ScaleNodes)
			a := ann[node.ID]
			a.Radius = r
			ann[node.ID] = a
		}
	}
}

func orthonormal(axis mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u := axis.Cross(ref).Normalize()
	return u, axis.Cross(u)
}

func (b *Buffers) addCylinder(a, c mgl64.Vec3, radius float64, col color.RGBA) {
	d := c.Sub(a)
	if d.Len() < geom.GeometricEpsilon || radius <= 0 {
		return
	}
	u, v := orthonormal(d.Normalize())
	base := uint32(len(b.Vertices))
	for i := 0; i < cylinderSegments; i++ {
		phi := 2 * math.Pi * float64(i) / cylinderSegments
		n := u.Mul(math.Cos(phi)).Add(v.Mul(math.Sin(phi)))
		b.addVertex(a.Add(n.Mul(radius)), n, col)
		b.addVertex(c.Add(n.Mul(radius)), n, col)
	}
	for i := uint32(0); i < cylinderSegments; i++ {
		j := (i + 1) % cylinderSegments
		a0, c0 := base+2*i, base+2*i+1
		a1, c1 := base+2*j, base+2*j+1
		b.addTriangle(a0, a1, c1)
		b.addTriangle(a0, c1, c0)
	}
}

func (b *Buffers) addSphere(center mgl64.Vec3, radius float64, col color.RGBA) {
	if radius <= 0 {
		return
	}
	base := uint32(len(b.Vertices))
	for ring := 0; ring <= sphereRings; ring++ {
		theta := math.Pi * float64(ring) / sphereRings
		for seg := 0; seg <= sphereSegments; seg++ {
			phi := 2 * math.Pi * float64(seg) / sphereSegments
			n := mgl64.Vec3{
				math.Sin(theta) * math.Cos(phi),
				math.Sin(theta) * math.Sin(phi),
				math.Cos(theta),
			}
			b.addVertex(center.Add(n.Mul(radius)), n, col)
		}
	}
	const stride = sphereSegments + 1
	for ring := uint32(0); ring < sphereRings; ring++ {
		for seg := uint32(0); seg < sphereSegments; seg++ {
			i0 := base + ring*stride + seg
			i1 := i0 + stride
			b.addTriangle(i0, i1, i1+1)
			b.addTriangle(i0, i1+1, i0+1)
		}
	}
}
