package project

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
)

// Ref resolves an ID to its object. A Ref is only valid until the next
// structural mutation of the project; hold IDs across ticks, not Refs.
type Ref struct {
	Kind   Kind
	ID     ID
	Parent ID

	obj      *Object
	building *Building
	level    *BuildingLevel
	room     *Room
	surface  *Surface
	sub      *SubSurface
	plain    *PlainSurface
	network  *Network
	node     *NetworkNode
	edge     *NetworkEdge
	poly     geom.Polygon3D
}

func (r Ref) Object() *Object { return r.obj }
func (r Ref) Building() *Building { return r.building }
func (r Ref) Level() *BuildingLevel { return r.level }
func (r Ref) Room() *Room { return r.room }
func (r Ref) Surface() *Surface { return r.surface }
func (r Ref) SubSurface() *SubSurface { return r.sub }
func (r Ref) PlainSurface() *PlainSurface { return r.plain }
func (r Ref) Network() *Network { return r.network }
func (r Ref) Node() *NetworkNode { return r.node }
func (r Ref) Edge() *NetworkEdge { return r.edge }
func (r Ref) Polygon() geom.Polygon3D { return r.poly }
func (r Ref) HasPolygon() bool { return r.poly.Valid() }

type index struct {
	refs     map[ID]Ref
	children map[ID][]ID
	order    []ID

	surfaceCI    map[ID]int
	subSurfaceCI map[ID]int
	nodes        map[ID]*NetworkNode
}

// Reindex rebuilds the ID lookup after a mutation of the graph.
func (p *Project) Reindex() {
	ix := &index{
		refs:         make(map[ID]Ref),
		children:     make(map[ID][]ID),
		surfaceCI:    make(map[ID]int),
		subSurfaceCI: make(map[ID]int),
		nodes:        make(map[ID]*NetworkNode),
	}
	add := func(r Ref) {
		ix.refs[r.ID] = r
		ix.order = append(ix.order, r.ID)
		if r.Parent != InvalidID {
			ix.children[r.Parent] = append(ix.children[r.Parent], r.ID)
		}
	}

	for bi := range p.Buildings {
		b := &p.Buildings[bi]
		add(Ref{Kind: KindBuilding, ID: b.ID, Parent: InvalidID, obj: &b.Object, building: b})
		for li := range b.Levels {
			l := &b.Levels[li]
			add(Ref{Kind: KindBuildingLevel, ID: l.ID, Parent: b.ID, obj: &l.Object, building: b, level: l})
			for ri := range l.Rooms {
				r := &l.Rooms[ri]
				add(Ref{Kind: KindRoom, ID: r.ID, Parent: l.ID, obj: &r.Object, building: b, level: l, room: r})
				for si := range r.Surfaces {
					s := &r.Surfaces[si]
					holes := make([][]mgl64.Vec3, len(s.SubSurfaces))
					for hi := range s.SubSurfaces {
						holes[hi] = s.SubSurfaces[hi].Polygon
					}
					add(Ref{Kind: KindSurface, ID: s.ID, Parent: r.ID, obj: &s.Object, building: b, level: l, room: r, surface: s,
						poly: geom.NewPolygon3D(s.Polygon, holes...)})
					for hi := range s.SubSurfaces {
						sub := &s.SubSurfaces[hi]
						add(Ref{Kind: KindSubSurface, ID: sub.ID, Parent: s.ID, obj: &sub.Object, building: b, level: l, room: r, surface: s, sub: sub,
							poly: geom.NewPolygon3D(sub.Polygon)})
					}
				}
			}
		}
	}
	for pi := range p.PlainGeometry {
		ps := &p.PlainGeometry[pi]
		add(Ref{Kind: KindPlainSurface, ID: ps.ID, Parent: InvalidID, obj: &ps.Object, plain: ps,
			poly: geom.NewPolygon3D(ps.Polygon, ps.Holes...)})
	}
	for ni := range p.Networks {
		n := &p.Networks[ni]
		add(Ref{Kind: KindNetwork, ID: n.ID, Parent: InvalidID, obj: &n.Object, network: n})
		for i := range n.Nodes {
			node := &n.Nodes[i]
			ix.nodes[node.ID] = node
			add(Ref{Kind: KindNetworkNode, ID: node.ID, Parent: n.ID, obj: &node.Object, network: n, node: node})
		}
		for i := range n.Edges {
			e := &n.Edges[i]
			add(Ref{Kind: KindNetworkEdge, ID: e.ID, Parent: n.ID, obj: &e.Object, network: n, edge: e})
		}
	}

	for i, ci := range p.ComponentInstances {
		if ci.SideASurfaceID != InvalidID {
			ix.surfaceCI[ci.SideASurfaceID] = i
		}
		if ci.SideBSurfaceID != InvalidID {
			ix.surfaceCI[ci.SideBSurfaceID] = i
		}
	}
	for i, ci := range p.SubSurfaceComponentInstances {
		if ci.SideASurfaceID != InvalidID {
			ix.subSurfaceCI[ci.SideASurfaceID] = i
		}
		if ci.SideBSurfaceID != InvalidID {
			ix.subSurfaceCI[ci.SideBSurfaceID] = i
		}
	}
	p.index = ix
}

func (p *Project) ix() *index {
	if p.index == nil {
		p.Reindex()
	}
	return p.index
}

// Lookup resolves an ID.
func (p *Project) Lookup(id ID) (Ref, bool) {
	r, ok := p.ix().refs[id]
	return r, ok
}

// Parent returns the parent ID or InvalidID for top-level objects.
func (p *Project) Parent(id ID) ID {
	r, ok := p.Lookup(id)
	if !ok {
		return InvalidID
	}
	return r.Parent
}

// Children returns the direct (or all, when recursive) children of id in
// walk order.
func (p *Project) Children(id ID, recursive bool) []ID {
	ix := p.ix()
	var out []ID
	var walk func(ID)
	walk = func(parent ID) {
		for _, c := range ix.children[parent] {
			out = append(out, c)
			if recursive {
				walk(c)
			}
		}
	}
	walk(id)
	return out
}

// ForEach visits every object in walk order: buildings, levels, rooms,
// surfaces, sub-surfaces, plain geometry, networks, nodes, edges. Returning
// false stops the walk.
func (p *Project) ForEach(fn func(Ref) bool) {
	ix := p.ix()
	for _, id := range ix.order {
		if !fn(ix.refs[id]) {
			return
		}
	}
}

// SelectedIDs returns the IDs of all selected objects in ascending order.
func (p *Project) SelectedIDs() []ID {
	var out []ID
	for id, r := range p.ix().refs {
		if r.obj.Selected {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasSelection reports whether any object is selected.
func (p *Project) HasSelection() bool {
	for _, r := range p.ix().refs {
		if r.obj.Selected {
			return true
		}
	}
	return false
}

// Node returns a network node by ID.
func (p *Project) Node(id ID) (*NetworkNode, bool) {
	n, ok := p.ix().nodes[id]
	return n, ok
}

// EdgeEndpoints resolves the node positions of an edge.
func (p *Project) EdgeEndpoints(e *NetworkEdge) (mgl64.Vec3, mgl64.Vec3, bool) {
	a, okA := p.Node(e.NodeA)
	b, okB := p.Node(e.NodeB)
	if !okA || !okB {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return a.Position, b.Position, true
}

// Side tells on which side of a component instance a surface sits.
type Side int

const (
	SideA Side = iota
	SideB
)

// ComponentInstanceFor returns the component instance referencing a surface.
func (p *Project) ComponentInstanceFor(surfaceID ID) (ComponentInstance, Side, bool) {
	i, ok := p.ix().surfaceCI[surfaceID]
	if !ok {
		return ComponentInstance{}, SideA, false
	}
	ci := p.ComponentInstances[i]
	if ci.SideASurfaceID == surfaceID {
		return ci, SideA, true
	}
	return ci, SideB, true
}

// SubSurfaceComponentInstanceFor returns the instance referencing a sub-surface.
func (p *Project) SubSurfaceComponentInstanceFor(subSurfaceID ID) (SubSurfaceComponentInstance, Side, bool) {
	i, ok := p.ix().subSurfaceCI[subSurfaceID]
	if !ok {
		return SubSurfaceComponentInstance{}, SideA, false
	}
	ci := p.SubSurfaceComponentInstances[i]
	if ci.SideASurfaceID == subSurfaceID {
		return ci, SideA, true
	}
	return ci, SideB, true
}

// RepresentativePoints returns the points used for screen-space tests:
// centroids for polygons, the position for nodes and both ends for edges.
func (p *Project) RepresentativePoints(id ID) []mgl64.Vec3 {
	r, ok := p.Lookup(id)
	if !ok {
		return nil
	}
	switch r.Kind {
	case KindSurface, KindSubSurface, KindPlainSurface:
		if len(r.poly.Vertices) == 0 {
			return nil
		}
		return []mgl64.Vec3{r.poly.Centroid()}
	case KindNetworkNode:
		return []mgl64.Vec3{r.node.Position}
	case KindNetworkEdge:
		a, b, ok := p.EdgeEndpoints(r.edge)
		if !ok {
			return nil
		}
		return []mgl64.Vec3{a, b}
	case KindBuilding, KindBuildingLevel, KindRoom, KindNetwork:
		return nil
	}
	return nil
}

// Bounds returns the bounding box of an object and its children.
func (p *Project) Bounds(id ID) geom.AABB {
	b := geom.EmptyAABB()
	r, ok := p.Lookup(id)
	if !ok {
		return b
	}
	switch r.Kind {
	case KindSurface, KindSubSurface, KindPlainSurface:
		b = b.Union(r.poly.Bounds())
	case KindNetworkNode:
		b = b.Extend(r.node.Position)
	case KindNetworkEdge:
		if a, c, ok := p.EdgeEndpoints(r.edge); ok {
			b = b.Extend(a).Extend(c)
		}
	case KindBuilding, KindBuildingLevel, KindRoom, KindNetwork:
		for _, c := range p.Children(id, false) {
			b = b.Union(p.Bounds(c))
		}
	}
	return b
}

// SelectionBounds is the bounding box of all selected objects.
func (p *Project) SelectionBounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, id := range p.SelectedIDs() {
		b = b.Union(p.Bounds(id))
	}
	return b
}
