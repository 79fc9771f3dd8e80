package project

import (
	"github.com/go-gl/mathgl/mgl64"
)

// The helpers in this file are used by command implementations. The
// interaction core itself never calls them.

// SetSelected updates the selection flag of the given objects. Unknown IDs
// are skipped and reported in the returned slice.
func (p *Project) SetSelected(ids []ID, selected bool) (missing []ID) {
	for _, id := range ids {
		r, ok := p.Lookup(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		r.obj.Selected = selected
	}
	return missing
}

// SetVisible updates the visibility flag of the given objects.
func (p *Project) SetVisible(ids []ID, visible bool) (missing []ID) {
	for _, id := range ids {
		r, ok := p.Lookup(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		r.obj.Visible = visible
	}
	return missing
}

// Geometry is a deep copy of the mutable parts of the graph.
type Geometry struct {
	Buildings     []Building
	PlainGeometry []PlainSurface
	Networks      []Network
}

// Snapshot returns a deep copy of the geometry graph.
func (p *Project) Snapshot() Geometry {
	g := Geometry{
		Buildings:     make([]Building, len(p.Buildings)),
		PlainGeometry: make([]PlainSurface, len(p.PlainGeometry)),
		Networks:      make([]Network, len(p.Networks)),
	}
	for i, b := range p.Buildings {
		g.Buildings[i] = cloneBuilding(b)
	}
	for i, ps := range p.PlainGeometry {
		ps.Polygon = cloneLoop(ps.Polygon)
		ps.Holes = cloneLoops(ps.Holes)
		g.PlainGeometry[i] = ps
	}
	for i, n := range p.Networks {
		n.Nodes = append([]NetworkNode(nil), n.Nodes...)
		n.Edges = append([]NetworkEdge(nil), n.Edges...)
		g.Networks[i] = n
	}
	return g
}

// Restore replaces the geometry graph with a copy of g and reindexes.
func (p *Project) Restore(g Geometry) {
	c := (&Project{Buildings: g.Buildings, PlainGeometry: g.PlainGeometry, Networks: g.Networks}).Snapshot()
	p.Buildings = c.Buildings
	p.PlainGeometry = c.PlainGeometry
	p.Networks = c.Networks
	p.Reindex()
}

func cloneBuilding(b Building) Building {
	b.Levels = append([]BuildingLevel(nil), b.Levels...)
	for li := range b.Levels {
		l := &b.Levels[li]
		l.Rooms = append([]Room(nil), l.Rooms...)
		for ri := range l.Rooms {
			r := &l.Rooms[ri]
			r.Surfaces = append([]Surface(nil), r.Surfaces...)
			for si := range r.Surfaces {
				s := &r.Surfaces[si]
				s.Polygon = cloneLoop(s.Polygon)
				s.SubSurfaces = append([]SubSurface(nil), s.SubSurfaces...)
				for hi := range s.SubSurfaces {
					s.SubSurfaces[hi].Polygon = cloneLoop(s.SubSurfaces[hi].Polygon)
				}
			}
		}
	}
	return b
}

func cloneLoop(l []mgl64.Vec3) []mgl64.Vec3 {
	if l == nil {
		return nil
	}
	return append([]mgl64.Vec3(nil), l...)
}

func cloneLoops(ls [][]mgl64.Vec3) [][]mgl64.Vec3 {
	if ls == nil {
		return nil
	}
	out := make([][]mgl64.Vec3, len(ls))
	for i, l := range ls {
		out[i] = cloneLoop(l)
	}
	return out
}

// TransformPoints applies fn to every point owned by the given objects.
// Parents carry their children along; a child whose parent is also in ids is
// transformed once. The project is reindexed afterwards.
func (p *Project) TransformPoints(ids []ID, fn func(mgl64.Vec3) mgl64.Vec3) {
	set := make(map[ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	// expand containers to their point-owning descendants
	owners := make(map[ID]bool)
	for id := range set {
		r, ok := p.Lookup(id)
		if !ok {
			continue
		}
		switch r.Kind {
		case KindSurface, KindSubSurface, KindPlainSurface, KindNetworkNode:
			owners[id] = true
		case KindNetworkEdge:
			owners[r.edge.NodeA] = true
			owners[r.edge.NodeB] = true
		case KindBuilding, KindBuildingLevel, KindRoom, KindNetwork:
			for _, c := range p.Children(id, true) {
				owners[c] = true
			}
		}
	}

	apply := func(l []mgl64.Vec3) {
		for i := range l {
			l[i] = fn(l[i])
		}
	}
	for id := range owners {
		r, ok := p.Lookup(id)
		if !ok {
			continue
		}
		switch r.Kind {
		case KindSurface:
			apply(r.surface.Polygon)
			for hi := range r.surface.SubSurfaces {
				if !owners[r.surface.SubSurfaces[hi].ID] {
					apply(r.surface.SubSurfaces[hi].Polygon)
				}
			}
		case KindSubSurface:
			apply(r.sub.Polygon)
		case KindPlainSurface:
			apply(r.plain.Polygon)
			for _, h := range r.plain.Holes {
				apply(h)
			}
		case KindNetworkNode:
			r.node.Position = fn(r.node.Position)
		case KindBuilding, KindBuildingLevel, KindRoom, KindNetwork, KindNetworkEdge:
		}
	}
	p.Reindex()
}

// Delete removes the given objects together with their children. Edges
// attached to a removed node go as well. The project is reindexed afterwards.
func (p *Project) Delete(ids []ID) {
	del := make(map[ID]bool, len(ids))
	for _, id := range ids {
		del[id] = true
	}

	buildings := p.Buildings[:0]
	for _, b := range p.Buildings {
		if del[b.ID] {
			continue
		}
		levels := b.Levels[:0]
		for _, l := range b.Levels {
			if del[l.ID] {
				continue
			}
			rooms := l.Rooms[:0]
			for _, r := range l.Rooms {
				if del[r.ID] {
					continue
				}
				surfaces := r.Surfaces[:0]
				for _, s := range r.Surfaces {
					if del[s.ID] {
						continue
					}
					subs := s.SubSurfaces[:0]
					for _, sub := range s.SubSurfaces {
						if !del[sub.ID] {
							subs = append(subs, sub)
						}
					}
					s.SubSurfaces = subs
					surfaces = append(surfaces, s)
				}
				r.Surfaces = surfaces
				rooms = append(rooms, r)
			}
			l.Rooms = rooms
			levels = append(levels, l)
		}
		b.Levels = levels
		buildings = append(buildings, b)
	}
	p.Buildings = buildings

	plain := p.PlainGeometry[:0]
	for _, ps := range p.PlainGeometry {
		if !del[ps.ID] {
			plain = append(plain, ps)
		}
	}
	p.PlainGeometry = plain

	networks := p.Networks[:0]
	for _, n := range p.Networks {
		if del[n.ID] {
			continue
		}
		nodes := n.Nodes[:0]
		for _, node := range n.Nodes {
			if !del[node.ID] {
				nodes = append(nodes, node)
			}
		}
		n.Nodes = nodes
		edges := n.Edges[:0]
		for _, e := range n.Edges {
			if del[e.ID] || del[e.NodeA] || del[e.NodeB] {
				continue
			}
			edges = append(edges, e)
		}
		n.Edges = edges
		networks = append(networks, n)
	}
	p.Networks = networks
	p.Reindex()
}
