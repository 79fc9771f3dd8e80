package pick

import (
	"github.com/simvicus/vic3d/view3d/bvh"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
)

// Fallback radii when no render annotation is known for a network object.
const (
	DefaultNodeRadius = 0.5
	DefaultEdgeRadius = 0.1
)

// Radii supplies the visualization radius of network nodes and edges.
type Radii interface {
	VisualizationRadius(id project.ID) (float64, bool)
}

type indexItem struct {
	ID   project.ID
	Kind project.Kind
}

// Index is the broad phase over all pickable primitives. Items are stored
// in walk order: building surfaces, plain surfaces, network nodes and edges.
// It holds IDs only and is rebuilt whenever the project changes.
type Index struct {
	items []indexItem
	tree  *bvh.Tree
}

// BuildIndex collects surfaces, plain surfaces and network primitives.
// Invisible objects are indexed too; visibility is checked per pick.
func BuildIndex(p *project.Project, radii Radii) *Index {
	ix := &Index{}
	var bounds []geom.AABB
	add := func(id project.ID, kind project.Kind, b geom.AABB) {
		ix.items = append(ix.items, indexItem{ID: id, Kind: kind})
		bounds = append(bounds, b)
	}

	p.ForEach(func(r project.Ref) bool {
		switch r.Kind {
		case project.KindSurface, project.KindPlainSurface:
			add(r.ID, r.Kind, r.Polygon().Bounds().Grow(geom.GeometricEpsilon))
		case project.KindNetworkNode:
			rad := radius(radii, r.ID, DefaultNodeRadius)
			add(r.ID, r.Kind, geom.EmptyAABB().Extend(r.Node().Position).Grow(rad))
		case project.KindNetworkEdge:
			a, b, ok := p.EdgeEndpoints(r.Edge())
			if !ok {
				return true
			}
			rad := radius(radii, r.ID, DefaultEdgeRadius)
			add(r.ID, r.Kind, geom.EmptyAABB().Extend(a).Extend(b).Grow(rad))
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom,
			project.KindSubSurface, project.KindNetwork:
		}
		return true
	})
	ix.tree = bvh.Build(bounds)
	return ix
}

// Len is the number of indexed primitives.
func (ix *Index) Len() int { return len(ix.items) }

func radius(radii Radii, id project.ID, fallback float64) float64 {
	if radii == nil {
		return fallback
	}
	if r, ok := radii.VisualizationRadius(id); ok && r > 0 {
		return r
	}
	return fallback
}
