package bvh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
)

type Node struct {
	Bounds    geom.AABB
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n Node) IsLeaf() bool { return n.Left < 0 }

type item struct {
	Bounds   geom.AABB
	Centroid mgl64.Vec3
	Index    int
}

// Tree is a bounding volume hierarchy over item bounds. Leaves hold a single
// item.
type Tree struct {
	Nodes []Node
	count int
}

// Build creates a median-split tree. Items with empty bounds are left out.
func Build(bounds []geom.AABB) *Tree {
	t := &Tree{count: len(bounds)}
	items := make([]item, 0, len(bounds))
	for i, b := range bounds {
		if b.Empty() {
			continue
		}
		items = append(items, item{Bounds: b, Centroid: b.Center(), Index: i})
	}
	if len(items) == 0 {
		return t
	}
	t.recursiveBuild(items)
	return t
}

func (t *Tree) recursiveBuild(items []item) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1, LeafCount: 0})

	b := geom.EmptyAABB()
	for _, it := range items {
		b = b.Union(it.Bounds)
	}
	t.Nodes[idx].Bounds = b

	if len(items) == 1 {
		t.Nodes[idx].LeafFirst = int32(items[0].Index)
		t.Nodes[idx].LeafCount = 1
		return idx
	}

	// Split along the longest axis
	extent := b.Max.Sub(b.Min)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Centroid[axis] < items[j].Centroid[axis]
	})

	mid := len(items) / 2
	left := t.recursiveBuild(items[:mid])
	right := t.recursiveBuild(items[mid:])
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx
}

// Len is the number of items the tree was built from.
func (t *Tree) Len() int { return t.count }

// Intersect returns the indices of all items whose bounds the ray touches
// within [0, tMax], in ascending index order.
func (t *Tree) Intersect(origin, dir mgl64.Vec3, tMax float64) []int {
	if len(t.Nodes) == 0 {
		return nil
	}
	var out []int
	stack := []int32{0}
	for len(stack) > 0 {
		n := t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		tNear, tFar, ok := n.Bounds.IntersectRay(origin, dir)
		if !ok || tFar < 0 || tNear > tMax {
			continue
		}
		if n.IsLeaf() {
			out = append(out, int(n.LeafFirst))
			continue
		}
		stack = append(stack, n.Right, n.Left)
	}
	sort.Ints(out)
	return out
}
