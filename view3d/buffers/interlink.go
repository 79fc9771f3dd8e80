package buffers

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/project"
)

// LinkBoxHalfSize is half the edge length of the square drawn on each
// surface of an interlinked pair.
const LinkBoxHalfSize = 0.25

type link struct {
	a, b project.ID
}

// updateInterlinks collects the surface pairs joined by a component instance
// and assigns each pair a color. A surface keeps its color for as long as it
// stays linked; entries of surfaces that lost their link are evicted.
func (g *Generator) updateInterlinks(p *project.Project) {
	g.links = g.links[:0]
	paired := make(map[project.ID]bool)
	for _, ci := range p.ComponentInstances {
		if ci.SideASurfaceID == project.InvalidID || ci.SideBSurfaceID == project.InvalidID {
			continue
		}
		ra, okA := p.Lookup(ci.SideASurfaceID)
		rb, okB := p.Lookup(ci.SideBSurfaceID)
		if !okA || !okB || ra.Kind != project.KindSurface || rb.Kind != project.KindSurface {
			continue
		}
		g.links = append(g.links, link{a: ra.ID, b: rb.ID})
		paired[ra.ID] = true
		paired[rb.ID] = true
	}

	for id := range g.interlinked {
		if !paired[id] {
			delete(g.interlinked, id)
		}
	}
	for _, l := range g.links {
		ca, okA := g.interlinked[l.a]
		cb, okB := g.interlinked[l.b]
		switch {
		case okA:
			g.interlinked[l.b] = ca
		case okB:
			g.interlinked[l.a] = cb
		default:
			c := PaletteColor(g.nextLink)
			g.nextLink++
			g.interlinked[l.a] = c
			g.interlinked[l.b] = c
		}
	}
}

// InterlinkColors returns a copy of the pair color cache.
func (g *Generator) InterlinkColors() map[project.ID]color.RGBA {
	out := make(map[project.ID]color.RGBA, len(g.interlinked))
	for id, c := range g.interlinked {
		out[id] = c
	}
	return out
}

func linkSquare(center, x, y mgl64.Vec3) [4]mgl64.Vec3 {
	x = x.Mul(LinkBoxHalfSize)
	y = y.Mul(LinkBoxHalfSize)
	return [4]mgl64.Vec3{
		center.Sub(x).Sub(y),
		center.Add(x).Sub(y),
		center.Add(x).Add(y),
		center.Sub(x).Add(y),
	}
}

// addLinkBox draws the prism joining the centroids of a linked pair.
func (g *Generator) addLinkBox(p *project.Project, l link) {
	ra, okA := p.Lookup(l.a)
	rb, okB := p.Lookup(l.b)
	if !okA || !okB || !ra.Object().Visible || !rb.Object().Visible {
		return
	}
	pa, pb := ra.Polygon(), rb.Polygon()
	if !pa.Valid() || !pb.Valid() {
		return
	}
	ca, cb := pa.Centroid(), pb.Centroid()
	if ca.Sub(cb).Len() < LinkBoxHalfSize {
		return
	}
	sa := linkSquare(ca, pa.LocalX(), pa.LocalY())
	sb := AlignCorners(sa, linkSquare(cb, pb.LocalX(), pb.LocalY()))
	col := g.interlinked[l.a]

	b := &g.Building
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		b.addQuad(sa[i], sa[j], sb[j], sb[i], col)
		b.addQuad(sa[i], sb[i], sb[j], sa[j], col)
	}
}

// CornerDistance sums the distances of corresponding corners.
func CornerDistance(a, b [4]mgl64.Vec3) float64 {
	var sum float64
	for i := range a {
		sum += a[i].Sub(b[i]).Len()
	}
	return sum
}

// RotateCorners shifts the corner list cyclically by k.
func RotateCorners(b [4]mgl64.Vec3, k int) [4]mgl64.Vec3 {
	var out [4]mgl64.Vec3
	for i := range b {
		out[i] = b[(i+k)%4]
	}
	return out
}

// AlignCorners returns b rotated by the cyclic offset that minimizes the
// corner distance to a. Ties keep the smallest offset.
func AlignCorners(a, b [4]mgl64.Vec3) [4]mgl64.Vec3 {
	best, bestSum := 0, math.Inf(1)
	for k := 0; k < 4; k++ {
		if s := CornerDistance(a, RotateCorners(b, k)); s < bestSum {
			best, bestSum = k, s
		}
	}
	return RotateCorners(b, best)
}
