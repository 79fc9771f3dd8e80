package geom

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangulate ear-clips a 2D polygon with holes. The returned triangles index
// into the concatenation outer ++ holes[0] ++ holes[1] ..., and are wound
// counter-clockwise.
func Triangulate(outer []mgl64.Vec2, holes [][]mgl64.Vec2) [][3]int {
	if len(outer) < 3 {
		return nil
	}

	pts := make([]mgl64.Vec2, 0, len(outer))
	pts = append(pts, outer...)

	ring := make([]int, len(outer))
	for i := range outer {
		ring[i] = i
	}
	if SignedArea2D(outer) < 0 {
		reverseInts(ring)
	}

	type holeRing struct {
		idx  []int
		maxX float64
	}
	var hs []holeRing
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		base := len(pts)
		pts = append(pts, h...)
		idx := make([]int, len(h))
		for i := range h {
			idx[i] = base + i
		}
		// holes wind clockwise so the bridged ring stays simple
		if SignedArea2D(h) > 0 {
			reverseInts(idx)
		}
		maxX := h[0].X()
		for _, v := range h {
			if v.X() > maxX {
				maxX = v.X()
			}
		}
		hs = append(hs, holeRing{idx: idx, maxX: maxX})
	}
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].maxX > hs[j].maxX })

	for k, h := range hs {
		var pending [][]int
		for _, rest := range hs[k+1:] {
			pending = append(pending, rest.idx)
		}
		ring = bridgeHole(pts, ring, h.idx, pending)
	}

	return earClip(pts, ring)
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// bridgeHole splices hole into ring through the closest mutually visible
// vertex pair, starting from the hole vertex with the largest x.
func bridgeHole(pts []mgl64.Vec2, ring, hole []int, pending [][]int) []int {
	m := 0
	for i, idx := range hole {
		if pts[idx].X() > pts[hole[m]].X() {
			m = i
		}
	}
	mp := pts[hole[m]]

	order := make([]int, len(ring))
	for i := range ring {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da := pts[ring[order[a]]].Sub(mp).LenSqr()
		db := pts[ring[order[b]]].Sub(mp).LenSqr()
		return da < db
	})

	bridge := order[0]
	for _, cand := range order {
		vp := pts[ring[cand]]
		if segmentClear(pts, mp, vp, ring) && segmentClear(pts, mp, vp, hole) && pendingClear(pts, mp, vp, pending) {
			bridge = cand
			break
		}
	}

	out := make([]int, 0, len(ring)+len(hole)+2)
	out = append(out, ring[:bridge+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(m+i)%len(hole)])
	}
	out = append(out, ring[bridge])
	out = append(out, ring[bridge+1:]...)
	return out
}

func pendingClear(pts []mgl64.Vec2, a, b mgl64.Vec2, pending [][]int) bool {
	for _, p := range pending {
		if !segmentClear(pts, a, b, p) {
			return false
		}
	}
	return true
}

// segmentClear reports whether a-b crosses no edge of loop. Edges sharing an
// endpoint position with a or b are ignored.
func segmentClear(pts []mgl64.Vec2, a, b mgl64.Vec2, loop []int) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		c := pts[loop[i]]
		d := pts[loop[(i+1)%n]]
		if samePoint(c, a) || samePoint(c, b) || samePoint(d, a) || samePoint(d, b) {
			continue
		}
		if segmentsCross(a, b, c, d) {
			return false
		}
	}
	return true
}

func samePoint(a, b mgl64.Vec2) bool {
	return a.Sub(b).LenSqr() < GeometricEpsilon*GeometricEpsilon
}

func cross2(o, a, b mgl64.Vec2) float64 {
	return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
}

func segmentsCross(a, b, c, d mgl64.Vec2) bool {
	d1 := cross2(c, d, a)
	d2 := cross2(c, d, b)
	d3 := cross2(a, b, c)
	d4 := cross2(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func pointInTriangle(p, a, b, c mgl64.Vec2) bool {
	c1 := cross2(a, b, p)
	c2 := cross2(b, c, p)
	c3 := cross2(c, a, p)
	return c1 >= -Epsilon && c2 >= -Epsilon && c3 >= -Epsilon
}

func earClip(pts []mgl64.Vec2, ring []int) [][3]int {
	var tris [][3]int
	poly := append([]int(nil), ring...)

	for len(poly) > 3 {
		n := len(poly)
		clipped := false
		for i := 0; i < n; i++ {
			ip, ic, in := poly[(i+n-1)%n], poly[i], poly[(i+1)%n]
			a, b, c := pts[ip], pts[ic], pts[in]
			if cross2(a, b, c) <= Epsilon {
				continue
			}
			if !isEar(pts, poly, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{ip, ic, in})
			poly = append(poly[:i], poly[i+1:]...)
			clipped = true
			break
		}
		if clipped {
			continue
		}
		// no ear: drop a degenerate vertex if there is one, else fan the rest
		if i := degenerateVertex(pts, poly); i >= 0 {
			poly = append(poly[:i], poly[i+1:]...)
			continue
		}
		for i := 1; i+1 < len(poly); i++ {
			tris = append(tris, [3]int{poly[0], poly[i], poly[i+1]})
		}
		return tris
	}
	if len(poly) == 3 && cross2(pts[poly[0]], pts[poly[1]], pts[poly[2]]) > Epsilon {
		tris = append(tris, [3]int{poly[0], poly[1], poly[2]})
	}
	return tris
}

func isEar(pts []mgl64.Vec2, poly []int, a, b, c mgl64.Vec2) bool {
	for _, idx := range poly {
		p := pts[idx]
		if samePoint(p, a) || samePoint(p, b) || samePoint(p, c) {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

func degenerateVertex(pts []mgl64.Vec2, poly []int) int {
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b, c := pts[poly[(i+n-1)%n]], pts[poly[i]], pts[poly[(i+1)%n]]
		cr := cross2(a, b, c)
		if cr > -Epsilon && cr < Epsilon {
			return i
		}
	}
	return -1
}
