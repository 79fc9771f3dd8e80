package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NoHole is reported by IntersectsLine when the polygon itself was struck.
const NoHole = -1

// Polygon3D is a planar polygon with optional holes. Holes are given in 3D and
// are assumed to lie in the polygon's plane.
type Polygon3D struct {
	Vertices []mgl64.Vec3
	Holes    [][]mgl64.Vec3

	valid  bool
	normal mgl64.Vec3
	xAxis  mgl64.Vec3
	yAxis  mgl64.Vec3
	offset mgl64.Vec3
	area   float64
}

// NewPolygon3D computes the plane and local axes of the outer loop.
func NewPolygon3D(vertices []mgl64.Vec3, holes ...[]mgl64.Vec3) Polygon3D {
	p := Polygon3D{Vertices: vertices, Holes: holes}
	p.update()
	return p
}

func (p *Polygon3D) update() {
	p.valid = false
	if len(p.Vertices) < 3 {
		return
	}

	// Newell's method
	var n mgl64.Vec3
	for i, vi := range p.Vertices {
		vj := p.Vertices[(i+1)%len(p.Vertices)]
		n[0] += (vi.Y() - vj.Y()) * (vi.Z() + vj.Z())
		n[1] += (vi.Z() - vj.Z()) * (vi.X() + vj.X())
		n[2] += (vi.X() - vj.X()) * (vi.Y() + vj.Y())
	}
	l := n.Len()
	p.area = l / 2
	if p.area < GeometricEpsilon*GeometricEpsilon {
		return
	}
	p.normal = n.Mul(1 / l)
	p.offset = p.Vertices[0]

	for i := 1; i < len(p.Vertices); i++ {
		e := p.Vertices[i].Sub(p.offset)
		e = e.Sub(p.normal.Mul(e.Dot(p.normal)))
		if e.Len() > GeometricEpsilon {
			p.xAxis = e.Normalize()
			break
		}
	}
	p.yAxis = p.normal.Cross(p.xAxis)
	p.valid = true
}

// Valid reports whether the polygon has at least three vertices and a
// non-zero area.
func (p Polygon3D) Valid() bool { return p.valid }

func (p Polygon3D) Normal() mgl64.Vec3 { return p.normal }
func (p Polygon3D) Offset() mgl64.Vec3 { return p.offset }
func (p Polygon3D) LocalX() mgl64.Vec3 { return p.xAxis }
func (p Polygon3D) LocalY() mgl64.Vec3 { return p.yAxis }
func (p Polygon3D) Area() float64      { return p.area }

// To2D projects a point into the polygon's plane coordinates.
func (p Polygon3D) To2D(v mgl64.Vec3) mgl64.Vec2 {
	d := v.Sub(p.offset)
	return mgl64.Vec2{d.Dot(p.xAxis), d.Dot(p.yAxis)}
}

// To3D maps plane coordinates back to world space.
func (p Polygon3D) To3D(v mgl64.Vec2) mgl64.Vec3 {
	return p.offset.Add(p.xAxis.Mul(v.X())).Add(p.yAxis.Mul(v.Y()))
}

// Loop2D projects a loop into plane coordinates.
func (p Polygon3D) Loop2D(loop []mgl64.Vec3) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(loop))
	for i, v := range loop {
		out[i] = p.To2D(v)
	}
	return out
}

// Centroid returns the area centroid of the outer loop. Degenerate polygons
// fall back to the vertex average, and an empty polygon to the origin.
func (p Polygon3D) Centroid() mgl64.Vec3 {
	if len(p.Vertices) == 0 {
		return mgl64.Vec3{}
	}
	if !p.valid {
		return vertexAverage(p.Vertices)
	}
	pts := p.Loop2D(p.Vertices)
	var a, cx, cy float64
	for i, pi := range pts {
		pj := pts[(i+1)%len(pts)]
		cross := pi.X()*pj.Y() - pj.X()*pi.Y()
		a += cross
		cx += (pi.X() + pj.X()) * cross
		cy += (pi.Y() + pj.Y()) * cross
	}
	if math.Abs(a) < Epsilon {
		return vertexAverage(p.Vertices)
	}
	a *= 0.5
	return p.To3D(mgl64.Vec2{cx / (6 * a), cy / (6 * a)})
}

func vertexAverage(vs []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(vs)))
}

// EdgeMidpoints returns the midpoint of every edge of the outer loop.
func (p Polygon3D) EdgeMidpoints() []mgl64.Vec3 {
	n := len(p.Vertices)
	if n < 2 {
		return nil
	}
	out := make([]mgl64.Vec3, 0, n)
	for i, v := range p.Vertices {
		w := p.Vertices[(i+1)%n]
		out = append(out, v.Add(w).Mul(0.5))
	}
	return out
}

// Bounds returns the bounding box of the outer loop.
func (p Polygon3D) Bounds() AABB {
	b := EmptyAABB()
	for _, v := range p.Vertices {
		b = b.Extend(v)
	}
	return b
}

// IntersectsLine intersects the ray with the polygon. With twoSided false, hits
// on the back side are ignored. holeIndex is NoHole when the polygon itself
// was struck, or the index of the hole the ray passes through.
func (p Polygon3D) IntersectsLine(origin, dir mgl64.Vec3, twoSided bool) (point mgl64.Vec3, t float64, holeIndex int, ok bool) {
	holeIndex = NoHole
	if !p.valid {
		return
	}
	if !twoSided && p.normal.Dot(dir) > 0 {
		return
	}
	hit, tHit, hitOk := LinePlaneIntersection(p.offset, p.normal, origin, dir)
	if !hitOk || tHit < 0 {
		return
	}
	q := p.To2D(hit)
	if !PointInPolygon2D(q, p.Loop2D(p.Vertices)) {
		return
	}
	for i, h := range p.Holes {
		if len(h) < 3 {
			continue
		}
		if PointInPolygon2D(q, p.Loop2D(h)) {
			return hit, tHit, i, true
		}
	}
	return hit, tHit, NoHole, true
}

// PointInPolygon2D is a crossing number test.
func PointInPolygon2D(q mgl64.Vec2, loop []mgl64.Vec2) bool {
	inside := false
	n := len(loop)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := loop[i], loop[j]
		if (pi.Y() > q.Y()) != (pj.Y() > q.Y()) {
			x := (pj.X()-pi.X())*(q.Y()-pi.Y())/(pj.Y()-pi.Y()) + pi.X()
			if q.X() < x {
				inside = !inside
			}
		}
	}
	return inside
}

// SignedArea2D is positive for counter-clockwise loops.
func SignedArea2D(loop []mgl64.Vec2) float64 {
	var a float64
	for i, pi := range loop {
		pj := loop[(i+1)%len(loop)]
		a += pi.X()*pj.Y() - pj.X()*pi.Y()
	}
	return a / 2
}
