package pick

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
)

// GridPlane is an infinite, two-sided helper plane with a regular grid.
type GridPlane struct {
	Offset       mgl64.Vec3
	Normal       mgl64.Vec3
	LocalX       mgl64.Vec3
	Spacing      float64 // minor grid spacing
	MajorSpacing float64
	Extent       float64 // drawn half size, picking is unbounded
}

// DefaultGrid is the ground plane z=0 with 1 m minor and 10 m major lines.
func DefaultGrid() GridPlane {
	return GridPlane{
		Normal:       mgl64.Vec3{0, 0, 1},
		LocalX:       mgl64.Vec3{1, 0, 0},
		Spacing:      1,
		MajorSpacing: 10,
		Extent:       100,
	}
}

// Axes returns the in-plane axes and the unit normal.
func (g GridPlane) Axes() (x, y, n mgl64.Vec3) {
	n = geom.SafeNormalize(g.Normal, mgl64.Vec3{0, 0, 1})
	x = g.LocalX.Sub(n.Mul(g.LocalX.Dot(n)))
	x = geom.SafeNormalize(x, anyPerpendicular(n))
	y = n.Cross(x)
	return x, y, n
}

func anyPerpendicular(n mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(n.X()) < 0.9 {
		return n.Cross(mgl64.Vec3{1, 0, 0}).Normalize()
	}
	return n.Cross(mgl64.Vec3{0, 1, 0}).Normalize()
}

// Intersect hits the plane from either side in front of the ray origin.
func (g GridPlane) Intersect(origin, dir mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	p, t, ok := geom.LinePlaneIntersection(g.Offset, g.Normal, origin, dir)
	if !ok || t < 0 {
		return mgl64.Vec3{}, 0, false
	}
	return p, t, true
}

// NearestGridPoint rounds a point in the plane to the closest grid line
// intersection.
func (g GridPlane) NearestGridPoint(p mgl64.Vec3) mgl64.Vec3 {
	if g.Spacing <= 0 {
		return p
	}
	x, y, _ := g.Axes()
	d := p.Sub(g.Offset)
	u := math.Round(d.Dot(x)/g.Spacing) * g.Spacing
	v := math.Round(d.Dot(y)/g.Spacing) * g.Spacing
	return g.Offset.Add(x.Mul(u)).Add(y.Mul(v))
}
