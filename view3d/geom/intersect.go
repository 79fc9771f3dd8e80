package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Epsilon guards divisions and parallelism tests.
	Epsilon = 1e-9
	// GeometricEpsilon is the tolerance for lengths in meter-scale geometry.
	GeometricEpsilon = 1e-4
)

// LinePlaneIntersection intersects the line rayOrigin + t*rayDir with the plane
// through planeOffset with normal planeNormal. Both plane sides are hit.
// Returns false for parallel lines or a zero normal/direction.
func LinePlaneIntersection(planeOffset, planeNormal, rayOrigin, rayDir mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	denom := planeNormal.Dot(rayDir)
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec3{}, 0, false
	}
	t := planeOffset.Sub(rayOrigin).Dot(planeNormal) / denom
	return rayOrigin.Add(rayDir.Mul(t)), t, true
}

// ClosestLineParams returns the parameters sA and sB of the closest points
// a0 + sA*da and b0 + sB*db of two infinite lines. For parallel lines sA is 0.
func ClosestLineParams(a0, da, b0, db mgl64.Vec3) (float64, float64) {
	w0 := a0.Sub(b0)
	a := da.Dot(da)
	b := da.Dot(db)
	c := db.Dot(db)
	d := da.Dot(w0)
	e := db.Dot(w0)

	if a < Epsilon && c < Epsilon {
		return 0, 0
	}
	if a < Epsilon {
		return 0, e / c
	}
	if c < Epsilon {
		return -d / a, 0
	}

	den := a*c - b*b
	if den < Epsilon*a*c {
		// parallel: anchor on a0
		return 0, e / c
	}
	sA := (b*e - c*d) / den
	sB := (a*e - b*d) / den
	return sA, sB
}

// LineToLineDistance returns the distance between two lines, the closest point
// on line A and the line parameter of the closest point on line B.
func LineToLineDistance(offsetA, dirA, offsetB, dirB mgl64.Vec3) (float64, mgl64.Vec3, float64) {
	sA, sB := ClosestLineParams(offsetA, dirA, offsetB, dirB)
	pA := offsetA.Add(dirA.Mul(sA))
	pB := offsetB.Add(dirB.Mul(sB))
	return pA.Sub(pB).Len(), pA, sB
}

// LineToPointDistance returns the distance of point from the line, the line
// parameter of the closest point and the closest point itself.
func LineToPointDistance(rayOrigin, rayDir, point mgl64.Vec3) (float64, float64, mgl64.Vec3) {
	dd := rayDir.Dot(rayDir)
	if dd < Epsilon {
		return point.Sub(rayOrigin).Len(), 0, rayOrigin
	}
	t := point.Sub(rayOrigin).Dot(rayDir) / dd
	closest := rayOrigin.Add(rayDir.Mul(t))
	return point.Sub(closest).Len(), t, closest
}

// RaySegmentDistance measures the distance between a line and the segment
// s0-s1. The segment parameter is clamped to [0,1]; tRay is the line
// parameter of the point closest to the (clamped) segment point.
func RaySegmentDistance(rayOrigin, rayDir, s0, s1 mgl64.Vec3) (dist, tRay, sSeg float64) {
	segDir := s1.Sub(s0)
	tRay, sSeg = ClosestLineParams(rayOrigin, rayDir, s0, segDir)
	if sSeg < 0 || sSeg > 1 {
		sSeg = mgl64.Clamp(sSeg, 0, 1)
		p := s0.Add(segDir.Mul(sSeg))
		d, t, _ := LineToPointDistance(rayOrigin, rayDir, p)
		return d, t, sSeg
	}
	pRay := rayOrigin.Add(rayDir.Mul(tRay))
	pSeg := s0.Add(segDir.Mul(sSeg))
	return pRay.Sub(pSeg).Len(), tRay, sSeg
}

// ProjectOnLine returns the orthogonal projection of p onto offset + t*dir.
func ProjectOnLine(offset, dir, p mgl64.Vec3) mgl64.Vec3 {
	_, _, closest := LineToPointDistance(offset, dir, p)
	return closest
}

// SafeNormalize returns v normalized, or fallback for (near) zero vectors.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// AABB is an axis aligned box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will fix.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) Empty() bool {
	return b.Min.X() > b.Max.X()
}

func (b AABB) Extend(p mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b AABB) Union(o AABB) AABB {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Grow pads the box by r on every side.
func (b AABB) Grow(r float64) AABB {
	pad := mgl64.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectRay runs a slab test and returns the entry/exit parameters.
func (b AABB) IntersectRay(origin, dir mgl64.Vec3) (float64, float64, bool) {
	if b.Empty() {
		return 0, 0, false
	}
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < Epsilon {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}
