package gpu

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"github.com/simvicus/vic3d/view3d/core"
)

// LineVertex is one end of a gizmo line segment.
type LineVertex struct {
	Pos   [3]float32
	Color [4]float32
}

var (
	AxisColors     = [3]color.RGBA{colornames.Crimson, colornames.Forestgreen, colornames.Royalblue}
	GizmoHighlight = colornames.Gold
	GizmoCenter    = colornames.White
)

const circleSteps = 32

func rgba(c color.RGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

type lineBuilder struct {
	out []LineVertex
}

func (b *lineBuilder) line(p0, p1 mgl64.Vec3, c [4]float32) {
	b.out = append(b.out,
		LineVertex{Pos: [3]float32{float32(p0[0]), float32(p0[1]), float32(p0[2])}, Color: c},
		LineVertex{Pos: [3]float32{float32(p1[0]), float32(p1[1]), float32(p1[2])}, Color: c})
}

// circle draws a ring around center in the plane spanned by u and v.
func (b *lineBuilder) circle(center, u, v mgl64.Vec3, r float64, c [4]float32) {
	step := 2 * math.Pi / circleSteps
	for i := 0; i < circleSteps; i++ {
		a1, a2 := float64(i)*step, float64(i+1)*step
		p1 := center.Add(u.Mul(r * math.Cos(a1))).Add(v.Mul(r * math.Sin(a1)))
		p2 := center.Add(u.Mul(r * math.Cos(a2))).Add(v.Mul(r * math.Sin(a2)))
		b.line(p1, p2, c)
	}
}

// cube draws the 12 edges of a cube with half size h along the axes x, y, z.
func (b *lineBuilder) cube(center, x, y, z mgl64.Vec3, h float64, c [4]float32) {
	corner := func(i int) mgl64.Vec3 {
		sx, sy, sz := float64(i&1*2-1), float64(i>>1&1*2-1), float64(i>>2&1*2-1)
		return center.Add(x.Mul(sx * h)).Add(y.Mul(sy * h)).Add(z.Mul(sz * h))
	}
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				b.line(corner(i), corner(i|bit), c)
			}
		}
	}
}

// GizmoLines builds the line list for the coordinate system: the three axes,
// a sphere at the center and a ring (rotate) or cube (scale) at each axis
// handle. In a rotation sub-mode a large ring shows the rotation plane. The
// locked axis is highlighted.
func GizmoLines(cs *core.CoordinateSystem, lock core.AxisLock) []LineVertex {
	var b lineBuilder
	o := cs.Transform.Translation
	axes := [3]mgl64.Vec3{cs.Axis(0), cs.Axis(1), cs.Axis(2)}

	colorOf := func(i int) [4]float32 {
		if lock != core.AxisNone && int(lock)-int(core.AxisX) == i {
			return rgba(GizmoHighlight)
		}
		if (cs.Mode.IsRotate() || cs.Mode.IsScale()) && cs.Mode.Axis() == i {
			return rgba(GizmoHighlight)
		}
		return rgba(AxisColors[i])
	}

	for i, a := range axes {
		b.line(o, o.Add(a.Mul(cs.AxisLength)), colorOf(i))
	}

	for _, pp := range cs.PickPoints() {
		switch pp.Handle {
		case core.HandleCenter:
			c := rgba(GizmoCenter)
			b.circle(pp.Position, axes[0], axes[1], pp.Radius, c)
			b.circle(pp.Position, axes[0], axes[2], pp.Radius, c)
			b.circle(pp.Position, axes[1], axes[2], pp.Radius, c)
		case core.HandleAxisX, core.HandleAxisY, core.HandleAxisZ:
			i := int(pp.Handle - core.HandleAxisX)
			u, v := axes[(i+1)%3], axes[(i+2)%3]
			if cs.HandleMode == core.HandleScale {
				b.cube(pp.Position, axes[0], axes[1], axes[2], pp.Radius, colorOf(i))
			} else {
				b.circle(pp.Position, u, v, pp.Radius, colorOf(i))
			}
		}
	}

	if cs.Mode.IsRotate() {
		i := cs.Mode.Axis()
		b.circle(o, axes[(i+1)%3], axes[(i+2)%3], cs.AxisLength, rgba(GizmoHighlight))
	}
	return b.out
}
