// Package rubberband implements rectangle selection in screen space.
package rubberband

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/project"
)

// Rect is a viewport rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromCorners builds a rectangle from two opposite corners in any order.
func RectFromCorners(a, b mgl64.Vec2) Rect {
	x0, x1 := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	y0, y1 := math.Min(a.Y(), b.Y()), math.Max(a.Y(), b.Y())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether px lies inside the rectangle. Points on the edge
// are inside.
func (r Rect) Contains(px mgl64.Vec2) bool {
	return px.X() >= r.X && px.X() <= r.X+r.Width &&
		px.Y() >= r.Y && px.Y() <= r.Y+r.Height
}

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Band tracks a drag. Corners are given in window pixels and scaled by
// DPIScale into viewport pixels.
type Band struct {
	Start, End mgl64.Vec2
	DPIScale   float64
	active     bool
}

func (b *Band) Begin(px mgl64.Vec2) {
	b.Start, b.End = px, px
	b.active = true
}

func (b *Band) Update(px mgl64.Vec2) {
	if b.active {
		b.End = px
	}
}

func (b *Band) Active() bool { return b.active }

// Rect is the current rectangle in viewport pixels.
func (b *Band) Rect() Rect {
	s := b.DPIScale
	if s <= 0 {
		s = 1
	}
	return RectFromCorners(b.Start.Mul(s), b.End.Mul(s))
}

// Finish ends the drag and returns the final rectangle.
func (b *Band) Finish() Rect {
	r := b.Rect()
	b.active = false
	return r
}

// Cancel ends the drag without a result.
func (b *Band) Cancel() { b.active = false }

// Select returns, in walk order, the visible and not yet selected surfaces,
// sub-surfaces, plain surfaces, nodes and edges whose representative points
// all project in front of the camera and into r.
func Select(p *project.Project, worldToView mgl64.Mat4, vp core.Viewport, r Rect) []project.ID {
	if r.Empty() {
		return nil
	}
	var out []project.ID
	p.ForEach(func(ref project.Ref) bool {
		switch ref.Kind {
		case project.KindSurface, project.KindSubSurface, project.KindPlainSurface,
			project.KindNetworkNode, project.KindNetworkEdge:
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom, project.KindNetwork:
			return true
		}
		obj := ref.Object()
		if !obj.Visible || obj.Selected {
			return true
		}
		pts := p.RepresentativePoints(ref.ID)
		if len(pts) == 0 {
			return true
		}
		for _, pt := range pts {
			px, ok := core.Project(worldToView, vp, pt)
			if !ok || !r.Contains(px) {
				return true
			}
		}
		out = append(out, ref.ID)
		return true
	})
	return out
}
