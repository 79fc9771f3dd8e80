package gpu

import (
	"image/color"
	"math"

	"github.com/simvicus/vic3d/view3d/pick"
)

// minor grid lines are drawn with this fraction of the grid color alpha
const minorAlpha = 0.35

// GridLines builds the line list of a grid plane: lines every Spacing out to
// Extent in both directions, every MajorSpacing drawn fully opaque.
func GridLines(g pick.GridPlane, c color.RGBA) []LineVertex {
	if g.Spacing <= 0 || g.Extent <= 0 {
		return nil
	}
	x, y, _ := g.Axes()
	major := rgba(c)
	minor := major
	minor[3] *= minorAlpha

	var b lineBuilder
	n := int(math.Floor(g.Extent / g.Spacing))
	for i := -n; i <= n; i++ {
		d := float64(i) * g.Spacing
		col := minor
		if g.MajorSpacing > 0 && math.Abs(math.Remainder(d, g.MajorSpacing)) < 1e-9 {
			col = major
		}
		b.line(g.Offset.Add(x.Mul(d)).Add(y.Mul(-g.Extent)), g.Offset.Add(x.Mul(d)).Add(y.Mul(g.Extent)), col)
		b.line(g.Offset.Add(y.Mul(d)).Add(x.Mul(-g.Extent)), g.Offset.Add(y.Mul(d)).Add(x.Mul(g.Extent)), col)
	}
	return b.out
}
