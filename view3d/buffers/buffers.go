// Package buffers turns the project geometry into flat vertex, color and
// index buffers. Buffers are always regenerated as a whole.
package buffers

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
)

// Vertex matches the vertex layout of the scene shader.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Buffers is one draw call worth of geometry. Colors parallel Vertices.
// Indices before TransparentStart are opaque, the rest are blended.
type Buffers struct {
	Vertices         []Vertex
	Colors           []color.RGBA
	Indices          []uint32
	TransparentStart int
}

func (b *Buffers) Reset() {
	b.Vertices = b.Vertices[:0]
	b.Colors = b.Colors[:0]
	b.Indices = b.Indices[:0]
	b.TransparentStart = 0
}

func (b *Buffers) Opaque() []uint32      { return b.Indices[:b.TransparentStart] }
func (b *Buffers) Transparent() []uint32 { return b.Indices[b.TransparentStart:] }

func (b *Buffers) Empty() bool { return len(b.Indices) == 0 }

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func (b *Buffers) addVertex(p, n mgl64.Vec3, c color.RGBA) uint32 {
	b.Vertices = append(b.Vertices, Vertex{Position: vec32(p), Normal: vec32(n)})
	b.Colors = append(b.Colors, c)
	return uint32(len(b.Vertices) - 1)
}

func (b *Buffers) addTriangle(i0, i1, i2 uint32) {
	b.Indices = append(b.Indices, i0, i1, i2)
}

// addPolygon triangulates poly including its holes. With twoSided a copy
// with flipped normal and winding is added so the back face is drawn with
// back-face culling enabled.
func (b *Buffers) addPolygon(poly geom.Polygon3D, c color.RGBA, twoSided bool) bool {
	if !poly.Valid() {
		return false
	}
	outer := poly.Loop2D(poly.Vertices)
	holes := make([][]mgl64.Vec2, len(poly.Holes))
	pts := append([]mgl64.Vec3(nil), poly.Vertices...)
	for i, h := range poly.Holes {
		holes[i] = poly.Loop2D(h)
		pts = append(pts, h...)
	}
	tris := geom.Triangulate(outer, holes)
	if len(tris) == 0 {
		return false
	}

	n := poly.Normal()
	base := uint32(len(b.Vertices))
	for _, p := range pts {
		b.addVertex(p, n, c)
	}
	for _, t := range tris {
		b.addTriangle(base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]))
	}
	if !twoSided {
		return true
	}

	back := uint32(len(b.Vertices))
	nb := n.Mul(-1)
	for _, p := range pts {
		b.addVertex(p, nb, c)
	}
	for _, t := range tris {
		b.addTriangle(back+uint32(t[0]), back+uint32(t[2]), back+uint32(t[1]))
	}
	return true
}

// addQuad adds a flat quad a-b-c-d (counter-clockwise seen from the front).
func (b *Buffers) addQuad(a, bb, c, d mgl64.Vec3, col color.RGBA) {
	n := geom.SafeNormalize(bb.Sub(a).Cross(d.Sub(a)), mgl64.Vec3{0, 0, 1})
	i0 := b.addVertex(a, n, col)
	i1 := b.addVertex(bb, n, col)
	i2 := b.addVertex(c, n, col)
	i3 := b.addVertex(d, n, col)
	b.addTriangle(i0, i1, i2)
	b.addTriangle(i0, i2, i3)
}

// Annotation is render-only state of one object. It is derived on every pass
// and never written back to the project.
type Annotation struct {
	Color  color.RGBA
	Radius float64 // network nodes and edges
}

// Annotations are keyed by object ID.
type Annotations map[project.ID]Annotation

// VisualizationRadius implements pick.Radii.
func (a Annotations) VisualizationRadius(id project.ID) (float64, bool) {
	an, ok := a[id]
	if !ok || an.Radius <= 0 {
		return 0, false
	}
	return an.Radius, true
}

func (a Annotations) ColorOf(id project.ID) (color.RGBA, bool) {
	an, ok := a[id]
	return an.Color, ok
}
