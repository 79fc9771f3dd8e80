package pick

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/core"
	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/project"
)

// ResultKind classifies a pick candidate.
type ResultKind int

const (
	GridPlaneHit ResultKind = iota
	ObjectHit
	GizmoCenterHit
	GizmoAxisHit
	FarPlaneHit
)

func (k ResultKind) String() string {
	switch k {
	case GridPlaneHit:
		return "GridPlane"
	case ObjectHit:
		return "Object"
	case GizmoCenterHit:
		return "GizmoCenter"
	case GizmoAxisHit:
		return "GizmoAxis"
	case FarPlaneHit:
		return "FarPlane"
	}
	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Candidate is one ray hit. Depth is the distance along the ray.
type Candidate struct {
	Kind      ResultKind
	ObjectID  project.ID
	Point     mgl64.Vec3
	Depth     float64
	HoleIndex int
	GridIndex int
	Handle    core.HandleKind
}

// Logger is the subset of the application logger used while picking.
type Logger interface {
	Warnf(format string, args ...any)
}

// Source is what a pick is cast against.
type Source struct {
	Project *project.Project
	Index   *Index // built on demand when nil
	Radii   Radii
	Log     Logger
}

// Options control which candidates are considered.
type Options struct {
	// GizmoActive enables the gizmo handles, only while there is a selection.
	GizmoActive bool
	// ExcludeIDs are never reported, e.g. the geometry being moved.
	ExcludeIDs map[project.ID]bool
}

// Object holds the ray cast for one screen pixel during one input tick.
type Object struct {
	Pixel       mgl64.Vec2
	WorldToView mgl64.Mat4
	Viewport    core.Viewport
	Grids       []GridPlane
	Gizmo       []core.PickPoint
	Options     Options

	RayOrigin  mgl64.Vec3
	RayDir     mgl64.Vec3
	FarPoint   mgl64.Vec3
	Candidates []Candidate

	picked bool
}

func NewObject(pixel mgl64.Vec2, worldToView mgl64.Mat4, vp core.Viewport) *Object {
	return &Object{Pixel: pixel, WorldToView: worldToView, Viewport: vp}
}

// Reset prepares the object for a new tick. The next PickOnce casts again.
func (o *Object) Reset(pixel mgl64.Vec2, worldToView mgl64.Mat4, vp core.Viewport) {
	o.Pixel = pixel
	o.WorldToView = worldToView
	o.Viewport = vp
	o.Candidates = o.Candidates[:0]
	o.picked = false
}

func (o *Object) Picked() bool { return o.picked }

// PickOnce casts the ray unless it was already cast for this tick.
func (o *Object) PickOnce(src Source) {
	if o.picked {
		return
	}
	o.Pick(src)
}

// Pick casts the ray and fills Candidates sorted by ascending depth. The far
// plane candidate is always present.
func (o *Object) Pick(src Source) {
	o.picked = true
	o.Candidates = o.Candidates[:0]

	near, far, ok := core.Unproject(o.WorldToView, o.Viewport, o.Pixel)
	if !ok || far.Sub(near).Len() < geom.Epsilon {
		o.RayOrigin = mgl64.Vec3{}
		o.RayDir = mgl64.Vec3{0, 0, -1}
		o.FarPoint = mgl64.Vec3{}
		o.Candidates = append(o.Candidates, Candidate{
			Kind: FarPlaneHit, ObjectID: project.InvalidID, Depth: math.MaxFloat64, HoleIndex: geom.NoHole,
		})
		return
	}
	o.RayOrigin = near
	o.RayDir = far.Sub(near).Normalize()
	o.FarPoint = far
	farDepth := far.Sub(near).Len()

	// a) grid planes
	for i, g := range o.Grids {
		if p, t, ok := g.Intersect(o.RayOrigin, o.RayDir); ok {
			o.add(Candidate{Kind: GridPlaneHit, ObjectID: project.InvalidID, Point: p, Depth: t, GridIndex: i})
		}
	}

	// b-d) project geometry
	if src.Project != nil {
		o.pickProject(src, farDepth)
	}

	// e) gizmo handles
	if o.Options.GizmoActive {
		for _, pp := range o.Gizmo {
			d, t, closest := geom.LineToPointDistance(o.RayOrigin, o.RayDir, pp.Position)
			if t < 0 || d > pp.Radius {
				continue
			}
			kind := GizmoAxisHit
			if pp.Handle == core.HandleCenter {
				kind = GizmoCenterHit
			}
			o.add(Candidate{Kind: kind, ObjectID: project.InvalidID, Point: closest, Depth: t, Handle: pp.Handle})
		}
	}

	// f) far plane
	o.add(Candidate{Kind: FarPlaneHit, ObjectID: project.InvalidID, Point: far, Depth: farDepth})

	sort.SliceStable(o.Candidates, func(i, j int) bool {
		return o.Candidates[i].Depth < o.Candidates[j].Depth
	})
}

func (o *Object) add(c Candidate) {
	if c.Kind != ObjectHit {
		c.HoleIndex = geom.NoHole
	}
	o.Candidates = append(o.Candidates, c)
}

func (o *Object) excluded(id project.ID) bool {
	return o.Options.ExcludeIDs != nil && o.Options.ExcludeIDs[id]
}

func (o *Object) pickProject(src Source, farDepth float64) {
	p := src.Project
	ix := src.Index
	if ix == nil {
		ix = BuildIndex(p, src.Radii)
	}

	var dangling []project.ID
	for _, i := range ix.tree.Intersect(o.RayOrigin, o.RayDir, farDepth) {
		it := ix.items[i]
		r, ok := p.Lookup(it.ID)
		if !ok || r.Kind != it.Kind {
			dangling = append(dangling, it.ID)
			continue
		}
		switch r.Kind {
		case project.KindSurface:
			if missing, ok := o.pickSurface(p, r); !ok {
				dangling = append(dangling, missing)
			}
		case project.KindPlainSurface:
			if !r.Object().Visible || o.excluded(r.ID) {
				continue
			}
			hit, t, hole, ok := r.Polygon().IntersectsLine(o.RayOrigin, o.RayDir, true)
			if !ok || hole != geom.NoHole {
				continue
			}
			o.add(Candidate{Kind: ObjectHit, ObjectID: r.ID, Point: hit, Depth: t, HoleIndex: geom.NoHole})
		case project.KindNetworkNode:
			if !r.Object().Visible || o.excluded(r.ID) {
				continue
			}
			rad := radius(src.Radii, r.ID, DefaultNodeRadius)
			c := r.Node().Position
			d, t, _ := geom.LineToPointDistance(o.RayOrigin, o.RayDir, c)
			if d > rad {
				continue
			}
			// entry point of the sphere
			t -= math.Sqrt(rad*rad - d*d)
			if t < 0 {
				continue
			}
			o.add(Candidate{Kind: ObjectHit, ObjectID: r.ID, Point: o.RayOrigin.Add(o.RayDir.Mul(t)), Depth: t, HoleIndex: geom.NoHole})
		case project.KindNetworkEdge:
			if !r.Object().Visible || o.excluded(r.ID) {
				continue
			}
			a, b, ok := p.EdgeEndpoints(r.Edge())
			if !ok {
				dangling = append(dangling, r.ID)
				continue
			}
			rad := radius(src.Radii, r.ID, DefaultEdgeRadius)
			d, t, _ := geom.RaySegmentDistance(o.RayOrigin, o.RayDir, a, b)
			if d > rad || t < 0 {
				continue
			}
			o.add(Candidate{Kind: ObjectHit, ObjectID: r.ID, Point: o.RayOrigin.Add(o.RayDir.Mul(t)), Depth: t, HoleIndex: geom.NoHole})
		case project.KindBuilding, project.KindBuildingLevel, project.KindRoom,
			project.KindSubSurface, project.KindNetwork:
		}
	}
	if len(dangling) > 0 && src.Log != nil {
		src.Log.Warnf("pick: skipped %d dangling references %v", len(dangling), dangling)
	}
}

// pickSurface applies the hole rule: a hit through a hole belongs to the
// sub-surface when it is visible, else to the surface when that is visible.
func (o *Object) pickSurface(p *project.Project, r project.Ref) (project.ID, bool) {
	surfaceVisible := r.Object().Visible && !o.excluded(r.ID)
	hit, t, hole, ok := r.Polygon().IntersectsLine(o.RayOrigin, o.RayDir, true)
	if !ok {
		return project.InvalidID, true
	}
	if hole == geom.NoHole {
		if surfaceVisible {
			o.add(Candidate{Kind: ObjectHit, ObjectID: r.ID, Point: hit, Depth: t, HoleIndex: geom.NoHole})
		}
		return project.InvalidID, true
	}

	subs := r.Surface().SubSurfaces
	if hole >= len(subs) {
		return r.ID, false
	}
	owner, ok := p.Lookup(subs[hole].ID)
	if !ok {
		return subs[hole].ID, false
	}
	switch {
	case owner.Object().Visible && !o.excluded(owner.ID) && !o.excluded(r.ID):
		o.add(Candidate{Kind: ObjectHit, ObjectID: owner.ID, Point: hit, Depth: t, HoleIndex: hole})
	case surfaceVisible:
		o.add(Candidate{Kind: ObjectHit, ObjectID: r.ID, Point: hit, Depth: t, HoleIndex: hole})
	}
	return project.InvalidID, true
}

// Front is the closest candidate. It is valid after Pick.
func (o *Object) Front() Candidate {
	if len(o.Candidates) == 0 {
		return Candidate{Kind: FarPlaneHit, ObjectID: project.InvalidID, HoleIndex: geom.NoHole, Depth: math.MaxFloat64}
	}
	return o.Candidates[0]
}

// FrontObject returns the closest object hit, ignoring grids and gizmo.
func (o *Object) FrontObject() (Candidate, bool) {
	for _, c := range o.Candidates {
		if c.Kind == ObjectHit {
			return c, true
		}
	}
	return Candidate{}, false
}

// FrontGizmo returns the closest gizmo handle hit.
func (o *Object) FrontGizmo() (Candidate, bool) {
	for _, c := range o.Candidates {
		if c.Kind == GizmoCenterHit || c.Kind == GizmoAxisHit {
			return c, true
		}
	}
	return Candidate{}, false
}
