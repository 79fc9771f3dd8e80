package snap

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/geom"
	"github.com/simvicus/vic3d/view3d/pick"
	"github.com/simvicus/vic3d/view3d/project"
)

// Options is a bitmask of enabled snap categories.
type Options uint8

const (
	Grid Options = 1 << iota
	ObjectVertex
	ObjectCenter
	ObjectEdgeCenter

	AllOptions = Grid | ObjectVertex | ObjectCenter | ObjectEdgeCenter
)

var optionNames = []struct {
	name string
	opt  Options
}{
	{"grid", Grid},
	{"vertex", ObjectVertex},
	{"center", ObjectCenter},
	{"edge-center", ObjectEdgeCenter},
}

// ParseOptions converts category names ("grid", "vertex", "center",
// "edge-center") to a bitmask.
func ParseOptions(names []string) (Options, error) {
	var o Options
outer:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, on := range optionNames {
			if on.name == n {
				o |= on.opt
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown snap category %q", n)
	}
	return o, nil
}

func (o Options) Has(f Options) bool { return o&f != 0 }

func (o Options) String() string {
	var parts []string
	for _, on := range optionNames {
		if o.Has(on.opt) {
			parts = append(parts, on.name)
		}
	}
	return strings.Join(parts, "|")
}

// Axis is a locked line: Offset + t*Direction.
type Axis struct {
	Offset    mgl64.Vec3
	Direction mgl64.Vec3
}

type Config struct {
	Enabled  bool
	Options  Options
	Distance float64 // world units
	Axis     *Axis
}

func DefaultConfig() Config {
	return Config{Enabled: true, Options: AllOptions, Distance: 2}
}

// Kind tells what the resolved point was snapped to.
type Kind int

const (
	None Kind = iota
	Raw
	AxisPoint
	GridPoint
	Vertex
	Center
	EdgeCenter
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Raw:
		return "Raw"
	case AxisPoint:
		return "Axis"
	case GridPoint:
		return "Grid"
	case Vertex:
		return "Vertex"
	case Center:
		return "Center"
	case EdgeCenter:
		return "EdgeCenter"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Result struct {
	Point    mgl64.Vec3
	Kind     Kind
	ObjectID project.ID
}

// Resolve turns the candidates of a pick into the single point the gizmo is
// placed at. It has no state: identical inputs give identical results.
func Resolve(o *pick.Object, cfg Config, p *project.Project) Result {
	res := resolve(o, cfg, p)
	// axis lock always wins
	if cfg.Axis != nil {
		dir := geom.SafeNormalize(cfg.Axis.Direction, mgl64.Vec3{})
		if dir.LenSqr() > 0 {
			res.Point = geom.ProjectOnLine(cfg.Axis.Offset, dir, res.Point)
		}
	}
	return res
}

func nearestCandidate(cands []pick.Candidate) (pick.Candidate, bool) {
	for _, c := range cands {
		if c.Kind == pick.GizmoCenterHit || c.Kind == pick.GizmoAxisHit {
			continue
		}
		return c, true
	}
	return pick.Candidate{}, false
}

func axisPoint(o *pick.Object, ax *Axis) (mgl64.Vec3, float64, bool) {
	if ax == nil || ax.Direction.LenSqr() < geom.Epsilon {
		return mgl64.Vec3{}, 0, false
	}
	dist, _, param := geom.LineToLineDistance(o.RayOrigin, o.RayDir, ax.Offset, ax.Direction)
	return ax.Offset.Add(ax.Direction.Mul(param)), dist, true
}

func resolve(o *pick.Object, cfg Config, p *project.Project) Result {
	if o == nil {
		return Result{Kind: None, ObjectID: project.InvalidID}
	}
	nearest, ok := nearestCandidate(o.Candidates)
	if !ok {
		return Result{Kind: None, ObjectID: project.InvalidID}
	}
	raw := Result{Point: nearest.Point, Kind: Raw, ObjectID: nearest.ObjectID}
	axPt, axDist, locked := axisPoint(o, cfg.Axis)

	if !cfg.Enabled {
		if locked && axDist < nearest.Depth {
			return Result{Point: axPt, Kind: AxisPoint, ObjectID: project.InvalidID}
		}
		return raw
	}

	var def *Result
	if locked {
		def = &Result{Point: axPt, Kind: AxisPoint, ObjectID: project.InvalidID}
	}

	switch nearest.Kind {
	case pick.GridPlaneHit:
		if cfg.Options.Has(Grid) && nearest.GridIndex >= 0 && nearest.GridIndex < len(o.Grids) {
			gp := o.Grids[nearest.GridIndex].NearestGridPoint(nearest.Point)
			if gp.Sub(nearest.Point).Len() < cfg.Distance {
				def = &Result{Point: gp, Kind: GridPoint, ObjectID: project.InvalidID}
			}
		}
	case pick.ObjectHit:
		r := snapToObject(nearest, cfg, p)
		def = &r
	case pick.FarPlaneHit, pick.GizmoCenterHit, pick.GizmoAxisHit:
	}

	if def == nil {
		return raw
	}
	return *def
}

type feature struct {
	point mgl64.Vec3
	kind  Kind
}

// snapToObject picks the closest enabled feature within the snap distance.
// The raw hit point is the fallback with an infinite distance.
func snapToObject(c pick.Candidate, cfg Config, p *project.Project) Result {
	best := Result{Point: c.Point, Kind: Raw, ObjectID: c.ObjectID}
	bestDist := math.Inf(1)
	if p == nil {
		return best
	}
	for _, f := range features(p, c, cfg.Options) {
		d := f.point.Sub(c.Point).Len()
		if d < cfg.Distance && d < bestDist {
			best = Result{Point: f.point, Kind: f.kind, ObjectID: c.ObjectID}
			bestDist = d
		}
	}
	return best
}

func features(p *project.Project, c pick.Candidate, opts Options) []feature {
	r, ok := p.Lookup(c.ObjectID)
	if !ok {
		return nil
	}
	var out []feature
	addLoop := func(loop []mgl64.Vec3) {
		if !opts.Has(ObjectVertex) {
			return
		}
		for _, v := range loop {
			out = append(out, feature{v, Vertex})
		}
	}

	switch r.Kind {
	case project.KindSurface, project.KindSubSurface, project.KindPlainSurface:
		poly := r.Polygon()
		addLoop(poly.Vertices)
		for _, h := range poly.Holes {
			addLoop(h)
		}
		if opts.Has(ObjectCenter) && len(poly.Vertices) > 0 {
			out = append(out, feature{poly.Centroid(), Center})
		}
		if opts.Has(ObjectEdgeCenter) {
			for _, m := range poly.EdgeMidpoints() {
				out = append(out, feature{m, EdgeCenter})
			}
		}
	case project.KindNetworkNode:
		if opts.Has(ObjectVertex) || opts.Has(ObjectCenter) {
			out = append(out, feature{r.Node().Position, Center})
		}
	case project.KindNetworkEdge:
		a, b, ok := p.EdgeEndpoints(r.Edge())
		if !ok {
			return nil
		}
		addLoop([]mgl64.Vec3{a, b})
		if opts.Has(ObjectCenter) || opts.Has(ObjectEdgeCenter) {
			out = append(out, feature{a.Add(b).Mul(0.5), EdgeCenter})
		}
	case project.KindBuilding, project.KindBuildingLevel, project.KindRoom, project.KindNetwork:
	}
	return out
}
