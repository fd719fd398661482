// Package reproject moves a finished city model into another spatial
// reference system.
package reproject

import (
	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/srs"
)

// Transform converts every position of model into destSRS. Each subtree
// uses the SRS declared closest to it: geometry, then city object
// envelope, then model envelope, then srcSRS. Subtrees without an SRS or
// with an unsupported one are left untouched and reported.
func Transform(model *citymodel.CityModel, destSRS, srcSRS string, logger citylog.Logger) *Stats {
	t := &transformer{
		dest:     destSRS,
		logger:   logger,
		cache:    make(map[string]*srs.Transformation),
		polygons: make(map[*citymodel.Polygon]string),
		visited:  make(map[*citymodel.Geometry]geometryVisit),
		lines:    make(map[*citymodel.LineString]string),
		reported: make(map[string]bool),
	}

	rootSRS := model.SRSName()
	if rootSRS == "" {
		rootSRS = srcSRS
	}
	for _, obj := range model.RootObjects() {
		t.object(obj, rootSRS)
	}
	if env := model.Envelope(); env != nil {
		model.SetEnvelope(t.envelope(env, rootSRS))
	}

	citylog.Logf(logger, citylog.LevelInfo, nil,
		"transformed %d polygons and %d line strings into %s, %d subtrees untouched",
		t.stats.Polygons, t.stats.LineStrings, destSRS, t.stats.Skipped)
	return &t.stats
}

// Stats counts the work of one Transform call.
type Stats struct {
	Polygons    int
	LineStrings int
	Implicit    int
	Skipped     int
	Conflicts   int
}

// geometryVisit is the SRS a geometry was transformed from and whether the
// geometry declared it itself.
type geometryVisit struct {
	srs      string
	declared bool
}

type transformer struct {
	dest     string
	logger   citylog.Logger
	cache    map[string]*srs.Transformation
	polygons map[*citymodel.Polygon]string
	visited  map[*citymodel.Geometry]geometryVisit
	lines    map[*citymodel.LineString]string
	reported map[string]bool
	stats    Stats
}

// transformation returns the cached transformation from src to the
// destination, or nil when there is none.
func (t *transformer) transformation(src, owner string) *srs.Transformation {
	if src == "" {
		t.stats.Skipped++
		citylog.Logf(t.logger, citylog.LevelWarning, nil, "%s has no SRS, leaving it untransformed", owner)
		return nil
	}
	tr, ok := t.cache[src]
	if !ok {
		tr = srs.NewTransformation(src, t.dest)
		t.cache[src] = tr
	}
	if !tr.Valid() {
		t.stats.Skipped++
		if !t.reported[src] {
			t.reported[src] = true
			citylog.Logf(t.logger, citylog.LevelWarning, nil, "cannot transform %s: %v", owner, tr.Err())
		}
		return nil
	}
	return tr
}

func (t *transformer) object(obj *citymodel.CityObject, inherited string) {
	current := inherited
	if env := obj.Envelope(); env != nil {
		if env.SRSName != "" {
			current = env.SRSName
		}
		obj.SetEnvelope(t.envelope(env, current))
	}

	for _, g := range obj.Geometries() {
		t.geometry(g, current)
	}
	for _, ig := range obj.ImplicitGeometries() {
		t.implicit(ig, current)
	}
	if addr := obj.Address(); addr != nil && addr.Position != nil {
		if tr := t.transformation(current, "address of "+obj.ID()); tr != nil {
			tr.Transform(addr.Position)
		}
	}
	for _, child := range obj.Children() {
		t.object(child, current)
	}
}

func (t *transformer) envelope(env *citymodel.Envelope, current string) *citymodel.Envelope {
	if !env.Valid() {
		return env
	}
	tr := t.transformation(current, "envelope")
	if tr == nil {
		return env
	}
	out := citymodel.NewEnvelope(t.dest)
	// a box is not preserved by the transformation, so transform all corners
	for i := 0; i < 8; i++ {
		p := env.Lower
		if i&1 != 0 {
			p[0] = env.Upper[0]
		}
		if i&2 != 0 {
			p[1] = env.Upper[1]
		}
		if i&4 != 0 {
			p[2] = env.Upper[2]
		}
		tr.Transform(&p)
		out.Extend(p)
	}
	return out
}

func (t *transformer) geometry(g *citymodel.Geometry, inherited string) {
	if prev, seen := t.visited[g]; seen {
		// a geometry with its own SRS does not depend on the owner
		if !prev.declared {
			t.conflict("geometry", g.ID(), prev.srs, inherited)
		}
		return
	}
	declared := g.SRSName() != ""
	current := inherited
	if declared {
		current = g.SRSName()
	}
	t.visited[g] = geometryVisit{srs: current, declared: declared}

	if tr := t.transformation(current, "geometry "+g.ID()); tr != nil {
		for _, p := range g.Polygons() {
			t.polygon(p, tr, current)
		}
		for _, l := range g.LineStrings() {
			if prev, seen := t.lines[l]; seen {
				t.conflict("line string", l.ID(), prev, current)
				continue
			}
			t.lines[l] = current
			vs := l.Vertices()
			for i := range vs {
				tr.Transform(&vs[i])
			}
			t.stats.LineStrings++
		}
		g.SetSRSName(t.dest)
	}

	// children may declare an SRS of their own
	for _, child := range g.Children() {
		t.geometry(child, current)
	}
}

// polygon transforms a polygon at most once even when it is shared.
func (t *transformer) polygon(p *citymodel.Polygon, tr *srs.Transformation, current string) {
	if prev, seen := t.polygons[p]; seen {
		t.conflict("polygon", p.ID(), prev, current)
		return
	}
	t.polygons[p] = current

	vs := p.Vertices()
	for i := range vs {
		tr.Transform(&vs[i])
	}
	rings := p.Interiors()
	if ext := p.Exterior(); ext != nil {
		rings = append([]*citymodel.LinearRing{ext}, rings...)
	}
	for _, r := range rings {
		rv := r.Vertices()
		for i := range rv {
			tr.Transform(&rv[i])
		}
	}
	t.stats.Polygons++
}

func (t *transformer) conflict(what, id, prev, current string) {
	if srs.Normalize(prev) == srs.Normalize(current) {
		return
	}
	t.stats.Conflicts++
	citylog.Logf(t.logger, citylog.LevelWarning, nil,
		"shared %s %s is used with SRS %s and %s, keeping the first transformation", what, id, prev, current)
}

// implicit moves only the reference point. The template geometry stays in
// its local coordinates.
func (t *transformer) implicit(ig *citymodel.ImplicitGeometry, inherited string) {
	current := inherited
	if ig.SRSName() != "" {
		current = ig.SRSName()
	}
	tr := t.transformation(current, "implicit geometry "+ig.ID())
	if tr == nil {
		return
	}
	p := ig.ReferencePoint()
	tr.Transform(&p)
	ig.SetReferencePoint(p)
	ig.SetSRSName(t.dest)
	t.stats.Implicit++
}
