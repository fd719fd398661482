package citymodel

import (
	"slices"
)

// GeometryType is the semantic surface type of a geometry.
type GeometryType int

const (
	GeometryUnknown GeometryType = iota
	GeometryRoof
	GeometryWall
	GeometryGround
	GeometryClosure
	GeometryFloor
	GeometryInteriorWall
	GeometryCeiling
	GeometryOuterCeiling
	GeometryOuterFloor
	GeometryTin
)

var geometryTypeNames = []string{
	"Unknown", "Roof", "Wall", "Ground", "Closure", "Floor",
	"InteriorWall", "Ceiling", "OuterCeiling", "OuterFloor", "TIN",
}

func (t GeometryType) String() string {
	if int(t) < len(geometryTypeNames) {
		return geometryTypeNames[t]
	}
	return "Unknown"
}

// GeometryTypeForKind maps a boundary surface kind onto its geometry type.
func GeometryTypeForKind(kind CityObjectsType) GeometryType {
	switch kind {
	case RoofSurface:
		return GeometryRoof
	case WallSurface:
		return GeometryWall
	case GroundSurface, WaterGroundSurface:
		return GeometryGround
	case ClosureSurface, WaterClosureSurface:
		return GeometryClosure
	case FloorSurface:
		return GeometryFloor
	case InteriorWallSurface:
		return GeometryInteriorWall
	case CeilingSurface:
		return GeometryCeiling
	case OuterCeilingSurface:
		return GeometryOuterCeiling
	case OuterFloorSurface:
		return GeometryOuterFloor
	case TINRelief:
		return GeometryTin
	}
	return GeometryUnknown
}

// Geometry groups polygons, line strings and nested geometries (solids,
// composite surfaces) of one level of detail.
type Geometry struct {
	AppearanceTarget

	typ         GeometryType
	lod         int
	srsName     string
	polygons    []*Polygon
	lineStrings []*LineString
	children    []*Geometry

	shared   bool
	finished bool
}

func NewGeometry(id string, typ GeometryType, lod int) *Geometry {
	return &Geometry{AppearanceTarget: newAppearanceTarget(id), typ: typ, lod: lod}
}

func (g *Geometry) Type() GeometryType { return g.typ }

func (g *Geometry) LOD() int { return g.lod }

func (g *Geometry) SRSName() string { return g.srsName }

func (g *Geometry) SetSRSName(srs string) { g.srsName = srs }

func (g *Geometry) Polygons() []*Polygon { return g.polygons }

func (g *Geometry) AddPolygon(p *Polygon) { g.polygons = append(g.polygons, p) }

func (g *Geometry) LineStrings() []*LineString { return g.lineStrings }

func (g *Geometry) AddLineString(l *LineString) { g.lineStrings = append(g.lineStrings, l) }

func (g *Geometry) Children() []*Geometry { return g.children }

func (g *Geometry) AddChild(child *Geometry) { g.children = append(g.children, child) }

func (g *Geometry) Finished() bool { return g.finished }

// MarkShared flags a geometry referenced by an implicit geometry or xlink.
func (g *Geometry) MarkShared() { g.shared = true }

func (g *Geometry) Shared() bool { return g.shared }

// Empty reports a geometry without polygons, line strings or children.
func (g *Geometry) Empty() bool {
	return len(g.polygons) == 0 && len(g.lineStrings) == 0 && len(g.children) == 0
}

// Walk visits g and its nested geometries depth first.
func (g *Geometry) Walk(fn func(*Geometry)) {
	fn(g)
	for _, c := range g.children {
		c.Walk(fn)
	}
}

// Finish passes the appearance bindings of g down to its polygons and
// nested geometries, tesselates them and, in optimize mode, merges polygons
// with identical appearances. It runs once per geometry regardless of how
// many owners reach it.
func (g *Geometry) Finish(params *FinishParams) {
	if g.finished {
		return
	}
	g.finished = true

	// a shared child finished through another owner keeps that owner's bindings
	for _, child := range g.children {
		if !child.Finished() {
			child.InheritTargetDefinitions(&g.AppearanceTarget)
		}
	}
	for _, p := range g.polygons {
		if !p.Finished() {
			p.InheritTargetDefinitions(&g.AppearanceTarget)
		}
	}

	for _, child := range g.children {
		child.Finish(params)
	}
	for _, p := range g.polygons {
		p.Finish(params)
	}

	if params.Optimize {
		g.polygons = mergeToFixedPoint(g.polygons, (*Polygon).merge)
	}
}

// merge absorbs other into g when both have the same level of detail,
// semantic type and SRS. The polygons of both are kept as they are; polygon
// merging has already run inside each geometry.
func (g *Geometry) merge(other *Geometry) bool {
	if other == g || g.shared || other.shared || g.typ != other.typ || g.lod != other.lod || g.srsName != other.srsName {
		return false
	}
	if !g.finished || !other.finished {
		return false
	}
	g.polygons = append(g.polygons, other.polygons...)
	g.lineStrings = append(g.lineStrings, other.lineStrings...)
	g.children = append(g.children, other.children...)
	g.id = g.id + "+" + other.id
	return true
}

// mergeToFixedPoint merges items pairwise until no pair merges any more.
func mergeToFixedPoint[T any](items []T, merge func(a, b T) bool) []T {
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); {
				if merge(items[i], items[j]) {
					items = slices.Delete(items, j, j+1)
					changed = true
					continue
				}
				j++
			}
		}
	}
	return items
}
