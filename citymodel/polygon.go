package citymodel

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"

	"github.com/mumuon/citygml/citylog"
)

// Polygon is the tesselation unit: one exterior ring, optional holes, and
// after finishing a triangle mesh with per-vertex normals and texture
// coordinates per theme and side.
type Polygon struct {
	AppearanceTarget

	exterior  *LinearRing
	interiors []*LinearRing

	vertices  []dvec3.T
	indices   []uint32
	normals   []dvec3.T
	texCoords map[ThemeSide][]vec2.T
	normal    dvec3.T

	negNormal bool
	shared    bool
	finished  bool
}

func NewPolygon(id string) *Polygon {
	return &Polygon{AppearanceTarget: newAppearanceTarget(id)}
}

// AddRing attaches ring as the exterior or as a hole depending on its flag.
// A second exterior ring replaces the first and is reported.
func (p *Polygon) AddRing(ring *LinearRing, logger citylog.Logger) {
	if !ring.IsExterior() {
		p.interiors = append(p.interiors, ring)
		return
	}
	if p.exterior != nil {
		citylog.Logf(logger, citylog.LevelWarning, nil, "polygon %s has more than one exterior ring, keeping %s", p.ID(), ring.ID())
	}
	p.exterior = ring
}

func (p *Polygon) Exterior() *LinearRing { return p.exterior }

func (p *Polygon) Interiors() []*LinearRing { return p.interiors }

// SetNegNormal marks a polygon declared with orientation="-".
func (p *Polygon) SetNegNormal(neg bool) { p.negNormal = neg }

func (p *Polygon) NegNormal() bool { return p.negNormal }

// MarkShared flags a polygon referenced from more than one geometry.
func (p *Polygon) MarkShared() { p.shared = true }

func (p *Polygon) Shared() bool { return p.shared }

func (p *Polygon) Finished() bool { return p.finished }

func (p *Polygon) Vertices() []dvec3.T { return p.vertices }

// SetVertices replaces the tesselated positions in place, as the coordinate
// transform pass does.
func (p *Polygon) SetVertices(vertices []dvec3.T) { p.vertices = vertices }

// Indices are triangle triples into Vertices.
func (p *Polygon) Indices() []uint32 { return p.indices }

func (p *Polygon) Normals() []dvec3.T { return p.normals }

// Normal is the plane normal of the exterior ring.
func (p *Polygon) Normal() dvec3.T { return p.normal }

func (p *Polygon) TriangleCount() int { return len(p.indices) / 3 }

// TexCoords returns the texture coordinates of theme and side, aligned with
// Vertices, or nil.
func (p *Polygon) TexCoords(theme string, front bool) []vec2.T {
	return p.texCoords[ThemeSide{theme, front}]
}

// Empty reports a polygon without a mesh. Empty polygons are skipped by
// consumers.
func (p *Polygon) Empty() bool { return len(p.vertices) == 0 || len(p.indices) == 0 }

// Finish tesselates the polygon once. Later calls are no-ops.
func (p *Polygon) Finish(params *FinishParams) {
	if p.finished {
		return
	}
	p.finished = true

	if p.exterior == nil {
		params.logf(citylog.LevelWarning, "polygon %s has no exterior ring", p.ID())
		return
	}

	p.normal = p.exterior.ComputeNormal()
	if p.negNormal {
		p.normal = dvec3.T{-p.normal[0], -p.normal[1], -p.normal[2]}
	}

	if params.Optimize {
		p.removeDuplicateVertices(params.Logger)
	}

	p.tesselate(params)

	if !params.KeepVertices {
		p.exterior.ForgetVertices()
		for _, ring := range p.interiors {
			ring.ForgetVertices()
		}
	}
}

// textureCoordinateLists returns each coordinate list bound to the polygon
// once. A texture in several themes is stored under every theme and side.
func (p *Polygon) textureCoordinateLists() []*TextureCoordinates {
	var lists []*TextureCoordinates
	seen := make(map[*TextureCoordinates]bool)
	for _, ts := range p.TextureThemeSides() {
		for _, tc := range p.textures[ts].Coordinates() {
			if !seen[tc] {
				seen[tc] = true
				lists = append(lists, tc)
			}
		}
	}
	return lists
}

func (p *Polygon) removeDuplicateVertices(logger citylog.Logger) {
	coords := p.textureCoordinateLists()
	p.exterior.RemoveDuplicateVertices(coords, logger)
	for _, ring := range p.interiors {
		ring.RemoveDuplicateVertices(coords, logger)
	}
}

func (p *Polygon) ringTexCoords(ring *LinearRing, sides []ThemeSide, params *FinishParams) [][]vec2.T {
	lists := make([][]vec2.T, len(sides))
	for i, ts := range sides {
		tc := p.textures[ts].CoordinatesFor(ring.ID())
		if tc == nil {
			continue
		}
		if len(tc.Coords()) != ring.Size() {
			params.logf(citylog.LevelWarning,
				"ring %s has %d vertices but %d texture coordinates in theme %s, ignoring them",
				ring.ID(), ring.Size(), len(tc.Coords()), ts)
			continue
		}
		lists[i] = tc.Coords()
	}
	return lists
}

func (p *Polygon) tesselate(params *FinishParams) {
	if p.exterior.Size() < 3 {
		params.logf(citylog.LevelWarning, "polygon %s has an exterior ring with %d vertices, skipping", p.ID(), p.exterior.Size())
		return
	}
	tess := params.Tesselator
	if tess == nil {
		params.logf(citylog.LevelError, "no tesselator configured, polygon %s left empty", p.ID())
		return
	}

	sides := p.TextureThemeSides()
	tess.Init(p.normal)
	tess.AddContour(p.exterior.Vertices(), p.ringTexCoords(p.exterior, sides, params))
	for _, ring := range p.interiors {
		if ring.Size() < 3 {
			params.logf(citylog.LevelWarning, "interior ring %s of polygon %s has %d vertices, skipping", ring.ID(), p.ID(), ring.Size())
			continue
		}
		tess.AddContour(ring.Vertices(), p.ringTexCoords(ring, sides, params))
	}
	if err := tess.Compute(); err != nil {
		params.logf(citylog.LevelWarning, "failed to tesselate polygon %s: %v", p.ID(), err)
	}

	p.vertices = tess.Vertices()
	p.indices = tess.Indices()
	if len(p.vertices) < 3 || len(p.indices) == 0 {
		params.logf(citylog.LevelWarning, "polygon %s has %d vertices after tesselation, discarding it", p.ID(), len(p.vertices))
		p.vertices, p.indices = nil, nil
		return
	}

	p.normals = make([]dvec3.T, len(p.vertices))
	for i := range p.normals {
		p.normals[i] = p.normal
	}

	out := tess.TexCoords()
	for i, ts := range sides {
		if i >= len(out) || len(out[i]) == 0 {
			continue
		}
		if p.texCoords == nil {
			p.texCoords = make(map[ThemeSide][]vec2.T, len(sides))
		}
		p.texCoords[ts] = out[i]
	}
}

// merge appends other's mesh to p when both resolve to the same appearance
// objects. Shared polygons are never merged.
func (p *Polygon) merge(other *Polygon) bool {
	if other == p || p.shared || other.shared || p.Empty() || other.Empty() {
		return false
	}
	if p.negNormal != other.negNormal || !p.sameAppearances(&other.AppearanceTarget) {
		return false
	}

	offset := uint32(len(p.vertices))
	n, m := len(p.vertices), len(other.vertices)
	for ts := range mergedTexCoordKeys(p.texCoords, other.texCoords) {
		if p.texCoords == nil {
			p.texCoords = make(map[ThemeSide][]vec2.T)
		}
		a := padTexCoords(p.texCoords[ts], n)
		b := padTexCoords(other.texCoords[ts], m)
		p.texCoords[ts] = append(a, b...)
	}
	p.vertices = append(p.vertices, other.vertices...)
	p.normals = append(p.normals, other.normals...)
	for _, idx := range other.indices {
		p.indices = append(p.indices, idx+offset)
	}
	p.id = p.id + "+" + other.id
	return true
}

func mergedTexCoordKeys(a, b map[ThemeSide][]vec2.T) map[ThemeSide]struct{} {
	keys := make(map[ThemeSide]struct{}, len(a)+len(b))
	for ts := range a {
		keys[ts] = struct{}{}
	}
	for ts := range b {
		keys[ts] = struct{}{}
	}
	return keys
}

func padTexCoords(coords []vec2.T, n int) []vec2.T {
	if len(coords) >= n {
		return coords
	}
	return append(coords, make([]vec2.T, n-len(coords))...)
}
