package parser

import (
	"slices"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// reference asks for the producer registered under targetID.
type reference[C any] struct {
	consumer C
	targetID string
}

type link[C, T any] struct {
	consumer C
	target   T
}

// resolve pairs every reference with its producer. References to unknown
// ids are returned as dangling.
func resolve[C, T any](table map[string]T, refs []reference[C]) (links []link[C, T], dangling []reference[C]) {
	for _, ref := range refs {
		target, ok := table[ref.targetID]
		if !ok {
			dangling = append(dangling, ref)
			continue
		}
		links = append(links, link[C, T]{consumer: ref.consumer, target: target})
	}
	return links, dangling
}

func register[T any](table map[string]T, id string, v T, what string, logger citylog.Logger) {
	if _, dup := table[id]; dup {
		citylog.Logf(logger, citylog.LevelWarning, nil, "duplicate %s id %s, the later one replaces the earlier", what, id)
	}
	table[id] = v
}

// PolygonManager resolves gml:surfaceMember xlinks to polygons defined
// elsewhere in the document.
type PolygonManager struct {
	logger   citylog.Logger
	polygons map[string]*citymodel.Polygon
	requests []reference[*citymodel.Geometry]
}

func NewPolygonManager(logger citylog.Logger) *PolygonManager {
	return &PolygonManager{logger: logger, polygons: make(map[string]*citymodel.Polygon)}
}

// AddPolygon registers a polygon as a reference target.
func (m *PolygonManager) AddPolygon(p *citymodel.Polygon) {
	register(m.polygons, p.ID(), p, "polygon", m.logger)
}

// RequestSharedPolygon adds the polygon with the given id to geometry once
// the document has been read.
func (m *PolygonManager) RequestSharedPolygon(geometry *citymodel.Geometry, polygonID string) {
	m.requests = append(m.requests, reference[*citymodel.Geometry]{consumer: geometry, targetID: polygonID})
}

// Finish resolves all requests and clears the manager.
func (m *PolygonManager) Finish() {
	links, dangling := resolve(m.polygons, m.requests)
	for _, l := range links {
		l.target.MarkShared()
		l.consumer.AddPolygon(l.target)
	}
	for _, ref := range dangling {
		citylog.Logf(m.logger, citylog.LevelWarning, nil,
			"geometry %s references polygon %s which does not exist", ref.consumer.ID(), ref.targetID)
	}
	citylog.Logf(m.logger, citylog.LevelDebug, nil, "resolved %d shared polygon references", len(links))
	m.polygons = make(map[string]*citymodel.Polygon)
	m.requests = nil
}

// GeometryManager resolves xlinks to geometries, mostly the relative
// geometries of implicit geometries.
type GeometryManager struct {
	logger     citylog.Logger
	geometries map[string]*citymodel.Geometry
	requests   []reference[geometryRequest]
}

type geometryRequest struct {
	owner  string
	attach func(*citymodel.Geometry)
}

func NewGeometryManager(logger citylog.Logger) *GeometryManager {
	return &GeometryManager{logger: logger, geometries: make(map[string]*citymodel.Geometry)}
}

// AddSharedGeometry registers a geometry as a reference target.
func (m *GeometryManager) AddSharedGeometry(g *citymodel.Geometry) {
	register(m.geometries, g.ID(), g, "geometry", m.logger)
}

// RequestSharedGeometry calls attach with the geometry once the document
// has been read. owner names the requester in warnings.
func (m *GeometryManager) RequestSharedGeometry(owner, geometryID string, attach func(*citymodel.Geometry)) {
	m.requests = append(m.requests, reference[geometryRequest]{
		consumer: geometryRequest{owner: owner, attach: attach},
		targetID: geometryID,
	})
}

// RequestSharedGeometryForImplicitGeometry adds the referenced geometry to ig.
func (m *GeometryManager) RequestSharedGeometryForImplicitGeometry(ig *citymodel.ImplicitGeometry, geometryID string) {
	m.RequestSharedGeometry(ig.ID(), geometryID, ig.AddGeometry)
}

// Finish resolves all requests and clears the manager.
func (m *GeometryManager) Finish() {
	links, dangling := resolve(m.geometries, m.requests)
	for _, l := range links {
		l.target.MarkShared()
		l.consumer.attach(l.target)
	}
	for _, ref := range dangling {
		citylog.Logf(m.logger, citylog.LevelWarning, nil,
			"%s references geometry %s which does not exist", ref.consumer.owner, ref.targetID)
	}
	m.geometries = make(map[string]*citymodel.Geometry)
	m.requests = nil
}

// AppearanceManager binds materials and textures to their targets after
// the document has been read, since targets may be defined after the
// appearances that refer to them.
type AppearanceManager struct {
	logger        citylog.Logger
	targets       map[string]*citymodel.AppearanceTarget
	appearances   map[string]citymodel.Appearance
	materialDefs  []*citymodel.MaterialTargetDefinition
	textureDefs   []*citymodel.TextureTargetDefinition
	themeRequests []reference[[]string]
}

func NewAppearanceManager(logger citylog.Logger) *AppearanceManager {
	m := &AppearanceManager{logger: logger}
	m.reset()
	return m
}

func (m *AppearanceManager) reset() {
	m.targets = make(map[string]*citymodel.AppearanceTarget)
	m.appearances = make(map[string]citymodel.Appearance)
	m.materialDefs = nil
	m.textureDefs = nil
	m.themeRequests = nil
}

// AddAppearanceTarget registers a polygon or geometry under its id.
func (m *AppearanceManager) AddAppearanceTarget(target *citymodel.AppearanceTarget) {
	register(m.targets, target.ID(), target, "appearance target", m.logger)
}

// AddAppearance registers a material or texture so that other appearances
// can reference it by id.
func (m *AppearanceManager) AddAppearance(a citymodel.Appearance) {
	register(m.appearances, a.ID(), a, "appearance", m.logger)
}

func (m *AppearanceManager) AddMaterialTargetDefinition(def *citymodel.MaterialTargetDefinition) {
	m.materialDefs = append(m.materialDefs, def)
}

func (m *AppearanceManager) AddTextureTargetDefinition(def *citymodel.TextureTargetDefinition) {
	m.textureDefs = append(m.textureDefs, def)
}

// RequestThemes adds themes to the appearance with the given id. It serves
// surfaceDataMember xlinks, which place an existing appearance into the
// themes of the referring app:Appearance.
func (m *AppearanceManager) RequestThemes(appearanceID string, themes []string) {
	m.themeRequests = append(m.themeRequests, reference[[]string]{consumer: themes, targetID: appearanceID})
}

// Finish resolves theme requests and target definitions, clears the
// manager and returns the themes in use.
func (m *AppearanceManager) Finish() []string {
	links, dangling := resolve(m.appearances, m.themeRequests)
	for _, l := range links {
		for _, theme := range l.consumer {
			l.target.AddTheme(theme)
		}
	}
	for _, ref := range dangling {
		citylog.Logf(m.logger, citylog.LevelWarning, nil, "appearance reference %s does not exist", ref.targetID)
	}

	var themes []string
	seen := make(map[string]bool)
	collect := func(a citymodel.Appearance) {
		for _, theme := range a.Themes() {
			if !seen[theme] {
				seen[theme] = true
				themes = append(themes, theme)
			}
		}
	}
	for _, a := range m.appearances {
		collect(a)
	}

	bound := 0
	for _, def := range m.materialDefs {
		collect(def.Appearance())
		target, ok := m.targets[def.TargetID()]
		if !ok {
			m.danglingTarget(def.Appearance(), def.TargetID())
			continue
		}
		if target.AddMaterialTargetDefinition(def, m.logger) {
			bound++
		}
	}
	for _, def := range m.textureDefs {
		collect(def.Appearance())
		target, ok := m.targets[def.TargetID()]
		if !ok {
			m.danglingTarget(def.Appearance(), def.TargetID())
			continue
		}
		if target.AddTextureTargetDefinition(def, m.logger) {
			bound++
		}
	}
	citylog.Logf(m.logger, citylog.LevelDebug, nil, "bound %d appearance target definitions", bound)

	m.reset()
	slices.Sort(themes)
	return themes
}

func (m *AppearanceManager) danglingTarget(a citymodel.Appearance, targetID string) {
	citylog.Logf(m.logger, citylog.LevelWarning, nil,
		"%s %s targets %s which does not exist", a.TypeName(), a.ID(), targetID)
}
