package parser

import (
	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// Factory creates model objects and registers those with a document id as
// reference targets. Close resolves every pending reference.
type Factory struct {
	logger      citylog.Logger
	polygons    *PolygonManager
	geometries  *GeometryManager
	appearances *AppearanceManager
}

func NewFactory(logger citylog.Logger) *Factory {
	return &Factory{
		logger:      logger,
		polygons:    NewPolygonManager(logger),
		geometries:  NewGeometryManager(logger),
		appearances: NewAppearanceManager(logger),
	}
}

func (f *Factory) CreateCityModel(id string) *citymodel.CityModel {
	return citymodel.NewCityModel(id)
}

func (f *Factory) CreateCityObject(id string, kind citymodel.CityObjectsType) *citymodel.CityObject {
	return citymodel.NewCityObject(id, kind)
}

func (f *Factory) CreateGeometry(id string, typ citymodel.GeometryType, lod int) *citymodel.Geometry {
	g := citymodel.NewGeometry(id, typ, lod)
	if id != "" {
		f.geometries.AddSharedGeometry(g)
		f.appearances.AddAppearanceTarget(&g.AppearanceTarget)
	}
	return g
}

func (f *Factory) CreatePolygon(id string) *citymodel.Polygon {
	p := citymodel.NewPolygon(id)
	if id != "" {
		f.polygons.AddPolygon(p)
		f.appearances.AddAppearanceTarget(&p.AppearanceTarget)
	}
	return p
}

func (f *Factory) CreateLinearRing(id string, exterior bool) *citymodel.LinearRing {
	return citymodel.NewLinearRing(id, exterior)
}

func (f *Factory) CreateLineString(id string) *citymodel.LineString {
	return citymodel.NewLineString(id)
}

func (f *Factory) CreateImplicitGeometry(id string) *citymodel.ImplicitGeometry {
	return citymodel.NewImplicitGeometry(id)
}

func (f *Factory) CreateMaterial(id string) *citymodel.Material {
	m := citymodel.NewMaterial(id)
	if id != "" {
		f.appearances.AddAppearance(m)
	}
	return m
}

func (f *Factory) CreateTexture(id string) *citymodel.Texture {
	t := citymodel.NewTexture(id)
	if id != "" {
		f.appearances.AddAppearance(t)
	}
	return t
}

func (f *Factory) CreateGeoreferencedTexture(id string) *citymodel.GeoreferencedTexture {
	t := citymodel.NewGeoreferencedTexture(id)
	if id != "" {
		f.appearances.AddAppearance(&t.Texture)
	}
	return t
}

func (f *Factory) RequestSharedPolygon(geometry *citymodel.Geometry, polygonID string) {
	f.polygons.RequestSharedPolygon(geometry, polygonID)
}

func (f *Factory) RequestSharedGeometry(owner, geometryID string, attach func(*citymodel.Geometry)) {
	f.geometries.RequestSharedGeometry(owner, geometryID, attach)
}

func (f *Factory) RequestSharedGeometryForImplicitGeometry(ig *citymodel.ImplicitGeometry, geometryID string) {
	f.geometries.RequestSharedGeometryForImplicitGeometry(ig, geometryID)
}

func (f *Factory) AddMaterialTargetDefinition(def *citymodel.MaterialTargetDefinition) {
	f.appearances.AddMaterialTargetDefinition(def)
}

func (f *Factory) AddTextureTargetDefinition(def *citymodel.TextureTargetDefinition) {
	f.appearances.AddTextureTargetDefinition(def)
}

func (f *Factory) RequestAppearanceThemes(appearanceID string, themes []string) {
	f.appearances.RequestThemes(appearanceID, themes)
}

// Close resolves shared polygons, shared geometries and appearances, in
// that order, and records the themes in model.
func (f *Factory) Close(model *citymodel.CityModel) {
	f.polygons.Finish()
	f.geometries.Finish()
	themes := f.appearances.Finish()
	if model != nil {
		model.AddThemes(themes)
	}
}
