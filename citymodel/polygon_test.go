package citymodel

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"

	"github.com/mumuon/citygml/citylog"
)

func TestDuplicateVertexRemovalWithTextureThemes(t *testing.T) {
	testCases := []struct {
		name   string
		themes []string
	}{
		{name: "single theme", themes: []string{"rgb"}},
		{name: "two themes", themes: []string{"rgb", "ir"}},
		{name: "three themes", themes: []string{"rgb", "ir", "night"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ring := []dvec3.T{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
			tex := NewTexture("tex")
			for _, theme := range tc.themes {
				tex.AddTheme(theme)
			}
			def := NewTextureTargetDefinition("p", tex, "")
			coords := NewTextureCoordinates("", "p_ring")
			var uv []vec2.T
			for _, v := range ring {
				uv = append(uv, vec2.T{float32(v[0]), float32(v[1])})
			}
			coords.SetCoords(uv)
			def.AddCoordinates(coords)

			rec := citylog.NewRecorder(citylog.LevelWarning, nil)
			p := newSquarePolygon("p", ring)
			p.AddTextureTargetDefinition(def, rec)
			p.Finish(newFinishParams(true, rec))

			if got := len(p.Vertices()); got != 4 {
				t.Fatalf("vertex count mismatch: got %d, expected 4", got)
			}
			for _, theme := range tc.themes {
				got := p.TexCoords(theme, true)
				if len(got) != len(p.Vertices()) {
					t.Fatalf("theme %s texture coordinate count mismatch: got %d, expected %d", theme, len(got), len(p.Vertices()))
				}
				for i, v := range p.Vertices() {
					expected := vec2.T{float32(v[0]), float32(v[1])}
					if got[i] != expected {
						t.Errorf("theme %s vertex %v texture coordinate mismatch: got %v, expected %v", theme, v, got[i], expected)
					}
				}
			}
			if rec.Contains(citylog.LevelWarning, "texture coordinates") {
				t.Errorf("unexpected texture coordinate warning")
			}
		})
	}
}

func TestSharedGeometryKeepsFirstOwnerBindings(t *testing.T) {
	day := NewMaterial("day")
	day.AddTheme("default")
	night := NewMaterial("night")
	night.AddTheme("night")

	shared := NewGeometry("shared", GeometryWall, 2)
	shared.MarkShared()
	p := newSquarePolygon("p", unitSquare)
	shared.AddPolygon(p)

	a := NewGeometry("a", GeometryWall, 2)
	a.AddMaterialTargetDefinition(NewMaterialTargetDefinition("a", day, ""), nil)
	a.AddChild(shared)
	b := NewGeometry("b", GeometryWall, 2)
	b.AddMaterialTargetDefinition(NewMaterialTargetDefinition("b", night, ""), nil)
	b.AddChild(shared)

	params := newFinishParams(false, nil)
	a.Finish(params)
	b.Finish(params)

	testCases := []struct {
		name     string
		target   *AppearanceTarget
		theme    string
		expected *Material
	}{
		{name: "geometry first owner", target: &shared.AppearanceTarget, theme: "default", expected: day},
		{name: "geometry second owner", target: &shared.AppearanceTarget, theme: "night", expected: nil},
		{name: "polygon first owner", target: &p.AppearanceTarget, theme: "default", expected: day},
		{name: "polygon second owner", target: &p.AppearanceTarget, theme: "night", expected: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.target.Material(tc.theme, true); got != tc.expected {
				t.Errorf("material mismatch: got %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestGeometryMergeKeepsPolygons(t *testing.T) {
	o := NewCityObject("b", Building)
	g1 := NewGeometry("g1", GeometryWall, 2)
	g2 := NewGeometry("g2", GeometryWall, 2)
	o.AddGeometry(g1)
	o.AddGeometry(g2)
	// polygons with the same appearance in different geometries
	g1.AddPolygon(newSquarePolygon("a", unitSquare))
	g2.AddPolygon(newSquarePolygon("b", []dvec3.T{{2, 0, 0}, {3, 0, 0}, {3, 1, 0}, {2, 1, 0}}))

	o.Finish(newFinishParams(true, nil))

	if got := len(o.Geometries()); got != 1 {
		t.Fatalf("geometry count mismatch: got %d, expected 1", got)
	}
	if got := len(o.Geometries()[0].Polygons()); got != 2 {
		t.Errorf("polygon count mismatch: got %d, expected 2", got)
	}
}

func TestUpdateTranslation(t *testing.T) {
	valid := NewEnvelope("EPSG:25833")
	valid.Extend(dvec3.T{390000, 5800000, 30})
	valid.Extend(dvec3.T{390100, 5800200, 60})

	testCases := []struct {
		name     string
		envelope *Envelope
		expected dvec3.T
	}{
		{name: "valid envelope", envelope: valid, expected: dvec3.T{390000, 5800000, 30}},
		{name: "no envelope", envelope: nil, expected: dvec3.T{}},
		{name: "invalid envelope", envelope: NewEnvelope("EPSG:4326"), expected: dvec3.T{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewCityModel("model")
			m.SetTranslation(dvec3.T{1, 1, 1})
			m.SetEnvelope(tc.envelope)
			m.UpdateTranslation()
			if got := m.Translation(); got != tc.expected {
				t.Errorf("translation mismatch: got %v, expected %v", got, tc.expected)
			}
		})
	}
}
