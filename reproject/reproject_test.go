package reproject

import (
	"math"
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/srs"
)

func squarePolygon(id string) *citymodel.Polygon {
	p := citymodel.NewPolygon(id)
	p.SetVertices([]dvec3.T{{13, 52, 0}, {14, 52, 0}, {14, 53, 0}, {13, 53, 0}})
	return p
}

func modelWithEnvelope(srsName string) *citymodel.CityModel {
	m := citymodel.NewCityModel("model")
	env := citymodel.NewEnvelope(srsName)
	env.Lower = dvec3.T{13, 52, 0}
	env.Upper = dvec3.T{14, 53, 10}
	m.SetEnvelope(env)
	return m
}

func TestTransformIdentity(t *testing.T) {
	m := modelWithEnvelope("urn:ogc:def:crs:OGC:1.3:CRS84")
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	g := citymodel.NewGeometry("g1", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	p := squarePolygon("p1")
	g.AddPolygon(p)
	obj.AddGeometry(g)
	m.AddRootObject(obj)

	stats := Transform(m, srs.CRS84, "", citylog.Discard())

	if stats.Polygons != 1 {
		t.Errorf("polygon count mismatch: got %d, expected 1", stats.Polygons)
	}
	if p.Vertices()[1] != (dvec3.T{14, 52, 0}) {
		t.Errorf("identity moved a vertex: got %v", p.Vertices()[1])
	}
	if g.SRSName() != srs.CRS84 {
		t.Errorf("geometry SRS mismatch: got %q, expected %q", g.SRSName(), srs.CRS84)
	}
}

func TestTransformToWebMercator(t *testing.T) {
	m := modelWithEnvelope(srs.CRS84)
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	g := citymodel.NewGeometry("g1", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	p := squarePolygon("p1")
	g.AddPolygon(p)
	obj.AddGeometry(g)
	m.AddRootObject(obj)

	Transform(m, srs.EPSG3857, "", citylog.Discard())

	v := p.Vertices()[0]
	// 13 degrees east on the spherical mercator
	if math.Abs(v[0]-1447153.38) > 1 {
		t.Errorf("mercator x mismatch: got %f, expected about 1447153.38", v[0])
	}
	env := m.Envelope()
	if env.SRSName != srs.EPSG3857 {
		t.Errorf("envelope SRS mismatch: got %q, expected %q", env.SRSName, srs.EPSG3857)
	}
	if env.Lower[0] > v[0]+1e-6 || env.Upper[2] != 10 {
		t.Errorf("envelope mismatch: got %v to %v", env.Lower, env.Upper)
	}
}

func TestTransformWithoutSRS(t *testing.T) {
	m := citymodel.NewCityModel("model")
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	g := citymodel.NewGeometry("g1", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	p := squarePolygon("p1")
	g.AddPolygon(p)
	obj.AddGeometry(g)
	m.AddRootObject(obj)

	rec := citylog.NewRecorder(citylog.LevelWarning, nil)
	stats := Transform(m, srs.EPSG3857, "", rec)

	if stats.Skipped == 0 {
		t.Errorf("expected skipped subtrees")
	}
	if p.Vertices()[0] != (dvec3.T{13, 52, 0}) {
		t.Errorf("untransformed vertex moved: got %v", p.Vertices()[0])
	}
	if !rec.Contains(citylog.LevelWarning, "has no SRS") {
		t.Errorf("expected a warning about the missing SRS, got %v", rec.Entries())
	}
}

func TestTransformPrecedence(t *testing.T) {
	// the geometry declares EPSG:4326 and overrides the CRS84 model envelope
	m := modelWithEnvelope(srs.CRS84)
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	g := citymodel.NewGeometry("g1", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	g.SetSRSName("EPSG:4326")
	p := citymodel.NewPolygon("p1")
	p.SetVertices([]dvec3.T{{52, 13, 0}})
	g.AddPolygon(p)
	obj.AddGeometry(g)
	m.AddRootObject(obj)

	Transform(m, srs.CRS84, "", citylog.Discard())

	if p.Vertices()[0] != (dvec3.T{13, 52, 0}) {
		t.Errorf("axis order mismatch: got %v, expected [13 52 0]", p.Vertices()[0])
	}
}

func TestSharedPolygonTransformedOnce(t *testing.T) {
	m := modelWithEnvelope(srs.CRS84)
	shared := squarePolygon("shared")

	for _, id := range []string{"b1", "b2"} {
		obj := citymodel.NewCityObject(id, citymodel.Building)
		g := citymodel.NewGeometry(id+"_g", citymodel.GeometryTypeForKind(citymodel.Building), 2)
		g.AddPolygon(shared)
		obj.AddGeometry(g)
		m.AddRootObject(obj)
	}

	rec := citylog.NewRecorder(citylog.LevelWarning, nil)
	stats := Transform(m, srs.EPSG3857, "", rec)

	if stats.Polygons != 1 {
		t.Errorf("polygon count mismatch: got %d, expected 1", stats.Polygons)
	}
	if stats.Conflicts != 0 {
		t.Errorf("conflict count mismatch: got %d, expected 0", stats.Conflicts)
	}
	if math.Abs(shared.Vertices()[0][0]-1447153.38) > 1 {
		t.Errorf("shared polygon mismatch: got %f, expected about 1447153.38", shared.Vertices()[0][0])
	}
}

func TestImplicitGeometryMovesReferencePoint(t *testing.T) {
	m := modelWithEnvelope("EPSG:4326")
	obj := citymodel.NewCityObject("tree", citymodel.SolitaryVegetationObject)
	ig := citymodel.NewImplicitGeometry("ig")
	ig.SetReferencePoint(dvec3.T{52, 13, 5})
	template := citymodel.NewGeometry("template", citymodel.GeometryTypeForKind(citymodel.SolitaryVegetationObject), 2)
	local := citymodel.NewPolygon("local")
	local.SetVertices([]dvec3.T{{1, 2, 3}})
	template.AddPolygon(local)
	ig.AddGeometry(template)
	obj.AddImplicitGeometry(ig)
	m.AddRootObject(obj)

	stats := Transform(m, srs.CRS84, "", citylog.Discard())

	if stats.Implicit != 1 {
		t.Errorf("implicit count mismatch: got %d, expected 1", stats.Implicit)
	}
	if ig.ReferencePoint() != (dvec3.T{13, 52, 5}) {
		t.Errorf("reference point mismatch: got %v, expected [13 52 5]", ig.ReferencePoint())
	}
	if local.Vertices()[0] != (dvec3.T{1, 2, 3}) {
		t.Errorf("template vertex moved: got %v", local.Vertices()[0])
	}
}

func TestSourceSRSFallback(t *testing.T) {
	m := citymodel.NewCityModel("model")
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	obj.SetAddress(&citymodel.Address{Position: &dvec3.T{52, 13, 0}})
	m.AddRootObject(obj)

	stats := Transform(m, srs.CRS84, "EPSG:4326", citylog.Discard())

	if stats.Skipped != 0 {
		t.Errorf("skipped count mismatch: got %d, expected 0", stats.Skipped)
	}
	if *obj.Address().Position != (dvec3.T{13, 52, 0}) {
		t.Errorf("address position mismatch: got %v, expected [13 52 0]", *obj.Address().Position)
	}
}

func TestSharedGeometryConflict(t *testing.T) {
	testCases := []struct {
		name      string
		ownSRS    string
		conflicts int
	}{
		{name: "inherited SRS", ownSRS: "", conflicts: 1},
		{name: "declared SRS", ownSRS: srs.CRS84, conflicts: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := citymodel.NewCityModel("model")
			shared := citymodel.NewGeometry("shared", citymodel.GeometryTypeForKind(citymodel.Building), 2)
			shared.SetSRSName(tc.ownSRS)
			p := squarePolygon("p1")
			shared.AddPolygon(p)
			for _, owner := range []struct{ id, srsName string }{{"b1", srs.CRS84}, {"b2", "EPSG:4326"}} {
				obj := citymodel.NewCityObject(owner.id, citymodel.Building)
				env := citymodel.NewEnvelope(owner.srsName)
				env.Extend(dvec3.T{13, 52, 0})
				obj.SetEnvelope(env)
				obj.AddGeometry(shared)
				m.AddRootObject(obj)
			}
			rec := citylog.NewRecorder(citylog.LevelWarning, nil)

			stats := Transform(m, srs.CRS84, "", rec)

			if stats.Conflicts != tc.conflicts {
				t.Errorf("conflict count mismatch: got %d, expected %d", stats.Conflicts, tc.conflicts)
			}
			if got := rec.Contains(citylog.LevelWarning, "is used with SRS"); got != (tc.conflicts > 0) {
				t.Errorf("conflict warning mismatch: got %v, expected %v", got, tc.conflicts > 0)
			}
			if stats.Polygons != 1 {
				t.Errorf("polygon count mismatch: got %d, expected 1", stats.Polygons)
			}
			if p.Vertices()[0] != (dvec3.T{13, 52, 0}) {
				t.Errorf("first transformation mismatch: got %v, expected [13 52 0]", p.Vertices()[0])
			}
		})
	}
}

func TestChildGeometrySRSWithoutParentSRS(t *testing.T) {
	m := citymodel.NewCityModel("model")
	obj := citymodel.NewCityObject("b1", citymodel.Building)
	parent := citymodel.NewGeometry("parent", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	child := citymodel.NewGeometry("child", citymodel.GeometryTypeForKind(citymodel.Building), 2)
	child.SetSRSName("EPSG:4326")
	p := squarePolygon("p1")
	child.AddPolygon(p)
	parent.AddChild(child)
	obj.AddGeometry(parent)
	m.AddRootObject(obj)

	stats := Transform(m, srs.CRS84, "", citylog.Discard())

	if stats.Polygons != 1 {
		t.Fatalf("polygon count mismatch: got %d, expected 1", stats.Polygons)
	}
	if p.Vertices()[0] != (dvec3.T{52, 13, 0}) {
		t.Errorf("vertex mismatch: got %v, expected [52 13 0]", p.Vertices()[0])
	}
	if child.SRSName() != srs.CRS84 {
		t.Errorf("child SRS mismatch: got %q, expected %q", child.SRSName(), srs.CRS84)
	}
	if parent.SRSName() != "" {
		t.Errorf("parent SRS mismatch: got %q, expected none", parent.SRSName())
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped count mismatch: got %d, expected 1", stats.Skipped)
	}
}
