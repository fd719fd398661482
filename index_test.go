package citygml

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// undeclaredDocument builds a model without any SRS declaration holding
// one building per corner.
func undeclaredDocument(corners []orb.Point) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<core:CityModel xmlns:core="http://www.opengis.net/citygml/2.0"
	xmlns:bldg="http://www.opengis.net/citygml/building/2.0"
	xmlns:gml="http://www.opengis.net/gml">
`)
	for i, c := range corners {
		x, y := c[0], c[1]
		fmt.Fprintf(&sb, `<core:cityObjectMember><bldg:Building gml:id="u%d"><bldg:lod1MultiSurface><gml:MultiSurface><gml:surfaceMember>
<gml:Polygon><gml:exterior><gml:LinearRing><gml:posList srsDimension="3">%g %g 0 %g %g 0 %g %g 0 %g %g 0</gml:posList></gml:LinearRing></gml:exterior></gml:Polygon>
</gml:surfaceMember></gml:MultiSurface></bldg:lod1MultiSurface></bldg:Building></core:cityObjectMember>
`, i, x, y, x+0.001, y, x+0.001, y+0.001, x, y)
	}
	sb.WriteString(`</core:CityModel>`)
	return sb.String()
}

func loadDocument(t *testing.T, doc string) *citymodel.CityModel {
	t.Helper()
	model, err := LoadReader(strings.NewReader(doc), "test.gml", DefaultParserParams(), citylog.Discard())
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	return model
}

func TestBuildRecords(t *testing.T) {
	model := loadSample(t)

	records, err := NewIndexer(15, "").BuildRecords(context.Background(), model, "sample.gml")
	if err != nil {
		t.Fatalf("BuildRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count mismatch: got %d, expected 2", len(records))
	}

	byID := make(map[string]ObjectRecord)
	for _, r := range records {
		byID[r.ObjectID] = r
	}

	b1, ok := byID["b1"]
	if !ok {
		t.Fatalf("record of b1 missing")
	}
	testCases := []struct {
		name     string
		got      float64
		expected float64
	}{
		{name: "min lat", got: b1.MinLat, expected: 52.5},
		{name: "max lat", got: b1.MaxLat, expected: 52.501},
		{name: "min lng", got: b1.MinLng, expected: 13.4},
		{name: "max lng", got: b1.MaxLng, expected: 13.401},
		{name: "min height", got: b1.MinHeight, expected: 0},
		{name: "max height", got: b1.MaxHeight, expected: 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("%s mismatch: got %v, expected %v", tc.name, tc.got, tc.expected)
			}
		})
	}

	if b1.Kind != "Building" || b1.Source != "sample.gml" {
		t.Errorf("record identity mismatch: got kind %q source %q", b1.Kind, b1.Source)
	}
	if b1.LOD != 2 || b1.Polygons != 2 {
		t.Errorf("record geometry mismatch: got LOD %d with %d polygons, expected LOD 2 with 2", b1.LOD, b1.Polygons)
	}
	tile := maptile.At(b1.Bound().Center(), 15)
	if expected := fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y); b1.Tile != expected {
		t.Errorf("tile mismatch: got %q, expected %q", b1.Tile, expected)
	}

	if b2 := byID["b2"]; b2.LOD != 1 || b2.MinHeight != 5 || b2.MaxHeight != 5 {
		t.Errorf("b2 mismatch: got LOD %d heights %v-%v", b2.LOD, b2.MinHeight, b2.MaxHeight)
	}
	if _, ok := byID["planned"]; ok {
		t.Errorf("building without geometry should not be indexed")
	}
}

func TestBuildRecords_SourceSRS(t *testing.T) {
	doc := undeclaredDocument([]orb.Point{{13.4, 52.5}})

	testCases := []struct {
		name     string
		srcSRS   string
		expected int
	}{
		{name: "no SRS skips objects", srcSRS: "", expected: 0},
		{name: "unknown SRS skips objects", srcSRS: "EPSG:999999", expected: 0},
		{name: "fallback SRS", srcSRS: "urn:ogc:def:crs:OGC:1.3:CRS84", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model := loadDocument(t, doc)
			records, err := NewIndexer(15, tc.srcSRS).BuildRecords(context.Background(), model, "test.gml")
			if err != nil {
				t.Fatalf("BuildRecords failed: %v", err)
			}
			if len(records) != tc.expected {
				t.Fatalf("record count mismatch: got %d, expected %d", len(records), tc.expected)
			}
			if tc.expected == 1 && (records[0].MinLng != 13.4 || records[0].MinLat != 52.5) {
				t.Errorf("corner mismatch: got %v/%v, expected 13.4/52.5", records[0].MinLng, records[0].MinLat)
			}
		})
	}
}

func TestBuildRecords_OutsideGeographicRange(t *testing.T) {
	few := make([]orb.Point, 3)
	many := make([]orb.Point, maxInvalidRecords+1)
	for i := range many {
		many[i] = orb.Point{500000 + float64(i)*10, 5800000}
	}
	for i := range few {
		few[i] = many[i]
	}

	testCases := []struct {
		name      string
		corners   []orb.Point
		expectErr bool
	}{
		{name: "few invalid objects are skipped", corners: few},
		{name: "many invalid objects fail", corners: many, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model := loadDocument(t, undeclaredDocument(tc.corners))
			records, err := NewIndexer(15, "OGC:CRS84").BuildRecords(context.Background(), model, "utm.gml")
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error for projected coordinates")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildRecords failed: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("record count mismatch: got %d, expected 0", len(records))
			}
		})
	}
}

func TestBuildRecords_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIndexer(15, "").BuildRecords(ctx, loadSample(t), "sample.gml")
	if err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestSaveLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	records := []ObjectRecord{
		{ObjectID: "b1", Source: "a.gml", Kind: "Building", LOD: 2, MinLat: 52.5, MaxLat: 52.501, MinLng: 13.4, MaxLng: 13.401, MaxHeight: 10, Polygons: 2, Tile: "15/17602/10745"},
		{ObjectID: "r1", Source: "a.gml", Kind: "Road", LOD: 1, Polygons: 1},
	}

	if err := SaveRecords(path, records); err != nil {
		t.Fatalf("SaveRecords failed: %v", err)
	}
	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("record count mismatch: got %d, expected %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d mismatch: got %+v, expected %+v", i, loaded[i], records[i])
		}
	}

	if _, err := LoadRecords(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestObjectRecordBound(t *testing.T) {
	r := ObjectRecord{MinLat: 1, MaxLat: 2, MinLng: 3, MaxLng: 4}
	b := r.Bound()
	if b.Min != (orb.Point{3, 1}) || b.Max != (orb.Point{4, 2}) {
		t.Errorf("bound mismatch: got %v, expected [3 1]-[4 2]", b)
	}
}
