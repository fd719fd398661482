package citygml

import (
	"strings"
	"testing"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// sampleDocument holds two buildings in EPSG:4326 (latitude first) and one
// building without geometry.
const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<core:CityModel gml:id="berlin"
	xmlns:core="http://www.opengis.net/citygml/2.0"
	xmlns:bldg="http://www.opengis.net/citygml/building/2.0"
	xmlns:gen="http://www.opengis.net/citygml/generics/2.0"
	xmlns:gml="http://www.opengis.net/gml">
<gml:boundedBy><gml:Envelope srsName="urn:ogc:def:crs:EPSG::4326" srsDimension="3">
<gml:lowerCorner>52.5 13.4 0</gml:lowerCorner><gml:upperCorner>52.502 13.402 10</gml:upperCorner>
</gml:Envelope></gml:boundedBy>
<core:cityObjectMember><bldg:Building gml:id="b1">
<gen:stringAttribute name="usage"><gen:value>residential</gen:value></gen:stringAttribute>
<gen:doubleAttribute name="roofHeight"><gen:value>10.5</gen:value></gen:doubleAttribute>
<bldg:lod2MultiSurface><gml:MultiSurface>
<gml:surfaceMember><gml:Polygon gml:id="b1_roof"><gml:exterior><gml:LinearRing>
<gml:posList srsDimension="3">52.5 13.4 10 52.5 13.401 10 52.501 13.401 10 52.501 13.4 10 52.5 13.4 10</gml:posList>
</gml:LinearRing></gml:exterior></gml:Polygon></gml:surfaceMember>
<gml:surfaceMember><gml:Polygon gml:id="b1_ground"><gml:exterior><gml:LinearRing>
<gml:posList srsDimension="3">52.5 13.4 0 52.501 13.4 0 52.501 13.401 0 52.5 13.401 0 52.5 13.4 0</gml:posList>
</gml:LinearRing></gml:exterior></gml:Polygon></gml:surfaceMember>
</gml:MultiSurface></bldg:lod2MultiSurface>
</bldg:Building></core:cityObjectMember>
<core:cityObjectMember><bldg:Building gml:id="b2">
<bldg:lod1MultiSurface><gml:MultiSurface>
<gml:surfaceMember><gml:Polygon gml:id="b2_roof"><gml:exterior><gml:LinearRing>
<gml:posList srsDimension="3">52.501 13.401 5 52.501 13.402 5 52.502 13.402 5 52.502 13.401 5 52.501 13.401 5</gml:posList>
</gml:LinearRing></gml:exterior></gml:Polygon></gml:surfaceMember>
</gml:MultiSurface></bldg:lod1MultiSurface>
</bldg:Building></core:cityObjectMember>
<core:cityObjectMember><bldg:Building gml:id="planned"/></core:cityObjectMember>
</core:CityModel>`

func loadSample(t *testing.T) *citymodel.CityModel {
	t.Helper()
	model, err := LoadReader(strings.NewReader(sampleDocument), "sample.gml", DefaultParserParams(), citylog.Discard())
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	return model
}

func TestLoadReader(t *testing.T) {
	model := loadSample(t)

	if got := len(model.RootObjects()); got != 3 {
		t.Fatalf("root object count mismatch: got %d, expected 3", got)
	}
	if model.SRSName() == "" {
		t.Errorf("model SRS missing")
	}

	b1 := model.ObjectByID("b1")
	if b1 == nil {
		t.Fatalf("b1 missing")
	}
	if got := b1.Attribute("usage"); got != "residential" {
		t.Errorf("attribute mismatch: got %q, expected %q", got, "residential")
	}
	if !model.ObjectByID("planned").IsEmpty() {
		t.Errorf("expected planned building to be empty")
	}
}

func TestLoadReader_Prune(t *testing.T) {
	params := DefaultParserParams()
	params.PruneEmptyObjects = true

	model, err := LoadReader(strings.NewReader(sampleDocument), "sample.gml", params, nil)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if model.ObjectByID("planned") != nil {
		t.Errorf("expected planned building to be pruned")
	}
	if model.ObjectByID("b2") == nil {
		t.Errorf("expected b2 to be kept")
	}
}

func TestLoadReader_Malformed(t *testing.T) {
	_, err := LoadReader(strings.NewReader("<core:CityModel"), "broken.gml", DefaultParserParams(), nil)
	if err == nil {
		t.Fatalf("expected error for malformed document")
	}
	if !strings.Contains(err.Error(), "broken.gml") {
		t.Errorf("error should name the document: %v", err)
	}
}
