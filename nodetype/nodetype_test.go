package nodetype

import (
	"sync"
	"testing"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Type
	}{
		{name: "qualified", input: "bldg:Building", expected: BldgBuilding},
		{name: "case insensitive", input: "BLDG:building", expected: BldgBuilding},
		{name: "bare local name", input: "WallSurface", expected: BldgWallSurface},
		{name: "unknown prefix falls back", input: "foo:Polygon", expected: GmlPolygon},
		{name: "gml pos list", input: "gml:posList", expected: GmlPosList},
		{name: "feature and property share type", input: "tran:trafficArea", expected: TranTrafficArea},
		{name: "appearance property", input: "app:appearance", expected: AppAppearance},
		{name: "lod property", input: "bldg:lod2MultiSurface", expected: MustLookup("bldg:lod2MultiSurface")},
		{name: "bridge wall is distinct", input: "brid:WallSurface", expected: BridWallSurface},
		{name: "unknown tag", input: "bldg:Spaceship", expected: Invalid},
		{name: "empty", input: "", expected: Invalid},
		{name: "empty local", input: "gml:", expected: Invalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Lookup(tc.input)
			if got != tc.expected {
				t.Errorf("Lookup(%q) mismatch: got %s, expected %s", tc.input, got, tc.expected)
			}
		})
	}
}

func TestLookupNS(t *testing.T) {
	testCases := []struct {
		name      string
		namespace string
		local     string
		expected  Type
	}{
		{name: "citygml 2.0 building", namespace: "http://www.opengis.net/citygml/building/2.0", local: "Building", expected: BldgBuilding},
		{name: "citygml 1.0 building", namespace: "http://www.opengis.net/citygml/building/1.0", local: "RoofSurface", expected: BldgRoofSurface},
		{name: "core", namespace: "http://www.opengis.net/citygml/2.0", local: "CityModel", expected: CoreCityModel},
		{name: "gml", namespace: "http://www.opengis.net/gml", local: "LinearRing", expected: GmlLinearRing},
		{name: "bridge", namespace: "http://www.opengis.net/citygml/bridge/2.0", local: "WallSurface", expected: BridWallSurface},
		{name: "xal", namespace: "urn:oasis:names:tc:ciq:xsdschema:xAL:2.0", local: "LocalityName", expected: XalLocalityName},
		{name: "ade namespace falls back to local", namespace: "http://example.com/ade", local: "Polygon", expected: GmlPolygon},
		{name: "ade element", namespace: "http://example.com/ade", local: "energyDemand", expected: Invalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := LookupNS(tc.namespace, tc.local)
			if got != tc.expected {
				t.Errorf("LookupNS mismatch: got %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestPrefixForNamespace(t *testing.T) {
	testCases := []struct {
		uri      string
		expected string
	}{
		{uri: "http://www.opengis.net/citygml/appearance/2.0", expected: PrefixApp},
		{uri: "http://www.opengis.net/citygml/relief/1.0", expected: PrefixDem},
		{uri: "http://www.opengis.net/citygml/1.0", expected: PrefixCore},
		{uri: "http://www.w3.org/1999/xlink", expected: PrefixXLink},
		{uri: "http://www.opengis.net/citygml/unknown/2.0", expected: ""},
		{uri: "", expected: ""},
	}

	for _, tc := range testCases {
		if got := PrefixForNamespace(tc.uri); got != tc.expected {
			t.Errorf("PrefixForNamespace(%q) mismatch: got %q, expected %q", tc.uri, got, tc.expected)
		}
	}
}

func TestLOD(t *testing.T) {
	testCases := []struct {
		name     string
		input    Type
		lod      int
		ok       bool
		property string
	}{
		{name: "lod0", input: MustLookup("bldg:lod0FootPrint"), lod: 0, ok: true, property: "FootPrint"},
		{name: "lod4", input: MustLookup("veg:lod4Geometry"), lod: 4, ok: true, property: "Geometry"},
		{name: "not a lod tag", input: BldgBuilding, lod: 0, ok: false, property: ""},
		{name: "dem lod element", input: DemLod, lod: 0, ok: false, property: ""},
		{name: "invalid", input: Invalid, lod: 0, ok: false, property: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lod, ok := tc.input.LOD()
			if lod != tc.lod || ok != tc.ok {
				t.Errorf("LOD mismatch: got (%d, %v), expected (%d, %v)", lod, ok, tc.lod, tc.ok)
			}
			if got := tc.input.LODProperty(); got != tc.property {
				t.Errorf("LODProperty mismatch: got %q, expected %q", got, tc.property)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	if got := BldgBuilding.Name(); got != "bldg:Building" {
		t.Errorf("Name mismatch: got %q, expected %q", got, "bldg:Building")
	}
	if got := Invalid.Name(); got != "invalid" {
		t.Errorf("Invalid name mismatch: got %q", got)
	}
	if Type(Count() + 1).Valid() {
		t.Errorf("type past the table end must be invalid")
	}
}

func TestConcurrentInit(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Type, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Init()
			results[i] = Lookup("gml:Polygon")
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != GmlPolygon {
			t.Errorf("goroutine %d: got %s, expected %s", i, got, GmlPolygon)
		}
	}
}

func TestByLocalName(t *testing.T) {
	walls := ByLocalName("wallsurface")
	if len(walls) != 3 {
		t.Fatalf("WallSurface count mismatch: got %d, expected 3", len(walls))
	}
	if walls[0] != BldgWallSurface {
		t.Errorf("first WallSurface mismatch: got %s, expected %s", walls[0], BldgWallSurface)
	}
}
