package citymodel

import (
	"testing"
)

func TestMaskAlgebra(t *testing.T) {
	a := Building | BuildingPart | WallSurface
	b := WallSurface | RoofSurface

	testCases := []struct {
		name     string
		mask     CityObjectsType
		kind     CityObjectsType
		expected bool
	}{
		{name: "or keeps a", mask: a | b, kind: Building, expected: true},
		{name: "or keeps b", mask: a | b, kind: RoofSurface, expected: true},
		{name: "and keeps both", mask: a & b, kind: WallSurface, expected: true},
		{name: "and drops a only", mask: a & b, kind: Building, expected: false},
		{name: "and drops b only", mask: a & b, kind: RoofSurface, expected: false},
		{name: "not complements", mask: a.Not(), kind: Road, expected: true},
		{name: "not removes", mask: a.Not(), kind: Building, expected: false},
		{name: "xor self is empty", mask: a ^ a, kind: Building, expected: false},
		{name: "all keeps everything", mask: AllCityObjects, kind: UnknownCityObject, expected: true},
		{name: "zero kind never matches", mask: AllCityObjects, kind: 0, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mask.Has(tc.kind); got != tc.expected {
				t.Errorf("Has(%s) mismatch: got %v, expected %v", tc.kind, got, tc.expected)
			}
		})
	}

	if a^a != 0 {
		t.Errorf("A^A mismatch: got %s, expected None", a^a)
	}
	if a.Not().Not() != a {
		t.Errorf("double complement mismatch: got %s, expected %s", a.Not().Not(), a)
	}
	if a|a.Not() != AllCityObjects {
		t.Errorf("A|~A mismatch: got %s, expected All", a|a.Not())
	}
}

func TestKindsAreDisjointBits(t *testing.T) {
	seen := CityObjectsType(0)
	for kind := range kindNames {
		if kind&seen != 0 {
			t.Errorf("kind %s overlaps another kind", kind)
		}
		seen |= kind
	}
	if seen != AllCityObjects {
		t.Errorf("kind union mismatch: got %x, expected %x", uint64(seen), uint64(AllCityObjects))
	}
	if got := len(AllCityObjects.Kinds()); got != len(kindNames) {
		t.Errorf("kind count mismatch: got %d, expected %d", got, len(kindNames))
	}
}

func TestParseObjectsMask(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected CityObjectsType
		wantErr  bool
	}{
		{name: "single kind", input: "Building", expected: Building},
		{name: "case insensitive", input: "building | roofsurface", expected: Building | RoofSurface},
		{name: "all", input: "All", expected: AllCityObjects},
		{name: "complement", input: "~WallSurface", expected: WallSurface.Not()},
		{name: "all minus", input: "All & ~(WallSurface | RoofSurface)", expected: AllCityObjects &^ (WallSurface | RoofSurface)},
		{name: "xor", input: "Building ^ Building", expected: 0},
		{name: "precedence", input: "Building | Road & Track", expected: Building},
		{name: "hex literal", input: "0x3", expected: GenericCityObject | Building},
		{name: "decimal literal", input: "2", expected: Building},
		{name: "unknown kind", input: "Spaceship", wantErr: true},
		{name: "dangling operator", input: "Building |", wantErr: true},
		{name: "unbalanced", input: "(Building", wantErr: true},
		{name: "trailing token", input: "Building Road", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseObjectsMask(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %s", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseObjectsMask(%q) failed: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("mask mismatch: got %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestDefaultColor(t *testing.T) {
	testCases := []struct {
		name     string
		kind     CityObjectsType
		class    string
		expected Color
	}{
		{name: "roof", kind: RoofSurface, expected: colorRoof},
		{name: "land use settlement", kind: LandUse, class: "1010", expected: landUseColors['1']},
		{name: "land use water", kind: LandUse, class: "4000", expected: landUseColors['4']},
		{name: "land use unknown class", kind: LandUse, class: "9", expected: Color{0.1, 0.1, 0.1, 1}},
		{name: "unknown", kind: UnknownCityObject, expected: colorUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultColor(tc.kind, tc.class); got != tc.expected {
				t.Errorf("color mismatch: got %v, expected %v", got, tc.expected)
			}
		})
	}
}
