package srs

import (
	"errors"
	"math"
	"testing"

	dvec2 "github.com/flywave/go3d/float64/vec2"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "short epsg", input: "EPSG:4326", expected: EPSG4326},
		{name: "lower case", input: "epsg:25832", expected: "EPSG:25832"},
		{name: "urn without version", input: "urn:ogc:def:crs:EPSG::4326", expected: EPSG4326},
		{name: "urn with version", input: "urn:ogc:def:crs:EPSG:6.12:25833", expected: "EPSG:25833"},
		{name: "http uri", input: "http://www.opengis.net/def/crs/EPSG/0/3857", expected: EPSG3857},
		{name: "gml srs uri", input: "http://www.opengis.net/gml/srs/epsg.xml#4326", expected: EPSG4326},
		{name: "google alias", input: "EPSG:900913", expected: EPSG3857},
		{name: "crs84 urn", input: "urn:ogc:def:crs:OGC:1.3:CRS84", expected: CRS84},
		{name: "crs84 short", input: "CRS:84", expected: CRS84},
		{name: "unknown", input: " LocalGrid ", expected: "LocalGrid"},
		{name: "empty", input: "  ", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) mismatch: got %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	tr := NewTransformation("urn:ogc:def:crs:EPSG::25832", "EPSG:25832")
	if !tr.Valid() {
		t.Fatalf("identity transformation is invalid: %v", tr.Err())
	}
	p := dvec3.T{500000, 5400000, 42}
	tr.Transform(&p)
	if p != (dvec3.T{500000, 5400000, 42}) {
		t.Errorf("identity changed the position: got %v", p)
	}
}

func TestInvalidTransformation(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		dst  string
	}{
		{name: "unknown source", src: "EPSG:25832", dst: EPSG4326},
		{name: "unknown destination", src: EPSG4326, dst: "EPSG:31467"},
		{name: "empty source", src: "", dst: EPSG4326},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransformation(tc.src, tc.dst)
			if tr.Valid() {
				t.Fatalf("expected an invalid transformation")
			}
			if !errors.Is(tr.Err(), ErrInvalidTransformation) {
				t.Errorf("error mismatch: got %v, expected %v", tr.Err(), ErrInvalidTransformation)
			}
			p := dvec3.T{1, 2, 3}
			tr.Transform(&p)
			if p != (dvec3.T{1, 2, 3}) {
				t.Errorf("invalid transformation changed the position: got %v", p)
			}
		})
	}
}

func TestAxisOrder(t *testing.T) {
	// EPSG:4326 is latitude first, CRS84 longitude first
	tr := NewTransformation("urn:ogc:def:crs:EPSG::4326", "urn:ogc:def:crs:OGC:1.3:CRS84")
	p := dvec2.T{48.1, 11.5}
	tr.Transform2D(&p)
	if p != (dvec2.T{11.5, 48.1}) {
		t.Errorf("axis swap mismatch: got %v, expected [11.5 48.1]", p)
	}
}

func TestWebMercatorRoundTrip(t *testing.T) {
	forward := NewTransformation(CRS84, EPSG3857)
	back := NewTransformation("EPSG:900913", "CRS:84")
	if !forward.Valid() || !back.Valid() {
		t.Fatalf("mercator transformations are invalid: %v, %v", forward.Err(), back.Err())
	}

	p := dvec3.T{13.4, 52.5, 34}
	forward.Transform(&p)
	// 13.4 degrees east on the spherical mercator
	if math.Abs(p[0]-1491681.58) > 1 {
		t.Errorf("mercator x mismatch: got %f, expected about 1491681.58", p[0])
	}
	if p[2] != 34 {
		t.Errorf("height mismatch: got %f, expected 34", p[2])
	}

	back.Transform(&p)
	if math.Abs(p[0]-13.4) > 1e-9 || math.Abs(p[1]-52.5) > 1e-9 {
		t.Errorf("round trip mismatch: got %v, expected [13.4 52.5 34]", p)
	}
}

func TestRegister(t *testing.T) {
	Register("EPSG:25832", EPSG4326, func(x, y float64) (float64, float64) { return y / 1000, x / 1000 })
	defer Unregister("EPSG:25832", EPSG4326)

	tr := NewTransformation("urn:ogc:def:crs:EPSG::25832", EPSG4326)
	if !tr.Valid() {
		t.Fatalf("registered transformation is invalid: %v", tr.Err())
	}
	p := dvec3.T{1000, 2000, 5}
	tr.Transform(&p)
	if p != (dvec3.T{2, 1, 5}) {
		t.Errorf("registered transformation mismatch: got %v, expected [2 1 5]", p)
	}
}
