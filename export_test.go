package citygml

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func TestBuildFeatures(t *testing.T) {
	model := loadSample(t)
	ix := NewIndexer(15, "")

	testCases := []struct {
		name         string
		opts         ExportOptions
		geometryType string
		attributes   bool
	}{
		{name: "extents", opts: ExportOptions{}, geometryType: "Polygon"},
		{name: "surfaces with attributes", opts: ExportOptions{Surfaces: true, Attributes: true}, geometryType: "MultiPolygon", attributes: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fc, err := ix.BuildFeatures(context.Background(), model, "sample.gml", tc.opts)
			if err != nil {
				t.Fatalf("BuildFeatures failed: %v", err)
			}
			if len(fc.Features) != 2 {
				t.Fatalf("feature count mismatch: got %d, expected 2", len(fc.Features))
			}

			var b1Found bool
			for _, f := range fc.Features {
				if got := f.Geometry.GeoJSONType(); got != tc.geometryType {
					t.Errorf("geometry type mismatch: got %s, expected %s", got, tc.geometryType)
				}
				if f.Properties.MustString("id") != f.ID {
					t.Errorf("id mismatch: got %v, expected %v", f.Properties["id"], f.ID)
				}
				if f.Properties.MustString("kind") != "Building" {
					t.Errorf("kind mismatch: got %v, expected Building", f.Properties["kind"])
				}
				if f.ID != "b1" {
					continue
				}
				b1Found = true

				b := f.Geometry.Bound()
				expected := orb.Bound{Min: orb.Point{13.4, 52.5}, Max: orb.Point{13.401, 52.501}}
				if !b.Equal(expected) {
					t.Errorf("bound mismatch: got %v, expected %v", b, expected)
				}
				if mp, ok := f.Geometry.(orb.MultiPolygon); ok && len(mp) != 4 {
					t.Errorf("triangle count mismatch: got %d, expected 4", len(mp))
				}
				if h := f.Properties.MustFloat64("maxHeight"); h != 10 {
					t.Errorf("max height mismatch: got %v, expected 10", h)
				}

				_, hasUsage := f.Properties["usage"]
				if hasUsage != tc.attributes {
					t.Errorf("usage attribute presence mismatch: got %v, expected %v", hasUsage, tc.attributes)
				}
				if tc.attributes {
					if v := f.Properties.MustFloat64("roofHeight", -1); v != 10.5 {
						t.Errorf("numeric attribute mismatch: got %v, expected 10.5", v)
					}
					if v := f.Properties.MustString("usage", ""); v != "residential" {
						t.Errorf("string attribute mismatch: got %q, expected %q", v, "residential")
					}
				}
			}
			if !b1Found {
				t.Errorf("feature of b1 missing")
			}
		})
	}
}

func TestWriteReadGeoJSON(t *testing.T) {
	fc, err := NewIndexer(15, "").BuildFeatures(context.Background(), loadSample(t), "sample.gml", ExportOptions{Attributes: true})
	if err != nil {
		t.Fatalf("BuildFeatures failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "objects.geojson")
	size, err := WriteGeoJSON(path, fc)
	if err != nil {
		t.Fatalf("WriteGeoJSON failed: %v", err)
	}
	if size <= 0 {
		t.Errorf("size mismatch: got %d, expected > 0", size)
	}

	read, err := ReadGeoJSON(path)
	if err != nil {
		t.Fatalf("ReadGeoJSON failed: %v", err)
	}
	if len(read.Features) != len(fc.Features) {
		t.Fatalf("feature count mismatch: got %d, expected %d", len(read.Features), len(fc.Features))
	}
	for i, f := range read.Features {
		if f.Properties.MustString("id") != fc.Features[i].Properties.MustString("id") {
			t.Errorf("feature %d id mismatch: got %v, expected %v", i, f.Properties["id"], fc.Features[i].Properties["id"])
		}
	}
}
