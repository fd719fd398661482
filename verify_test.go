package citygml

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyModel(t *testing.T) {
	report := VerifyModel(loadSample(t), "sample.gml")

	if !report.OK {
		t.Errorf("expected OK=true, degenerate polygons: %v", report.DegeneratePolygons)
	}
	if report.Objects != 3 {
		t.Errorf("object count mismatch: got %d, expected 3", report.Objects)
	}
	if report.Polygons != 3 {
		t.Errorf("polygon count mismatch: got %d, expected 3", report.Polygons)
	}
	if report.Triangles != 6 {
		t.Errorf("triangle count mismatch: got %d, expected 6", report.Triangles)
	}
	if report.ObjectsByKind["Building"] != 3 {
		t.Errorf("building count mismatch: got %d, expected 3", report.ObjectsByKind["Building"])
	}
	if len(report.EmptyObjects) != 1 || report.EmptyObjects[0] != "planned" {
		t.Errorf("empty objects mismatch: got %v, expected [planned]", report.EmptyObjects)
	}
	if report.InvalidEnvelope {
		t.Errorf("expected the model envelope to be valid")
	}
}

func TestVerifyModel_DegeneratePolygon(t *testing.T) {
	// all vertices on one line
	doc := strings.Replace(sampleDocument,
		"52.501 13.401 5 52.501 13.402 5 52.502 13.402 5 52.502 13.401 5 52.501 13.401 5",
		"52.501 13.401 5 52.501 13.402 5 52.501 13.403 5 52.501 13.401 5", 1)

	report := VerifyModel(loadDocument(t, doc), "degenerate.gml")

	if report.OK {
		t.Errorf("expected OK=false for a degenerate polygon")
	}
	if len(report.DegeneratePolygons) != 1 || report.DegeneratePolygons[0] != "b2_roof" {
		t.Errorf("degenerate polygons mismatch: got %v, expected [b2_roof]", report.DegeneratePolygons)
	}
}

func TestVerifyTileDirectory(t *testing.T) {
	testCases := []struct {
		name       string
		zooms      []int
		corrupt    bool
		ok         bool
		missing    []int
		unreadable int
	}{
		{name: "all zooms present", zooms: []int{5, 6, 7, 8}, ok: true},
		{name: "missing middle zoom", zooms: []int{5, 7, 8}, missing: []int{6}},
		{name: "missing high zooms", zooms: []int{5, 6}, missing: []int{7, 8}},
		{name: "empty directory", missing: []int{5, 6, 7, 8}},
		{name: "corrupt tile", zooms: []int{5, 6, 7, 8}, corrupt: true, unreadable: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, z := range tc.zooms {
				createTile(t, dir, z, 1<<z/2, 1<<z/2, 1, "a")
			}
			if tc.corrupt {
				p := filepath.Join(dir, "9", "1", "1.pbf")
				os.MkdirAll(filepath.Dir(p), 0755)
				os.WriteFile(p, []byte{0xff, 0xff, 0xff}, 0644)
			}

			report, err := VerifyTileDirectory(dir, 5, 8)
			if err != nil {
				t.Fatal(err)
			}
			if report.OK != tc.ok {
				t.Errorf("OK mismatch: got %v, expected %v", report.OK, tc.ok)
			}
			if len(report.MissingZooms) != len(tc.missing) {
				t.Fatalf("missing zooms mismatch: got %v, expected %v", report.MissingZooms, tc.missing)
			}
			for i, z := range tc.missing {
				if report.MissingZooms[i] != z {
					t.Errorf("missing zoom %d mismatch: got %d, expected %d", i, report.MissingZooms[i], z)
				}
			}
			if len(report.Unreadable) != tc.unreadable {
				t.Errorf("unreadable mismatch: got %v, expected %d", report.Unreadable, tc.unreadable)
			}
		})
	}
}

func TestVerifyTileDirectory_PerZoomStats(t *testing.T) {
	dir := t.TempDir()
	createTile(t, dir, 10, 100, 200, 1, "a")
	createTile(t, dir, 10, 105, 205, 1, "a")
	createTile(t, dir, 10, 102, 203, 1, "a")

	report, err := VerifyTileDirectory(dir, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	stats, ok := report.ZoomStats[10]
	if !ok {
		t.Fatal("expected stats for zoom 10")
	}
	if stats.TileCount != 3 {
		t.Errorf("tile count mismatch: got %d, expected 3", stats.TileCount)
	}
	if stats.MinX != 100 || stats.MaxX != 105 {
		t.Errorf("x range mismatch: got %d-%d, expected 100-105", stats.MinX, stats.MaxX)
	}
	if stats.MinY != 200 || stats.MaxY != 205 {
		t.Errorf("y range mismatch: got %d-%d, expected 200-205", stats.MinY, stats.MaxY)
	}
}

func TestVerifyMergeIntegrity(t *testing.T) {
	testCases := []struct {
		name     string
		merged   map[TileCoord]int
		ok       bool
		missing  int
		warnings int
	}{
		{
			name:   "all present",
			merged: map[TileCoord]int{{8, 10, 20}: 3, {9, 20, 40}: 2},
			ok:     true,
		},
		{
			name:    "missing tile",
			merged:  map[TileCoord]int{{8, 10, 20}: 2},
			missing: 1,
		},
		{
			name:     "fewer features",
			merged:   map[TileCoord]int{{8, 10, 20}: 1, {9, 20, 40}: 1},
			ok:       true,
			warnings: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sourceDir := t.TempDir()
			mergedDir := t.TempDir()
			createTile(t, sourceDir, 8, 10, 20, 2, "src")
			createTile(t, sourceDir, 9, 20, 40, 1, "src")
			for c, n := range tc.merged {
				createTile(t, mergedDir, c.Z, c.X, c.Y, n, "merged")
			}

			report, err := VerifyMergeIntegrity(sourceDir, mergedDir)
			if err != nil {
				t.Fatal(err)
			}
			if report.OK != tc.ok {
				t.Errorf("OK mismatch: got %v, expected %v", report.OK, tc.ok)
			}
			if len(report.MissingTiles) != tc.missing {
				t.Errorf("missing tiles mismatch: got %v, expected %d", report.MissingTiles, tc.missing)
			}
			if len(report.Warnings) != tc.warnings {
				t.Errorf("warnings mismatch: got %v, expected %d", report.Warnings, tc.warnings)
			}
		})
	}
}

// fakeHeader serves HeadObject from a map of key sizes.
type fakeHeader struct {
	sizes map[string]int64
	fail  map[string]bool
}

func (f *fakeHeader) HeadObject(_ context.Context, key string) (int64, bool, error) {
	if f.fail[key] {
		return 0, false, errors.New("connection reset")
	}
	size, ok := f.sizes[key]
	return size, ok, nil
}

func TestVerifyUpload(t *testing.T) {
	dir := t.TempDir()
	createTile(t, dir, 12, 2200, 1343, 1, "a")
	createTile(t, dir, 13, 4400, 2686, 2, "a")

	local := func(tc TileCoord) int64 {
		info, err := os.Stat(filepath.Join(dir, tc.Path()))
		if err != nil {
			t.Fatal(err)
		}
		return info.Size()
	}
	keyOf := func(tc TileCoord) string {
		return path.Join("exports/sample/tiles", filepath.ToSlash(tc.Path()))
	}
	a, b := TileCoord{12, 2200, 1343}, TileCoord{13, 4400, 2686}

	testCases := []struct {
		name     string
		header   *fakeHeader
		ok       bool
		checked  int
		missing  int
		mismatch int
	}{
		{
			name:    "all uploaded",
			header:  &fakeHeader{sizes: map[string]int64{keyOf(a): local(a), keyOf(b): local(b)}},
			ok:      true,
			checked: 2,
		},
		{
			name:    "missing tile",
			header:  &fakeHeader{sizes: map[string]int64{keyOf(a): local(a)}},
			checked: 2,
			missing: 1,
		},
		{
			name:     "size mismatch",
			header:   &fakeHeader{sizes: map[string]int64{keyOf(a): local(a), keyOf(b): local(b) + 1}},
			checked:  2,
			mismatch: 1,
		},
		{
			name:    "errors are not counted",
			header:  &fakeHeader{sizes: map[string]int64{keyOf(a): local(a)}, fail: map[string]bool{keyOf(b): true}},
			ok:      true,
			checked: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := VerifyUpload(context.Background(), tc.header, dir, "exports/sample/tiles", 5)
			if err != nil {
				t.Fatal(err)
			}
			if report.OK != tc.ok {
				t.Errorf("OK mismatch: got %v, expected %v", report.OK, tc.ok)
			}
			if report.Checked != tc.checked {
				t.Errorf("checked mismatch: got %d, expected %d", report.Checked, tc.checked)
			}
			if len(report.Missing) != tc.missing {
				t.Errorf("missing mismatch: got %v, expected %d", report.Missing, tc.missing)
			}
			if len(report.SizeMismatch) != tc.mismatch {
				t.Errorf("size mismatch count: got %v, expected %d", report.SizeMismatch, tc.mismatch)
			}
		})
	}
}
