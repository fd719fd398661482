package citygml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// createTile writes a real vector tile at z/x/y.pbf within baseDir holding
// count point features named prefix-N.
func createTile(t *testing.T, baseDir string, z, x, y, count int, prefix string) {
	t.Helper()
	tile := maptile.New(uint32(x), uint32(y), maptile.Zoom(z))
	center := tile.Center()

	fc := geojson.NewFeatureCollection()
	for i := 0; i < count; i++ {
		f := geojson.NewFeature(orb.Point{center.Lon(), center.Lat()})
		f.Properties["id"] = fmt.Sprintf("%s-%d", prefix, i)
		f.Properties["kind"] = "Building"
		fc.Append(f)
	}
	layers := mvt.NewLayers(map[string]*geojson.FeatureCollection{TileLayer: fc})
	layers.ProjectToTile(tile)
	data, err := mvt.Marshal(layers)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(baseDir, TileCoord{z, x, y}.Path())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func featureCount(t *testing.T, path string) int {
	t.Helper()
	layers, err := ReadTile(path)
	if err != nil {
		t.Fatalf("ReadTile failed: %v", err)
	}
	n := 0
	for _, l := range layers {
		n += len(l.Features)
	}
	return n
}

func TestParseTilePath(t *testing.T) {
	testCases := []struct {
		name     string
		rel      string
		expected TileCoord
		ok       bool
	}{
		{name: "valid", rel: "15/17602/10745.pbf", expected: TileCoord{15, 17602, 10745}, ok: true},
		{name: "wrong extension", rel: "15/17602/10745.json", ok: false},
		{name: "wrong depth", rel: "extra/15/17602/10745.pbf", ok: false},
		{name: "non-numeric zoom", rel: "abc/1/2.pbf", ok: false},
		{name: "non-numeric x", rel: "5/abc/2.pbf", ok: false},
		{name: "non-numeric y", rel: "5/1/abc.pbf", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTilePath(tc.rel)
			if ok != tc.ok || got != tc.expected {
				t.Errorf("parse mismatch: got (%v, %v), expected (%v, %v)", got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestGetTileCoords(t *testing.T) {
	dir := t.TempDir()
	createTile(t, dir, 5, 10, 20, 1, "a")
	createTile(t, dir, 7, 30, 40, 1, "a")
	createTile(t, dir, 16, 100, 200, 1, "a")

	os.WriteFile(filepath.Join(dir, "5", "10", "20.json"), []byte("{}"), 0644)
	os.MkdirAll(filepath.Join(dir, "extra"), 0755)
	os.WriteFile(filepath.Join(dir, "extra", "file.pbf"), []byte("x"), 0644)

	coords, err := GetTileCoords(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(coords) != 3 {
		t.Fatalf("coord count mismatch: got %d, expected 3", len(coords))
	}
	for _, c := range []TileCoord{{5, 10, 20}, {7, 30, 40}, {16, 100, 200}} {
		if !coords[c] {
			t.Errorf("expected coord %v to be present", c)
		}
	}

	sorted := sortedTileCoords(coords)
	if sorted[0] != (TileCoord{5, 10, 20}) || sorted[2] != (TileCoord{16, 100, 200}) {
		t.Errorf("sort order mismatch: got %v", sorted)
	}
}

func TestGenerateTiles(t *testing.T) {
	fc, err := NewIndexer(15, "").BuildFeatures(context.Background(), loadSample(t), "sample.gml", ExportOptions{})
	if err != nil {
		t.Fatalf("BuildFeatures failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "tiles")
	// stale tiles are removed first
	createTile(t, dir, 3, 1, 1, 1, "stale")

	count, size, err := GenerateTiles(context.Background(), fc, dir, &GenerateTilesOptions{MinZoom: 12, MaxZoom: 14})
	if err != nil {
		t.Fatalf("GenerateTiles failed: %v", err)
	}
	if count == 0 || size == 0 {
		t.Fatalf("expected tiles to be written, got %d tiles of %d bytes", count, size)
	}
	if _, err := os.Stat(filepath.Join(dir, "3", "1", "1.pbf")); !os.IsNotExist(err) {
		t.Errorf("stale tile should have been removed")
	}

	meta, err := GetTileMetadata(dir)
	if err != nil {
		t.Fatal(err)
	}
	if meta.MinZoom != 12 || meta.MaxZoom != 14 {
		t.Errorf("zoom range mismatch: got %d-%d, expected 12-14", meta.MinZoom, meta.MaxZoom)
	}
	if meta.TilesCount != count || meta.TotalSize != size {
		t.Errorf("metadata mismatch: got %d tiles of %d bytes, expected %d of %d", meta.TilesCount, meta.TotalSize, count, size)
	}

	// both buildings lie within one zoom 12 tile
	center := maptile.At(orb.Point{13.401, 52.501}, 12)
	path := filepath.Join(dir, TileCoord{12, int(center.X), int(center.Y)}.Path())
	layers, err := ReadTile(path)
	if err != nil {
		t.Fatalf("ReadTile failed: %v", err)
	}
	if len(layers) != 1 || layers[0].Name != TileLayer {
		t.Fatalf("layers mismatch: got %d layers", len(layers))
	}
	ids := make(map[string]bool)
	for _, f := range layers[0].Features {
		ids[fmt.Sprint(f.Properties["id"])] = true
	}
	if !ids["b1"] || !ids["b2"] {
		t.Errorf("tile features mismatch: got %v, expected b1 and b2", ids)
	}
}

func TestGenerateTiles_InvalidRange(t *testing.T) {
	_, _, err := GenerateTiles(context.Background(), geojson.NewFeatureCollection(), t.TempDir(), &GenerateTilesOptions{MinZoom: 10, MaxZoom: 5})
	if err == nil {
		t.Fatalf("expected error for inverted zoom range")
	}
}

func TestMergeTiles(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged")

	createTile(t, a, 14, 8801, 5373, 2, "a")
	createTile(t, a, 14, 8802, 5373, 1, "a")
	createTile(t, b, 14, 8801, 5373, 3, "b")

	meta, err := MergeTiles([]string{a, b}, out)
	if err != nil {
		t.Fatalf("MergeTiles failed: %v", err)
	}
	if meta.TilesCount != 2 {
		t.Errorf("tile count mismatch: got %d, expected 2", meta.TilesCount)
	}

	shared := filepath.Join(out, TileCoord{14, 8801, 5373}.Path())
	if got := featureCount(t, shared); got != 5 {
		t.Errorf("merged feature count mismatch: got %d, expected 5", got)
	}
	single := filepath.Join(out, TileCoord{14, 8802, 5373}.Path())
	if got := featureCount(t, single); got != 1 {
		t.Errorf("copied feature count mismatch: got %d, expected 1", got)
	}

	if _, err := MergeTiles(nil, out); err == nil {
		t.Errorf("expected error without inputs")
	}
}

func TestCountTilesAndSize(t *testing.T) {
	dir := t.TempDir()
	createTile(t, dir, 5, 10, 20, 1, "a")
	createTile(t, dir, 7, 30, 40, 1, "a")
	os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{}"), 0644)

	count, err := countTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("tile count mismatch: got %d, expected 2", count)
	}

	size, err := getDirectorySize(dir)
	if err != nil {
		t.Fatal(err)
	}
	tileA, _ := os.Stat(filepath.Join(dir, "5", "10", "20.pbf"))
	tileB, _ := os.Stat(filepath.Join(dir, "7", "30", "40.pbf"))
	if expected := tileA.Size() + tileB.Size() + 2; size != expected {
		t.Errorf("size mismatch: got %d, expected %d", size, expected)
	}
}

func TestRemoveDirectoryContents(t *testing.T) {
	dir := t.TempDir()
	createTile(t, dir, 5, 10, 20, 1, "a")
	os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0644)

	if err := removeDirectoryContents(dir); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != ".DS_Store" {
			t.Errorf("unexpected entry remaining: %s", e.Name())
		}
	}

	if err := removeDirectoryContents(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("expected no error for missing dir, got %v", err)
	}
}
