package citygml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// TileLayer is the layer name of generated vector tiles.
const TileLayer = "cityobjects"

// tileWorkers is the number of tiles encoded in parallel.
const tileWorkers = 8

// GenerateTilesOptions contains options for tile generation
type GenerateTilesOptions struct {
	MinZoom int // Minimum zoom level (default 13)
	MaxZoom int // Maximum zoom level (default 16)
}

// GenerateTiles writes a z/x/y.pbf vector tile pyramid of the features
// to tilesDir and returns the number of tiles and their total size. Old
// contents of tilesDir are removed first.
func GenerateTiles(ctx context.Context, fc *geojson.FeatureCollection, tilesDir string, opts *GenerateTilesOptions) (int, int64, error) {
	minZoom, maxZoom := 13, 16
	if opts != nil {
		if opts.MinZoom >= 0 {
			minZoom = opts.MinZoom
		}
		if opts.MaxZoom > 0 {
			maxZoom = opts.MaxZoom
		}
	}
	if maxZoom < minZoom {
		return 0, 0, fmt.Errorf("invalid zoom range %d-%d", minZoom, maxZoom)
	}

	logger := slog.With("tiles_dir", tilesDir, "features", len(fc.Features), "min_zoom", minZoom, "max_zoom", maxZoom)
	logger.Info("generating vector tiles")

	if err := removeDirectoryContents(tilesDir); err != nil {
		return 0, 0, fmt.Errorf("failed to clean tiles directory: %w", err)
	}
	if err := os.MkdirAll(tilesDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create tiles directory: %w", err)
	}

	for z := minZoom; z <= maxZoom; z++ {
		buckets := tileBuckets(fc, maptile.Zoom(z))
		logger.Debug("encoding zoom level", "zoom", z, "tiles", len(buckets))
		if err := encodeTiles(ctx, fc, buckets, tilesDir); err != nil {
			return 0, 0, err
		}
	}

	tilesCount, err := countTiles(tilesDir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count tiles: %w", err)
	}
	totalSize, err := getDirectorySize(tilesDir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to calculate directory size: %w", err)
	}

	logger.Info("tiles generated successfully",
		"tiles_count", tilesCount,
		"total_size_bytes", totalSize,
	)
	return tilesCount, totalSize, nil
}

// tileBuckets maps every tile at zoom to the indices of the features
// whose bound touches it.
func tileBuckets(fc *geojson.FeatureCollection, zoom maptile.Zoom) map[maptile.Tile][]int {
	buckets := make(map[maptile.Tile][]int)
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		topLeft := maptile.At(orb.Point{b.Min.Lon(), b.Max.Lat()}, zoom)
		bottomRight := maptile.At(orb.Point{b.Max.Lon(), b.Min.Lat()}, zoom)
		for x := topLeft.X; x <= bottomRight.X; x++ {
			for y := topLeft.Y; y <= bottomRight.Y; y++ {
				t := maptile.New(x, y, zoom)
				buckets[t] = append(buckets[t], i)
			}
		}
	}
	return buckets
}

// encodeTiles writes the buckets with a pool of workers.
func encodeTiles(ctx context.Context, fc *geojson.FeatureCollection, buckets map[maptile.Tile][]int, tilesDir string) error {
	tiles := make([]maptile.Tile, 0, len(buckets))
	for t := range buckets {
		tiles = append(tiles, t)
	}

	var wg sync.WaitGroup
	workChan := make(chan maptile.Tile, tileWorkers*2)
	errChan := make(chan error, 1)

	for i := 0; i < tileWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range workChan {
				if err := writeTile(fc, buckets[tile], tile, tilesDir); err != nil {
					select {
					case errChan <- err:
					default:
					}
					return
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, t := range tiles {
			select {
			case <-ctx.Done():
				return
			case workChan <- t:
			}
		}
	}()

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tile generation cancelled: %w", err)
	}
	return nil
}

// writeTile encodes the selected features into the tile. Geometries are
// cloned since projection works in place. Tiles left empty by clipping
// are not written.
func writeTile(fc *geojson.FeatureCollection, selected []int, tile maptile.Tile, tilesDir string) error {
	sub := geojson.NewFeatureCollection()
	for _, i := range selected {
		src := fc.Features[i]
		f := geojson.NewFeature(orb.Clone(src.Geometry))
		f.ID = src.ID
		f.Properties = src.Properties.Clone()
		sub.Append(f)
	}

	layers := mvt.NewLayers(map[string]*geojson.FeatureCollection{TileLayer: sub})
	layers.ProjectToTile(tile)
	layers.Clip(mvt.MapboxGLDefaultExtentBound)
	layers.RemoveEmpty(0, 0)
	if len(layers) == 0 || len(layers[0].Features) == 0 {
		return nil
	}

	data, err := mvt.Marshal(layers)
	if err != nil {
		return fmt.Errorf("failed to encode tile %d/%d/%d: %w", tile.Z, tile.X, tile.Y, err)
	}

	path := tilePath(tilesDir, tile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create tile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tile %s: %w", path, err)
	}
	return nil
}

func tilePath(tilesDir string, tile maptile.Tile) string {
	return filepath.Join(tilesDir,
		strconv.Itoa(int(tile.Z)), strconv.Itoa(int(tile.X)), strconv.Itoa(int(tile.Y))+".pbf")
}

// ReadTile decodes one tile file.
func ReadTile(path string) (mvt.Layers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile: %w", err)
	}
	layers, err := mvt.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal MVT: %w", err)
	}
	return layers, nil
}

// MergeTiles combines tile pyramids of several sources into outputDir.
// Tiles present in more than one input get the features of all of them
// in their layers.
func MergeTiles(inputDirs []string, outputDir string) (*TileMetadata, error) {
	logger := slog.With("output_dir", outputDir, "input_count", len(inputDirs))
	logger.Info("merging tile directories")

	if len(inputDirs) == 0 {
		return nil, fmt.Errorf("no input directories provided for merge")
	}
	if err := removeDirectoryContents(outputDir); err != nil {
		return nil, fmt.Errorf("failed to clean merged directory: %w", err)
	}

	sources := make(map[TileCoord][]string)
	for _, dir := range inputDirs {
		coords, err := GetTileCoords(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for tc := range coords {
			sources[tc] = append(sources[tc], filepath.Join(dir, tc.Path()))
		}
	}

	for tc, paths := range sources {
		merged := mvt.Layers{}
		byName := make(map[string]*mvt.Layer)
		for _, p := range paths {
			layers, err := ReadTile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			for _, l := range layers {
				if existing, ok := byName[l.Name]; ok {
					existing.Features = append(existing.Features, l.Features...)
					continue
				}
				byName[l.Name] = l
				merged = append(merged, l)
			}
		}

		data, err := mvt.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("failed to encode merged tile %s: %w", tc.Path(), err)
		}
		out := filepath.Join(outputDir, tc.Path())
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, fmt.Errorf("failed to create merged tile directory: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write merged tile: %w", err)
		}
	}

	metadata, err := GetTileMetadata(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get merged tile metadata: %w", err)
	}
	logger.Info("tiles merged successfully",
		"tiles_count", metadata.TilesCount,
		"total_size_bytes", metadata.TotalSize,
	)
	return metadata, nil
}

// countTiles counts the number of .pbf tile files in a directory
func countTiles(dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".pbf" {
			count++
		}
		return nil
	})
	return count, err
}

// getDirectorySize calculates the total size of a directory
func getDirectorySize(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// TileMetadata describes a tile directory
type TileMetadata struct {
	TilesCount int
	TotalSize  int64
	MinZoom    int
	MaxZoom    int
}

// GetTileMetadata gets metadata about the tiles
func GetTileMetadata(tilesDir string) (*TileMetadata, error) {
	coords, err := GetTileCoords(tilesDir)
	if err != nil {
		return nil, err
	}
	totalSize, err := getDirectorySize(tilesDir)
	if err != nil {
		return nil, err
	}

	meta := &TileMetadata{TilesCount: len(coords), TotalSize: totalSize, MinZoom: -1, MaxZoom: -1}
	for tc := range coords {
		if meta.MinZoom < 0 || tc.Z < meta.MinZoom {
			meta.MinZoom = tc.Z
		}
		if tc.Z > meta.MaxZoom {
			meta.MaxZoom = tc.Z
		}
	}
	return meta, nil
}

// removeDirectoryContents removes everything below dir except .DS_Store
// files, keeping dir itself.
func removeDirectoryContents(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	var files []string
	var dirs []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir || filepath.Base(path) == ".DS_Store" {
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file %s: %w", file, err)
		}
	}

	// deepest first; directories holding a .DS_Store stay
	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
	return nil
}

// TileCoord represents a tile coordinate (zoom/x/y)
type TileCoord struct {
	Z, X, Y int
}

// Path is the z/x/y.pbf path of the tile relative to its pyramid root.
func (tc TileCoord) Path() string {
	return filepath.Join(strconv.Itoa(tc.Z), strconv.Itoa(tc.X), strconv.Itoa(tc.Y)+".pbf")
}

// Tile converts the coordinate to a maptile.
func (tc TileCoord) Tile() maptile.Tile {
	return maptile.New(uint32(tc.X), uint32(tc.Y), maptile.Zoom(tc.Z))
}

// parseTilePath parses z/x/y.pbf relative to a pyramid root.
func parseTilePath(rel string) (TileCoord, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || filepath.Ext(parts[2]) != ".pbf" {
		return TileCoord{}, false
	}
	z, err := strconv.Atoi(parts[0])
	if err != nil {
		return TileCoord{}, false
	}
	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return TileCoord{}, false
	}
	y, err := strconv.Atoi(strings.TrimSuffix(parts[2], ".pbf"))
	if err != nil {
		return TileCoord{}, false
	}
	return TileCoord{z, x, y}, true
}

// GetTileCoords returns a set of all tile coordinates in a directory
func GetTileCoords(tilesDir string) (map[TileCoord]bool, error) {
	coords := make(map[TileCoord]bool)

	err := filepath.Walk(tilesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(tilesDir, path)
		if err != nil {
			return nil
		}
		if tc, ok := parseTilePath(rel); ok {
			coords[tc] = true
		}
		return nil
	})

	return coords, err
}

// sortedTileCoords orders coordinates by zoom, then x, then y.
func sortedTileCoords(coords map[TileCoord]bool) []TileCoord {
	out := make([]TileCoord, 0, len(coords))
	for tc := range coords {
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}
