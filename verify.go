package citygml

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/mumuon/citygml/citymodel"
)

// ModelIntegrityReport is the result of checking a loaded city model
type ModelIntegrityReport struct {
	Source             string
	OK                 bool
	Objects            int
	Polygons           int
	Triangles          int
	LineStrings        int
	ObjectsByKind      map[string]int
	EmptyObjects       []string // ids of objects without geometry and children
	DegeneratePolygons []string // ids of polygons that produced no triangles
	UntexturedThemes   []string // themes no polygon carries a texture for
	InvalidEnvelope    bool
}

// VerifyModel walks model and collects counts and defects. Degenerate
// polygons make the report fail; the other findings are informational.
func VerifyModel(model *citymodel.CityModel, source string) *ModelIntegrityReport {
	report := &ModelIntegrityReport{
		Source:        source,
		ObjectsByKind: make(map[string]int),
	}

	seenPolygons := make(map[*citymodel.Polygon]bool)
	texturedThemes := make(map[string]bool)

	visitGeometry := func(geom *citymodel.Geometry) {
		geom.Walk(func(g *citymodel.Geometry) {
			report.LineStrings += len(g.LineStrings())
			for _, p := range g.Polygons() {
				if seenPolygons[p] {
					continue
				}
				seenPolygons[p] = true
				report.Polygons++
				report.Triangles += p.TriangleCount()
				if p.Empty() {
					report.DegeneratePolygons = append(report.DegeneratePolygons, p.ID())
				}
				for _, ts := range p.TextureThemeSides() {
					texturedThemes[ts.Theme] = true
				}
			}
		})
	}

	model.Walk(func(obj *citymodel.CityObject) {
		report.Objects++
		report.ObjectsByKind[obj.TypeName()]++
		if obj.IsEmpty() {
			report.EmptyObjects = append(report.EmptyObjects, obj.ID())
		}
		for _, g := range obj.Geometries() {
			visitGeometry(g)
		}
		for _, ig := range obj.ImplicitGeometries() {
			for _, g := range ig.Geometries() {
				visitGeometry(g)
			}
		}
	})

	for _, theme := range model.Themes() {
		if !texturedThemes[theme] {
			report.UntexturedThemes = append(report.UntexturedThemes, theme)
		}
	}
	if env := model.Envelope(); env != nil && !env.Valid() {
		report.InvalidEnvelope = true
	}

	report.OK = len(report.DegeneratePolygons) == 0
	return report
}

// Print logs the report details
func (r *ModelIntegrityReport) Print() {
	logger := slog.With("source", r.Source, "objects", r.Objects, "polygons", r.Polygons, "triangles", r.Triangles)

	if r.OK {
		logger.Info("model integrity check PASSED")
	} else {
		logger.Error("model integrity check FAILED", "degenerate_polygons", len(r.DegeneratePolygons))
	}

	kinds := make([]string, 0, len(r.ObjectsByKind))
	for k := range r.ObjectsByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		slog.Info("object kind", "kind", k, "count", r.ObjectsByKind[k])
	}

	show := r.DegeneratePolygons
	if len(show) > 20 {
		show = show[:20]
	}
	for _, id := range show {
		slog.Error("degenerate polygon", "polygon_id", id)
	}
	if len(r.DegeneratePolygons) > 20 {
		slog.Error("... and more degenerate polygons", "total", len(r.DegeneratePolygons))
	}

	if len(r.EmptyObjects) > 0 {
		slog.Warn("objects without geometry", "count", len(r.EmptyObjects))
	}
	for _, theme := range r.UntexturedThemes {
		slog.Warn("theme without textures", "theme", theme)
	}
	if r.InvalidEnvelope {
		slog.Warn("model envelope is incomplete")
	}
}

// ZoomStats holds per-zoom-level tile statistics
type ZoomStats struct {
	Zoom       int
	TileCount  int
	TotalSize  int64
	MinX, MaxX int
	MinY, MaxY int
}

// TileIntegrityReport is the result of verifying a tile directory
type TileIntegrityReport struct {
	Dir          string
	MinZoom      int
	MaxZoom      int
	OK           bool
	MissingZooms []int
	Unreadable   []string // tiles that failed to decode
	ZoomStats    map[int]*ZoomStats
}

// Print logs the report details
func (r *TileIntegrityReport) Print() {
	logger := slog.With("dir", r.Dir, "min_zoom", r.MinZoom, "max_zoom", r.MaxZoom)

	if r.OK {
		logger.Info("tile integrity check PASSED", "zoom_levels", len(r.ZoomStats))
	} else {
		logger.Error("tile integrity check FAILED", "missing_zooms", r.MissingZooms, "unreadable", len(r.Unreadable))
	}

	for z := r.MinZoom; z <= r.MaxZoom; z++ {
		if stats, ok := r.ZoomStats[z]; ok {
			slog.Info("zoom level stats",
				"zoom", z,
				"tiles", stats.TileCount,
				"size_bytes", stats.TotalSize,
				"x_range", fmt.Sprintf("%d-%d", stats.MinX, stats.MaxX),
				"y_range", fmt.Sprintf("%d-%d", stats.MinY, stats.MaxY),
			)
		} else {
			slog.Warn("zoom level MISSING", "zoom", z)
		}
	}
	for _, p := range r.Unreadable {
		slog.Error("unreadable tile", "path", p)
	}
}

// VerifyTileDirectory checks that a tile directory has tiles at every
// zoom level from minZoom to maxZoom and that each tile decodes.
func VerifyTileDirectory(dir string, minZoom, maxZoom int) (*TileIntegrityReport, error) {
	report := &TileIntegrityReport{
		Dir:       dir,
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
		ZoomStats: make(map[int]*ZoomStats),
	}

	coords, err := GetTileCoords(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk tile directory: %w", err)
	}

	for _, tc := range sortedTileCoords(coords) {
		p := filepath.Join(dir, tc.Path())
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat tile: %w", err)
		}
		if _, err := ReadTile(p); err != nil {
			report.Unreadable = append(report.Unreadable, p)
		}

		stats, ok := report.ZoomStats[tc.Z]
		if !ok {
			stats = &ZoomStats{
				Zoom: tc.Z,
				MinX: tc.X, MaxX: tc.X,
				MinY: tc.Y, MaxY: tc.Y,
			}
			report.ZoomStats[tc.Z] = stats
		}
		stats.TileCount++
		stats.TotalSize += info.Size()
		stats.MinX, stats.MaxX = min(stats.MinX, tc.X), max(stats.MaxX, tc.X)
		stats.MinY, stats.MaxY = min(stats.MinY, tc.Y), max(stats.MaxY, tc.Y)
	}

	for z := minZoom; z <= maxZoom; z++ {
		if _, ok := report.ZoomStats[z]; !ok {
			report.MissingZooms = append(report.MissingZooms, z)
		}
	}

	report.OK = len(report.MissingZooms) == 0 && len(report.Unreadable) == 0
	return report, nil
}

// MergeIntegrityReport is the result of verifying merge completeness
type MergeIntegrityReport struct {
	SourceDir    string
	MergedDir    string
	OK           bool
	MissingTiles []TileCoord
	Warnings     []string // e.g. merged tile with fewer features than the source tile
}

// Print logs the merge integrity report
func (r *MergeIntegrityReport) Print() {
	logger := slog.With("source_dir", r.SourceDir, "merged_dir", r.MergedDir)

	if r.OK && len(r.Warnings) == 0 {
		logger.Info("merge integrity check PASSED")
	} else if r.OK {
		logger.Warn("merge integrity check PASSED with warnings", "warnings", len(r.Warnings))
	} else {
		logger.Error("merge integrity check FAILED", "missing_tiles", len(r.MissingTiles))
	}

	for _, w := range r.Warnings {
		slog.Warn("merge warning", "detail", w)
	}
	for _, tc := range r.MissingTiles {
		slog.Error("missing tile in merged output", "z", tc.Z, "x", tc.X, "y", tc.Y)
	}
}

// VerifyMergeIntegrity checks that every tile of sourceDir exists in
// mergedDir with at least as many features per layer.
func VerifyMergeIntegrity(sourceDir, mergedDir string) (*MergeIntegrityReport, error) {
	report := &MergeIntegrityReport{
		SourceDir: sourceDir,
		MergedDir: mergedDir,
	}

	coords, err := GetTileCoords(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory: %w", err)
	}

	for _, tc := range sortedTileCoords(coords) {
		mergedPath := filepath.Join(mergedDir, tc.Path())
		if _, err := os.Stat(mergedPath); os.IsNotExist(err) {
			report.MissingTiles = append(report.MissingTiles, tc)
			continue
		}

		src, err := ReadTile(filepath.Join(sourceDir, tc.Path()))
		if err != nil {
			return nil, err
		}
		merged, err := ReadTile(mergedPath)
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int)
		for _, l := range merged {
			counts[l.Name] += len(l.Features)
		}
		for _, l := range src {
			if counts[l.Name] < len(l.Features) {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("merged tile %s has %d features in layer %s, source has %d",
						tc.Path(), counts[l.Name], l.Name, len(l.Features)))
			}
		}
	}

	report.OK = len(report.MissingTiles) == 0
	return report, nil
}

// UploadVerifyReport is the result of spot-checking uploaded files
type UploadVerifyReport struct {
	LocalDir       string
	S3Prefix       string
	OK             bool
	Checked        int
	Missing        []string // s3 keys that were missing
	SizeMismatch   []string // s3 keys whose size differs from the local file
	SamplesPerZoom int
}

// Print logs the upload verification report
func (r *UploadVerifyReport) Print() {
	logger := slog.With("local_dir", r.LocalDir, "s3_prefix", r.S3Prefix, "checked", r.Checked)

	if r.OK {
		logger.Info("upload verification PASSED")
		return
	}
	logger.Error("upload verification FAILED", "missing", len(r.Missing), "size_mismatch", len(r.SizeMismatch))
	for _, key := range r.Missing {
		slog.Error("missing from S3", "key", key)
	}
	for _, key := range r.SizeMismatch {
		slog.Error("size differs on S3", "key", key)
	}
}

// objectHeader is the part of S3Client VerifyUpload needs.
type objectHeader interface {
	HeadObject(ctx context.Context, s3Key string) (int64, bool, error)
}

// VerifyUpload spot-checks that tiles exist on S3 by sampling
// samplesPerZoom tiles per zoom level.
func VerifyUpload(ctx context.Context, s3Client objectHeader, tilesDir, s3Prefix string, samplesPerZoom int) (*UploadVerifyReport, error) {
	report := &UploadVerifyReport{
		LocalDir:       tilesDir,
		S3Prefix:       s3Prefix,
		SamplesPerZoom: samplesPerZoom,
	}

	coords, err := GetTileCoords(tilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk tiles directory: %w", err)
	}
	tilesByZoom := make(map[int][]TileCoord)
	for _, tc := range sortedTileCoords(coords) {
		tilesByZoom[tc.Z] = append(tilesByZoom[tc.Z], tc)
	}

	for z, tiles := range tilesByZoom {
		samples := tiles
		if len(samples) > samplesPerZoom {
			rand.Shuffle(len(samples), func(i, j int) {
				samples[i], samples[j] = samples[j], samples[i]
			})
			samples = samples[:samplesPerZoom]
		}

		for _, tc := range samples {
			s3Key := path.Join(s3Prefix, filepath.ToSlash(tc.Path()))

			size, exists, err := s3Client.HeadObject(ctx, s3Key)
			if err != nil {
				slog.Warn("error checking tile on S3", "key", s3Key, "zoom", z, "error", err)
				continue
			}

			report.Checked++
			if !exists {
				report.Missing = append(report.Missing, s3Key)
				continue
			}
			if info, err := os.Stat(filepath.Join(tilesDir, tc.Path())); err == nil && info.Size() != size {
				report.SizeMismatch = append(report.SizeMismatch, s3Key)
			}
		}
	}

	report.OK = len(report.Missing) == 0 && len(report.SizeMismatch) == 0
	return report, nil
}
