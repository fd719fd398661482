package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mumuon/citygml"
)

type TileStats struct {
	TotalTiles     int
	TotalFeatures  int
	TotalBytes     int64
	FeaturesByZoom map[int]int
	TilesByZoom    map[int]int
	UniqueObjects  map[string]bool
	ObjectsByKind  map[string]int
	LayersFound    map[string]int
}

// TileInfo is the content of a single tile
type TileInfo struct {
	Path          string      `json:"tile"`
	Z             int         `json:"z"`
	X             int         `json:"x"`
	Y             int         `json:"y"`
	FileSizeBytes int64       `json:"fileSizeBytes"`
	Layers        []LayerInfo `json:"layers"`
}

type LayerInfo struct {
	Name         string        `json:"name"`
	FeatureCount int           `json:"featureCount"`
	Features     []FeatureInfo `json:"features"`
}

type FeatureInfo struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

var tilePathPattern = regexp.MustCompile(`(\d+)/(\d+)/(\d+)$`)

func main() {
	tilePath := flag.String("tile", "", "Path to a single tile file to inspect")
	verbose := flag.Bool("verbose", false, "Show all features (not just first 10)")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: analyze-tiles [options] [tile-directory]\n\n")
		fmt.Fprintf(os.Stderr, "Modes:\n")
		fmt.Fprintf(os.Stderr, "  1. Single tile inspection: analyze-tiles --tile <path>\n")
		fmt.Fprintf(os.Stderr, "  2. Directory analysis:     analyze-tiles <directory>\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  analyze-tiles --tile output/berlin/tiles/15/17602/10746.pbf\n")
		fmt.Fprintf(os.Stderr, "  analyze-tiles --tile output/berlin/tiles/15/17602/10746.pbf --json\n")
		fmt.Fprintf(os.Stderr, "  analyze-tiles output/berlin/tiles\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *tilePath != "" {
		info, err := inspectSingleTile(*tilePath)
		if err != nil {
			fmt.Printf("Error inspecting tile: %v\n", err)
			os.Exit(1)
		}

		if *jsonOutput {
			printTileJSON(info)
		} else {
			printTileInfo(info, *verbose)
		}
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	stats, err := analyzeTileDirectory(args[0])
	if err != nil {
		fmt.Printf("Error analyzing tiles: %v\n", err)
		os.Exit(1)
	}

	printStats(stats, args[0])
}

func inspectSingleTile(path string) (*TileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	layers, err := citygml.ReadTile(path)
	if err != nil {
		return nil, err
	}

	info := &TileInfo{
		Path:          path,
		FileSizeBytes: fileInfo.Size(),
		Layers:        make([]LayerInfo, 0, len(layers)),
	}
	if m := tilePathPattern.FindStringSubmatch(strings.TrimSuffix(filepath.ToSlash(path), ".pbf")); m != nil {
		info.Z, _ = strconv.Atoi(m[1])
		info.X, _ = strconv.Atoi(m[2])
		info.Y, _ = strconv.Atoi(m[3])
	}

	for _, layer := range layers {
		layerInfo := LayerInfo{
			Name:         layer.Name,
			FeatureCount: len(layer.Features),
			Features:     make([]FeatureInfo, 0, len(layer.Features)),
		}
		for _, feature := range layer.Features {
			layerInfo.Features = append(layerInfo.Features, FeatureInfo{
				Type:       feature.Geometry.GeoJSONType(),
				Properties: feature.Properties,
			})
		}
		info.Layers = append(info.Layers, layerInfo)
	}

	return info, nil
}

func printTileInfo(info *TileInfo, verbose bool) {
	fmt.Println("=" + strings.Repeat("=", 78))
	fmt.Printf("Tile: %d/%d/%d (%s)\n", info.Z, info.X, info.Y, info.Path)
	fmt.Println("=" + strings.Repeat("=", 78))
	fmt.Println()

	fmt.Printf("File size: %s\n", formatBytes(info.FileSizeBytes))
	fmt.Printf("Layers: %d\n\n", len(info.Layers))

	for _, layer := range info.Layers {
		fmt.Printf("Layer: %s\n", layer.Name)
		fmt.Printf("  Features: %d\n\n", layer.FeatureCount)

		featuresToShow := layer.Features
		if !verbose && len(layer.Features) > 10 {
			featuresToShow = layer.Features[:10]
		}

		for i, feature := range featuresToShow {
			fmt.Printf("  Feature %d (%s)\n", i+1, feature.Type)

			keys := make([]string, 0, len(feature.Properties))
			for k := range feature.Properties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Printf("    %s: %v\n", key, feature.Properties[key])
			}
			fmt.Println()
		}

		if !verbose && len(layer.Features) > 10 {
			fmt.Printf("  ... (%d more features, use --verbose to show all)\n\n", len(layer.Features)-10)
		}
	}

	fmt.Println("=" + strings.Repeat("=", 78))
}

func printTileJSON(info *TileInfo) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(info); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func analyzeTileDirectory(dir string) (*TileStats, error) {
	coords, err := citygml.GetTileCoords(dir)
	if err != nil {
		return nil, err
	}

	stats := &TileStats{
		FeaturesByZoom: make(map[int]int),
		TilesByZoom:    make(map[int]int),
		UniqueObjects:  make(map[string]bool),
		ObjectsByKind:  make(map[string]int),
		LayersFound:    make(map[string]int),
	}

	for tc := range coords {
		path := filepath.Join(dir, tc.Path())
		if fi, err := os.Stat(path); err == nil {
			stats.TotalBytes += fi.Size()
		}
		layers, err := citygml.ReadTile(path)
		if err != nil {
			fmt.Printf("Warning: failed to analyze %s: %v\n", path, err)
			continue
		}

		stats.TotalTiles++
		stats.TilesByZoom[tc.Z]++
		for _, layer := range layers {
			stats.LayersFound[layer.Name]++
			stats.TotalFeatures += len(layer.Features)
			stats.FeaturesByZoom[tc.Z] += len(layer.Features)

			if layer.Name != citygml.TileLayer {
				continue
			}
			for _, feature := range layer.Features {
				id := getPropertyString(feature.Properties, "id")
				if id == "" || stats.UniqueObjects[id] {
					continue
				}
				stats.UniqueObjects[id] = true
				stats.ObjectsByKind[getPropertyString(feature.Properties, "kind")]++
			}
		}
	}

	return stats, nil
}

func getPropertyString(props map[string]any, key string) string {
	if val, ok := props[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func printStats(stats *TileStats, dir string) {
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Printf("Tile Analysis: %s\n", dir)
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Println()

	fmt.Println("Tile Counts:")
	fmt.Printf("  Total tiles:        %d\n", stats.TotalTiles)
	fmt.Printf("  Total size:         %s\n", formatBytes(stats.TotalBytes))
	fmt.Printf("  Total features:     %d\n", stats.TotalFeatures)
	fmt.Printf("  Unique city objects: %d\n", len(stats.UniqueObjects))
	fmt.Println()

	fmt.Println("Layers Found:")
	layers := make([]string, 0, len(stats.LayersFound))
	for layer := range stats.LayersFound {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	for _, layer := range layers {
		fmt.Printf("  %s: %d tiles\n", layer, stats.LayersFound[layer])
	}
	fmt.Println()

	if len(stats.ObjectsByKind) > 0 {
		fmt.Println("Objects by Type:")
		kinds := make([]string, 0, len(stats.ObjectsByKind))
		for k := range stats.ObjectsByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-28s %6d\n", k, stats.ObjectsByKind[k])
		}
		fmt.Println()
	}

	fmt.Println("Features by Zoom Level:")
	zooms := make([]int, 0, len(stats.FeaturesByZoom))
	for z := range stats.FeaturesByZoom {
		zooms = append(zooms, z)
	}
	sort.Ints(zooms)
	for _, z := range zooms {
		count := stats.FeaturesByZoom[z]
		bar := strings.Repeat("█", min(count/10, 50))
		fmt.Printf("  Z%2d: %5d tiles %6d features %s\n", z, stats.TilesByZoom[z], count, bar)
	}
	fmt.Println()

	fmt.Println("=" + strings.Repeat("=", 70))
}
