package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/mumuon/citygml"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// heightTolerance is the largest height difference reported as equal.
const heightTolerance = 0.01

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: compare-geojson <old-geojson> <new-geojson>")
		fmt.Println("Example: compare-geojson old/objects.geojson new/objects.geojson")
		os.Exit(1)
	}

	oldPath := os.Args[1]
	newPath := os.Args[2]

	oldFC, err := citygml.ReadGeoJSON(oldPath)
	if err != nil {
		fmt.Printf("Error loading old GeoJSON: %v\n", err)
		os.Exit(1)
	}

	newFC, err := citygml.ReadGeoJSON(newPath)
	if err != nil {
		fmt.Printf("Error loading new GeoJSON: %v\n", err)
		os.Exit(1)
	}

	if !compare(oldFC, newFC, oldPath, newPath) {
		os.Exit(1)
	}
}

// compare prints the differences of two exports and reports whether they
// hold the same objects.
func compare(old, new *geojson.FeatureCollection, oldPath, newPath string) bool {
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Println("GeoJSON Comparison")
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Printf("OLD: %s\n", oldPath)
	fmt.Printf("NEW: %s\n", newPath)
	fmt.Println()

	fmt.Println("📊 Feature Counts:")
	fmt.Printf("  OLD features: %d\n", len(old.Features))
	fmt.Printf("  NEW features: %d\n", len(new.Features))
	printDiff(len(new.Features) - len(old.Features))
	fmt.Println()

	oldPoints, newPoints := countPoints(old), countPoints(new)
	fmt.Println("📍 Coordinate Point Counts:")
	fmt.Printf("  OLD total coordinates: %d\n", oldPoints)
	fmt.Printf("  NEW total coordinates: %d\n", newPoints)
	printDiff(newPoints - oldPoints)
	fmt.Println()

	fmt.Println("🗺️  Geometry Types:")
	printCounts("OLD", countBy(old, func(f *geojson.Feature) string { return f.Geometry.GeoJSONType() }))
	printCounts("NEW", countBy(new, func(f *geojson.Feature) string { return f.Geometry.GeoJSONType() }))
	fmt.Println()

	fmt.Println("🏙️  Object Types:")
	printCounts("OLD", countBy(old, func(f *geojson.Feature) string { return f.Properties.MustString("kind", "?") }))
	printCounts("NEW", countBy(new, func(f *geojson.Feature) string { return f.Properties.MustString("kind", "?") }))
	fmt.Println()

	oldByID, newByID := byID(old), byID(new)
	missing := difference(oldByID, newByID)
	added := difference(newByID, oldByID)

	fmt.Println("🔎 Object IDs:")
	fmt.Printf("  Only in OLD: %d\n", len(missing))
	printSample(missing)
	fmt.Printf("  Only in NEW: %d\n", len(added))
	printSample(added)
	fmt.Println()

	changed := 0
	var samples []string
	for id, of := range oldByID {
		nf, ok := newByID[id]
		if !ok {
			continue
		}
		for _, key := range []string{"minHeight", "maxHeight"} {
			ov := of.Properties.MustFloat64(key, math.NaN())
			nv := nf.Properties.MustFloat64(key, math.NaN())
			if math.IsNaN(ov) && math.IsNaN(nv) {
				continue
			}
			if math.IsNaN(ov) || math.IsNaN(nv) || math.Abs(ov-nv) > heightTolerance {
				changed++
				samples = append(samples, fmt.Sprintf("%s %s: %.3f -> %.3f", id, key, ov, nv))
				break
			}
		}
		if !boundsEqual(of.Geometry.Bound(), nf.Geometry.Bound()) {
			changed++
			samples = append(samples, fmt.Sprintf("%s extent moved", id))
		}
	}
	sort.Strings(samples)

	fmt.Println("📐 Changed Objects:")
	fmt.Printf("  Objects with different heights or extents: %d\n", changed)
	printSample(samples)
	fmt.Println()

	same := len(missing) == 0 && len(added) == 0 && changed == 0
	if same {
		fmt.Println("✅ Exports describe the same objects")
	} else {
		fmt.Println("⚠️  Exports differ")
	}
	fmt.Println("=" + strings.Repeat("=", 70))
	return same
}

func printDiff(diff int) {
	switch {
	case diff > 0:
		fmt.Printf("  Difference:   +%d (NEW has more)\n", diff)
	case diff < 0:
		fmt.Printf("  Difference:   %d (NEW has fewer) ⚠️\n", diff)
	default:
		fmt.Printf("  Difference:   0 (equal)\n")
	}
}

func printCounts(label string, counts map[string]int) {
	fmt.Printf("  %s:\n", label)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("    %s: %d\n", k, counts[k])
	}
}

func printSample(items []string) {
	for i, item := range items {
		if i == 10 {
			fmt.Printf("    ... %d more\n", len(items)-10)
			return
		}
		fmt.Printf("    - %s\n", item)
	}
}

func countBy(fc *geojson.FeatureCollection, key func(*geojson.Feature) string) map[string]int {
	counts := make(map[string]int)
	for _, f := range fc.Features {
		counts[key(f)]++
	}
	return counts
}

func byID(fc *geojson.FeatureCollection) map[string]*geojson.Feature {
	m := make(map[string]*geojson.Feature, len(fc.Features))
	for _, f := range fc.Features {
		if id := f.Properties.MustString("id", ""); id != "" {
			m[id] = f
		}
	}
	return m
}

// difference returns the sorted keys of a that are missing from b.
func difference(a, b map[string]*geojson.Feature) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func countPoints(fc *geojson.FeatureCollection) int {
	total := 0
	for _, f := range fc.Features {
		total += pointCount(f.Geometry)
	}
	return total
}

func pointCount(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.MultiLineString:
		n := 0
		for _, ls := range g {
			n += len(ls)
		}
		return n
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range g {
			n += pointCount(p)
		}
		return n
	case orb.Collection:
		n := 0
		for _, c := range g {
			n += pointCount(c)
		}
		return n
	}
	return 0
}

func boundsEqual(a, b orb.Bound) bool {
	const eps = 1e-9
	return math.Abs(a.Min[0]-b.Min[0]) < eps && math.Abs(a.Min[1]-b.Min[1]) < eps &&
		math.Abs(a.Max[0]-b.Max[0]) < eps && math.Abs(a.Max[1]-b.Max[1]) < eps
}
