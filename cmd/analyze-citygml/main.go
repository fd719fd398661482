package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mumuon/citygml"
	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

type analysis struct {
	objects      int
	roots        int
	geometries   int
	polygons     int
	lineStrings  int
	implicit     int
	emptyObjects int
	kinds        map[string]int
	lods         map[int]int
	attributes   map[string]int
	sampleIDs    []string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: analyze-citygml <path-to-gml-gz-or-zip>")
		fmt.Println("Example: analyze-citygml ~/data/berlin/tile_42.gml.gz")
		os.Exit(1)
	}

	filePath := os.Args[1]

	params := citygml.DefaultParserParams()
	params.PruneEmptyObjects = false

	recorder := citylog.NewRecorder(citylog.LevelWarning, nil)
	model, err := citygml.Load(context.Background(), filePath, params, recorder)
	if err != nil {
		fmt.Printf("Error parsing CityGML: %v\n", err)
		os.Exit(1)
	}

	a := analyze(model)
	report(a, model, recorder, filepath.Base(filePath))
}

func analyze(model *citymodel.CityModel) *analysis {
	a := &analysis{
		roots:      len(model.RootObjects()),
		kinds:      make(map[string]int),
		lods:       make(map[int]int),
		attributes: make(map[string]int),
	}
	seen := make(map[*citymodel.Geometry]bool)

	model.Walk(func(obj *citymodel.CityObject) {
		a.objects++
		a.kinds[obj.TypeName()]++
		if obj.IsEmpty() {
			a.emptyObjects++
		}
		if len(a.sampleIDs) < 10 {
			a.sampleIDs = append(a.sampleIDs, obj.TypeName()+" "+obj.ID())
		}
		for name := range obj.Attributes() {
			a.attributes[name]++
		}
		a.implicit += len(obj.ImplicitGeometries())
		for _, root := range obj.Geometries() {
			root.Walk(func(g *citymodel.Geometry) {
				if seen[g] {
					return
				}
				seen[g] = true
				a.geometries++
				a.lods[g.LOD()]++
				a.polygons += len(g.Polygons())
				a.lineStrings += len(g.LineStrings())
			})
		}
	})
	return a
}

func report(a *analysis, model *citymodel.CityModel, recorder *citylog.Recorder, filename string) {
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Printf("CityGML Analysis: %s\n", filename)
	fmt.Println("=" + strings.Repeat("=", 70))
	fmt.Println()

	fmt.Println("📊 Counts:")
	fmt.Printf("  Root objects:                 %d\n", a.roots)
	fmt.Printf("  City objects (all levels):    %d\n", a.objects)
	fmt.Printf("  Objects without geometry:     %d\n", a.emptyObjects)
	fmt.Printf("  Geometries:                   %d\n", a.geometries)
	fmt.Printf("  Implicit geometries:          %d\n", a.implicit)
	fmt.Printf("  Polygons:                     %d\n", a.polygons)
	fmt.Printf("  Line strings:                 %d\n", a.lineStrings)
	fmt.Println()

	if env := model.Envelope(); env != nil && env.Valid() {
		fmt.Println("📐 Envelope:")
		fmt.Printf("  SRS:   %s\n", env.SRSName)
		fmt.Printf("  Lower: %.3f %.3f %.3f\n", env.Lower[0], env.Lower[1], env.Lower[2])
		fmt.Printf("  Upper: %.3f %.3f %.3f\n", env.Upper[0], env.Upper[1], env.Upper[2])
		fmt.Println()
	}

	fmt.Println("🏙️  Objects by Type:")
	kinds := make([]string, 0, len(a.kinds))
	for k := range a.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return a.kinds[kinds[i]] > a.kinds[kinds[j]] })
	for _, k := range kinds {
		fmt.Printf("  %-28s %6d\n", k, a.kinds[k])
	}
	fmt.Println()

	fmt.Println("🔢 LOD Distribution:")
	lods := make([]int, 0, len(a.lods))
	for lod := range a.lods {
		lods = append(lods, lod)
	}
	sort.Ints(lods)
	for _, lod := range lods {
		n := a.lods[lod]
		bar := strings.Repeat("█", min(n, 50))
		fmt.Printf("  LOD%d: %6d geometries %s\n", lod, n, bar)
	}
	fmt.Println()

	if len(a.attributes) > 0 {
		fmt.Println("🏷️  Attributes:")
		names := make([]string, 0, len(a.attributes))
		for name := range a.attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-28s %6d objects\n", name, a.attributes[name])
		}
		fmt.Println()
	}

	if themes := model.Themes(); len(themes) > 0 {
		fmt.Println("🎨 Appearance Themes:")
		for _, theme := range themes {
			fmt.Printf("  - %s\n", theme)
		}
		fmt.Println()
	}

	fmt.Println("🔎 Sample Objects (first 10):")
	for i, id := range a.sampleIDs {
		fmt.Printf("  %2d. %s\n", i+1, id)
	}
	fmt.Println()

	fmt.Println("⚠️  Parser Messages:")
	fmt.Printf("  Errors:   %d\n", recorder.Count(citylog.LevelError))
	fmt.Printf("  Warnings: %d\n", recorder.Count(citylog.LevelWarning))
	for i, e := range recorder.Entries() {
		if i == 10 {
			fmt.Printf("  ... %d more\n", len(recorder.Entries())-10)
			break
		}
		fmt.Printf("  [%s] %s\n", e.Level, e.Message)
	}

	fmt.Println()
	fmt.Println("=" + strings.Repeat("=", 70))
}
