package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mumuon/citygml"
	"github.com/mumuon/citygml/citylog"
)

func main() {
	surfaces := flag.Bool("surfaces", false, "Write triangles instead of object extents")
	srcSRS := flag.String("src-srs", "", "SRS of documents that declare none")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Println("Usage: convert-citygml [-surfaces] [-src-srs EPSG:N] <citygml-file> <output-geojson>")
		fmt.Println("Example: convert-citygml input.gml.gz output.geojson")
		os.Exit(1)
	}

	source := flag.Arg(0)
	outputPath := flag.Arg(1)

	params := citygml.DefaultParserParams()
	params.SrcSRS = *srcSRS

	ctx := context.Background()
	model, err := citygml.Load(ctx, source, params, citylog.Discard())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	indexer := citygml.NewIndexer(15, params.SrcSRS)
	fc, err := indexer.BuildFeatures(ctx, model, citygml.ExportName(source), citygml.ExportOptions{
		Surfaces:   *surfaces,
		Attributes: true,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	size, err := citygml.WriteGeoJSON(outputPath, fc)
	if err != nil {
		fmt.Printf("Error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Converted to GeoJSON: %d features\n", len(fc.Features))
	fmt.Printf("   Output: %s (%d bytes)\n", outputPath, size)
}
