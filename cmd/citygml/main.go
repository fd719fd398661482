package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/mumuon/citygml"
	"github.com/mumuon/citygml/citylog"
)

func main() {
	configPath := flag.String("config", ".env", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	args := flag.Args()
	if *help || len(args) == 0 {
		showHelp()
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch command := args[0]; command {
	case "ingest":
		cmdIngest(args[1:], configPath)
	case "info":
		cmdInfo(args[1:], configPath)
	case "export":
		cmdExport(args[1:], configPath)
	case "insert-records":
		cmdInsertRecords(args[1:], configPath)
	case "upload":
		cmdUpload(args[1:], configPath)
	case "merge":
		cmdMerge(args[1:], configPath)
	case "verify":
		cmdVerify(args[1:], configPath)
	case "serve":
		cmdServe(args[1:], configPath)
	default:
		slog.Error("unknown command", "command", command)
		showHelp()
		os.Exit(1)
	}
}

func mustLoadConfig(configPath *string) *citygml.Config {
	cfg, err := citygml.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

// openStores connects the configured database and S3 client. Either may
// be nil when it is not configured or unreachable.
func openStores(cfg *citygml.Config) (*citygml.Database, *citygml.S3Client) {
	var db *citygml.Database
	if cfg.Database.Enabled() {
		var err error
		db, err = citygml.NewDatabase(cfg.Database)
		if err != nil {
			slog.Warn("failed to connect to database (continuing without job tracking)", "error", err)
			db = nil
		} else if err := db.EnsureSchema(context.Background()); err != nil {
			slog.Warn("failed to prepare database schema", "error", err)
		}
	}

	var s3Client *citygml.S3Client
	if cfg.S3.Enabled() {
		var err error
		s3Client, err = citygml.NewS3Client(cfg.S3)
		if err != nil {
			slog.Error("failed to initialize S3 client", "error", err)
			os.Exit(1)
		}
	}
	return db, s3Client
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// parserFlags registers the parser overrides shared by several commands.
type parserFlags struct {
	mask     *string
	minLOD   *int
	maxLOD   *int
	optimize *bool
	prune    *bool
	destSRS  *string
	srcSRS   *string
}

func addParserFlags(fs *flag.FlagSet) *parserFlags {
	return &parserFlags{
		mask:     fs.String("objects", "", "Object kinds to keep, e.g. \"Building | Road\" (default from config)"),
		minLOD:   fs.Int("min-lod", -1, "Minimum level of detail (-1 = config)"),
		maxLOD:   fs.Int("max-lod", -1, "Maximum level of detail (-1 = config)"),
		optimize: fs.Bool("optimize", false, "Merge polygons and geometries sharing appearances"),
		prune:    fs.Bool("prune", false, "Drop city objects without geometry"),
		destSRS:  fs.String("dest-srs", "", "Reproject into this SRS"),
		srcSRS:   fs.String("src-srs", "", "SRS of documents that declare none"),
	}
}

func (f *parserFlags) options() citygml.JobOptions {
	opts := citygml.JobOptions{
		ObjectsMask: *f.mask,
		DestSRS:     *f.destSRS,
		SrcSRS:      *f.srcSRS,
	}
	if *f.minLOD >= 0 {
		opts.MinLOD = f.minLOD
	}
	if *f.maxLOD >= 0 {
		opts.MaxLOD = f.maxLOD
	}
	if *f.optimize {
		opts.Optimize = f.optimize
	}
	if *f.prune {
		opts.PruneEmptyObjects = f.prune
	}
	return opts
}

// expandSources replaces s3://bucket/prefix/ entries with the documents
// below the prefix.
func expandSources(ctx context.Context, s3Client *citygml.S3Client, sources []string) ([]string, error) {
	var out []string
	for _, src := range sources {
		if !strings.HasPrefix(src, "s3://") || !strings.HasSuffix(src, "/") {
			out = append(out, src)
			continue
		}
		if s3Client == nil {
			return nil, fmt.Errorf("cannot list %s: S3 is not configured", src)
		}
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(src, "s3://"), "/")
		uris, err := s3Client.ListDocuments(ctx, bucket, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, uris...)
	}
	return out, nil
}

// cmdIngest runs the full pipeline for one or more sources
func cmdIngest(args []string, configPath *string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	pf := addParserFlags(fs)
	geoJSON := fs.Bool("geojson", true, "Export GeoJSON features")
	tiles := fs.Bool("tiles", false, "Generate vector tiles")
	skipIndex := fs.Bool("skip-index", false, "Skip building the object index")
	skipUpload := fs.Bool("skip-upload", false, "Skip S3 upload, keep outputs locally")
	noCleanup := fs.Bool("no-cleanup", false, "Keep local outputs after upload")
	workers := fs.Int("workers", 1, "Number of parallel workers for multiple sources")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("at least one source required")
		os.Exit(1)
	}

	cfg := mustLoadConfig(configPath)
	db, s3Client := openStores(cfg)
	if db != nil {
		defer db.Close()
	}
	service := citygml.NewIngestService(db, s3Client, cfg)

	ctx, cancel := signalContext()
	defer cancel()

	sources, err := expandSources(ctx, s3Client, fs.Args())
	if err != nil {
		slog.Error("failed to resolve sources", "error", err)
		os.Exit(1)
	}

	opts := pf.options()
	opts.ExportGeoJSON = *geoJSON
	opts.GenerateTiles = *tiles
	opts.SkipIndex = *skipIndex
	opts.SkipUpload = *skipUpload
	opts.NoCleanup = *noCleanup

	numWorkers := max(1, min(*workers, len(sources)))
	slog.Info("starting ingestion", "sources", len(sources), "workers", numWorkers)

	workChan := make(chan string, len(sources))
	for _, src := range sources {
		workChan <- src
	}
	close(workChan)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failed    []string
		succeeded []string
	)
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for src := range workChan {
				if ctx.Err() != nil {
					return
				}
				logger := slog.With("worker", workerID, "source", src)
				job := &citygml.IngestJob{
					ID:      fmt.Sprintf("cli-%d-%s", workerID, citygml.ExportName(src)),
					Source:  src,
					Status:  citygml.StatusPending,
					Options: opts,
				}
				result, err := service.ProcessJob(ctx, job, nil)

				mu.Lock()
				if err != nil {
					logger.Error("source failed", "error", err)
					failed = append(failed, src)
				} else {
					logger.Info("source completed",
						"objects", result.Objects, "records", result.Records,
						"tiles", result.Tiles, "warnings", result.Warnings)
					succeeded = append(succeeded, src)
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	slog.Info("ingestion completed", "succeeded", len(succeeded), "failed", len(failed))
	if len(failed) > 0 || ctx.Err() != nil {
		if len(failed) > 0 {
			slog.Error("failed sources", "sources", failed)
		}
		os.Exit(1)
	}
}

// cmdInfo loads a document and prints its summary
func cmdInfo(args []string, configPath *string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	pf := addParserFlags(fs)
	warnings := fs.Bool("warnings", false, "Print every parser warning")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("source required")
		os.Exit(1)
	}
	source := fs.Arg(0)

	cfg := mustLoadConfig(configPath)
	params, err := pf.options().ParserParams(cfg.Parser)
	if err != nil {
		slog.Error("invalid parser options", "error", err)
		os.Exit(1)
	}

	_, s3Client := openStores(&citygml.Config{S3: cfg.S3})
	loader := citygml.NewLoader(s3Client, cfg.Paths.TempDir)

	ctx, cancel := signalContext()
	defer cancel()

	recorder := citylog.NewRecorder(citylog.LevelWarning, nil)
	model, err := loader.Load(ctx, source, params, recorder)
	if err != nil {
		slog.Error("failed to load document", "error", err)
		os.Exit(1)
	}

	report := citygml.VerifyModel(model, source)
	report.Print()

	if env := model.Envelope(); env.Valid() {
		slog.Info("envelope",
			"srs", env.SRSName,
			"lower", fmt.Sprintf("%.3f %.3f %.3f", env.Lower[0], env.Lower[1], env.Lower[2]),
			"upper", fmt.Sprintf("%.3f %.3f %.3f", env.Upper[0], env.Upper[1], env.Upper[2]))
	}
	slog.Info("appearance themes", "themes", model.Themes())
	slog.Info("parser messages",
		"errors", recorder.Count(citylog.LevelError),
		"warnings", recorder.Count(citylog.LevelWarning))
	if *warnings {
		for _, e := range recorder.Entries() {
			loc := ""
			if e.Location != nil {
				loc = e.Location.String()
			}
			slog.Warn(e.Message, "level", e.Level.String(), "location", loc)
		}
	}
}

// cmdExport writes GeoJSON and tiles locally without touching the stores
func cmdExport(args []string, configPath *string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	pf := addParserFlags(fs)
	out := fs.String("out", "", "Output directory (default OUTPUT_DIR/<name>)")
	surfaces := fs.Bool("surfaces", false, "Export triangles instead of object extents")
	tiles := fs.Bool("tiles", false, "Also generate vector tiles")
	minZoom := fs.Int("min-zoom", -1, "Minimum tile zoom (-1 = config)")
	maxZoom := fs.Int("max-zoom", -1, "Maximum tile zoom (-1 = config)")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("source required")
		os.Exit(1)
	}
	source := fs.Arg(0)

	cfg := mustLoadConfig(configPath)
	params, err := pf.options().ParserParams(cfg.Parser)
	if err != nil {
		slog.Error("invalid parser options", "error", err)
		os.Exit(1)
	}
	outDir := *out
	if outDir == "" {
		outDir = filepath.Join(cfg.Paths.OutputDir, citygml.ExportName(source))
	}

	ctx, cancel := signalContext()
	defer cancel()

	model, err := citygml.Load(ctx, source, params, citylog.Default())
	if err != nil {
		slog.Error("failed to load document", "error", err)
		os.Exit(1)
	}

	indexer := citygml.NewIndexer(cfg.Service.IndexZoom, params.SrcSRS)
	fc, err := indexer.BuildFeatures(ctx, model, source, citygml.ExportOptions{Surfaces: *surfaces, Attributes: true})
	if err != nil {
		slog.Error("failed to build features", "error", err)
		os.Exit(1)
	}
	if _, err := citygml.WriteGeoJSON(filepath.Join(outDir, "objects.geojson"), fc); err != nil {
		slog.Error("failed to write GeoJSON", "error", err)
		os.Exit(1)
	}

	if *tiles {
		opts := &citygml.GenerateTilesOptions{MinZoom: cfg.Service.TileMinZoom, MaxZoom: cfg.Service.TileMaxZoom}
		if *minZoom >= 0 {
			opts.MinZoom = *minZoom
		}
		if *maxZoom >= 0 {
			opts.MaxZoom = *maxZoom
		}
		count, size, err := citygml.GenerateTiles(ctx, fc, filepath.Join(outDir, "tiles"), opts)
		if err != nil {
			slog.Error("failed to generate tiles", "error", err)
			os.Exit(1)
		}
		slog.Info("tiles written", "tiles", count, "size_bytes", size)
	}
}

// cmdInsertRecords inserts a records.json file into the object index
func cmdInsertRecords(args []string, configPath *string) {
	fs := flag.NewFlagSet("insert-records", flag.ExitOnError)
	batchSize := fs.Int("batch-size", 2000, "Rows per insert statement")
	replace := fs.Bool("replace", true, "Delete existing records of the same sources first")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("records file required")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg := mustLoadConfig(configPath)
	if !cfg.Database.Enabled() {
		slog.Error("database is not configured (DB_PASSWORD is empty)")
		os.Exit(1)
	}
	db, err := citygml.NewDatabase(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	records, err := citygml.LoadRecords(path)
	if err != nil {
		slog.Error("failed to load records", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}
	if *replace {
		seen := make(map[string]bool)
		for _, r := range records {
			if seen[r.Source] {
				continue
			}
			seen[r.Source] = true
			n, err := db.DeleteRecordsBySource(ctx, r.Source)
			if err != nil {
				slog.Error("failed to delete old records", "source", r.Source, "error", err)
				os.Exit(1)
			}
			slog.Info("deleted old records", "source", r.Source, "count", n)
		}
	}

	inserted, err := db.BatchUpsertObjectRecords(ctx, records, *batchSize)
	if err != nil {
		slog.Error("insert failed", "inserted", inserted, "error", err)
		os.Exit(1)
	}
	slog.Info("records inserted", "count", inserted)
}

// cmdUpload uploads a local output directory to S3
func cmdUpload(args []string, configPath *string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	prefix := fs.String("prefix", "", "Key prefix (default S3_BUCKET_PATH/<dir name>)")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("directory required")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	cfg := mustLoadConfig(configPath)
	s3Client, err := citygml.NewS3Client(cfg.S3)
	if err != nil {
		slog.Error("failed to initialize S3 client", "error", err)
		os.Exit(1)
	}
	key := *prefix
	if key == "" {
		key = s3Client.ExportKey(filepath.Base(dir))
	}

	ctx, cancel := signalContext()
	defer cancel()

	n, err := s3Client.UploadDirectory(ctx, dir, key)
	if err != nil {
		slog.Error("upload failed", "error", err)
		os.Exit(1)
	}
	slog.Info("upload completed successfully", "uploaded_bytes", n, "prefix", key)
}

// cmdMerge merges the tile pyramids of several outputs
func cmdMerge(args []string, configPath *string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	out := fs.String("out", "", "Merged directory (default OUTPUT_DIR/merged)")
	upload := fs.Bool("upload", false, "Upload the merged tiles")
	fs.Parse(reorderFlagsFirst(args))

	cfg := mustLoadConfig(configPath)
	outDir := *out
	if outDir == "" {
		outDir = filepath.Join(cfg.Paths.OutputDir, "merged")
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		entries, err := os.ReadDir(cfg.Paths.OutputDir)
		if err != nil {
			slog.Error("failed to read output directory", "error", err)
			os.Exit(1)
		}
		for _, e := range entries {
			tilesDir := filepath.Join(cfg.Paths.OutputDir, e.Name(), "tiles")
			if e.IsDir() && e.Name() != "merged" {
				if _, err := os.Stat(tilesDir); err == nil {
					inputs = append(inputs, tilesDir)
				}
			}
		}
	}

	meta, err := citygml.MergeTiles(inputs, outDir)
	if err != nil {
		slog.Error("merge failed", "error", err)
		os.Exit(1)
	}
	slog.Info("merge completed", "tiles", meta.TilesCount, "min_zoom", meta.MinZoom, "max_zoom", meta.MaxZoom)

	if *upload {
		s3Client, err := citygml.NewS3Client(cfg.S3)
		if err != nil {
			slog.Error("failed to initialize S3 client", "error", err)
			os.Exit(1)
		}
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := s3Client.UploadDirectory(ctx, outDir, s3Client.ExportKey("merged")); err != nil {
			slog.Error("upload failed", "error", err)
			os.Exit(1)
		}
	}
}

// cmdServe starts the REST API server
func cmdServe(args []string, configPath *string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "Port to listen on (default HTTP_PORT)")
	fs.Parse(args)

	cfg := mustLoadConfig(configPath)
	if *port == 0 {
		*port = cfg.Service.HTTPPort
	}

	db, s3Client := openStores(cfg)
	if db != nil {
		defer db.Close()
	}

	service := citygml.NewIngestService(db, s3Client, cfg)
	apiServer := citygml.NewAPIServer(service, db, cfg)

	ctx, cancel := signalContext()
	defer cancel()

	if err := apiServer.Start(ctx, *port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// reorderFlagsFirst moves flag arguments before positional arguments so
// "verify tiles <dir> --min-zoom 0" parses like "--min-zoom 0 <dir>".
func reorderFlagsFirst(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			// "--key value" form takes the next arg along
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !isBoolFlag(args[i]) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

var boolFlags = map[string]bool{
	"optimize": true, "prune": true, "geojson": true, "tiles": true,
	"skip-index": true, "skip-upload": true, "no-cleanup": true,
	"surfaces": true, "warnings": true, "replace": true, "upload": true,
}

func isBoolFlag(arg string) bool {
	return boolFlags[strings.TrimLeft(arg, "-")]
}

// cmdVerify handles verification commands
func cmdVerify(args []string, configPath *string) {
	if len(args) == 0 {
		slog.Error("verify subcommand required: model, tiles, merge, or upload")
		os.Exit(1)
	}

	switch subcommand, subArgs := args[0], args[1:]; subcommand {
	case "model":
		cmdVerifyModel(subArgs, configPath)
	case "tiles":
		cmdVerifyTiles(subArgs)
	case "merge":
		cmdVerifyMerge(subArgs, configPath)
	case "upload":
		cmdVerifyUpload(subArgs, configPath)
	default:
		slog.Error("unknown verify subcommand", "subcommand", subcommand)
		slog.Info("available: model, tiles, merge, upload")
		os.Exit(1)
	}
}

func cmdVerifyModel(args []string, configPath *string) {
	fs := flag.NewFlagSet("verify model", flag.ExitOnError)
	pf := addParserFlags(fs)
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("source required")
		slog.Info("Usage: citygml verify model <source>")
		os.Exit(1)
	}

	cfg := mustLoadConfig(configPath)
	params, err := pf.options().ParserParams(cfg.Parser)
	if err != nil {
		slog.Error("invalid parser options", "error", err)
		os.Exit(1)
	}

	model, err := citygml.Load(context.Background(), fs.Arg(0), params, citylog.Discard())
	if err != nil {
		slog.Error("failed to load document", "error", err)
		os.Exit(1)
	}

	report := citygml.VerifyModel(model, fs.Arg(0))
	report.Print()
	if !report.OK {
		os.Exit(1)
	}
}

func cmdVerifyTiles(args []string) {
	fs := flag.NewFlagSet("verify tiles", flag.ExitOnError)
	minZoom := fs.Int("min-zoom", 13, "Minimum expected zoom level")
	maxZoom := fs.Int("max-zoom", 16, "Maximum expected zoom level")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("tiles directory required")
		slog.Info("Usage: citygml verify tiles <dir> [--min-zoom N] [--max-zoom N]")
		os.Exit(1)
	}

	report, err := citygml.VerifyTileDirectory(fs.Arg(0), *minZoom, *maxZoom)
	if err != nil {
		slog.Error("verification failed", "error", err)
		os.Exit(1)
	}
	report.Print()
	if !report.OK {
		os.Exit(1)
	}
}

func cmdVerifyMerge(args []string, configPath *string) {
	fs := flag.NewFlagSet("verify merge", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() == 0 {
		slog.Error("output name required")
		slog.Info("Usage: citygml verify merge <name>")
		os.Exit(1)
	}

	cfg := mustLoadConfig(configPath)
	sourceDir := filepath.Join(cfg.Paths.OutputDir, fs.Arg(0), "tiles")
	mergedDir := filepath.Join(cfg.Paths.OutputDir, "merged")

	report, err := citygml.VerifyMergeIntegrity(sourceDir, mergedDir)
	if err != nil {
		slog.Error("merge verification failed", "error", err)
		os.Exit(1)
	}
	report.Print()
	if !report.OK {
		os.Exit(1)
	}
}

func cmdVerifyUpload(args []string, configPath *string) {
	fs := flag.NewFlagSet("verify upload", flag.ExitOnError)
	samplesPerZoom := fs.Int("samples-per-zoom", 5, "Number of tiles to spot-check per zoom level")
	fs.Parse(reorderFlagsFirst(args))

	if fs.NArg() == 0 {
		slog.Error("output name required")
		slog.Info("Usage: citygml verify upload <name> [--samples-per-zoom N]")
		os.Exit(1)
	}
	name := fs.Arg(0)

	cfg := mustLoadConfig(configPath)
	s3Client, err := citygml.NewS3Client(cfg.S3)
	if err != nil {
		slog.Error("failed to initialize S3 client", "error", err)
		os.Exit(1)
	}

	tilesDir := filepath.Join(cfg.Paths.OutputDir, name, "tiles")
	prefix := s3Client.ExportKey(name + "/tiles")

	report, err := citygml.VerifyUpload(context.Background(), s3Client, tilesDir, prefix, *samplesPerZoom)
	if err != nil {
		slog.Error("upload verification failed", "error", err)
		os.Exit(1)
	}
	report.Print()
	if !report.OK {
		os.Exit(1)
	}
}

func showHelp() {
	help := `citygml - Load CityGML documents, index their city objects and export them

Usage:
  citygml [global options] <command> [command options] [arguments]

Global Options:
  -config string        Path to .env configuration file (default ".env")
  -debug                Enable debug logging
  -help                 Show this help message

Commands:
  ingest                Load, index, export and upload one or more sources
  info                  Print a summary of a document
  export                Write GeoJSON (and optionally tiles) locally
  insert-records        Insert a records.json file into the object index
  upload                Upload an output directory to S3
  merge                 Merge the tile pyramids of several outputs
  verify                Verify a model, tiles, a merge or an upload
  serve                 Start the REST API server

Sources:
  path/to/model.gml     Plain CityGML document
  path/to/model.gml.gz  Gzip compressed document
  path/to/models.zip    Zip archive, the first .gml or .xml entry is read
  s3://bucket/key       Object in S3, same compression rules
  s3://bucket/prefix/   Every document below the prefix (ingest only)

Parser Options (ingest, info, export, verify model):
  -objects string       Object kinds to keep, e.g. "All & ~WallSurface"
  -min-lod int          Minimum level of detail
  -max-lod int          Maximum level of detail
  -optimize             Merge polygons and geometries sharing appearances
  -prune                Drop city objects without geometry
  -dest-srs string      Reproject into this SRS (e.g. EPSG:3857)
  -src-srs string       SRS of documents that declare none

Ingest Command:
  Usage: citygml ingest [options] <source> [source2] ...

  Options:
    -geojson              Export GeoJSON features (default true)
    -tiles                Generate vector tiles
    -skip-index           Skip building the object index
    -skip-upload          Keep outputs locally in OUTPUT_DIR/<name>
    -no-cleanup           Keep local outputs after upload
    -workers int          Number of parallel workers (default 1)

Export Command:
  Usage: citygml export [options] <source>

  Options:
    -out string           Output directory
    -surfaces             Export triangles instead of object extents
    -tiles                Also generate vector tiles
    -min-zoom int         Minimum tile zoom
    -max-zoom int         Maximum tile zoom

Verify Command:
  Usage: citygml verify <model|tiles|merge|upload> [options] [arguments]

  Description:
    Exits 0 if verification passes, 1 if issues are found.

Serve Command:
  Usage: citygml serve [-port N]

    API Endpoints:
      POST   /api/ingest            - Submit a new ingestion job
      GET    /api/jobs              - List all active jobs
      GET    /api/jobs/{jobId}      - Get status of a specific job
      GET    /api/stream/{jobId}    - Stream real-time job updates (SSE)
      GET    /api/objects?bbox=...  - Query the object index
      GET    /health                - Health check endpoint

Examples:
  # Summarize a document
  ./citygml info -warnings ~/data/berlin/tile_42.gml

  # Buildings only, LOD2, reprojected to Web Mercator, with tiles
  ./citygml export -objects Building -min-lod 2 -max-lod 2 -dest-srs EPSG:3857 -tiles model.gml

  # Ingest every document below an S3 prefix with 4 workers
  ./citygml ingest -workers 4 -tiles s3://citygml/berlin/

  # Debug mode
  ./citygml -debug ingest -skip-upload model.gml.gz
`
	fmt.Print(help)
}
