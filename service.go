package citygml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mumuon/citygml/citylog"
)

// recordBatchSize is the number of index records per upsert statement.
const recordBatchSize = 2000

// StatusFunc receives the phase changes of a job.
type StatusFunc func(job *IngestJob, message string)

// IngestService orchestrates the ingestion pipeline
type IngestService struct {
	db     *Database
	s3     *S3Client
	loader *Loader
	config *Config
}

// NewIngestService creates a new ingest service. db and s3Client may be
// nil, which disables the index store and uploads.
func NewIngestService(db *Database, s3Client *S3Client, config *Config) *IngestService {
	return &IngestService{
		db:     db,
		s3:     s3Client,
		loader: NewLoader(s3Client, config.Paths.TempDir),
		config: config,
	}
}

// OutputDir is the local directory holding the outputs of source.
func (s *IngestService) OutputDir(source string) string {
	return filepath.Join(s.config.Paths.OutputDir, ExportName(source))
}

// ExportName derives a directory name from a source path or URI.
func ExportName(source string) string {
	name := path.Base(filepath.ToSlash(source))
	lower := strings.ToLower(name)
	for _, ext := range []string{".gz", ".zip", ".gml", ".xml"} {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			lower = lower[:len(lower)-len(ext)]
		}
	}
	if name == "" || name == "." || name == "/" {
		return "citymodel"
	}
	return name
}

// ProcessJob runs every phase of job: loading, indexing, exporting and
// uploading. notify may be nil.
func (s *IngestService) ProcessJob(ctx context.Context, job *IngestJob, notify StatusFunc) (*ProcessingResult, error) {
	logger := slog.With("job_id", job.ID, "source", job.Source)
	opts := job.Options
	result := &ProcessingResult{}

	setStatus := func(status, message string) {
		job.Status = status
		job.UpdatedAt = time.Now()
		step := status
		job.CurrentStep = &step
		if s.db != nil {
			if err := s.db.UpdateJobStatus(ctx, job.ID, status); err != nil {
				logger.Warn("failed to update job status", "error", err)
			}
		}
		if notify != nil {
			notify(job, message)
		}
	}
	fail := func(phase string, err error) (*ProcessingResult, error) {
		err = fmt.Errorf("%s failed: %w", phase, err)
		msg := err.Error()
		job.ErrorMessage = &msg
		job.Status = StatusFailed
		if s.db != nil {
			if dbErr := s.db.UpdateJobError(ctx, job.ID, msg); dbErr != nil {
				logger.Warn("failed to record job error", "error", dbErr)
			}
		}
		if notify != nil {
			notify(job, msg)
		}
		return nil, err
	}
	progress := func() {
		if s.db == nil {
			return
		}
		p := JobProgress{
			ObjectsLoaded:  result.Objects,
			PolygonsLoaded: result.Polygons,
			RecordsIndexed: result.Records,
			TilesGenerated: result.Tiles,
		}
		if err := s.db.UpdateJobProgress(ctx, job.ID, p); err != nil {
			logger.Warn("failed to update progress", "error", err)
		}
	}

	params, err := opts.ParserParams(s.config.Parser)
	if err != nil {
		return fail("configuration", err)
	}

	// Phase 1: load the model
	setStatus(StatusLoading, "Loading CityGML document")
	recorder := citylog.NewRecorder(citylog.LevelWarning, citylog.NewSlogLogger(logger))
	model, err := s.loader.Load(ctx, job.Source, params, recorder)
	if err != nil {
		return fail("loading", err)
	}
	report := VerifyModel(model, job.Source)
	result.Objects = report.Objects
	result.Polygons = report.Polygons
	result.Warnings = recorder.Count(citylog.LevelWarning)
	job.ObjectsLoaded, job.PolygonsLoaded, job.Warnings = &result.Objects, &result.Polygons, result.Warnings
	logger.Info("model loaded", "objects", result.Objects, "polygons", result.Polygons, "warnings", result.Warnings)
	progress()

	outDir := s.OutputDir(job.Source)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fail("loading", fmt.Errorf("failed to create output directory: %w", err))
	}
	indexer := NewIndexer(s.config.Service.IndexZoom, params.SrcSRS)

	// Phase 2: index records
	if !opts.SkipIndex {
		setStatus(StatusIndexing, "Building object index")
		records, err := indexer.BuildRecords(ctx, model, job.Source)
		if err != nil {
			return fail("indexing", err)
		}
		if err := SaveRecords(filepath.Join(outDir, "records.json"), records); err != nil {
			return fail("indexing", err)
		}
		if s.db != nil {
			if _, err := s.db.DeleteRecordsBySource(ctx, job.Source); err != nil {
				return fail("indexing", err)
			}
			if _, err := s.db.BatchUpsertObjectRecords(ctx, records, recordBatchSize); err != nil {
				return fail("indexing", err)
			}
		}
		result.Records = len(records)
		job.RecordsIndexed = &result.Records
		progress()
	}

	// Phase 3: GeoJSON and tiles
	if opts.ExportGeoJSON || opts.GenerateTiles {
		setStatus(StatusExporting, "Exporting features")
		fc, err := indexer.BuildFeatures(ctx, model, job.Source, ExportOptions{Attributes: true})
		if err != nil {
			return fail("exporting", err)
		}
		if opts.ExportGeoJSON {
			result.GeoJSONPath = filepath.Join(outDir, "objects.geojson")
			if _, err := WriteGeoJSON(result.GeoJSONPath, fc); err != nil {
				return fail("exporting", err)
			}
		}
		if opts.GenerateTiles {
			result.TilesDir = filepath.Join(outDir, "tiles")
			tiles, _, err := GenerateTiles(ctx, fc, result.TilesDir, &GenerateTilesOptions{
				MinZoom: s.config.Service.TileMinZoom,
				MaxZoom: s.config.Service.TileMaxZoom,
			})
			if err != nil {
				return fail("exporting", err)
			}
			result.Tiles = tiles
			job.TilesGenerated = &result.Tiles
		}
		progress()
	}

	// Phase 4: upload
	uploaded := false
	if !opts.SkipUpload && s.s3 != nil {
		setStatus(StatusUploading, "Uploading outputs")
		n, err := s.s3.UploadDirectory(ctx, outDir, s.s3.ExportKey(ExportName(job.Source)))
		if err != nil {
			return fail("uploading", err)
		}
		result.UploadBytes = n
		job.TotalSizeBytes = &n
		uploaded = true
	} else {
		logger.Info("skipping upload, outputs saved locally", "output_dir", outDir)
	}

	// Phase 5: mark as complete
	if s.db != nil {
		if err := s.db.CompleteJob(ctx, job.ID, result); err != nil {
			logger.Warn("failed to mark job complete", "error", err)
		}
	}
	now := time.Now()
	job.CompletedAt = &now
	job.CurrentStep = nil
	job.Status = StatusCompleted
	if notify != nil {
		notify(job, "Job completed successfully")
	}

	if uploaded && !opts.NoCleanup {
		if err := os.RemoveAll(outDir); err != nil {
			logger.Warn("failed to cleanup output directory", "error", err)
		}
	}

	logger.Info("job processing complete",
		"objects", result.Objects, "records", result.Records, "tiles", result.Tiles)
	return result, nil
}
