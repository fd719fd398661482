package citygml

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// testConfig keeps every output below dir and disables both stores.
func testConfig(dir string) *Config {
	return &Config{
		Parser: ParserConfig{ObjectsMask: "All", MinLOD: 0, MaxLOD: 4},
		Paths: PathsConfig{
			DataDir:   dir,
			TempDir:   dir,
			OutputDir: filepath.Join(dir, "output"),
		},
		Service: ServiceConfig{
			Workers:     1,
			IndexZoom:   15,
			TileMinZoom: 13,
			TileMaxZoom: 13,
		},
	}
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.gml")
	if err := os.WriteFile(path, []byte(sampleDocument), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// statusLog collects the statuses a job passes through.
type statusLog struct {
	mu       sync.Mutex
	statuses []string
}

func (l *statusLog) notify(job *IngestJob, _ string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, job.Status)
}

func TestProcessJob(t *testing.T) {
	dir := t.TempDir()
	source := writeSample(t, dir)
	service := NewIngestService(nil, nil, testConfig(dir))

	prune := true
	job := &IngestJob{
		ID:     "job-1",
		Source: source,
		Status: StatusPending,
		Options: JobOptions{
			PruneEmptyObjects: &prune,
			ExportGeoJSON:     true,
			GenerateTiles:     true,
		},
	}
	log := &statusLog{}

	result, err := service.ProcessJob(context.Background(), job, log.notify)
	if err != nil {
		t.Fatalf("ProcessJob failed: %v", err)
	}

	if result.Objects != 2 {
		t.Errorf("object count mismatch: got %d, expected 2", result.Objects)
	}
	if result.Polygons != 3 {
		t.Errorf("polygon count mismatch: got %d, expected 3", result.Polygons)
	}
	if result.Records != 2 {
		t.Errorf("record count mismatch: got %d, expected 2", result.Records)
	}
	if result.Tiles == 0 {
		t.Errorf("expected tiles to be generated")
	}
	if job.Status != StatusCompleted || job.CompletedAt == nil {
		t.Errorf("job state mismatch: got status %s, completed at %v", job.Status, job.CompletedAt)
	}

	expected := []string{StatusLoading, StatusIndexing, StatusExporting, StatusCompleted}
	if len(log.statuses) != len(expected) {
		t.Fatalf("status sequence mismatch: got %v, expected %v", log.statuses, expected)
	}
	for i := range expected {
		if log.statuses[i] != expected[i] {
			t.Errorf("status %d mismatch: got %s, expected %s", i, log.statuses[i], expected[i])
		}
	}

	// nothing was uploaded, so outputs stay
	outDir := service.OutputDir(source)
	for _, name := range []string{"records.json", "objects.geojson", "tiles"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("output %s missing: %v", name, err)
		}
	}
	records, err := LoadRecords(filepath.Join(outDir, "records.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Source != source {
		t.Errorf("saved records mismatch: got %+v", records)
	}
}

func TestProcessJob_SkipPhases(t *testing.T) {
	dir := t.TempDir()
	source := writeSample(t, dir)
	service := NewIngestService(nil, nil, testConfig(dir))

	job := &IngestJob{ID: "job-2", Source: source, Options: JobOptions{SkipIndex: true}}
	result, err := service.ProcessJob(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("ProcessJob failed: %v", err)
	}
	if result.Records != 0 || result.GeoJSONPath != "" || result.TilesDir != "" {
		t.Errorf("expected skipped phases to produce nothing, got %+v", result)
	}
	if _, err := os.Stat(filepath.Join(service.OutputDir(source), "records.json")); !os.IsNotExist(err) {
		t.Errorf("records.json should not exist when indexing is skipped")
	}
}

func TestProcessJob_Failures(t *testing.T) {
	dir := t.TempDir()
	source := writeSample(t, dir)

	testCases := []struct {
		name string
		job  *IngestJob
	}{
		{name: "missing source", job: &IngestJob{ID: "f1", Source: filepath.Join(dir, "missing.gml")}},
		{name: "invalid mask", job: &IngestJob{ID: "f2", Source: source, Options: JobOptions{ObjectsMask: "Castle"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewIngestService(nil, nil, testConfig(dir))
			log := &statusLog{}

			if _, err := service.ProcessJob(context.Background(), tc.job, log.notify); err == nil {
				t.Fatalf("expected error")
			}
			if tc.job.Status != StatusFailed {
				t.Errorf("status mismatch: got %s, expected %s", tc.job.Status, StatusFailed)
			}
			if tc.job.ErrorMessage == nil || *tc.job.ErrorMessage == "" {
				t.Errorf("expected an error message on the job")
			}
			if n := len(log.statuses); n == 0 || log.statuses[n-1] != StatusFailed {
				t.Errorf("last notification mismatch: got %v, expected %s", log.statuses, StatusFailed)
			}
		})
	}
}
