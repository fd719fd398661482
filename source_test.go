package citygml

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, entries map[string]string, order []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "model.gml")
	if err := os.WriteFile(plain, []byte(sampleDocument), 0644); err != nil {
		t.Fatal(err)
	}
	gzPath := filepath.Join(dir, "model.gml.gz")
	writeGzip(t, gzPath, sampleDocument)
	zipPath := filepath.Join(dir, "models.zip")
	writeZip(t, zipPath, map[string]string{
		"__MACOSX/._model.gml": "not xml",
		"readme.txt":           "ignored",
		"data/model.gml":       sampleDocument,
	}, []string{"__MACOSX/._model.gml", "readme.txt", "data/model.gml"})

	testCases := []struct {
		name   string
		source string
	}{
		{name: "plain file", source: plain},
		{name: "gzip file", source: gzPath},
		{name: "zip archive", source: zipPath},
	}

	loader := NewLoader(nil, dir)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := loader.Load(context.Background(), tc.source, DefaultParserParams(), nil)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := len(model.RootObjects()); got != 3 {
				t.Errorf("root object count mismatch: got %d, expected 3", got)
			}
		})
	}
}

func TestLoaderLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	emptyZip := filepath.Join(dir, "empty.zip")
	writeZip(t, emptyZip, map[string]string{"notes.txt": "x"}, []string{"notes.txt"})
	badGzip := filepath.Join(dir, "bad.gml.gz")
	if err := os.WriteFile(badGzip, []byte("not gzip"), 0644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		source   string
		contains string
	}{
		{name: "missing file", source: filepath.Join(dir, "missing.gml"), contains: "failed to open"},
		{name: "zip without document", source: emptyZip, contains: "no .gml or .xml document"},
		{name: "corrupt gzip", source: badGzip, contains: "gzip header"},
		{name: "s3 without client", source: "s3://bucket/model.gml", contains: "no S3 client configured"},
	}

	loader := NewLoader(nil, dir)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), tc.source, DefaultParserParams(), nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("error mismatch: got %q, expected it to contain %q", err.Error(), tc.contains)
			}
		})
	}
}

func TestParseS3URI(t *testing.T) {
	testCases := []struct {
		name   string
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{name: "object", uri: "s3://data/berlin/tile.gml", bucket: "data", key: "berlin/tile.gml", ok: true},
		{name: "local path", uri: "/tmp/tile.gml", ok: false},
		{name: "bucket only", uri: "s3://data", ok: false},
		{name: "empty key", uri: "s3://data/", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bucket, key, ok := parseS3URI(tc.uri)
			if ok != tc.ok || bucket != tc.bucket || key != tc.key {
				t.Errorf("parse mismatch: got (%q, %q, %v), expected (%q, %q, %v)",
					bucket, key, ok, tc.bucket, tc.key, tc.ok)
			}
		})
	}
}

func TestExportName(t *testing.T) {
	testCases := []struct {
		source   string
		expected string
	}{
		{source: "/data/berlin/tile_42.gml", expected: "tile_42"},
		{source: "/data/berlin/tile_42.gml.gz", expected: "tile_42"},
		{source: "s3://bucket/archives/Berlin.ZIP", expected: "Berlin"},
		{source: "model.xml", expected: "model"},
		{source: ".gml", expected: "citymodel"},
	}

	for _, tc := range testCases {
		t.Run(tc.source, func(t *testing.T) {
			if got := ExportName(tc.source); got != tc.expected {
				t.Errorf("name mismatch: got %q, expected %q", got, tc.expected)
			}
		})
	}
}
