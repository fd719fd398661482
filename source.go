package citygml

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// Loader opens CityGML sources. S3 is only needed for s3:// sources.
type Loader struct {
	S3      *S3Client
	TempDir string
}

// NewLoader creates a loader that downloads archives from S3 into tempDir.
func NewLoader(s3Client *S3Client, tempDir string) *Loader {
	return &Loader{S3: s3Client, TempDir: tempDir}
}

// Load parses the document at source. Supported sources are plain files,
// gzip compressed files (.gz), zip archives (.zip, the first .gml or .xml
// entry is read) and objects in S3 (s3://bucket/key, with the same
// compression rules).
func (l *Loader) Load(ctx context.Context, source string, params ParserParams, logger citylog.Logger) (*citymodel.CityModel, error) {
	if logger == nil {
		logger = citylog.Discard()
	}
	slog.Debug("opening CityGML source", "source", source)

	r, name, cleanup, err := l.open(ctx, source)
	if err != nil {
		logger.Log(citylog.LevelError, err.Error(), nil)
		return nil, err
	}
	defer cleanup()

	return LoadReader(r, name, params, logger)
}

// open returns a reader on the document inside source and a cleanup
// function that releases everything open needed.
func (l *Loader) open(ctx context.Context, source string) (io.Reader, string, func(), error) {
	if bucket, key, ok := parseS3URI(source); ok {
		return l.openS3(ctx, bucket, key)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".zip":
		return openZipDocument(source)
	case ".gz":
		f, err := os.Open(source)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, "", nil, fmt.Errorf("failed to read gzip header of %s: %w", source, err)
		}
		return gz, source, func() { gz.Close(); f.Close() }, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	return f, source, func() { f.Close() }, nil
}

func (l *Loader) openS3(ctx context.Context, bucket, key string) (io.Reader, string, func(), error) {
	if l.S3 == nil {
		return nil, "", nil, fmt.Errorf("cannot open s3://%s/%s: no S3 client configured", bucket, key)
	}
	name := "s3://" + bucket + "/" + key

	switch strings.ToLower(path.Ext(key)) {
	case ".zip":
		// zip needs random access, so the archive is downloaded first
		tmp, err := l.S3.DownloadToTemp(ctx, bucket, key, l.TempDir)
		if err != nil {
			return nil, "", nil, err
		}
		r, entry, closeZip, err := openZipDocument(tmp)
		if err != nil {
			os.Remove(tmp)
			return nil, "", nil, err
		}
		return r, name + "!" + entryName(entry), func() { closeZip(); os.Remove(tmp) }, nil
	case ".gz":
		body, err := l.S3.OpenObject(ctx, bucket, key)
		if err != nil {
			return nil, "", nil, err
		}
		gz, err := gzip.NewReader(body)
		if err != nil {
			body.Close()
			return nil, "", nil, fmt.Errorf("failed to read gzip header of %s: %w", name, err)
		}
		return gz, name, func() { gz.Close(); body.Close() }, nil
	}

	body, err := l.S3.OpenObject(ctx, bucket, key)
	if err != nil {
		return nil, "", nil, err
	}
	return body, name, func() { body.Close() }, nil
}

// openZipDocument opens the first CityGML entry of the archive. The
// returned name is archive!entry.
func openZipDocument(archive string) (io.Reader, string, func(), error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open zip archive %s: %w", archive, err)
	}

	file := findDocumentEntry(reader.File)
	if file == nil {
		reader.Close()
		return nil, "", nil, fmt.Errorf("no .gml or .xml document in zip archive %s", archive)
	}

	rc, err := file.Open()
	if err != nil {
		reader.Close()
		return nil, "", nil, fmt.Errorf("failed to open %s in %s: %w", file.Name, archive, err)
	}
	slog.Debug("CityGML document found in archive", "archive", archive, "entry", file.Name)
	return rc, archive + "!" + file.Name, func() { rc.Close(); reader.Close() }, nil
}

// findDocumentEntry returns the first .gml or .xml file of the archive,
// skipping directories and macOS resource forks.
func findDocumentEntry(files []*zip.File) *zip.File {
	for _, file := range files {
		if file.FileInfo().IsDir() || strings.HasPrefix(file.Name, "__MACOSX/") {
			continue
		}
		switch strings.ToLower(path.Ext(file.Name)) {
		case ".gml", ".xml":
			return file
		}
	}
	return nil
}

func entryName(name string) string {
	if i := strings.LastIndex(name, "!"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// parseS3URI splits s3://bucket/key.
func parseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
