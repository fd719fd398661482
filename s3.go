package citygml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// uploadWorkers is the number of parallel uploads of UploadDirectory.
const uploadWorkers = 32

// S3Client reads CityGML documents from and writes exports to an S3
// compatible store.
type S3Client struct {
	client     *s3.Client
	bucket     string
	bucketPath string
	uploader   *manager.Uploader
	downloader *manager.Downloader
}

// NewS3Client creates a client for the configured endpoint.
func NewS3Client(cfg S3Config) (*S3Client, error) {
	logger := slog.With("endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	logger.Info("initializing S3 client")

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &smithy.GenericAPIError{Code: "UnknownEndpoint"}
	})

	// idle connections per host must cover the upload workers
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        uploadWorkers * 2,
			MaxIdleConnsPerHost: uploadWorkers * 2,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Timeout: 10 * time.Minute,
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithHTTPClient(httpClient),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	logger.Info("S3 client initialized successfully")

	return &S3Client{
		client:     s3Client,
		bucket:     cfg.Bucket,
		bucketPath: cfg.BucketPath,
		uploader:   manager.NewUploader(s3Client),
		downloader: manager.NewDownloader(s3Client),
	}, nil
}

// Bucket is the bucket exports are written to.
func (s *S3Client) Bucket() string { return s.bucket }

// ExportKey places name below the configured bucket path.
func (s *S3Client) ExportKey(name string) string {
	return path.Join(s.bucketPath, name)
}

// OpenObject streams an object. The caller closes the body.
func (s *S3Client) OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	slog.Debug("opening S3 object", "bucket", bucket, "key", key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// DownloadToTemp downloads an object into a new file in dir and returns
// its path. The caller removes the file.
func (s *S3Client) DownloadToTemp(ctx context.Context, bucket, key, dir string) (string, error) {
	logger := slog.With("bucket", bucket, "key", key)
	logger.Debug("downloading S3 object")

	f, err := os.CreateTemp(dir, "citygml-*"+path.Ext(key))
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer f.Close()

	n, err := s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	logger.Debug("S3 object downloaded", "path", f.Name(), "bytes", n)
	return f.Name(), nil
}

// ListDocuments returns s3:// URIs of every CityGML document below prefix.
func (s *S3Client) ListDocuments(ctx context.Context, bucket, prefix string) ([]string, error) {
	logger := slog.With("bucket", bucket, "prefix", prefix)
	logger.Debug("listing CityGML documents")

	var uris []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if isDocumentKey(*obj.Key) {
				uris = append(uris, "s3://"+bucket+"/"+*obj.Key)
			}
		}
	}

	logger.Debug("documents listed", "count", len(uris))
	return uris, nil
}

func isDocumentKey(key string) bool {
	k := strings.ToLower(key)
	k = strings.TrimSuffix(k, ".gz")
	switch path.Ext(k) {
	case ".gml", ".xml", ".zip":
		return true
	}
	return false
}

// UploadFile uploads a single file and returns its size.
func (s *S3Client) UploadFile(ctx context.Context, filePath, s3Key string) (int64, error) {
	logger := slog.With("file_path", filePath, "s3_key", s3Key)
	logger.Debug("uploading file")

	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		logger.Error("upload failed", "error", err)
		return 0, fmt.Errorf("failed to upload file: %w", err)
	}

	logger.Debug("file uploaded", "location", result.Location)
	return info.Size(), nil
}

// UploadDirectory uploads every file below localDir to s3Prefix with a
// pool of workers and returns the number of bytes uploaded.
func (s *S3Client) UploadDirectory(ctx context.Context, localDir, s3Prefix string) (int64, error) {
	logger := slog.With("local_dir", localDir, "s3_prefix", s3Prefix)
	logger.Info("starting parallel directory upload")

	type fileToUpload struct {
		path    string
		relPath string
		s3Key   string
		size    int64
	}

	var files []fileToUpload
	err := filepath.Walk(localDir, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(localDir, filePath)
		if err != nil {
			return err
		}
		files = append(files, fileToUpload{
			path:    filePath,
			relPath: relPath,
			s3Key:   path.Join(s3Prefix, filepath.ToSlash(relPath)),
			size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		return 0, fmt.Errorf("failed to scan directory: %w", err)
	}

	logger.Info("found files to upload", "count", len(files))

	var (
		totalBytes int64
		fileCount  int
		mu         sync.Mutex
		wg         sync.WaitGroup
	)
	workChan := make(chan fileToUpload, uploadWorkers*2)
	errChan := make(chan error, 1)

	for i := 0; i < uploadWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range workChan {
				f, err := os.Open(file.path)
				if err != nil {
					select {
					case errChan <- fmt.Errorf("failed to open file %s: %w", file.relPath, err):
					default:
					}
					return
				}

				_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
					Bucket: aws.String(s.bucket),
					Key:    aws.String(file.s3Key),
					Body:   f,
					ACL:    types.ObjectCannedACLPublicRead,
				})
				f.Close()
				if err != nil {
					select {
					case errChan <- fmt.Errorf("failed to upload file %s: %w", file.relPath, err):
					default:
					}
					return
				}

				mu.Lock()
				totalBytes += file.size
				fileCount++
				currentCount, currentBytes := fileCount, totalBytes
				mu.Unlock()

				if currentCount%1000 == 0 {
					logger.Info("upload progress", "files_uploaded", currentCount, "bytes_uploaded", currentBytes)
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, file := range files {
			select {
			case <-ctx.Done():
				return
			case workChan <- file:
			}
		}
	}()

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		logger.Error("upload failed", "error", err)
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("upload cancelled: %w", err)
	}

	logger.Info("directory upload completed", "total_files", fileCount, "total_bytes", totalBytes)
	return totalBytes, nil
}

// HeadObject reports whether an object exists and its size. A missing
// object is not an error.
func (s *S3Client) HeadObject(ctx context.Context, s3Key string) (int64, bool, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return 0, false, nil
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to head object %s: %w", s3Key, err)
	}

	var size int64
	if result.ContentLength != nil {
		size = *result.ContentLength
	}
	return size, true, nil
}
