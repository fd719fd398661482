package citygml

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/parser"
)

// Config represents the service configuration
type Config struct {
	Parser   ParserConfig
	Database DatabaseConfig
	S3       S3Config
	Paths    PathsConfig
	Service  ServiceConfig
}

// ParserConfig holds the default parser parameters of ingestion jobs
type ParserConfig struct {
	ObjectsMask       string // mask expression, e.g. "All & ~WallSurface"
	MinLOD            int
	MaxLOD            int
	Optimize          bool
	PruneEmptyObjects bool
	DestSRS           string
	SrcSRS            string
	KeepVertices      bool
}

// DatabaseConfig represents database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the index store is configured.
func (c DatabaseConfig) Enabled() bool { return c.Password != "" }

// S3Config represents S3 connection settings
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	BucketPath      string // prefix for exports, e.g. "citygml"
}

// Enabled reports whether credentials are configured.
func (c S3Config) Enabled() bool { return c.AccessKeyID != "" && c.SecretAccessKey != "" }

// PathsConfig represents file system paths
type PathsConfig struct {
	DataDir   string // where local CityGML documents are looked up
	TempDir   string // downloads of zipped S3 sources
	OutputDir string // GeoJSON exports, index files and tiles
}

// ServiceConfig represents service-level settings
type ServiceConfig struct {
	Workers     int
	HTTPPort    int
	IndexZoom   int // zoom level of the tile key of index records
	TileMinZoom int
	TileMaxZoom int
}

// LoadConfig loads configuration from environment variables and the env
// file. A .env.local next to envPath takes precedence over envPath.
func LoadConfig(envPath string) (*Config, error) {
	localEnvPath := strings.TrimSuffix(envPath, ".env") + ".env.local"
	if _, err := os.Stat(localEnvPath); err == nil {
		if err := loadEnvFile(localEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load local env file: %w", err)
		}
	} else if _, err := os.Stat(envPath); err == nil {
		if err := loadEnvFile(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	defaultOutputDir := "./output"
	if home, err := os.UserHomeDir(); err == nil {
		defaultOutputDir = filepath.Join(home, "data", "citygml")
	}

	cfg := &Config{
		Parser: ParserConfig{
			ObjectsMask:       getEnv("CITYGML_OBJECTS_MASK", "All"),
			MinLOD:            getEnvInt("CITYGML_MIN_LOD", 0),
			MaxLOD:            getEnvInt("CITYGML_MAX_LOD", 4),
			Optimize:          getEnvBool("CITYGML_OPTIMIZE", false),
			PruneEmptyObjects: getEnvBool("CITYGML_PRUNE_EMPTY", false),
			DestSRS:           getEnv("CITYGML_DEST_SRS", ""),
			SrcSRS:            getEnv("CITYGML_SRC_SRS", ""),
			KeepVertices:      getEnvBool("CITYGML_KEEP_VERTICES", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "citygml"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "https://s3.us-west-1.wasabisys.com"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          getEnv("S3_REGION", "us-west-1"),
			Bucket:          getEnv("S3_BUCKET", "citygml"),
			BucketPath:      getEnv("S3_BUCKET_PATH", "exports"),
		},
		Paths: PathsConfig{
			DataDir:   getEnv("CITYGML_DATA_DIR", "./data"),
			TempDir:   getEnv("TEMP_DIR", os.TempDir()),
			OutputDir: getEnv("OUTPUT_DIR", defaultOutputDir),
		},
		Service: ServiceConfig{
			Workers:     getEnvInt("WORKERS", 2),
			HTTPPort:    getEnvInt("HTTP_PORT", 8080),
			IndexZoom:   getEnvInt("INDEX_ZOOM", 15),
			TileMinZoom: getEnvInt("TILE_MIN_ZOOM", 13),
			TileMaxZoom: getEnvInt("TILE_MAX_ZOOM", 16),
		},
	}

	// the objects mask is validated here so a typo fails at startup
	if _, err := cfg.Parser.Params(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Params converts the configuration into parser parameters.
func (c ParserConfig) Params() (parser.Params, error) {
	mask, err := citymodel.ParseObjectsMask(c.ObjectsMask)
	if err != nil {
		return parser.Params{}, fmt.Errorf("invalid CITYGML_OBJECTS_MASK %q: %w", c.ObjectsMask, err)
	}
	return parser.Params{
		ObjectsMask:       mask,
		MinLOD:            c.MinLOD,
		MaxLOD:            c.MaxLOD,
		Optimize:          c.Optimize,
		PruneEmptyObjects: c.PruneEmptyObjects,
		DestSRS:           c.DestSRS,
		SrcSRS:            c.SrcSRS,
		KeepVertices:      c.KeepVertices,
	}, nil
}

// loadEnvFile sets the KEY=VALUE lines of path as environment variables.
func loadEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		os.Setenv(strings.TrimSpace(key), value)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt gets an environment variable as integer with a default value
func getEnvInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvBool accepts the forms of strconv.ParseBool
func getEnvBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
