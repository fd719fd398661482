// Package citygml loads CityGML documents into city models and runs the
// ingestion pipeline around them: source opening, object index records,
// GeoJSON and vector tile export, the PostgreSQL index store and the job
// service with its HTTP API.
package citygml

import (
	"context"
	"fmt"
	"io"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/parser"
)

// ParserParams controls filtering, finishing and reprojection of a load.
type ParserParams = parser.Params

// DefaultParserParams keeps every object kind at every level of detail.
func DefaultParserParams() ParserParams {
	return parser.DefaultParams()
}

var defaultLoader = &Loader{}

// Load parses the document at source with a loader that has no S3 client.
// source is a file path, a .gz file or a .zip archive.
func Load(ctx context.Context, source string, params ParserParams, logger citylog.Logger) (*citymodel.CityModel, error) {
	return defaultLoader.Load(ctx, source, params, logger)
}

// LoadReader parses one document from r. name appears in log messages and
// parse errors.
func LoadReader(r io.Reader, name string, params ParserParams, logger citylog.Logger) (*citymodel.CityModel, error) {
	if logger == nil {
		logger = citylog.Discard()
	}
	model, err := parser.Parse(r, name, params, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return model, nil
}
