package citygml

import "time"

// Job states, in the order a successful job passes through them.
const (
	StatusPending   = "pending"
	StatusLoading   = "loading"
	StatusIndexing  = "indexing"
	StatusExporting = "exporting"
	StatusUploading = "uploading"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// IngestJob represents the ingestion of one CityGML source
type IngestJob struct {
	ID             string
	Source         string
	Status         string // one of the Status constants
	Options        JobOptions
	CurrentStep    *string
	ObjectsLoaded  *int
	PolygonsLoaded *int
	RecordsIndexed *int
	TilesGenerated *int
	TotalSizeBytes *int64
	ErrorMessage   *string
	Warnings       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// Finished reports whether the job reached a terminal state.
func (j *IngestJob) Finished() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// JobProgress represents progress update for a job
type JobProgress struct {
	ObjectsLoaded  int
	PolygonsLoaded int
	RecordsIndexed int
	TilesGenerated int
	UploadedBytes  int64
}

// JobOptions selects the optional phases of an ingestion job. Parser
// settings left at zero fall back to the configured defaults.
type JobOptions struct {
	ObjectsMask       string `json:"objectsMask,omitempty"`
	MinLOD            *int   `json:"minLod,omitempty"`
	MaxLOD            *int   `json:"maxLod,omitempty"`
	Optimize          *bool  `json:"optimize,omitempty"`
	PruneEmptyObjects *bool  `json:"pruneEmptyObjects,omitempty"`
	DestSRS           string `json:"destSrs,omitempty"`
	SrcSRS            string `json:"srcSrs,omitempty"`

	ExportGeoJSON bool `json:"exportGeoJson"`
	GenerateTiles bool `json:"generateTiles"`
	SkipIndex     bool `json:"skipIndex"`
	SkipUpload    bool `json:"skipUpload"`
	NoCleanup     bool `json:"noCleanup"`
}

// ParserParams merges the job overrides into the configured defaults.
func (o JobOptions) ParserParams(defaults ParserConfig) (ParserParams, error) {
	cfg := defaults
	if o.ObjectsMask != "" {
		cfg.ObjectsMask = o.ObjectsMask
	}
	if o.MinLOD != nil {
		cfg.MinLOD = *o.MinLOD
	}
	if o.MaxLOD != nil {
		cfg.MaxLOD = *o.MaxLOD
	}
	if o.Optimize != nil {
		cfg.Optimize = *o.Optimize
	}
	if o.PruneEmptyObjects != nil {
		cfg.PruneEmptyObjects = *o.PruneEmptyObjects
	}
	if o.DestSRS != "" {
		cfg.DestSRS = o.DestSRS
	}
	if o.SrcSRS != "" {
		cfg.SrcSRS = o.SrcSRS
	}
	return cfg.Params()
}

// ProcessingResult summarizes a finished job
type ProcessingResult struct {
	Objects     int
	Polygons    int
	Records     int
	GeoJSONPath string
	TilesDir    string
	Tiles       int
	UploadBytes int64
	Warnings    int
}
