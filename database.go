package citygml

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/paulmach/orb"
)

// recordColumns is the number of bind parameters per index record.
const recordColumns = 12

const schema = `
CREATE TABLE IF NOT EXISTS "IngestJob" (
	id               TEXT PRIMARY KEY,
	source           TEXT NOT NULL,
	status           TEXT NOT NULL,
	options          JSONB NOT NULL DEFAULT '{}',
	"currentStep"    TEXT,
	"objectsLoaded"  INTEGER,
	"polygonsLoaded" INTEGER,
	"recordsIndexed" INTEGER,
	"tilesGenerated" INTEGER,
	"totalSizeBytes" BIGINT,
	"errorMessage"   TEXT,
	warnings         INTEGER NOT NULL DEFAULT 0,
	"createdAt"      TIMESTAMPTZ NOT NULL,
	"updatedAt"      TIMESTAMPTZ NOT NULL,
	"startedAt"      TIMESTAMPTZ,
	"completedAt"    TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS "CityObjectIndex" (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	"objectId"  TEXT NOT NULL,
	source      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	lod         INTEGER NOT NULL,
	"minLat"    DOUBLE PRECISION NOT NULL,
	"maxLat"    DOUBLE PRECISION NOT NULL,
	"minLng"    DOUBLE PRECISION NOT NULL,
	"maxLng"    DOUBLE PRECISION NOT NULL,
	"minHeight" DOUBLE PRECISION NOT NULL,
	"maxHeight" DOUBLE PRECISION NOT NULL,
	polygons    INTEGER NOT NULL,
	tile        TEXT NOT NULL,
	"createdAt" TIMESTAMPTZ NOT NULL,
	"updatedAt" TIMESTAMPTZ NOT NULL,
	UNIQUE ("objectId", source)
);
CREATE INDEX IF NOT EXISTS "CityObjectIndex_tile" ON "CityObjectIndex" (tile);
`

const jobColumns = `id, source, status, options, "currentStep", "objectsLoaded", "polygonsLoaded",
	"recordsIndexed", "tilesGenerated", "totalSizeBytes", "errorMessage", warnings,
	"createdAt", "updatedAt", "startedAt", "completedAt"`

// Database wraps the job table and the object index
type Database struct {
	conn *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg DatabaseConfig) (*Database, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected successfully", "host", cfg.Host, "dbname", cfg.DBName)

	return &Database{conn: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.conn.Close()
}

// EnsureSchema creates the job and index tables when missing.
func (d *Database) EnsureSchema(ctx context.Context) error {
	if _, err := d.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*IngestJob, error) {
	job := &IngestJob{}
	var options []byte
	err := row.Scan(
		&job.ID, &job.Source, &job.Status, &options, &job.CurrentStep,
		&job.ObjectsLoaded, &job.PolygonsLoaded, &job.RecordsIndexed,
		&job.TilesGenerated, &job.TotalSizeBytes, &job.ErrorMessage, &job.Warnings,
		&job.CreatedAt, &job.UpdatedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &job.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options of job %s: %w", job.ID, err)
		}
	}
	return job, nil
}

// CreateJob inserts a new job
func (d *Database) CreateJob(ctx context.Context, job *IngestJob) error {
	options, err := json.Marshal(job.Options)
	if err != nil {
		return fmt.Errorf("failed to encode job options: %w", err)
	}

	query := `
		INSERT INTO "IngestJob" (id, source, status, options, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := d.conn.ExecContext(ctx, query,
		job.ID, job.Source, job.Status, options, job.CreatedAt, job.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetPendingJobs retrieves pending jobs, oldest first
func (d *Database) GetPendingJobs(ctx context.Context, limit int) ([]*IngestJob, error) {
	return d.queryJobs(ctx, `SELECT `+jobColumns+` FROM "IngestJob"
		WHERE status = 'pending' ORDER BY "createdAt" LIMIT $1`, limit)
}

// ListJobs retrieves the most recent jobs
func (d *Database) ListJobs(ctx context.Context, limit int) ([]*IngestJob, error) {
	return d.queryJobs(ctx, `SELECT `+jobColumns+` FROM "IngestJob"
		ORDER BY "createdAt" DESC LIMIT $1`, limit)
}

func (d *Database) queryJobs(ctx context.Context, query string, args ...any) ([]*IngestJob, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*IngestJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			slog.Error("failed to scan job row", "error", err)
			continue
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// GetJobByID retrieves a specific job by ID
func (d *Database) GetJobByID(ctx context.Context, jobID string) (*IngestJob, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM "IngestJob" WHERE id = $1`, jobID)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus updates the status of a job and stamps its start
func (d *Database) UpdateJobStatus(ctx context.Context, jobID, status string) error {
	query := `
		UPDATE "IngestJob"
		SET status = $1, "currentStep" = $1, "updatedAt" = NOW(),
		    "startedAt" = CASE WHEN "startedAt" IS NULL THEN NOW() ELSE "startedAt" END
		WHERE id = $2
	`
	return d.execOne(ctx, "update job status", jobID, query, status, jobID)
}

// UpdateJobProgress updates the counters of a running job
func (d *Database) UpdateJobProgress(ctx context.Context, jobID string, p JobProgress) error {
	query := `
		UPDATE "IngestJob"
		SET "objectsLoaded" = $1, "polygonsLoaded" = $2, "recordsIndexed" = $3,
		    "tilesGenerated" = $4, "updatedAt" = NOW()
		WHERE id = $5
	`
	if _, err := d.conn.ExecContext(ctx, query,
		p.ObjectsLoaded, p.PolygonsLoaded, p.RecordsIndexed, p.TilesGenerated, jobID,
	); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}

// UpdateJobError marks a job as failed
func (d *Database) UpdateJobError(ctx context.Context, jobID, errorMsg string) error {
	query := `
		UPDATE "IngestJob"
		SET status = 'failed', "errorMessage" = $1, "updatedAt" = NOW(), "completedAt" = NOW()
		WHERE id = $2
	`
	if _, err := d.conn.ExecContext(ctx, query, errorMsg, jobID); err != nil {
		return fmt.Errorf("failed to update job error: %w", err)
	}
	return nil
}

// CompleteJob marks a job as completed with its final counters
func (d *Database) CompleteJob(ctx context.Context, jobID string, result *ProcessingResult) error {
	query := `
		UPDATE "IngestJob"
		SET
			status = 'completed',
			"currentStep" = NULL,
			"objectsLoaded" = $1,
			"polygonsLoaded" = $2,
			"recordsIndexed" = $3,
			"tilesGenerated" = $4,
			"totalSizeBytes" = $5,
			warnings = $6,
			"completedAt" = NOW(),
			"updatedAt" = NOW()
		WHERE id = $7
	`
	return d.execOne(ctx, "complete job", jobID, query,
		result.Objects, result.Polygons, result.Records, result.Tiles,
		result.UploadBytes, result.Warnings, jobID,
	)
}

func (d *Database) execOne(ctx context.Context, what, jobID, query string, args ...any) error {
	result, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// BatchUpsertObjectRecords inserts or updates index records in chunked
// multi-row statements, committing every rowsPerTransaction rows.
func (d *Database) BatchUpsertObjectRecords(ctx context.Context, records []ObjectRecord, batchSize int) (int, error) {
	logger := slog.With("total_records", len(records), "batch_size", batchSize)
	logger.Info("starting batch upsert of object records")

	// PostgreSQL accepts at most 65535 bind parameters per statement
	maxBatchSize := 65535 / recordColumns
	if batchSize <= 0 {
		batchSize = 1000
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	const rowsPerTransaction = 200000

	inserted := 0
	rowsInCurrentTx := 0
	var tx *sql.Tx
	var err error

	for i := 0; i < len(records); i += batchSize {
		if tx == nil {
			tx, err = d.conn.BeginTx(ctx, nil)
			if err != nil {
				return inserted, fmt.Errorf("failed to begin transaction: %w", err)
			}
			rowsInCurrentTx = 0
		}

		batch := records[i:min(i+batchSize, len(records))]
		query, args := upsertRecordsQuery(batch)

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return inserted - rowsInCurrentTx, fmt.Errorf("failed to insert batch at row %d: %w", i, err)
		}

		inserted += len(batch)
		rowsInCurrentTx += len(batch)

		if rowsInCurrentTx >= rowsPerTransaction || inserted == len(records) {
			if err := tx.Commit(); err != nil {
				return inserted - rowsInCurrentTx, fmt.Errorf("failed to commit transaction: %w", err)
			}
			logger.Info("transaction committed", "inserted", inserted, "total", len(records))
			tx = nil
		}
	}

	logger.Info("batch upsert complete", "total_inserted", inserted)
	return inserted, nil
}

// upsertRecordsQuery builds the multi-row upsert of batch.
func upsertRecordsQuery(batch []ObjectRecord) (string, []any) {
	values := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*recordColumns)

	for idx, r := range batch {
		placeholders := make([]string, recordColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*recordColumns+c+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+", NOW(), NOW())")
		args = append(args,
			r.ObjectID, r.Source, r.Kind, r.LOD,
			r.MinLat, r.MaxLat, r.MinLng, r.MaxLng,
			r.MinHeight, r.MaxHeight, r.Polygons, r.Tile,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO "CityObjectIndex" ("objectId", source, kind, lod, "minLat", "maxLat", "minLng", "maxLng",
			"minHeight", "maxHeight", polygons, tile, "createdAt", "updatedAt")
		VALUES %s
		ON CONFLICT ("objectId", source)
		DO UPDATE SET
			kind = EXCLUDED.kind,
			lod = EXCLUDED.lod,
			"minLat" = EXCLUDED."minLat",
			"maxLat" = EXCLUDED."maxLat",
			"minLng" = EXCLUDED."minLng",
			"maxLng" = EXCLUDED."maxLng",
			"minHeight" = EXCLUDED."minHeight",
			"maxHeight" = EXCLUDED."maxHeight",
			polygons = EXCLUDED.polygons,
			tile = EXCLUDED.tile,
			"updatedAt" = NOW()
	`, strings.Join(values, ", "))
	return query, args
}

// DeleteRecordsBySource deletes the index records of one source
func (d *Database) DeleteRecordsBySource(ctx context.Context, source string) (int64, error) {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM "CityObjectIndex" WHERE source = $1`, source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete object records: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// GetRecordCount returns the number of index records of a source
func (d *Database) GetRecordCount(ctx context.Context, source string) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "CityObjectIndex" WHERE source = $1`, source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count object records: %w", err)
	}
	return count, nil
}

// FindRecords returns the records intersecting bound, optionally
// restricted to the given kinds.
func (d *Database) FindRecords(ctx context.Context, bound orb.Bound, kinds []string, limit int) ([]ObjectRecord, error) {
	query := `
		SELECT "objectId", source, kind, lod, "minLat", "maxLat", "minLng", "maxLng",
		       "minHeight", "maxHeight", polygons, tile
		FROM "CityObjectIndex"
		WHERE "maxLat" >= $1 AND "minLat" <= $2 AND "maxLng" >= $3 AND "minLng" <= $4
		  AND (cardinality($5::text[]) = 0 OR kind = ANY($5))
		ORDER BY "objectId"
		LIMIT $6
	`
	if kinds == nil {
		kinds = []string{}
	}
	rows, err := d.conn.QueryContext(ctx, query,
		bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon(),
		pq.Array(kinds), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query object records: %w", err)
	}
	defer rows.Close()

	var records []ObjectRecord
	for rows.Next() {
		var r ObjectRecord
		if err := rows.Scan(
			&r.ObjectID, &r.Source, &r.Kind, &r.LOD,
			&r.MinLat, &r.MaxLat, &r.MinLng, &r.MaxLng,
			&r.MinHeight, &r.MaxHeight, &r.Polygons, &r.Tile,
		); err != nil {
			return nil, fmt.Errorf("failed to scan object record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating object records: %w", err)
	}
	return records, nil
}
