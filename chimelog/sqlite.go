package chimelog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/boreiy/chime-go/internal/platform/sqlite"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// SQLiteRecorder records chime outcomes to a local SQLite database, for
// demos and single-process deployments that don't want a Postgres
// dependency.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens dbPath, applies the embedded chimelog migrations,
// and returns a ready Recorder.
func NewSQLiteRecorder(ctx context.Context, dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlite.NewDB(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("chimelog: open sqlite: %w", err)
	}

	if err := sqlite.ApplyMigrationsFromFS(dbPath, sqliteMigrations, "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chimelog: apply sqlite migrations: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Record implements Recorder.
func (r *SQLiteRecorder) Record(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chime_records (job_id, fired_at, completed_at, error)
		VALUES (?, ?, ?, NULLIF(?, ''))`,
		rec.JobID, rec.FiredAt, rec.CompletedAt, rec.Err)
	return err
}

// Close implements Recorder.
func (r *SQLiteRecorder) Close(ctx context.Context) error {
	return r.db.Close()
}
