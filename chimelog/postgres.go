package chimelog

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boreiy/chime-go/internal/platform/pg"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// PostgresRecorder records chime outcomes to a Postgres table, using
// pgxpool.Pool plumbing and golang-migrate/iofs embedding for its schema.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to dsn, applies the embedded chimelog
// migrations, and returns a ready Recorder.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	pool, err := pg.NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("chimelog: connect to postgres: %w", err)
	}

	if _, err := pg.ApplyMigrationsFromFS(dsn, postgresMigrations, "migrations/postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("chimelog: apply postgres migrations: %w", err)
	}

	return &PostgresRecorder{pool: pool}, nil
}

// Record implements Recorder.
func (r *PostgresRecorder) Record(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chime_records (job_id, fired_at, completed_at, error)
		VALUES ($1, $2, $3, NULLIF($4, ''))`,
		rec.JobID, rec.FiredAt, rec.CompletedAt, rec.Err)
	return err
}

// Close implements Recorder.
func (r *PostgresRecorder) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}
