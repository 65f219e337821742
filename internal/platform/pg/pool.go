package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions configures the pgxpool.Pool chimelog's Postgres recorder opens
// to store chime firings.
type PoolOptions struct {
	// MaxConns bounds the pool size.
	MaxConns int32
	// MinConns keeps this many connections warm even when idle.
	MinConns int32
	// HealthCheckPeriod sets how often pgxpool checks idle connections.
	HealthCheckPeriod time.Duration
	// MaxConnLifetime bounds how long a connection is reused before recycling.
	MaxConnLifetime time.Duration
	// MaxConnIdleTime bounds how long an idle connection is kept open.
	MaxConnIdleTime time.Duration
	// PingTimeout bounds NewPoolWithOptions' wait for the database to accept
	// connections.
	PingTimeout time.Duration
}

// DefaultPoolOptions returns settings tuned for a background service with
// moderate write load — chimelog's Postgres recorder appending one row per
// firing.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:          20,
		MinConns:          2,
		HealthCheckPeriod: 30 * time.Second,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   10 * time.Minute,
		PingTimeout:       5 * time.Second,
	}
}

// NewPool opens a pgxpool.Pool against dsn using DefaultPoolOptions, the
// entry point chimelog's Postgres recorder uses to open its firing log.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions())
}

// NewPoolWithOptions opens a pgxpool.Pool against dsn with opts applied, and
// waits for the database to accept connections before returning.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.HealthCheckPeriod = opts.HealthCheckPeriod
	cfg.MaxConnLifetime = opts.MaxConnLifetime
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// chimelog's Postgres backend is often started alongside a Postgres
	// container that isn't accepting connections yet; wait it out instead of
	// failing on the first ping.
	if err := WaitForDBSimple(ctx, dsn, opts.PingTimeout); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
