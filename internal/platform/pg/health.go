package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WaitStrategy selects how the delay between connection attempts grows.
type WaitStrategy int

const (
	// LinearWait adds InitialInterval to the delay on every attempt.
	LinearWait WaitStrategy = iota
	// ExponentialWait doubles the delay on every attempt.
	ExponentialWait
)

// HealthCheckOptions tunes how long and how often WaitForDB retries a
// Postgres connection before giving up.
type HealthCheckOptions struct {
	// MaxRetries caps the number of attempts; 0 means retry until ctx is done.
	MaxRetries int
	// InitialInterval is the delay before the second attempt.
	InitialInterval time.Duration
	// MaxInterval caps how large the delay can grow to.
	MaxInterval time.Duration
	// Strategy controls how the delay grows between attempts.
	Strategy WaitStrategy
	// PingTimeout bounds each individual connection attempt.
	PingTimeout time.Duration
}

// DefaultHealthCheckOptions returns the retry policy NewPool uses while a
// chimelog backend's Postgres container is still coming up.
func DefaultHealthCheckOptions() HealthCheckOptions {
	return HealthCheckOptions{
		MaxRetries:      10,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Strategy:        ExponentialWait,
		PingTimeout:     5 * time.Second,
	}
}

// WaitForDB retries a connection to dsn until it succeeds, opts' retry
// budget is exhausted, or ctx is done, whichever comes first.
func WaitForDB(ctx context.Context, dsn string, opts HealthCheckOptions) error {
	attempt := 0
	interval := opts.InitialInterval

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for database: %w", ctx.Err())
		default:
		}

		attempt++

		err := pingDatabase(ctx, dsn, opts.PingTimeout)
		if err == nil {
			return nil
		}

		if opts.MaxRetries > 0 && attempt >= opts.MaxRetries {
			return fmt.Errorf("database not available after %d attempts: %w", attempt, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(interval):
		}

		interval = calculateNextInterval(interval, opts)
	}
}

// WaitForDBSimple waits for dsn to accept connections using the default
// retry policy, bounded by timeout. NewPool calls this instead of a single
// Ping so a chimelog backend started before its Postgres container is ready
// doesn't fail outright.
func WaitForDBSimple(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := DefaultHealthCheckOptions()
	opts.MaxRetries = 0 // retry until ctx's timeout fires

	return WaitForDB(ctx, dsn, opts)
}

// pingDatabase opens a short-lived pool just to confirm dsn is reachable.
func pingDatabase(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// calculateNextInterval applies opts.Strategy to grow the retry delay.
func calculateNextInterval(currentInterval time.Duration, opts HealthCheckOptions) time.Duration {
	switch opts.Strategy {
	case LinearWait:
		next := currentInterval + opts.InitialInterval
		if next > opts.MaxInterval {
			return opts.MaxInterval
		}
		return next

	case ExponentialWait:
		next := currentInterval * 2
		if next > opts.MaxInterval {
			return opts.MaxInterval
		}
		return next

	default:
		return opts.InitialInterval
	}
}
