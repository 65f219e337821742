package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver for chimelog's file-backed recorder
)

// TxLockMode selects how a SQLite transaction acquires its lock.
type TxLockMode string

const (
	// TxLockDeferred defers locking until the first read or write (SQLite's default).
	TxLockDeferred TxLockMode = "DEFERRED"
	// TxLockImmediate grabs a RESERVED lock up front, avoiding SQLITE_BUSY on the
	// eventual write when a chimelog job's callback both reads and records.
	TxLockImmediate TxLockMode = "IMMEDIATE"
	// TxLockExclusive grabs an EXCLUSIVE lock up front.
	TxLockExclusive TxLockMode = "EXCLUSIVE"
)

// AccessMode selects how NewDBWithOptions opens the SQLite file.
type AccessMode string

const (
	// AccessModeReadWrite opens the file for reads and writes (the default).
	AccessModeReadWrite AccessMode = "rw"
	// AccessModeReadOnly opens the file read-only.
	AccessModeReadOnly AccessMode = "ro"
	// AccessModeReadWriteCreate opens the file for reads and writes, creating
	// it if it doesn't already exist.
	AccessModeReadWriteCreate AccessMode = "rwc"
)

// DBOptions configures the SQLite connection chimelog's file-backed
// recorder opens to store chime firings.
type DBOptions struct {
	// ConnMaxLifetime bounds how long a pooled connection is reused.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime bounds how long an idle connection is kept open.
	ConnMaxIdleTime time.Duration
	// MaxOpenConns bounds the pool size.
	MaxOpenConns int
	// MaxIdleConns bounds how many idle connections are kept around.
	MaxIdleConns int
	// PingTimeout bounds the connectivity check NewDBWithOptions performs.
	PingTimeout time.Duration
	// WALMode turns on SQLite's write-ahead log, letting chime firings append
	// without blocking readers of the recorded history.
	WALMode bool
	// ForeignKeys turns on SQLite's foreign key enforcement.
	ForeignKeys bool
	// BusyTimeout bounds how long a statement waits out SQLITE_BUSY before failing.
	BusyTimeout time.Duration
	// TxLockMode selects the lock mode new transactions open with.
	TxLockMode TxLockMode
	// EnableWriteQueue serializes writes through a single in-process queue
	// instead of relying on SQLite's own locking.
	EnableWriteQueue bool
	// WriteQueueSize bounds the write queue's buffer when EnableWriteQueue is set.
	WriteQueueSize int
	// AccessMode selects how the database file is opened.
	AccessMode AccessMode
}

// DefaultDBOptions returns settings tuned for chimelog's embedded use: a
// single-writer SQLite file recording job firings alongside the process that
// schedules them.
func DefaultDBOptions() DBOptions {
	return DBOptions{
		ConnMaxLifetime:  time.Hour,
		ConnMaxIdleTime:  10 * time.Minute,
		MaxOpenConns:     4, // SQLite only has one writer at a time
		MaxIdleConns:     1,
		PingTimeout:      5 * time.Second,
		WALMode:          true,
		ForeignKeys:      true,
		BusyTimeout:      5 * time.Second,
		TxLockMode:       TxLockDeferred,
		EnableWriteQueue: false,
		WriteQueueSize:   100,
		AccessMode:       AccessModeReadWrite,
	}
}

// NewDB opens the SQLite database at dbPath with DefaultDBOptions, the entry
// point chimelog's SQLite recorder uses to open its firing log.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	return NewDBWithOptions(ctx, dbPath, DefaultDBOptions())
}

// NewDBWithOptions opens the SQLite database at dbPath, creating its parent
// directory and applying opts' pool and PRAGMA settings.
func NewDBWithOptions(ctx context.Context, dbPath string, opts DBOptions) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	dsn := buildDSN(dbPath, opts)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := applyPragmaSettings(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply PRAGMA settings: %w", err)
	}

	return db, nil
}

// buildDSN builds the DSN modernc.org/sqlite expects. Most tuning happens via
// PRAGMA after the connection opens; only access mode and busy timeout travel
// as DSN parameters.
func buildDSN(dbPath string, opts DBOptions) string {
	params := []string{}

	if opts.AccessMode != "" && opts.AccessMode != AccessModeReadWrite {
		params = append(params, fmt.Sprintf("mode=%s", opts.AccessMode))
	}

	if opts.BusyTimeout > 0 {
		timeoutMs := int(opts.BusyTimeout.Milliseconds())
		params = append(params, fmt.Sprintf("_busy_timeout=%d", timeoutMs))
	}

	if len(params) > 0 {
		return dbPath + "?" + strings.Join(params, "&")
	}

	return dbPath
}

// applyPragmaSettings applies opts' PRAGMA statements to an already-open
// connection, since modernc.org/sqlite doesn't honor all of them as DSN
// parameters.
func applyPragmaSettings(ctx context.Context, db *sql.DB, opts DBOptions) error {
	pragmas := make([]string, 0, 5)

	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys = ON")
	}

	if opts.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	pragmas = append(pragmas, "PRAGMA synchronous = NORMAL")

	if opts.BusyTimeout > 0 {
		timeoutMs := int(opts.BusyTimeout.Milliseconds())
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", timeoutMs))
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}
