// Package sqlite is the file-backed storage layer for chimelog's SQLite
// recorder: opening a database with sane pooling and PRAGMA defaults, and
// applying its embedded schema migrations on startup.
//
// # Quick start
//
// Open a database with the defaults tuned for a single-writer firing log:
//
//	ctx := context.Background()
//	db, err := sqlite.NewDB(ctx, "chimelog.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
// # Custom pool and PRAGMA settings
//
//	opts := sqlite.DefaultDBOptions()
//	opts.BusyTimeout = 10 * time.Second
//	opts.TxLockMode = sqlite.TxLockImmediate
//	db, err := sqlite.NewDBWithOptions(ctx, "chimelog.db", opts)
//
// # Migrations
//
// Schema ships inside the binary via embed.FS; ApplyMigrationsFromFS applies
// whatever hasn't already run and is safe to call on every startup:
//
//	//go:embed migrations/sqlite/*.sql
//	var migrations embed.FS
//
//	err = sqlite.ApplyMigrationsFromFS("chimelog.db", migrations, "migrations/sqlite")
package sqlite
