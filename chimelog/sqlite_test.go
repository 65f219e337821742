package chimelog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordsAndPersists(t *testing.T) {
	tmp, err := os.CreateTemp("", "chimelog_test_*.sqlite")
	require.NoError(t, err)
	path := tmp.Name()
	require.NoError(t, tmp.Close())
	defer os.Remove(path)

	ctx := context.Background()
	rec, err := NewSQLiteRecorder(ctx, path)
	require.NoError(t, err)
	defer rec.Close(ctx)

	firedAt := time.Now().Truncate(time.Second)
	completedAt := firedAt.Add(50 * time.Millisecond)

	require.NoError(t, rec.Record(ctx, Record{JobID: "daily-report", FiredAt: firedAt, CompletedAt: completedAt}))
	require.NoError(t, rec.Record(ctx, Record{JobID: "daily-report", FiredAt: firedAt.Add(time.Hour), CompletedAt: completedAt.Add(time.Hour), Err: "boom"}))

	var count int
	require.NoError(t, rec.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chime_records WHERE job_id = ?`, "daily-report").Scan(&count))
	assert.Equal(t, 2, count)

	var gotErr *string
	require.NoError(t, rec.db.QueryRowContext(ctx, `SELECT error FROM chime_records WHERE error IS NOT NULL`).Scan(&gotErr))
	require.NotNil(t, gotErr)
	assert.Equal(t, "boom", *gotErr)
}

func TestSQLiteRecorder_MigrationsAreIdempotent(t *testing.T) {
	tmp, err := os.CreateTemp("", "chimelog_test_*.sqlite")
	require.NoError(t, err)
	path := tmp.Name()
	require.NoError(t, tmp.Close())
	defer os.Remove(path)

	ctx := context.Background()
	rec, err := NewSQLiteRecorder(ctx, path)
	require.NoError(t, err)
	require.NoError(t, rec.Close(ctx))

	// Reopening against the same file must not fail re-applying migrations.
	rec2, err := NewSQLiteRecorder(ctx, path)
	require.NoError(t, err)
	defer rec2.Close(ctx)
}
