package chimelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boreiy/chime-go/pkg/retry"
	"github.com/boreiy/chime-go/timeseq"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []Record
	failN   int // fail this many calls before succeeding
}

func (f *fakeRecorder) Record(ctx context.Context, rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failN > 0 {
		f.failN--
		return fmt.Errorf("transient write failure: %w", io.ErrUnexpectedEOF)
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) Close(context.Context) error { return nil }

func (f *fakeRecorder) snapshot() []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Record(nil), f.records...)
}

func TestWrap_RecordsSuccessfulOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	wrapped := Wrap("job-a", rec, WrapOptions{}, func(context.Context, timeseq.Time) error {
		return nil
	})

	err := wrapped(context.Background(), timeseq.At{})
	require.NoError(t, err)

	records := rec.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "job-a", records[0].JobID)
	assert.Empty(t, records[0].Err)
	assert.False(t, records[0].CompletedAt.Before(records[0].FiredAt))
}

func TestWrap_RecordsCallbackError(t *testing.T) {
	rec := &fakeRecorder{}
	boom := errors.New("boom")
	wrapped := Wrap("job-b", rec, WrapOptions{}, func(context.Context, timeseq.Time) error {
		return boom
	})

	err := wrapped(context.Background(), timeseq.At{})
	assert.ErrorIs(t, err, boom, "Wrap must return the callback's own error")

	records := rec.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "boom", records[0].Err)
}

func TestWrap_RetriesTransientWriteFailures(t *testing.T) {
	rec := &fakeRecorder{failN: 2}
	wrapped := Wrap("job-c", rec, WrapOptions{}, func(context.Context, timeseq.Time) error {
		return nil
	})

	err := wrapped(context.Background(), timeseq.At{})
	require.NoError(t, err)
	assert.Len(t, rec.snapshot(), 1, "the write must eventually succeed after retries")
}

func TestWrap_WriteFailureNeverMasksCallbackResult(t *testing.T) {
	rec := &fakeRecorder{failN: 1000}
	boom := errors.New("boom")
	oneAttempt := retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond}
	wrapped := Wrap("job-d", rec, WrapOptions{Retry: &oneAttempt}, func(context.Context, timeseq.Time) error {
		return boom
	})

	err := wrapped(context.Background(), timeseq.At{})
	assert.ErrorIs(t, err, boom, "a Recorder that can never write must not change the callback's error")
	assert.Empty(t, rec.snapshot())
}
