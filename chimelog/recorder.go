package chimelog

import (
	"context"
	"time"
)

// Record is one completed chime: which job fired, when it fired, when its
// callback returned, and the error it returned (empty string for success).
type Record struct {
	JobID       string
	FiredAt     time.Time
	CompletedAt time.Time
	Err         string
}

// Recorder persists Records. Implementations must be safe for concurrent
// use; Wrap may call Record from many jobs' goroutines at once.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}
