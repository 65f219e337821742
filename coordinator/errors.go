package coordinator

import "github.com/boreiy/chime-go/internal/shared"

// ErrClosed is returned by Schedule when called after Close.
var ErrClosed = shared.Invariant(false, "coordinator is closed")

// ErrDuplicateJob is returned by Schedule when a job map contains an id that
// collides with one already tracked. Use Unschedule/UnscheduleNow first, or
// pick a different id — Schedule never silently replaces a running job.
var ErrDuplicateJob = shared.Invariant(false, "job id already scheduled")

// ErrMissingCallback is returned by Schedule for a Job with a nil Callback
// or a nil Times.
var ErrMissingCallback = shared.Invariant(false, "job requires both Times and Callback")
