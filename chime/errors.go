package chime

import (
	"github.com/boreiy/chime-go/internal/shared"
)

// ErrAppendNotSupported is returned by AppendAbsolute and
// AppendRelativeToLast when called against a Schedule that was not created
// with Options.Mutable set.
var ErrAppendNotSupported = shared.Invariant(false, "schedule is not mutable")

// ErrClosed is returned by operations that require a running Schedule once
// it has already finished, either by exhaustion, self-termination, or Close.
var ErrClosed = shared.Invariant(false, "schedule is closed")

// ErrNoPriorChime is returned by AppendRelativeToLast when no time has been
// taken off the Schedule's queue yet to compute an offset from. Appended
// times do not count until they are taken off the queue.
var ErrNoPriorChime = shared.Invariant(false, "no prior chime to compute an offset from")
