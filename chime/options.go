package chime

import "log/slog"

// Options configures a Schedule. The zero Options is valid: it runs with a
// SystemClock, no error handler (callback errors are logged and the schedule
// continues), no hooks, and push-forward overrun semantics.
type Options struct {
	// ErrorHandler is called with a callback's error after it returns one.
	// Returning true tells the Schedule to keep going; returning false stops
	// it. If nil, the default handler logs the error via the Schedule's
	// Logger and returns true, so an unhandled callback error alone never
	// stops a schedule. Panics inside the callback are recovered and passed
	// through ErrorHandler the same way, wrapped in an error.
	ErrorHandler func(error) bool

	// OnFinished runs exactly once, after the last scheduled time has fired
	// and the Schedule has no more work, whether that is because the
	// sequence was exhausted or because ErrorHandler returned false.
	OnFinished func()

	// OnAborted runs exactly once instead of OnFinished if the Schedule was
	// stopped externally: Close, Shutdown, or ShutdownNow. A CancelCurrent
	// that leaves no times pending ends the schedule with OnFinished.
	OnAborted func()

	// Clock supplies "now" and the delay timer. Defaults to SystemClock.
	Clock Clock

	// DropOverruns selects catch-up-free overrun handling: if the callback
	// for time T is still running when time T+1 arrives, T+1 (and any other
	// times that have already elapsed) are skipped rather than queued up.
	// When false (the default), times that elapsed during an overrun are not
	// dropped: each fires immediately, in order, once the callback before it
	// returns.
	DropOverruns bool

	// Mutable allows AppendAbsolute and AppendRelativeToLast to extend the
	// schedule's remaining times after it has started.
	Mutable bool

	// Logger receives structured diagnostics (callback errors, overruns,
	// termination). Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) clock() Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return SystemClock{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
