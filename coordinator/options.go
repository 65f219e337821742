package coordinator

import "log/slog"

import "github.com/boreiy/chime-go/chime"

// ErrorHandler is called with a job's id and the error its callback
// returned. Returning true keeps that job's Schedule running; false stops
// it (same continue/stop contract as chime.Options.ErrorHandler, scoped per
// job id instead of globally).
type ErrorHandler func(id string, err error) bool

// Options configures a Coordinator.
type Options struct {
	// ErrorHandler is consulted for every job's callback error. If nil, the
	// same chime default applies: log and continue.
	ErrorHandler ErrorHandler

	// OnJobFinished/OnJobAborted mirror chime.Options.OnFinished/OnAborted,
	// scoped per job id, called right after the job's removal has been
	// posted to the coordinator's actor; the removal is applied
	// asynchronously, so ScheduledIDs may still list the job inside the hook.
	OnJobFinished func(id string)
	OnJobAborted  func(id string)

	// Clock is shared by every job's Schedule and by Unschedule's delayed
	// removal. Defaults to chime.SystemClock{}.
	Clock chime.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) clock() chime.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return chime.SystemClock{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
