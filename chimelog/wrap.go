package chimelog

import (
	"context"
	"log/slog"
	"time"

	"github.com/boreiy/chime-go/pkg/retry"
	"github.com/boreiy/chime-go/timeseq"
)

// WrapOptions configures Wrap.
type WrapOptions struct {
	// Logger receives a warning when a write to Recorder ultimately fails
	// after retrying; the wrapped callback's own return value is never
	// affected by a recording failure.
	Logger *slog.Logger

	// Retry controls the backoff used for Recorder writes. Nil uses
	// retry.DefaultConfig(); retry.Config has function-typed fields so it
	// can't be compared against a zero value to detect "unset".
	Retry *retry.Config
}

func (o WrapOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o WrapOptions) retryConfig() retry.Config {
	if o.Retry != nil {
		return *o.Retry
	}
	return retry.DefaultConfig()
}

// Wrap returns a callback that delegates to callback and then records the
// outcome to rec, identified by jobID. The returned error is always
// callback's own error; a Recorder write failure only ever reaches Logger.
func Wrap(jobID string, rec Recorder, opts WrapOptions, callback func(context.Context, timeseq.Time) error) func(context.Context, timeseq.Time) error {
	logger := opts.logger()
	cfg := opts.retryConfig()

	return func(ctx context.Context, t timeseq.Time) error {
		firedAt := time.Now()
		err := callback(ctx, t)
		completedAt := time.Now()

		errText := ""
		if err != nil {
			errText = err.Error()
		}

		writeErr := retry.Do(context.WithoutCancel(ctx), cfg, func(writeCtx context.Context) error {
			return rec.Record(writeCtx, Record{
				JobID:       jobID,
				FiredAt:     firedAt,
				CompletedAt: completedAt,
				Err:         errText,
			})
		})
		if writeErr != nil {
			logger.Warn("chimelog: failed to record chime outcome", "job_id", jobID, "error", writeErr)
		}

		return err
	}
}
