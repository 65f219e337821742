// Package chime runs a callback against a lazy, possibly infinite, sequence
// of times on a single dedicated goroutine per Schedule.
//
// A Schedule is the dual-purpose handle spec'd out by the library this
// package ports: it answers both "how is the whole job doing" (Pending,
// Await, Close) and "what about the one task waiting to fire right now"
// (CancelCurrent, DelayUntilCurrent) through methods on the same struct.
package chime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/boreiy/chime-go/timeseq"
)

// pendingTask is the one delayed callback invocation a Schedule has armed at
// any moment. It is replaced, never mutated in place, each time runLoop pops
// a new head off the queue.
type pendingTask struct {
	t         timeseq.Time
	timer     Timer
	done      chan struct{}
	closeOnce sync.Once
	cancelled atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func (pt *pendingTask) closeDone() {
	pt.closeOnce.Do(func() { close(pt.done) })
}

// Schedule is the handle returned by At, AtContext and Chan. It owns exactly
// one runLoop goroutine for its whole lifetime.
type Schedule struct {
	opts     Options
	clock    Clock
	logger   *slog.Logger
	queue    *timeQueue
	callback func(context.Context, timeseq.Time) error

	current atomic.Pointer[pendingTask]

	done       chan struct{}
	finishOnce sync.Once
	aborted    atomic.Bool
}

// At starts a Schedule that invokes callback once for every element times
// produces, in order, on its own goroutine.
func At(times timeseq.Sequence, callback func(timeseq.Time) error, opts Options) *Schedule {
	return AtContext(times, func(_ context.Context, t timeseq.Time) error {
		return callback(t)
	}, opts)
}

// AtContext is At's context-aware form: the context passed to callback is
// cancelled when CancelCurrent(true) or ShutdownNow targets the task it is
// running. At itself is built on top of AtContext with a callback that
// ignores the context; library code should prefer AtContext whenever a
// cooperative callback can make use of cancellation.
func AtContext(times timeseq.Sequence, callback func(context.Context, timeseq.Time) error, opts Options) *Schedule {
	s := &Schedule{
		opts:     opts,
		clock:    opts.clock(),
		logger:   opts.logger(),
		queue:    newTimeQueue(times),
		callback: callback,
		done:     make(chan struct{}),
	}
	go s.runLoop()
	return s
}

func (s *Schedule) runLoop() {
	head, ok := s.queue.Pop()
	for {
		if !ok {
			s.finish()
			return
		}
		if s.isDone() {
			return
		}

		delay := head.Time().Sub(s.clock.Now())
		if delay <= 0 && s.opts.DropOverruns {
			s.logger.Debug("chime: dropping overrun chime", "time", head.Time())
			head, ok = s.queue.Pop()
			continue
		}
		if delay < 0 {
			delay = 0
		}

		ctx, cancel := context.WithCancel(context.Background())
		pt := &pendingTask{t: head, done: make(chan struct{}), ctx: ctx, cancel: cancel}
		pt.timer = s.clock.AfterFunc(delay, func() { s.fireTask(pt) })
		s.current.Store(pt)

		<-pt.done
		cancel()
		s.current.CompareAndSwap(pt, nil)

		if s.isDone() {
			return
		}
		head, ok = s.queue.Pop()
	}
}

func (s *Schedule) fireTask(pt *pendingTask) {
	defer pt.closeDone()
	if s.isDone() {
		return
	}
	err := s.invokeCallback(pt.ctx, pt.t)
	if err == nil {
		return
	}
	if !s.handleError(err) {
		s.finish()
	}
}

func (s *Schedule) invokeCallback(ctx context.Context, t timeseq.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chime: callback panicked: %v", r)
		}
	}()
	return s.callback(ctx, t)
}

func (s *Schedule) handleError(err error) (cont bool) {
	handler := s.opts.ErrorHandler
	if handler == nil {
		s.logger.Error("chime: callback returned error, continuing", "error", err)
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chime: error handler panicked, stopping schedule", "panic", r)
			cont = false
		}
	}()
	return handler(err)
}

// finish closes done and runs OnAborted (if the termination was triggered by
// Close/Shutdown/ShutdownNow) or OnFinished (exhaustion or a false return
// from ErrorHandler), exactly once.
func (s *Schedule) finish() {
	s.finishOnce.Do(func() {
		close(s.done)
		if s.aborted.Load() && s.opts.OnAborted != nil {
			s.opts.OnAborted()
			return
		}
		if s.opts.OnFinished != nil {
			s.opts.OnFinished()
		}
	})
}

func (s *Schedule) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close stops the Schedule: no further callbacks run. If a task is armed but
// has not yet started, its timer is stopped and it never fires. A callback
// already in flight is left to finish; use ShutdownNow to additionally
// request its cooperative cancellation.
func (s *Schedule) Close() {
	s.aborted.Store(true)
	s.finish()
	if pt := s.current.Load(); pt != nil && pt.timer.Stop() {
		pt.cancelled.Store(true)
		pt.closeDone()
	}
}

// Shutdown is Close followed by a best-effort cancel of the not-yet-started
// current task (a no-op if one is already running).
func (s *Schedule) Shutdown() {
	s.Close()
	s.CancelCurrent(false)
}

// ShutdownNow is Close followed by CancelCurrent(true): if a callback is
// currently running, its context is cancelled so a cooperative callback can
// observe ctx.Done() and return early. ShutdownNow does not forcibly abort a
// callback that ignores its context; it may still block arbitrarily long.
func (s *Schedule) ShutdownNow() {
	s.Close()
	s.CancelCurrent(true)
}

// Await blocks until the Schedule finishes or ctx is done, returning
// ctx.Err() in the latter case and nil in the former.
func (s *Schedule) Await(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether the Schedule has not yet finished.
func (s *Schedule) Pending() bool {
	return !s.isDone()
}

// Finished reports whether the Schedule has finished.
func (s *Schedule) Finished() bool {
	return s.isDone()
}

// CancelCurrent cancels the task currently armed, if any. If the task has
// not yet started, its timer is stopped and it never fires; runLoop moves on
// to the next head as soon as it notices. If the task has already started,
// CancelCurrent only has an effect when interrupt is true, in which case the
// context.Context passed to the callback is cancelled; a callback that does
// not poll ctx.Done() runs to completion regardless.
//
// CancelCurrent reports whether the cancellation took effect.
func (s *Schedule) CancelCurrent(interrupt bool) bool {
	pt := s.current.Load()
	if pt == nil {
		return false
	}
	if pt.timer.Stop() {
		pt.cancelled.Store(true)
		pt.closeDone()
		return true
	}
	if interrupt {
		pt.cancel()
		return true
	}
	return false
}

// DelayUntilCurrent returns the time remaining until the currently armed
// task fires. It returns (-1, true) if the current task was cancelled, and
// (-1, false) if there is no current task at all (the Schedule is between
// tasks or finished).
func (s *Schedule) DelayUntilCurrent() (time.Duration, bool) {
	pt := s.current.Load()
	if pt == nil {
		return -1, false
	}
	if pt.cancelled.Load() {
		return -1, true
	}
	d := pt.t.Time().Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}
	return d, true
}

// AppendAbsolute extends a mutable Schedule's remaining times with times, in
// order. It returns ErrAppendNotSupported if the Schedule was not created
// with Options.Mutable, and ErrClosed if the Schedule has already finished.
func (s *Schedule) AppendAbsolute(times ...timeseq.Time) error {
	if !s.opts.Mutable {
		return ErrAppendNotSupported
	}
	if s.isDone() {
		return ErrClosed
	}
	s.queue.Append(times...)
	return nil
}

// AppendRelativeToLast appends one time computed from the last time this
// Schedule emitted (popped off its queue), whether from the original
// sequence or a prior append.
func (s *Schedule) AppendRelativeToLast(offset func(last timeseq.Time) timeseq.Time) error {
	if !s.opts.Mutable {
		return ErrAppendNotSupported
	}
	if s.isDone() {
		return ErrClosed
	}
	last, ok := s.queue.Last()
	if !ok {
		return ErrNoPriorChime
	}
	s.queue.Append(offset(last))
	return nil
}
