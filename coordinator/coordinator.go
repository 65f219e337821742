package coordinator

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/boreiy/chime-go/chime"
	"github.com/boreiy/chime-go/timeseq"
)

// TimesFunc produces the sequence of times a job fires at. It is called
// exactly once, synchronously, when the job is handed to Schedule — not
// re-evaluated afterwards, so a TimesFunc that reads "now" captures the
// moment the job was accepted, not some later instant the actor gets
// around to processing it.
type TimesFunc func() timeseq.Sequence

// Job pairs a time source with the work to run at each of its chimes.
type Job struct {
	Times    TimesFunc
	Callback func(context.Context, timeseq.Time) error
}

// jobEntry is the actor's bookkeeping for one tracked job.
type jobEntry struct {
	id    string
	sched *chime.Schedule
}

type cmdKind int

const (
	cmdAdd cmdKind = iota
	cmdRemove
)

type coordinatorCmd struct {
	kind  cmdKind
	id    string
	sched *chime.Schedule
}

// Coordinator runs many independent chime.Schedule jobs under one roof,
// identified by caller-chosen string ids. All mutation of the tracked job
// set happens inside a single actor goroutine; callers never touch the map
// directly, and a finishing job reports its own removal back through the
// same command channel rather than racing the actor from its own Schedule's
// internal goroutine.
type Coordinator struct {
	opts   Options
	cmds   chan coordinatorCmd
	state  atomic.Pointer[map[string]*jobEntry]
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a Coordinator's actor goroutine and returns immediately.
func New(opts Options) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		opts:   opts,
		cmds:   make(chan coordinatorCmd, 32),
		ctx:    ctx,
		cancel: cancel,
	}
	empty := map[string]*jobEntry{}
	c.state.Store(&empty)
	go c.run()
	return c
}

func (c *Coordinator) run() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case cmd := <-c.cmds:
			c.apply(cmd)
		}
	}
}

func (c *Coordinator) apply(cmd coordinatorCmd) {
	state := c.loadState()
	switch cmd.kind {
	case cmdAdd:
		next := make(map[string]*jobEntry, len(state)+1)
		for k, v := range state {
			next[k] = v
		}
		next[cmd.id] = &jobEntry{id: cmd.id, sched: cmd.sched}
		c.state.Store(&next)
	case cmdRemove:
		if _, ok := state[cmd.id]; !ok {
			return
		}
		next := make(map[string]*jobEntry, len(state))
		for k, v := range state {
			if k != cmd.id {
				next[k] = v
			}
		}
		c.state.Store(&next)
	}
}

func (c *Coordinator) loadState() map[string]*jobEntry {
	return *c.state.Load()
}

// postRemove asynchronously reports a finished/aborted job's self-removal.
// It never blocks the caller — that caller is the job's own Schedule,
// running its finish hooks — so a full command channel or a closed
// Coordinator can never wedge a Schedule's shutdown path.
func (c *Coordinator) postRemove(id string) {
	go func() {
		select {
		case c.cmds <- coordinatorCmd{kind: cmdRemove, id: id}:
		case <-c.ctx.Done():
		}
	}()
}

// Schedule starts one chime.Schedule per entry in jobs, tracked under its
// map key. Every TimesFunc is evaluated before any job is submitted to the
// actor, so a failure partway through (missing Times/Callback, a duplicate
// id) leaves none of the batch's jobs registered.
func (c *Coordinator) Schedule(jobs map[string]Job) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	state := c.loadState()
	for id, job := range jobs {
		if _, exists := state[id]; exists {
			return ErrDuplicateJob
		}
		if job.Times == nil || job.Callback == nil {
			return ErrMissingCallback
		}
	}

	type pending struct {
		id    string
		sched *chime.Schedule
	}
	started := make([]pending, 0, len(jobs))

	for id, job := range jobs {
		id, job := id, job
		seq := job.Times()
		sched := chime.AtContext(seq, job.Callback, chime.Options{
			Clock: c.opts.clock(),
			Logger: c.opts.logger(),
			ErrorHandler: func(err error) bool {
				if c.opts.ErrorHandler != nil {
					return c.opts.ErrorHandler(id, err)
				}
				return true
			},
			OnFinished: func() {
				c.postRemove(id)
				if c.opts.OnJobFinished != nil {
					c.opts.OnJobFinished(id)
				}
			},
			OnAborted: func() {
				c.postRemove(id)
				if c.opts.OnJobAborted != nil {
					c.opts.OnJobAborted(id)
				}
			},
		})
		started = append(started, pending{id: id, sched: sched})
	}

	for _, p := range started {
		select {
		case c.cmds <- coordinatorCmd{kind: cmdAdd, id: p.id, sched: p.sched}:
		case <-c.ctx.Done():
			p.sched.Close()
			return ErrClosed
		}
	}
	return nil
}

// UnscheduleNow hard-stops the named jobs' Schedules immediately,
// interrupting a callback that is still running rather than waiting for it
// to return. Their OnAborted hook reports the removal back to the actor,
// same as any other self-termination.
func (c *Coordinator) UnscheduleNow(ids ...string) {
	state := c.loadState()
	for _, id := range ids {
		if e, ok := state[id]; ok {
			e.sched.ShutdownNow()
		}
	}
}

// Unschedule gracefully shuts down the named jobs' Schedules after delay
// (chime.Schedule.Shutdown: a callback already running is left to finish),
// using the same Clock the jobs themselves run on so tests can drive it with
// a chime.ManualClock instead of waiting on a wall-clock timer. An empty ids
// shuts down every currently tracked job.
func (c *Coordinator) Unschedule(ids []string, delay time.Duration) {
	if len(ids) == 0 {
		ids = c.ScheduledIDs()
	} else {
		ids = append([]string(nil), ids...)
	}
	c.opts.clock().AfterFunc(delay, func() {
		state := c.loadState()
		for _, id := range ids {
			if e, ok := state[id]; ok {
				e.sched.Shutdown()
			}
		}
	})
}

// ScheduledIDs returns the ids of every currently tracked job, sorted.
func (c *Coordinator) ScheduledIDs() []string {
	state := c.loadState()
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpcomingChimeAt reports the wall-clock time of id's next chime. It
// returns false if id is not tracked, or its current chime was cancelled
// via CancelCurrent and no replacement has fired yet.
func (c *Coordinator) UpcomingChimeAt(id string) (time.Time, bool) {
	state := c.loadState()
	e, ok := state[id]
	if !ok {
		return time.Time{}, false
	}
	delay, ok := e.sched.DelayUntilCurrent()
	if !ok || delay < 0 {
		return time.Time{}, false
	}
	return c.opts.clock().Now().Add(delay), true
}

// UpcomingChimesAt reports every tracked job's next chime time, omitting
// jobs with no well-defined upcoming chime.
func (c *Coordinator) UpcomingChimesAt() map[string]time.Time {
	state := c.loadState()
	out := make(map[string]time.Time, len(state))
	for id, e := range state {
		delay, ok := e.sched.DelayUntilCurrent()
		if !ok || delay < 0 {
			continue
		}
		out[id] = c.opts.clock().Now().Add(delay)
	}
	return out
}

// UntilNextChime returns the shortest delay until any tracked job's next
// chime. It returns false if nothing is tracked, or nothing has a
// well-defined upcoming chime.
func (c *Coordinator) UntilNextChime() (time.Duration, bool) {
	state := c.loadState()
	var (
		min   time.Duration
		found bool
	)
	for _, e := range state {
		delay, ok := e.sched.DelayUntilCurrent()
		if !ok || delay < 0 {
			continue
		}
		if !found || delay < min {
			min = delay
			found = true
		}
	}
	return min, found
}

// Close stops every tracked job and shuts down the actor goroutine. It does
// not wait for in-flight callbacks to finish.
func (c *Coordinator) Close() {
	state := c.loadState()
	for _, e := range state {
		e.sched.Close()
	}
	c.cancel()
}
