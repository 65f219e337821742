package chime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boreiy/chime-go/timeseq"
)

func TestAt_BasicFiring(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t1 := start.Add(time.Second)

	var fired int32
	finished := make(chan struct{})
	sched := At(timeseq.Slice(t1), func(ts timeseq.Time) error {
		atomic.AddInt32(&fired, 1)
		assert.Equal(t, t1, ts.Time())
		return nil
	}, Options{Clock: clock, OnFinished: func() { close(finished) }})

	clock.Advance(time.Second)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("schedule did not finish")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.True(t, sched.Finished())
	assert.False(t, sched.Pending())
}

func TestAt_OnFinishedCalledExactlyOnce(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t1 := start.Add(time.Second)

	var finishedCount int32
	sched := At(timeseq.Slice(t1), func(timeseq.Time) error { return nil }, Options{
		Clock:      clock,
		OnFinished: func() { atomic.AddInt32(&finishedCount, 1) },
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); clock.Advance(time.Second) }()
	go func() { defer wg.Done(); sched.Close() }()
	wg.Wait()

	require.Eventually(t, sched.Finished, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finishedCount), "OnFinished/OnAborted must fire exactly once")
}

func TestAt_ErrorHandlerContinues(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t1 := start.Add(time.Second)
	t2 := start.Add(2 * time.Second)

	var calls, handled int32
	finished := make(chan struct{})
	At(timeseq.Slice(t1, t2), func(timeseq.Time) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("boom")
		}
		return nil
	}, Options{
		Clock: clock,
		ErrorHandler: func(error) bool {
			atomic.AddInt32(&handled, 1)
			return true
		},
		OnFinished: func() { close(finished) },
	})

	clock.Advance(2 * time.Second)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("schedule did not finish")
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&handled))
}

func TestAt_ErrorHandlerFalseStopsSchedule(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t1 := start.Add(time.Second)
	t2 := start.Add(2 * time.Second)

	var calls int32
	finished := make(chan struct{})
	At(timeseq.Slice(t1, t2), func(timeseq.Time) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, Options{
		Clock:        clock,
		ErrorHandler: func(error) bool { return false },
		OnFinished:   func() { close(finished) },
	})

	clock.Advance(time.Second)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("schedule did not finish after error handler returned false")
	}

	clock.Advance(time.Second) // t2 must never be armed
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAt_OverrunPushForwardDelaysRatherThanDrops(t *testing.T) {
	start := time.Now()
	times := []time.Time{
		start.Add(20 * time.Millisecond),
		start.Add(40 * time.Millisecond),
		start.Add(60 * time.Millisecond),
	}

	var calls int32
	block := make(chan struct{})
	At(timeseq.Slice(times...), func(timeseq.Time) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-block
		}
		return nil
	}, Options{})

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "later chimes must wait, not be skipped, while the first callback runs")
	close(block)

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, time.Second, 5*time.Millisecond)
}

func TestAt_DropOverrunsSkipsOverdueChimes(t *testing.T) {
	start := time.Now()
	times := []time.Time{
		start.Add(20 * time.Millisecond),
		start.Add(40 * time.Millisecond),
		start.Add(60 * time.Millisecond),
	}

	var calls int32
	block := make(chan struct{})
	var finishOnce sync.Once
	finished := make(chan struct{})
	At(timeseq.Slice(times...), func(timeseq.Time) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-block
		}
		return nil
	}, Options{
		DropOverruns: true,
		OnFinished:   func() { finishOnce.Do(func() { close(finished) }) },
	})

	time.Sleep(120 * time.Millisecond)
	close(block)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("schedule did not finish")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "overdue chimes must be dropped under DropOverruns")
}

func TestAtContext_CancelCurrentInterruptsRunningCallback(t *testing.T) {
	start := time.Now()
	t1 := start.Add(10 * time.Millisecond)

	observed := make(chan error, 1)
	sched := AtContext(timeseq.Slice(t1), func(ctx context.Context, _ timeseq.Time) error {
		<-ctx.Done()
		observed <- ctx.Err()
		return ctx.Err()
	}, Options{ErrorHandler: func(error) bool { return true }})

	require.Eventually(t, func() bool {
		_, ok := sched.DelayUntilCurrent()
		return ok
	}, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond) // give the callback a chance to start and block

	assert.True(t, sched.CancelCurrent(true))

	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("callback was never interrupted")
	}
}

func TestCancelCurrent_BeforeStartPreventsFiring(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t1 := start.Add(time.Minute)

	var fired int32
	sched := At(timeseq.Slice(t1), func(timeseq.Time) error {
		atomic.AddInt32(&fired, 1)
		return nil
	}, Options{Clock: clock})

	require.Eventually(t, func() bool {
		_, ok := sched.DelayUntilCurrent()
		return ok
	}, time.Second, time.Millisecond)

	assert.True(t, sched.CancelCurrent(false))

	clock.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestAt_MutableAppendGrowsScheduleFromWithinCallback(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)
	t0 := start.Add(time.Second)

	var mu sync.Mutex
	var fired []time.Time
	done := make(chan struct{})

	var sched *Schedule
	sched = At(timeseq.Slice(t0), func(ts timeseq.Time) error {
		mu.Lock()
		fired = append(fired, ts.Time())
		n := len(fired)
		mu.Unlock()

		switch n {
		case 1:
			require.NoError(t, sched.AppendRelativeToLast(func(last timeseq.Time) timeseq.Time {
				return timeseq.At(last.Time().Add(2 * time.Second))
			}))
		case 2:
			require.NoError(t, sched.AppendAbsolute(timeseq.At(ts.Time().Add(time.Second))))
		case 3:
			close(done)
		}
		return nil
	}, Options{Clock: clock, Mutable: true})

	clock.Advance(time.Second)    // fires t0, appends t0+2s
	clock.Advance(2 * time.Second) // fires t0+2s, appends t0+3s
	clock.Advance(time.Second)    // fires t0+3s

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutable schedule did not fire every appended chime")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 3)
	assert.Equal(t, t0, fired[0])
	assert.Equal(t, t0.Add(2*time.Second), fired[1])
	assert.Equal(t, t0.Add(3*time.Second), fired[2])
}

func TestAppend_RejectedOnImmutableSchedule(t *testing.T) {
	clock := NewManualClock(time.Now())
	sched := At(timeseq.Slice(clock.Now().Add(time.Hour)), func(timeseq.Time) error { return nil }, Options{Clock: clock})

	err := sched.AppendAbsolute(timeseq.At(clock.Now().Add(2 * time.Hour)))
	assert.ErrorIs(t, err, ErrAppendNotSupported)

	err = sched.AppendRelativeToLast(func(last timeseq.Time) timeseq.Time { return last })
	assert.ErrorIs(t, err, ErrAppendNotSupported)
}

func TestClose_IsIdempotentAndStopsAwait(t *testing.T) {
	clock := NewManualClock(time.Now())
	sched := At(timeseq.Slice(clock.Now().Add(time.Hour)), func(timeseq.Time) error { return nil }, Options{Clock: clock})

	sched.Close()
	sched.Close() // must not panic or double-run OnFinished/OnAborted

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sched.Await(ctx))
	assert.True(t, sched.Finished())
}

func TestAwait_ReturnsContextErrorOnTimeout(t *testing.T) {
	clock := NewManualClock(time.Now())
	sched := At(timeseq.Slice(clock.Now().Add(time.Hour)), func(timeseq.Time) error { return nil }, Options{Clock: clock})
	defer sched.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := sched.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
