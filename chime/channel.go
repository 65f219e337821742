package chime

import (
	"sync"

	"github.com/boreiy/chime-go/timeseq"
)

// OverflowPolicy selects what Chan does when its buffered channel is full
// and a new chime needs to be pushed.
type OverflowPolicy int

const (
	// Blocking pushes wait for room, applying natural backpressure onto the
	// Schedule (the next chime is delayed until the consumer catches up).
	Blocking OverflowPolicy = iota
	// DropNewest discards the chime that doesn't fit, leaving the buffer's
	// existing contents untouched.
	DropNewest
	// Sliding discards the oldest buffered chime to make room for the new
	// one, so the channel always holds the most recent Buffer chimes.
	Sliding
)

// ChanOptions configures Chan.
type ChanOptions struct {
	Options

	// Buffer is the channel's capacity. Zero means unbuffered, which makes
	// Blocking the only sensible Overflow policy (DropNewest/Sliding would
	// discard essentially every chime whose consumer isn't already waiting).
	Buffer int

	// Overflow selects the behavior when the channel has no room.
	Overflow OverflowPolicy
}

// Chan wraps At so that each chime is pushed onto a channel instead of
// invoking a callback directly. The returned Schedule still exposes the
// full control surface (Close, CancelCurrent, ...); closing it stops pushes
// and closes the channel exactly once.
func Chan(times timeseq.Sequence, opts ChanOptions) (<-chan timeseq.Time, *Schedule) {
	buf := opts.Buffer
	if buf < 0 {
		buf = 0
	}
	ch := make(chan timeseq.Time, buf)

	var closeOnce sync.Once
	push := func(t timeseq.Time) error {
		switch opts.Overflow {
		case DropNewest:
			select {
			case ch <- t:
			default:
			}
		case Sliding:
			if cap(ch) == 0 {
				select {
				case ch <- t:
				default:
				}
				return nil
			}
			for {
				select {
				case ch <- t:
					return nil
				default:
				}
				select {
				case <-ch:
				default:
				}
			}
		default: // Blocking
			ch <- t
		}
		return nil
	}

	inner := opts.Options
	userOnFinished, userOnAborted := inner.OnFinished, inner.OnAborted
	closeCh := func() { closeOnce.Do(func() { close(ch) }) }
	inner.OnFinished = func() {
		closeCh()
		if userOnFinished != nil {
			userOnFinished()
		}
	}
	inner.OnAborted = func() {
		closeCh()
		if userOnAborted != nil {
			userOnAborted()
		}
	}

	sched := At(times, push, inner)
	return ch, sched
}
