// Package timeseq defines the lazy time-sequence contract that chime.At
// consumes, plus a handful of concrete generators for the common cases
// (fixed interval, workday-anchored, month-end-anchored).
//
// A Sequence is a pull-based, forward-only iterator: has-next and next are
// folded into a single Next call so a Sequence can be backed by anything
// from a slice to an unbounded calendar computation without the caller ever
// allocating a goroutine or channel for it.
package timeseq

import "time"

// Time is anything that resolves to a point on the timeline. The scheduler
// never needs more than this; callbacks receive the original Time value,
// not a bare time.Time, so callers can carry extra context (the cron fields
// that matched, a job label, ...) through to their callback.
type Time interface {
	// Time returns the zoned instant this element represents.
	Time() time.Time
}

// At adapts a plain time.Time to satisfy Time.
type At time.Time

// Time implements Time.
func (a At) Time() time.Time { return time.Time(a) }

// Sequence is a lazy, possibly infinite, forward-iterable stream of times.
//
// Next returns the next element and true, or the zero Time and false once
// the sequence is exhausted. Implementations are not required to support
// being restarted, and chime.At never calls Next concurrently with itself.
//
// Contract: for a Sequence fed to chime.At, each element's Time().UTC() must
// be >= the previous element's. The scheduler does not sort; a Sequence that
// violates this produces out-of-order firing, not a panic.
type Sequence interface {
	Next() (Time, bool)
}

// SequenceFunc adapts a plain function to the Sequence interface.
type SequenceFunc func() (Time, bool)

// Next implements Sequence.
func (f SequenceFunc) Next() (Time, bool) { return f() }

// Slice returns a Sequence that yields the given times in order, then is
// exhausted. Useful for tests and for one-off/ad hoc schedules.
func Slice(times ...time.Time) Sequence {
	i := 0
	return SequenceFunc(func() (Time, bool) {
		if i >= len(times) {
			return nil, false
		}
		t := times[i]
		i++
		return At(t), true
	})
}

// Empty returns a Sequence that is immediately exhausted.
func Empty() Sequence {
	return SequenceFunc(func() (Time, bool) { return nil, false })
}

// Concat returns a Sequence that exhausts each of seqs in turn.
func Concat(seqs ...Sequence) Sequence {
	i := 0
	return SequenceFunc(func() (Time, bool) {
		for i < len(seqs) {
			if t, ok := seqs[i].Next(); ok {
				return t, true
			}
			i++
		}
		return nil, false
	})
}

// Limit returns a Sequence that yields at most n elements of seq.
func Limit(seq Sequence, n int) Sequence {
	remaining := n
	return SequenceFunc(func() (Time, bool) {
		if remaining <= 0 {
			return nil, false
		}
		t, ok := seq.Next()
		if !ok {
			remaining = 0
			return nil, false
		}
		remaining--
		return t, true
	})
}
