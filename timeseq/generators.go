package timeseq

import "time"

// Periodic returns an infinite Sequence starting at `start` and advancing by
// `period` each step. It is the simplest possible generator and the one
// nearly every scheduling library in the wild ships first; chime.At treats
// it exactly like any other Sequence.
func Periodic(start time.Time, period time.Duration) Sequence {
	if period <= 0 {
		panic("timeseq: Periodic period must be positive")
	}
	next := start
	first := true
	return SequenceFunc(func() (Time, bool) {
		if first {
			first = false
			return At(next), true
		}
		next = next.Add(period)
		return At(next), true
	})
}

// PeriodicFrom is Periodic anchored at clock's current time plus an initial
// delay, for the common "start in 5s, then every 30s" shape.
func PeriodicFrom(now time.Time, initialDelay, period time.Duration) Sequence {
	return Periodic(now.Add(initialDelay), period)
}

// WorkdayAt returns an infinite Sequence of instants at hour:minute:second
// on each Monday-Friday from `from` onward, in `loc`. Weekends are skipped
// entirely, not merely shifted.
func WorkdayAt(from time.Time, loc *time.Location, hour, minute, second int) Sequence {
	d := atClock(from.In(loc), hour, minute, second)
	if !d.After(from) {
		d = d.AddDate(0, 0, 1)
	}
	for isWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return SequenceFunc(func() (Time, bool) {
		out := d
		d = d.AddDate(0, 0, 1)
		for isWeekend(d) {
			d = d.AddDate(0, 0, 1)
		}
		return At(out), true
	})
}

// MonthEndAt returns an infinite Sequence of instants at hour:minute:second
// on the last calendar day of each month from `from` onward, in `loc`.
func MonthEndAt(from time.Time, loc *time.Location, hour, minute, second int) Sequence {
	cur := lastDayOfMonth(from.In(loc), hour, minute, second)
	if !cur.After(from) {
		cur = lastDayOfMonth(firstOfNextMonth(cur), hour, minute, second)
	}
	return SequenceFunc(func() (Time, bool) {
		out := cur
		cur = lastDayOfMonth(firstOfNextMonth(cur), hour, minute, second)
		return At(out), true
	})
}

func atClock(t time.Time, hour, minute, second int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, second, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

func lastDayOfMonth(t time.Time, hour, minute, second int) time.Time {
	firstNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	lastDay := firstNext.AddDate(0, 0, -1)
	return atClock(lastDay, hour, minute, second)
}
