package cron

import (
	"sort"
	"time"

	"github.com/boreiy/chime-go/timeseq"
)

// maxSearchIterations bounds the carry search in nextMatch so a schedule
// that can never match (e.g. "0 0 30 2 ?", the 30th of February) exhausts
// after scanning every remaining year up to the field's upper bound instead
// of looping forever.
const maxSearchIterations = 200000

// Occurrence is the timeseq.Time produced by Schedule.Times. It additionally
// exposes the calendar field values that matched, for callers that want to
// log or branch on them without re-parsing the instant.
type Occurrence struct {
	t                                        time.Time
	Second, Minute, Hour, Day, Month, Weekday, Year int
}

// Time implements timeseq.Time.
func (o Occurrence) Time() time.Time { return o.t }

// Times returns a lazy Sequence of every instant, at or after from, that
// matches s, expressed in loc.
func (s Schedule) Times(loc *time.Location, from time.Time) timeseq.Sequence {
	if s.everyInterval > 0 {
		return timeseq.Periodic(from, s.everyInterval)
	}

	cur := from.In(loc)
	if ns := cur.Nanosecond(); ns > 0 {
		cur = cur.Truncate(time.Second).Add(time.Second)
	} else {
		cur = cur.Truncate(time.Second)
	}

	started := false
	return timeseq.SequenceFunc(func() (timeseq.Time, bool) {
		search := cur
		if started {
			search = cur.Add(time.Second)
		}
		started = true

		next, ok := s.nextMatch(search, loc)
		if !ok {
			return nil, false
		}
		cur = next
		return occurrenceFrom(next), true
	})
}

func occurrenceFrom(t time.Time) Occurrence {
	y, mo, d := t.Date()
	hh, mm, ss := t.Clock()
	return Occurrence{
		t:       t,
		Second:  ss,
		Minute:  mm,
		Hour:    hh,
		Day:     d,
		Month:   int(mo),
		Weekday: isoWeekday(t),
		Year:    y,
	}
}

// nextMatch is the carry-search: each mismatching field jumps straight to
// its next candidate value (or rolls the next-larger field over) instead of
// stepping second by second, so the search cost tracks how far away the
// next occurrence is, not how far away in seconds.
func (s Schedule) nextMatch(from time.Time, loc *time.Location) (time.Time, bool) {
	t := from
	yearSpec := s.fields[Year]
	minYear := from.Year()

	for i := 0; i < maxSearchIterations; i++ {
		y, mo, d := t.Date()
		hh, mm, ss := t.Clock()

		if y > 9999 {
			return time.Time{}, false
		}
		if !yearMatches(yearSpec, y, minYear) {
			t = time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
			continue
		}
		if !s.fields[Month].matches(int(mo)) {
			t = time.Date(y, mo+1, 1, 0, 0, 0, 0, loc)
			continue
		}

		days := candidateDays(y, mo, s.fields[Day], s.fields[Weekday])
		nextDay := firstAtOrAfter(days, d)
		if nextDay == -1 {
			t = time.Date(y, mo+1, 1, 0, 0, 0, 0, loc)
			continue
		}
		if nextDay != d {
			t = time.Date(y, mo, nextDay, 0, 0, 0, 0, loc)
			continue
		}

		if !s.fields[Hour].matches(hh) {
			nh := firstAtOrAfter(s.fields[Hour].valuesIn(0, 23), hh)
			if nh == -1 {
				t = time.Date(y, mo, d+1, 0, 0, 0, 0, loc)
			} else {
				t = time.Date(y, mo, d, nh, 0, 0, 0, loc)
			}
			continue
		}
		if !s.fields[Minute].matches(mm) {
			nm := firstAtOrAfter(s.fields[Minute].valuesIn(0, 59), mm)
			if nm == -1 {
				t = time.Date(y, mo, d, hh+1, 0, 0, 0, loc)
			} else {
				t = time.Date(y, mo, d, hh, nm, 0, 0, loc)
			}
			continue
		}
		if !s.fields[Second].matches(ss) {
			ns := firstAtOrAfter(s.fields[Second].valuesIn(0, 59), ss)
			if ns == -1 {
				t = time.Date(y, mo, d, hh, mm+1, 0, 0, loc)
			} else {
				t = time.Date(y, mo, d, hh, mm, ns, 0, loc)
			}
			continue
		}

		return t, true
	}
	return time.Time{}, false
}

// candidateDays returns, in ascending order, every day of (y, mo) that
// satisfies the Day and Weekday fields together (AND semantics: with the
// "?"-style wildcard convention this grammar borrows from Quartz, at most
// one of the two is ever actually restrictive). lastDayOfMonth and
// lastWeekdayOfMonth short-circuit straight to the one day that can
// possibly qualify: lastDayOfMonth returns the month's last day directly,
// and lastWeekdayOfMonth scans only the month's last eleven days (n-10
// through n), which always hold the last occurrence of any weekday.
func candidateDays(y int, mo time.Month, day, weekday fieldSpec) []int {
	n := daysInMonth(y, mo)

	if day.lastDayOfMonth {
		return []int{n}
	}

	if weekday.lastWeekdayOfMonth {
		start := n - 10
		if start < 1 {
			start = 1
		}
		best := -1
		for d := start; d <= n; d++ {
			if isoWeekday(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)) == weekday.lastWeekdayValue {
				best = d
			}
		}
		if best < 0 {
			return nil
		}
		return []int{best}
	}

	days := make([]int, 0, n)
	for d := 1; d <= n; d++ {
		if !day.matches(d) {
			continue
		}
		if !weekday.matches(isoWeekday(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC))) {
			continue
		}
		days = append(days, d)
	}
	return days
}

func daysInMonth(y int, mo time.Month) int {
	return time.Date(y, mo+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func firstAtOrAfter(values []int, v int) int {
	for _, x := range values {
		if x >= v {
			return x
		}
	}
	return -1
}

func yearMatches(spec fieldSpec, y, minYear int) bool {
	if len(spec.ranges) == 0 {
		return y >= minYear && y <= 9999
	}
	return spec.matches(y)
}

// valuesIn expands f's ranges into a sorted, deduplicated slice clipped to
// [lo, hi]. Field domains here are always small (<=60), so a plain slice is
// simpler and plenty fast compared to re-deriving a closed form per range.
func (f fieldSpec) valuesIn(lo, hi int) []int {
	set := make(map[int]struct{})
	for _, r := range f.ranges {
		step := r.Step
		if step <= 0 {
			step = 1
		}
		for v := r.From; v <= r.To; v += step {
			if v >= lo && v <= hi {
				set[v] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
