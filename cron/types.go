package cron

import "time"

// FieldKey identifies one field of a cron expression.
type FieldKey int

const (
	Second FieldKey = iota
	Minute
	Hour
	Day
	Month
	Weekday
	Year
)

func (k FieldKey) String() string {
	switch k {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	case Weekday:
		return "weekday"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// fieldBounds returns the inclusive [min, max] legal values for key.
func fieldBounds(key FieldKey) (min, max int) {
	switch key {
	case Second, Minute:
		return 0, 59
	case Hour:
		return 0, 23
	case Day:
		return 1, 31
	case Month:
		return 1, 12
	case Weekday:
		return 1, 7 // Monday=1 .. Sunday=7
	case Year:
		return 1970, 9999
	default:
		return 0, 0
	}
}

// fieldRange is one from/to/step item within a field's comma-separated list.
// A bare value is represented as From==To, Step==1.
type fieldRange struct {
	From, To, Step int
}

// fieldSpec is the compiled constraint for one field: either an explicit set
// of ranges, or one of the two "last" flags (valid only for Day and Weekday
// respectively).
type fieldSpec struct {
	ranges []fieldRange

	lastDayOfMonth     bool // Day field only: "L"
	lastWeekdayOfMonth bool // Weekday field only: "<weekday>L"
	lastWeekdayValue   int  // which weekday (1-7), valid iff lastWeekdayOfMonth
}

func (f fieldSpec) matches(v int) bool {
	for _, r := range f.ranges {
		step := r.Step
		if step <= 0 {
			step = 1
		}
		if v < r.From || v > r.To {
			continue
		}
		if (v-r.From)%step == 0 {
			return true
		}
	}
	return false
}

// Schedule is a compiled cron expression: one fieldSpec per field key it was
// built from, defaulted per applyFieldDefaults' rules for any field it omits.
//
// A Schedule produced from the "@every <duration>" descriptor has no field
// constraints at all; it carries everyInterval instead and Times ignores
// fields entirely in that case, since "@every" has no calendar semantics.
type Schedule struct {
	fields        map[FieldKey]fieldSpec
	expr          string
	everyInterval time.Duration
}

// String returns the original expression Schedule was parsed from.
func (s Schedule) String() string { return s.expr }
