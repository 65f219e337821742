package cron

import (
	"strconv"
	"strings"
)

// DefaultFieldsFive is the classical unix cron field order: minute, hour,
// day-of-month, month, day-of-week. Second and year default per Schedule's
// field defaults.
var DefaultFieldsFive = []FieldKey{Minute, Hour, Day, Month, Weekday}

// DefaultFieldsSix prepends a seconds field to DefaultFieldsFive.
var DefaultFieldsSix = []FieldKey{Second, Minute, Hour, Day, Month, Weekday}

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// weekdayNames maps the usual three-letter abbreviations to our 1(Mon)-7(Sun)
// numbering.
var weekdayNames = map[string]int{
	"MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6, "SUN": 7,
}

// Parse compiles expr using the field count to pick DefaultFieldsFive (5
// space-separated fields) or DefaultFieldsSix (6 fields). Expressions
// starting with "@" are delegated to ParseDescriptor.
func Parse(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "@") {
		return ParseDescriptor(expr)
	}

	tokens := strings.Fields(expr)
	switch len(tokens) {
	case 5:
		return ParseWithFields(expr, DefaultFieldsFive)
	case 6:
		return ParseWithFields(expr, DefaultFieldsSix)
	default:
		return Schedule{}, reasonError(Minute, expr, "expected 5 or 6 whitespace-separated fields, or an @descriptor")
	}
}

// ParseWithFields compiles expr against an explicit field order, for callers
// whose cron dialect doesn't match the classical 5/6-field layout.
func ParseWithFields(expr string, fields []FieldKey) (Schedule, error) {
	tokens := strings.Fields(expr)
	if len(tokens) != len(fields) {
		return Schedule{}, reasonError(fields[0], expr, "field count does not match the supplied field order")
	}

	sched := Schedule{fields: make(map[FieldKey]fieldSpec, len(fields)+2), expr: expr}
	for i, key := range fields {
		spec, err := parseField(key, tokens[i])
		if err != nil {
			return Schedule{}, err
		}
		sched.fields[key] = spec
	}
	applyFieldDefaults(&sched)
	return sched, nil
}

// applyFieldDefaults fills in Second/Year (and any other field never given
// an explicit token) with their standard defaults.
func applyFieldDefaults(s *Schedule) {
	if _, ok := s.fields[Second]; !ok {
		s.fields[Second] = fieldSpec{ranges: []fieldRange{{From: 0, To: 0, Step: 1}}}
	}
	if _, ok := s.fields[Minute]; !ok {
		s.fields[Minute] = fieldSpec{ranges: []fieldRange{{From: 0, To: 0, Step: 1}}}
	}
	if _, ok := s.fields[Hour]; !ok {
		s.fields[Hour] = fieldSpec{ranges: []fieldRange{{From: 0, To: 0, Step: 1}}}
	}
	if _, ok := s.fields[Day]; !ok {
		min, max := fieldBounds(Day)
		s.fields[Day] = fieldSpec{ranges: []fieldRange{{From: min, To: max, Step: 1}}}
	}
	if _, ok := s.fields[Month]; !ok {
		min, max := fieldBounds(Month)
		s.fields[Month] = fieldSpec{ranges: []fieldRange{{From: min, To: max, Step: 1}}}
	}
	if _, ok := s.fields[Weekday]; !ok {
		min, max := fieldBounds(Weekday)
		s.fields[Weekday] = fieldSpec{ranges: []fieldRange{{From: min, To: max, Step: 1}}}
	}
	if _, ok := s.fields[Year]; !ok {
		// "current year" is resolved lazily at Times(loc, from) time, since
		// parsing happens independently of when the Schedule is used.
		s.fields[Year] = fieldSpec{ranges: nil}
	}
}

// parseField compiles one field's raw token (e.g. "0-55/5", "?", "thuL").
func parseField(key FieldKey, token string) (fieldSpec, error) {
	if key == Day && strings.EqualFold(token, "L") {
		return fieldSpec{lastDayOfMonth: true}, nil
	}
	if key == Weekday {
		if spec, ok, err := parseLastWeekday(token); ok {
			return spec, err
		}
	}

	var spec fieldSpec
	for _, item := range strings.Split(token, ",") {
		r, err := parseRangeItem(key, item)
		if err != nil {
			return fieldSpec{}, err
		}
		spec.ranges = append(spec.ranges, r)
	}
	return spec, nil
}

// parseLastWeekday recognizes "<weekday>L" (e.g. "thuL", "5L"). ok is false
// if token isn't that shape at all, in which case the caller falls back to
// normal range parsing.
func parseLastWeekday(token string) (fieldSpec, bool, error) {
	if len(token) < 2 || !strings.HasSuffix(strings.ToUpper(token), "L") {
		return fieldSpec{}, false, nil
	}
	base := token[:len(token)-1]
	v, err := resolveWeekday(base)
	if err != nil {
		return fieldSpec{}, true, err
	}
	return fieldSpec{lastWeekdayOfMonth: true, lastWeekdayValue: v}, true, nil
}

func resolveWeekday(token string) (int, error) {
	if v, ok := weekdayNames[strings.ToUpper(token)]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, boundsError(Weekday, token)
	}
	min, max := fieldBounds(Weekday)
	if v < min || v > max {
		return 0, boundsError(Weekday, token)
	}
	return v, nil
}

func resolveMonth(token string) (int, error) {
	if v, ok := monthNames[strings.ToUpper(token)]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, boundsError(Month, token)
	}
	min, max := fieldBounds(Month)
	if v < min || v > max {
		return 0, boundsError(Month, token)
	}
	return v, nil
}

func resolveValue(key FieldKey, token string) (int, error) {
	switch key {
	case Weekday:
		return resolveWeekday(token)
	case Month:
		return resolveMonth(token)
	default:
		v, err := strconv.Atoi(token)
		if err != nil {
			return 0, boundsError(key, token)
		}
		min, max := fieldBounds(key)
		if v < min || v > max {
			return 0, boundsError(key, token)
		}
		return v, nil
	}
}

// parseRangeItem compiles one comma-separated item: "*", "?", "5", "5-10",
// "*/5", "5/5", or "5-10/5".
func parseRangeItem(key FieldKey, item string) (fieldRange, error) {
	min, max := fieldBounds(key)

	base, stepStr, hasStep := strings.Cut(item, "/")
	step := 1
	if hasStep {
		s, err := strconv.Atoi(stepStr)
		if err != nil || s <= 0 {
			return fieldRange{}, reasonError(key, item, "step must be a positive integer")
		}
		step = s
	}

	if base == "*" || base == "?" {
		return fieldRange{From: min, To: max, Step: step}, nil
	}

	from, to, isRange := strings.Cut(base, "-")
	if isRange {
		fv, err := resolveValue(key, from)
		if err != nil {
			return fieldRange{}, err
		}
		tv, err := resolveValue(key, to)
		if err != nil {
			return fieldRange{}, err
		}
		if fv > tv {
			return fieldRange{}, reasonError(key, item, "range start must not exceed range end")
		}
		return fieldRange{From: fv, To: tv, Step: step}, nil
	}

	v, err := resolveValue(key, base)
	if err != nil {
		return fieldRange{}, err
	}
	if hasStep {
		// "5/5" means "starting at 5, every 5 units, through the field max".
		return fieldRange{From: v, To: max, Step: step}, nil
	}
	return fieldRange{From: v, To: v, Step: 1}, nil
}
