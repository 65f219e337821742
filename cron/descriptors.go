package cron

import (
	"strings"
	"time"
)

// ParseDescriptor compiles one of the eight standard cron descriptor
// shorthands: @yearly, @annually, @monthly, @weekly, @daily, @midnight,
// @hourly, or @every <duration>. Parse delegates to this whenever expr
// starts with "@".
func ParseDescriptor(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	name, rest, _ := strings.Cut(expr, " ")

	switch strings.ToLower(name) {
	case "@yearly", "@annually":
		return Parse("0 0 1 1 *")
	case "@monthly":
		return Parse("0 0 1 * *")
	case "@weekly":
		return Parse("0 0 * * 7") // Sunday, per our Monday=1..Sunday=7 numbering
	case "@daily", "@midnight":
		return Parse("0 0 * * *")
	case "@hourly":
		return Parse("0 * * * *")
	case "@every":
		d, err := time.ParseDuration(strings.TrimSpace(rest))
		if err != nil || d <= 0 {
			return Schedule{}, reasonError(Minute, expr, "@every requires a positive duration, e.g. \"@every 1h30m\"")
		}
		return Schedule{expr: expr, everyInterval: d}, nil
	default:
		return Schedule{}, reasonError(Minute, expr, "unrecognized descriptor")
	}
}
