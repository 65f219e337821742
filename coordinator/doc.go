// Package coordinator tracks many independent chime.Schedule jobs under
// caller-chosen string ids, adding/removing them through a single actor
// goroutine so no two callers (or a finishing job's own Schedule) ever race
// over the tracked set directly.
package coordinator
