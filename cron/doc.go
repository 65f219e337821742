// Package cron compiles classical 5/6-field cron expressions (plus the
// common @-descriptor shorthands) into lazy, zoned timeseq.Sequence streams.
//
// The grammar supports the usual comma/range/step syntax plus two Quartz-ish
// extensions the rest of the corpus leans on: "?" as a synonym for "*" in
// whichever of day-of-month/day-of-week is not the constraining field, and
// an "L" suffix meaning "last" — "L" alone in the day field for the last day
// of the month, or a weekday name/number followed by "L" (e.g. "thuL") for
// the last occurrence of that weekday in the month.
//
// See types.go for Schedule/FieldKey, parser.go for the grammar, enumerate.go
// for the Times enumeration algorithm and Occurrence, and descriptors.go for
// the @yearly/@monthly/.../@every shorthands.
package cron
