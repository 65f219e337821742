// See sequence.go for the Sequence contract and generators.go for the
// concrete generators shipped with this package. Callers needing anything
// more elaborate (holiday calendars, business-day-of-month, ...) should
// implement Sequence directly; this package intentionally stays small.
package timeseq
