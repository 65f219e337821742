// Package chimelog is an optional, purely additive recorder of chime
// outcomes. Attaching one never changes scheduling: a chime.Schedule built
// from chime.At behaves identically whether or not a Recorder is wrapped
// around its callback, and nothing in this package feeds back into which
// times a Schedule fires at.
//
// See recorder.go for the Record/Recorder types, wrap.go for the callback
// combinator that ties a Recorder to a chime callback, and postgres.go/
// sqlite.go for the two backends.
package chimelog
