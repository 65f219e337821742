package cron

import (
	"fmt"

	"github.com/boreiy/chime-go/internal/shared"
)

// ParseError reports a malformed cron expression field, naming the field,
// the offending token, and (when relevant) the field's legal bounds.
type ParseError struct {
	Field FieldKey
	Token string
	Min   int
	Max   int
	// Reason is a short human-readable explanation, used when Min/Max don't
	// apply (e.g. the field count didn't match the expected grammar).
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cron: invalid %s field %q: %s", e.Field, e.Token, e.Reason)
	}
	return fmt.Sprintf("cron: invalid %s field %q: must be within %d-%d", e.Field, e.Token, e.Min, e.Max)
}

// Unwrap lets callers use errors.Is(err, shared.ErrValidation) instead of a
// type switch on *ParseError.
func (e *ParseError) Unwrap() error {
	return shared.ErrValidation
}

func boundsError(field FieldKey, token string) *ParseError {
	min, max := fieldBounds(field)
	return &ParseError{Field: field, Token: token, Min: min, Max: max}
}

func reasonError(field FieldKey, token, reason string) *ParseError {
	return &ParseError{Field: field, Token: token, Reason: reason}
}
