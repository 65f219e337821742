// Package shared is chime's error vocabulary: sentinel errors and a Kind
// classification that chime, coordinator, and cron all build their own
// sentinels on top of, so a caller watching any of them can classify a
// failure without importing package-specific error types.
//
// # Error Types and Classification
//
// This package provides a set of standard error types (sentinel errors) that
// represent common failure conditions:
//
//   - ErrNotFound: a requested resource was not found
//   - ErrValidation: malformed cron expression (cron.ParseError unwraps to it)
//   - ErrUnauthorized: authentication required
//   - ErrForbidden: access denied
//   - ErrConflict: the request conflicts with current state
//   - ErrInternal: internal error
//   - ErrTimeout: a callback or wait exceeded its deadline
//   - ErrInvariantViolated: a chime invariant was violated (the basis for
//     chime.ErrClosed, coordinator.ErrDuplicateJob, and friends)
//   - ErrDependencyFailure: a recorder backend or other external dependency failed
//
// # Error Classification
//
// Use KindOf() to classify errors into categories:
//
//	_, err := cron.Parse(expr)
//	switch shared.KindOf(err) {
//	case shared.KindValidation:
//	    // malformed cron expression
//	case shared.KindInvariantViolated:
//	    // a chime or coordinator sentinel, e.g. coordinator.ErrDuplicateJob
//	default:
//	    // unclassified
//	}
//
// Or use predicate functions for cleaner code:
//
//	if shared.IsInvariantViolated(err) {
//	    // e.g. duplicate job id (coordinator.ErrDuplicateJob)
//	}
//	if shared.IsTimeout(err) {
//	    // callback missed its deadline
//	}
//
// Or use the HasKind() function for explicit kind checking:
//
//	if shared.HasKind(err, shared.KindTimeout) {
//	    // handle timeout specifically
//	}
//
// # Kind Priority Table
//
// When multiple error kinds are present (e.g., with errors.Join), KindOf returns the highest priority kind:
//
//	Priority | Kind                  | Description
//	---------|----------------------|--------------------
//	1        | KindCanceled         | Context cancellation (highest)
//	2        | KindTimeout          | Timeout/deadline errors
//	3        | KindNotFound         | Resource not found
//	4        | KindValidation       | Input validation failures
//	5        | KindUnauthorized     | Authentication required
//	6        | KindForbidden        | Access denied
//	7        | KindConflict         | Resource conflicts
//	8        | KindDependencyFailure| External service failures
//	9        | KindInternal         | Internal server errors
//	10       | KindInvariantViolated| Business rule violations (lowest)
//
// # Error Wrapping and Context
//
// Add context to errors while preserving the original error:
//
//	if err := recorder.Record(ctx, firing); err != nil {
//	    return shared.Wrap(err, "failed to record firing")
//	}
//
// Use formatted wrapping for dynamic context:
//
//	if err := recorder.Record(ctx, firing); err != nil {
//	    return shared.Wrapf(err, "failed to record firing for job %s", jobID)
//	}
//
// # Error Marking
//
// Mark errors with specific kinds while preserving the original error:
//
//	// Mark a recorder backend's driver error as "not found"
//	if errors.Is(err, sql.ErrNoRows) {
//	    return shared.MarkKind(err, shared.KindNotFound)
//	}
//
//	// Now both work:
//	// shared.IsNotFound(markedErr) == true
//	// errors.Is(markedErr, sql.ErrNoRows) == true
//
// # Invariants
//
// chime, coordinator, and cron each build their package-level sentinel
// errors on Invariant at init time:
//
//	var ErrClosed = shared.Invariant(false, "schedule is closed")
//
// Invariant(false, msg) always returns an error, wrapping ErrInvariantViolated.
//
// # Error Unwrapping and Root Causes
//
// Get the root cause of wrapped errors:
//
//	rootErr := shared.Cause(err)
//
// Get all errors in the chain (supports both fmt.Errorf %w and errors.Join):
//
//	allErrors := shared.UnwrapAll(err)
//
// # Best Practices
//
// 1. Use sentinel errors for known conditions that callers might want to handle
// 2. Use Wrap/Wrapf to add context without losing the original error
// 3. Use MarkKind to classify third-party errors into this error taxonomy
// 4. Use predicate functions (IsNotFound, etc.) or HasKind for readable error checking
// 5. Don't expose infrastructure details (driver errors, status codes) in error messages
// 6. Keep error messages lowercase and without punctuation for easy composition
// 7. Map Kind to transport-specific codes in adapter layers, not in this package
//
// # Error Message Style Guide
//
// - Use lowercase messages: "job not found" not "Job not found"
// - Avoid punctuation: "invalid cron expression" not "Invalid cron expression."
// - Keep messages composable: they will often be wrapped with additional context
// - Use present tense: "cannot schedule" not "could not schedule"
//
// # Supported Go Versions
//
// This package supports errors.Join (available since Go 1.20) and provides
// deterministic error classification and unwrapping for complex error chains.
package shared
