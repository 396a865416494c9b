package apperrors

import (
	crdberrors "github.com/cockroachdb/errors"
)

// FatalSubprocessStart wraps a collaborator's failure-to-start error with
// a captured stack trace for the exit-2 path. The wrap preserves
// errors.As(*Error) for callers that only care about the structured
// fields; the stack trace is for whoever reads the exit-2 message
// afterward.
func FatalSubprocessStart(code, message string, cause error) error {
	appErr := NewSubprocessError(code, message, cause, false)
	return crdberrors.WithStack(appErr)
}
