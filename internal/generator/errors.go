package generator

import (
	"errors"
	"fmt"
)

// FailKind classifies why a generation call failed, so callers can report
// a dead service differently from a malformed or over-long response.
type FailKind string

const (
	// FailTransport covers an unreachable service, a non-success status,
	// or empty response content.
	FailTransport FailKind = "transport"
	// FailParse means the response contained no Q:/A: units at all.
	FailParse FailKind = "parse"
	// FailFilter means units were parsed but every one was dropped by the
	// question-length filter.
	FailFilter FailKind = "filter"
)

// GenerateError is returned when a generation call fails. Every kind is
// recoverable: the caller's session and store state stay untouched and
// the user may simply retry.
type GenerateError struct {
	Kind    FailKind
	Wrapped error
}

func (e *GenerateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Wrapped)
	}
	return fmt.Sprintf("generation failed (%s)", e.Kind)
}

func (e *GenerateError) Unwrap() error {
	return e.Wrapped
}

// KindOf returns the failure kind of err, or "" when err is not a
// GenerateError.
func KindOf(err error) FailKind {
	var ge *GenerateError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
