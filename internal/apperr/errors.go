// Package apperr classifies application errors so callers can branch
// on the failure kind instead of inspecting error identity.
package apperr

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// Kind partitions failures by how callers must react.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no kind.
	KindUnknown Kind = iota
	// KindConfiguration covers missing credentials or missing store
	// config. Fatal to an interactive session; no retry.
	KindConfiguration
	// KindTransient covers recoverable remote failures on the query
	// path (timeouts, non-200 responses).
	KindTransient
	// KindPerItem covers per-document ingestion failures that are
	// logged and skipped without aborting the batch.
	KindPerItem
	// KindFatal covers store bootstrap failures that halt an
	// ingestion run as a whole.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindPerItem:
		return "per-item"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error carries a kind, a message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates a kinded error wrapping a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown when none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
