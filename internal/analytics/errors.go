package analytics

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can map them to a response.
type Kind string

const (
	KindInsufficientData Kind = "InsufficientDataError"
	KindNonConvergence   Kind = "NonConvergenceError"
	KindEmptyInventory   Kind = "EmptyInventoryError"
	KindInvalidParameter Kind = "InvalidParameterError"
)

// Sentinels for errors.Is checks against an *Error of the same kind.
var (
	ErrInsufficientData = &Error{Kind: KindInsufficientData}
	ErrNonConvergence   = &Error{Kind: KindNonConvergence}
	ErrEmptyInventory   = &Error{Kind: KindEmptyInventory}
	ErrInvalidParameter = &Error{Kind: KindInvalidParameter}
)

// Error is a local validation or domain failure raised by the engine.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports kind equality so wrapped errors match the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the engine kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
