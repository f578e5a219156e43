package invoke

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRegistered is returned when a target already has a handler.
	ErrAlreadyRegistered = errors.New("invoke: handler already registered")

	// ErrHandlerNotFound is returned when dispatching to an unknown target.
	ErrHandlerNotFound = errors.New("invoke: no handler registered")

	// ErrInteractionMismatch is returned when a target is called with a
	// different interaction model than it was registered with.
	ErrInteractionMismatch = errors.New("invoke: interaction model mismatch")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("invoke: nil handler")
)

// PanicError carries a panic recovered from a handler.
type PanicError struct {
	Target Target
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("invoke: handler %s panicked: %v", e.Target, e.Value)
}
