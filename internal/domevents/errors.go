package domevents

import (
	"errors"
	"fmt"
)

// Sentinel errors for the delegation engine.
var (
	// ErrStop may be returned by a callback to skip the remaining callbacks
	// of the same binding.
	ErrStop = errors.New("stop propagation")

	// ErrInvalidTarget is returned when a zero target is registered.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidType is returned when an empty occurrence type is registered.
	ErrInvalidType = errors.New("invalid occurrence type")

	// ErrNilCallback is returned when a nil callback is registered.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine is closed")

	// ErrCallbackPanic is matched by PanicError through errors.Is.
	ErrCallbackPanic = errors.New("callback panicked")
)

// CallbackError wraps an error returned by a callback during dispatch.
type CallbackError struct {
	// CallbackID is the ID of the failing callback.
	CallbackID string

	// Type is the occurrence type being dispatched.
	Type string

	// Target is the node the callback was registered on.
	Target any

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback %s failed on %s for target %v: %v", e.CallbackID, e.Type, e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// PanicError wraps a callback panic as an error.
type PanicError struct {
	// CallbackID is the ID of the callback that panicked.
	CallbackID string

	// Type is the occurrence type being dispatched.
	Type string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("callback %s panicked on %s: %v", e.CallbackID, e.Type, e.Value)
}

// Is allows errors.Is to match PanicError with ErrCallbackPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrCallbackPanic
}
