package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the observer registry.
var (
	// ErrStop may be returned by a listener to halt a Fire early. It only has
	// that effect on handlers created with WithHaltOnStop.
	ErrStop = errors.New("stop iteration")

	// ErrHandlerPanic is matched by PanicError through errors.Is.
	ErrHandlerPanic = errors.New("listener panicked")
)

// HandlerError wraps an error returned by a listener with additional context.
type HandlerError struct {
	// ListenerID is the ID of the listener that failed.
	ListenerID string

	// Name is the event name being fired.
	Name string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "listener " + e.ListenerID + " failed on event " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a listener panic as an error.
type PanicError struct {
	// ListenerID is the ID of the listener that panicked.
	ListenerID string

	// Name is the event name being fired.
	Name string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener %s panicked on event %s: %v", e.ListenerID, e.Name, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
