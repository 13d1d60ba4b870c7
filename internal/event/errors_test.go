package event

import (
	"errors"
	"testing"
)

func TestHandlerError(t *testing.T) {
	underlyingErr := errors.New("something went wrong")
	err := &HandlerError{
		ListenerID: "lst-123",
		Name:       "changed",
		Err:        underlyingErr,
	}

	if got := err.Error(); got != "listener lst-123 failed on event changed: something went wrong" {
		t.Errorf("unexpected error string: %s", got)
	}

	if err.Unwrap() != underlyingErr {
		t.Error("Unwrap() should return the underlying error")
	}

	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is should match the underlying error")
	}
}

func TestPanicError(t *testing.T) {
	err := &PanicError{
		ListenerID: "lst-456",
		Name:       "closed",
		Value:      "panic value",
		Stack:      "fake stack trace",
	}

	if got := err.Error(); got != "listener lst-456 panicked on event closed: panic value" {
		t.Errorf("unexpected error string: %s", got)
	}

	if !errors.Is(err, ErrHandlerPanic) {
		t.Error("errors.Is should match ErrHandlerPanic")
	}

	if errors.Is(err, ErrStop) {
		t.Error("errors.Is should not match unrelated errors")
	}
}
