package domevents

import (
	"github.com/google/uuid"

	"github.com/dshills/domevents/internal/env"
)

// CallbackFunc handles one occurrence. Returning ErrStop skips the remaining
// callbacks of the binding.
type CallbackFunc[N comparable] func(occ env.Occurrence[N]) error

// Callback is a registered occurrence handler. Its pointer is its identity.
type Callback[N comparable] struct {
	id string
	fn CallbackFunc[N]
}

// NewCallback wraps fn in a Callback with a fresh ID.
// It panics if fn is nil.
func NewCallback[N comparable](fn CallbackFunc[N]) *Callback[N] {
	if fn == nil {
		panic("domevents: nil callback func")
	}
	return &Callback[N]{
		id: uuid.NewString(),
		fn: fn,
	}
}

// ID returns the unique callback identifier.
func (c *Callback[N]) ID() string {
	return c.id
}

// CancelEvent suppresses the default handling of occ when the environment
// supports it and returns ErrStop, so callbacks can end with
//
//	return domevents.CancelEvent(occ)
func CancelEvent(occ any) error {
	if c, ok := occ.(env.Canceler); ok {
		c.PreventDefault()
		c.StopPropagation()
	}
	return ErrStop
}
