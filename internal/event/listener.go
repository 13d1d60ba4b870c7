package event

import "github.com/google/uuid"

// ListenerFunc is the callback signature for named events. h is the Handler
// that fired the event, name the event name, args the values passed to Fire.
type ListenerFunc func(h *Handler, name string, args ...any) error

// Listener is a registered callback. Its pointer is its identity: Off only
// removes the exact *Listener passed to On.
type Listener struct {
	id string
	fn ListenerFunc
}

// NewListener wraps fn in a Listener with a fresh ID.
// It panics if fn is nil.
func NewListener(fn ListenerFunc) *Listener {
	if fn == nil {
		panic("event: nil listener func")
	}
	return &Listener{
		id: uuid.NewString(),
		fn: fn,
	}
}

// ID returns the unique listener identifier.
func (l *Listener) ID() string {
	return l.id
}

// entry is a listener slot in a Handler. once entries are dropped from the
// live list as soon as a Fire picks them up.
type entry struct {
	listener *Listener
	once     bool
}
