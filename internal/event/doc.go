// Package event provides Handler, a named-event observer registry that any
// component can embed to broadcast and subscribe to events.
//
// A Handler keeps, per event name, an ordered list of listeners. Fire calls
// every listener registered for a name, in registration order, passing the
// Handler itself, the event name and the fired arguments.
//
// # Listener Identity
//
// Go functions cannot be compared, so callbacks are wrapped once in a
// *Listener. Off removes a listener by pointer identity, which means the
// same *Listener value must be kept around to unsubscribe later:
//
//	changed := event.NewListener(func(h *event.Handler, name string, args ...any) error {
//	    fmt.Println(name, args)
//	    return nil
//	})
//	h := event.NewHandler()
//	h.On("changed", changed)
//	_ = h.Fire("changed", 1, 2)
//	h.Off("changed", changed)
//
// # Fire Semantics
//
// Fire takes a snapshot of the listener list before calling anyone. A
// listener that registers or removes listeners during a Fire affects the
// next Fire, never the one in progress.
//
// Listener failures are isolated: an error or panic in one listener does not
// prevent the remaining listeners from running. Once every listener has run,
// Fire returns the first failure wrapped in a *HandlerError (or *PanicError
// for panics). Each failure is also reported to the handler's error sink.
//
// # Early Stop
//
// Stopping iteration early is opt-in. A Handler created with WithHaltOnStop
// stops calling listeners when one returns ErrStop. Without that option
// ErrStop is treated like a nil return.
//
// # Thread Safety
//
// Handler is safe for concurrent use. Listeners are called without any
// internal lock held, so they may call On, Off and Fire re-entrantly.
package event
