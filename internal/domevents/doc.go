// Package domevents implements delegated event routing.
//
// An Engine multiplexes any number of logical registrations (target, type,
// callback) over a single native subscription per occurrence type, attached
// lazily on the adapter's root the first time a type is registered. Every
// occurrence of that type flows through the engine, which walks from the
// occurrence source up through its ancestors and invokes the callbacks of the
// nearest registered target only.
//
//	tree := memtree.New(body)
//	engine := domevents.New[*memtree.Node](tree)
//
//	pressed := domevents.NewCallback(func(occ env.Occurrence[*memtree.Node]) error {
//	    fmt.Println("pressed", occ.Source())
//	    return nil
//	})
//	_ = engine.On(button, "press", pressed)
//
// # Interception
//
// TakeOver arms a one-shot slot that claims the next occurrence of a type for
// one target. While armed, normal dispatch for that type is skipped for one
// occurrence. If the occurrence does not reach the slot target, nothing runs
// and the slot stays armed; WithInterceptFallthrough changes that to fall back
// to normal dispatch. Arming the slot again replaces the previous entry
// without notice.
//
// # Callback Contract
//
// Callbacks of a binding run in registration order. Returning ErrStop (or the
// result of CancelEvent) ends the loop for that binding. Errors and panics are
// isolated: the remaining callbacks still run and Dispatch returns the first
// failure once the occurrence has been fully processed.
//
// # Subscription Retention
//
// Native subscriptions are kept for the engine's lifetime even after every
// callback of a type is removed. WithReleaseIdle detaches idle types instead;
// the next On for the type attaches again. Close releases everything.
//
// # Thread Safety
//
// One mutex guards the registration table and the interception slot.
// Resolution of the owning target, consumption of the slot and the snapshot
// of callbacks happen in a single critical section; callbacks then run with
// the lock released so they may register, remove or take over re-entrantly.
package domevents
