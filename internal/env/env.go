// Package env defines the environment adapter contract consumed by the
// delegation engine.
//
// An adapter hides how a host environment delivers occurrences (a terminal,
// an HTML document, an in-memory tree) behind two primitives, Attach and
// Detach, plus an ancestor walk used to resolve which registered target owns
// an occurrence. The engine never sees a concrete tree representation.
package env

import (
	"errors"
	"iter"
)

// ErrUnknownSubscription is returned by Detach for a subscription the adapter
// did not create or has already released.
var ErrUnknownSubscription = errors.New("unknown subscription")

// Occurrence is a single instance of something happening under the root.
type Occurrence[N comparable] interface {
	// Type returns the occurrence type name, e.g. "mousedown".
	Type() string

	// Source returns the node the occurrence originated from.
	Source() N
}

// Canceler is implemented by occurrences whose default handling can be
// suppressed by a callback.
type Canceler interface {
	PreventDefault()
	StopPropagation()
}

// NativeFunc receives occurrences from the adapter.
type NativeFunc[N comparable] func(occ Occurrence[N]) error

// Subscription identifies one native subscription created by Attach.
type Subscription interface {
	// Type returns the occurrence type the subscription listens to.
	Type() string
}

// Adapter is the capability set an environment exposes to the engine.
type Adapter[N comparable] interface {
	// Root returns the shared root node that native subscriptions attach to.
	Root() N

	// Attach subscribes fn to occurrences of typ on node.
	Attach(node N, typ string, fn NativeFunc[N]) (Subscription, error)

	// Detach releases a subscription returned by Attach.
	Detach(sub Subscription) error

	// Ancestors returns the chain from source up to the root, inclusive of
	// source. The sequence is finite and can be iterated more than once.
	Ancestors(source N) iter.Seq[N]
}

// ParentFunc returns the parent of a node and false when node is the root
// or detached.
type ParentFunc[N comparable] func(node N) (N, bool)

// Chain builds an ancestor sequence from a parent link. Iteration stops at
// stop (inclusive) or when the parent link runs out.
func Chain[N comparable](source N, stop N, parent ParentFunc[N]) iter.Seq[N] {
	return func(yield func(N) bool) {
		var zero N
		if source == zero {
			return
		}
		node := source
		for {
			if !yield(node) {
				return
			}
			if node == stop {
				return
			}
			next, ok := parent(node)
			if !ok || next == zero {
				return
			}
			node = next
		}
	}
}
