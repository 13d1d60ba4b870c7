package domevents

import (
	"sync/atomic"

	"github.com/dshills/domevents/internal/event/dispatch"
)

// counters are the engine's lock-free statistics.
type counters struct {
	occurrences atomic.Uint64
	matched     atomic.Uint64
	unmatched   atomic.Uint64
	intercepted atomic.Uint64
	swallowed   atomic.Uint64
	attaches    atomic.Uint64
	detaches    atomic.Uint64
}

// Stats contains engine statistics.
type Stats struct {
	// Occurrences is the number of occurrences received.
	Occurrences uint64

	// Matched is the number of occurrences that reached a registered target.
	Matched uint64

	// Unmatched is the number of occurrences whose chain had no registered target.
	Unmatched uint64

	// Intercepted is the number of occurrences consumed by the interception slot.
	Intercepted uint64

	// Swallowed is the number of occurrences dropped by an unmatched interception.
	Swallowed uint64

	// Attaches is the number of native subscriptions created.
	Attaches uint64

	// Detaches is the number of native subscriptions released.
	Detaches uint64

	// Callbacks holds callback execution statistics.
	Callbacks dispatch.Stats
}

// Stats returns engine statistics.
func (e *Engine[N]) Stats() Stats {
	return Stats{
		Occurrences: e.stats.occurrences.Load(),
		Matched:     e.stats.matched.Load(),
		Unmatched:   e.stats.unmatched.Load(),
		Intercepted: e.stats.intercepted.Load(),
		Swallowed:   e.stats.swallowed.Load(),
		Attaches:    e.stats.attaches.Load(),
		Detaches:    e.stats.detaches.Load(),
		Callbacks:   e.exec.Stats(),
	}
}
