package domevents

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/event/dispatch"
)

// binding associates one target with its callbacks for one type.
type binding[N comparable] struct {
	target    N
	callbacks []*Callback[N]
}

// typeTable holds the bindings of one occurrence type.
type typeTable[N comparable] struct {
	// order keeps bindings in insertion order.
	order []*binding[N]

	// index maps a target to its binding for ancestor matching.
	index map[N]*binding[N]

	// sub is the native root subscription, nil when not attached.
	sub env.Subscription
}

func newTypeTable[N comparable]() *typeTable[N] {
	return &typeTable[N]{
		index: make(map[N]*binding[N]),
	}
}

// idle reports whether no binding has callbacks left.
func (t *typeTable[N]) idle() bool {
	for _, b := range t.order {
		if len(b.callbacks) > 0 {
			return false
		}
	}
	return true
}

// interception is the one-shot take-over slot.
type interception[N comparable] struct {
	typ      string
	target   N
	callback *Callback[N]
}

// Engine routes occurrences delivered on a shared root to the nearest
// registered ancestor of their source.
type Engine[N comparable] struct {
	adapter env.Adapter[N]

	mu     sync.Mutex
	types  map[string]*typeTable[N]
	slot   *interception[N]
	closed bool

	config engineConfig
	exec   *dispatch.Executor
	stats  counters
}

// New creates an Engine that subscribes through adapter.
func New[N comparable](adapter env.Adapter[N], opts ...Option) *Engine[N] {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(&config)
	}

	e := &Engine[N]{
		adapter: adapter,
		types:   make(map[string]*typeTable[N]),
		config:  config,
	}
	e.exec = dispatch.NewExecutor(dispatch.WithPanicHandler(e.panicked))
	return e
}

func (e *Engine[N]) validate(target N, typ string, cb *Callback[N]) error {
	var zero N
	switch {
	case target == zero:
		return ErrInvalidTarget
	case typ == "":
		return ErrInvalidType
	case cb == nil:
		return ErrNilCallback
	}
	return nil
}

// On registers cb for occurrences of typ owned by target. The first
// registration of a type attaches one native subscription on the root.
// Registering another callback for the same target and type appends to the
// existing binding.
func (e *Engine[N]) On(target N, typ string, cb *Callback[N]) error {
	if err := e.validate(target, typ, cb); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	tbl, ok := e.types[typ]
	if !ok {
		tbl = newTypeTable[N]()
	}

	if tbl.sub == nil {
		sub, err := e.adapter.Attach(e.adapter.Root(), typ, e.native(typ))
		if err != nil {
			return fmt.Errorf("attaching %s: %w", typ, err)
		}
		tbl.sub = sub
		e.stats.attaches.Add(1)
		e.config.logger.Debug("native subscription attached", slog.String("type", typ))
	}
	e.types[typ] = tbl

	b, ok := tbl.index[target]
	if !ok {
		b = &binding[N]{target: target}
		tbl.index[target] = b
		tbl.order = append(tbl.order, b)
	}
	b.callbacks = append(b.callbacks, cb)
	return nil
}

// Off removes every registration of cb from target's binding for typ. The
// binding itself is kept. Unknown targets, types and callbacks are ignored.
func (e *Engine[N]) Off(target N, typ string, cb *Callback[N]) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.types[typ]
	if !ok {
		return
	}
	b, ok := tbl.index[target]
	if !ok {
		return
	}

	kept := make([]*Callback[N], 0, len(b.callbacks))
	for _, c := range b.callbacks {
		if c != cb {
			kept = append(kept, c)
		}
	}
	b.callbacks = kept

	if e.config.releaseIdle && tbl.sub != nil && tbl.idle() {
		e.release(typ, tbl)
	}
}

// release detaches the native subscription of tbl. Callers hold e.mu.
func (e *Engine[N]) release(typ string, tbl *typeTable[N]) {
	if err := e.adapter.Detach(tbl.sub); err != nil {
		e.config.logger.Warn("detaching native subscription",
			slog.String("type", typ),
			slog.String("error", err.Error()))
	}
	tbl.sub = nil
	e.stats.detaches.Add(1)
	e.config.logger.Debug("native subscription detached", slog.String("type", typ))
}

// TakeOver arms the interception slot: the next occurrence of typ whose
// ancestor chain contains target is delivered to cb only. Any previously
// armed slot is replaced.
func (e *Engine[N]) TakeOver(target N, typ string, cb *Callback[N]) error {
	if err := e.validate(target, typ, cb); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if e.slot != nil {
		e.config.logger.Debug("interception replaced",
			slog.String("type", e.slot.typ),
			slog.String("callback", e.slot.callback.id))
	}
	e.slot = &interception[N]{typ: typ, target: target, callback: cb}
	e.config.logger.Debug("interception armed", slog.String("type", typ))
	return nil
}

// SetInterceptFallthrough changes the unmatched-interception policy at
// runtime.
func (e *Engine[N]) SetInterceptFallthrough(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.config.interceptFallthrough = enabled
}

// Close detaches every native subscription and disarms the slot. Further
// registrations and dispatches fail with ErrClosed.
func (e *Engine[N]) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.slot = nil

	var first error
	for typ, tbl := range e.types {
		if tbl.sub == nil {
			continue
		}
		if err := e.adapter.Detach(tbl.sub); err != nil && first == nil {
			first = fmt.Errorf("detaching %s: %w", typ, err)
		}
		tbl.sub = nil
		e.stats.detaches.Add(1)
	}
	return first
}

// Targets returns the registered targets for typ in insertion order.
func (e *Engine[N]) Targets(typ string) []N {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.types[typ]
	if !ok {
		return nil
	}
	out := make([]N, len(tbl.order))
	for i, b := range tbl.order {
		out[i] = b.target
	}
	return out
}

// Callbacks returns the number of callbacks bound to target for typ.
func (e *Engine[N]) Callbacks(target N, typ string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.types[typ]
	if !ok {
		return 0
	}
	if b, ok := tbl.index[target]; ok {
		return len(b.callbacks)
	}
	return 0
}

// Types returns the registered occurrence types, sorted.
func (e *Engine[N]) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	types := make([]string, 0, len(e.types))
	for typ := range e.types {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Attached reports whether a native subscription exists for typ.
func (e *Engine[N]) Attached(typ string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.types[typ]
	return ok && tbl.sub != nil
}

// Armed returns the armed interception, if any.
func (e *Engine[N]) Armed() (typ string, target N, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.slot == nil {
		return "", target, false
	}
	return e.slot.typ, e.slot.target, true
}
