package domevents

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/event/dispatch"
)

// outcome classifies how an occurrence was resolved.
type outcome int

const (
	outcomeIgnored outcome = iota
	outcomeIntercepted
	outcomeSwallowed
	outcomeMatched
	outcomeUnmatched
	outcomeClosed
)

// plan is the result of resolving one occurrence under the engine lock.
type plan[N comparable] struct {
	outcome   outcome
	target    N
	callbacks []*Callback[N]
}

// native returns the function handed to the adapter for typ.
func (e *Engine[N]) native(typ string) env.NativeFunc[N] {
	return func(occ env.Occurrence[N]) error {
		return e.dispatch(typ, occ)
	}
}

// Dispatch routes occ as if it had been delivered by the native subscription
// for its type. It returns ErrClosed once the engine is closed.
func (e *Engine[N]) Dispatch(occ env.Occurrence[N]) error {
	return e.dispatch(occ.Type(), occ)
}

func (e *Engine[N]) dispatch(typ string, occ env.Occurrence[N]) error {
	p := e.resolve(typ, occ)
	if p.outcome == outcomeClosed {
		return ErrClosed
	}
	e.stats.occurrences.Add(1)

	switch p.outcome {
	case outcomeIgnored:
		return nil
	case outcomeSwallowed:
		e.stats.swallowed.Add(1)
		e.config.logger.Debug("occurrence swallowed by interception", slog.String("type", typ))
		return nil
	case outcomeUnmatched:
		e.stats.unmatched.Add(1)
		return nil
	case outcomeIntercepted:
		e.stats.intercepted.Add(1)
		e.config.logger.Debug("interception consumed", slog.String("type", typ))
	case outcomeMatched:
		e.stats.matched.Add(1)
	}

	return e.invoke(typ, p, occ)
}

// resolve finds who owns occ and snapshots their callbacks. The slot is
// consumed in the same critical section so a concurrent occurrence cannot
// observe it twice.
func (e *Engine[N]) resolve(typ string, occ env.Occurrence[N]) plan[N] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return plan[N]{outcome: outcomeClosed}
	}

	tbl, ok := e.types[typ]
	if !ok || len(tbl.order) == 0 {
		return plan[N]{outcome: outcomeIgnored}
	}

	chain := e.adapter.Ancestors(occ.Source())

	if slot := e.slot; slot != nil && slot.typ == typ {
		for node := range chain {
			if node == slot.target {
				e.slot = nil
				return plan[N]{
					outcome:   outcomeIntercepted,
					target:    node,
					callbacks: []*Callback[N]{slot.callback},
				}
			}
		}
		if !e.config.interceptFallthrough {
			return plan[N]{outcome: outcomeSwallowed}
		}
	}

	for node := range chain {
		if b, ok := tbl.index[node]; ok {
			return plan[N]{
				outcome:   outcomeMatched,
				target:    node,
				callbacks: slices.Clone(b.callbacks),
			}
		}
	}
	return plan[N]{outcome: outcomeUnmatched}
}

// invoke runs the planned callbacks in order with the lock released.
func (e *Engine[N]) invoke(typ string, p plan[N], occ env.Occurrence[N]) error {
	var first error
	for _, cb := range p.callbacks {
		result := e.exec.Execute(func() error {
			return cb.fn(occ)
		})

		if result.IsSuccess() {
			continue
		}
		if errors.Is(result.Error, ErrStop) {
			break
		}

		if err := failure(typ, p.target, cb, result); err != nil {
			e.report(err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func failure[N comparable](typ string, target N, cb *Callback[N], result dispatch.Result) error {
	switch {
	case result.IsPanic():
		return &PanicError{
			CallbackID: cb.id,
			Type:       typ,
			Value:      result.PanicValue,
			Stack:      string(result.PanicStack),
		}
	case result.IsError():
		return &CallbackError{
			CallbackID: cb.id,
			Type:       typ,
			Target:     target,
			Err:        result.Error,
		}
	}
	return nil
}

// panicked logs the stack of a recovered callback panic. The failure itself
// is reported once dispatch has classified it.
func (e *Engine[N]) panicked(value any, stack []byte) {
	e.config.logger.Debug("callback panic stack",
		slog.Any("panic", value),
		slog.String("stack", string(stack)))
}

func (e *Engine[N]) report(err error) {
	e.config.logger.Error("callback failed", slog.String("error", err.Error()))
	if e.config.errorHandler != nil {
		e.config.errorHandler(err)
	}
}
