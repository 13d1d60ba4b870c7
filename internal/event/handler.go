package event

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/domevents/internal/event/dispatch"
)

// Handler is a named-event observer registry.
// The zero value is ready to use; NewHandler applies options.
type Handler struct {
	mu        sync.RWMutex
	listeners map[string][]entry

	config   handlerConfig
	execOnce sync.Once
	exec     *dispatch.Executor
}

// NewHandler creates a Handler with the given options.
func NewHandler(opts ...HandlerOption) *Handler {
	config := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Handler{
		listeners: make(map[string][]entry),
		config:    config,
	}
}

// On appends l to the listeners of name. It panics if l is nil.
func (h *Handler) On(name string, l *Listener) *Handler {
	return h.add(name, l, false)
}

// Once is like On but the listener is removed right before its first call.
func (h *Handler) Once(name string, l *Listener) *Handler {
	return h.add(name, l, true)
}

func (h *Handler) add(name string, l *Listener, once bool) *Handler {
	if l == nil {
		panic("event: nil listener for " + name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listeners == nil {
		h.listeners = make(map[string][]entry)
	}
	h.listeners[name] = append(h.listeners[name], entry{listener: l, once: once})
	return h
}

// Off removes every registration of l for name. Unknown names and
// listeners are ignored.
func (h *Handler) Off(name string, l *Listener) *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, ok := h.listeners[name]
	if !ok {
		return h
	}

	// Build a new slice so that snapshots held by in-flight fires stay intact.
	kept := make([]entry, 0, len(entries))
	for _, e := range entries {
		if e.listener != l {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(h.listeners, name)
		return h
	}
	h.listeners[name] = kept
	return h
}

// Fire calls every listener of name in registration order with
// (h, name, args...). It returns the first listener failure, after all
// listeners have run (or after ErrStop when WithHaltOnStop is set).
func (h *Handler) Fire(name string, args ...any) error {
	snapshot := h.snapshot(name)
	if len(snapshot) == 0 {
		return nil
	}

	exec := h.executor()

	var first error
	for _, l := range snapshot {
		result := exec.Execute(func() error {
			return l.fn(h, name, args...)
		})

		if result.IsSuccess() {
			continue
		}
		if errors.Is(result.Error, ErrStop) {
			if h.config.haltOnStop {
				break
			}
			continue
		}

		if err := h.failure(l, name, result); err != nil {
			h.report(err)
			if first == nil {
				first = err
			}
		}
	}

	return first
}

// snapshot copies the listeners of name and drops once entries from the
// live list.
func (h *Handler) snapshot(name string) []*Listener {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.listeners[name]
	if len(entries) == 0 {
		return nil
	}

	out := make([]*Listener, len(entries))
	kept := entries[:0:0]
	for i, e := range entries {
		out[i] = e.listener
		if !e.once {
			kept = append(kept, e)
		}
	}

	if len(kept) != len(entries) {
		if len(kept) == 0 {
			delete(h.listeners, name)
		} else {
			h.listeners[name] = kept
		}
	}
	return out
}

func (h *Handler) failure(l *Listener, name string, result dispatch.Result) error {
	switch {
	case result.IsPanic():
		return &PanicError{
			ListenerID: l.id,
			Name:       name,
			Value:      result.PanicValue,
			Stack:      string(result.PanicStack),
		}
	case result.IsError():
		return &HandlerError{
			ListenerID: l.id,
			Name:       name,
			Err:        result.Error,
		}
	}
	return nil
}

func (h *Handler) report(err error) {
	h.logger().Error("event listener failed", slog.String("error", err.Error()))
	if h.config.errorHandler != nil {
		h.config.errorHandler(err)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.config.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.config.logger
}

func (h *Handler) executor() *dispatch.Executor {
	h.execOnce.Do(func() {
		h.exec = dispatch.NewExecutor(dispatch.WithPanicHandler(h.panicked))
	})
	return h.exec
}

func (h *Handler) panicked(value any, stack []byte) {
	h.logger().Debug("event listener panic stack",
		slog.Any("panic", value),
		slog.String("stack", string(stack)))
}

// Listeners returns the number of listeners registered for name.
func (h *Handler) Listeners(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.listeners[name])
}

// Names returns the event names that have listeners, sorted.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.listeners))
	for name := range h.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all listeners.
func (h *Handler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners = make(map[string][]entry)
}

// Stats returns listener execution statistics.
func (h *Handler) Stats() dispatch.Stats {
	return h.executor().Stats()
}

// String implements fmt.Stringer.
func (h *Handler) String() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return fmt.Sprintf("event.Handler{names: %d}", len(h.listeners))
}
