// Package terminal adapts a widget tree drawn on a screen.Screen to
// env.Adapter.
//
// Mouse events read from the screen are hit-tested to the deepest widget
// and translated into the press, move and release types of the configured
// pointer profile. A release over the widget that received the press also
// produces a pointer.Click occurrence carrying the multi-click count.
package terminal

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/pointer"
	"github.com/dshills/domevents/internal/screen"
)

// KeyFunc handles key events read by Run. Returning false ends the loop.
type KeyFunc func(ev screen.Event) bool

type subscription struct {
	widget *Widget
	typ    string
	fn     env.NativeFunc[*Widget]
}

func (s *subscription) Type() string { return s.typ }

// Option configures an Adapter.
type Option func(*Adapter)

// WithProfile sets the pointer profile. The default is pointer.Mouse.
func WithProfile(p pointer.Profile) Option {
	return func(a *Adapter) {
		a.profile = p
	}
}

// WithClickTracker sets the multi-click tracker.
func WithClickTracker(t *pointer.ClickTracker) Option {
	return func(a *Adapter) {
		a.clicks = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the time source used to stamp occurrences.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// Adapter implements env.Adapter over a widget tree.
type Adapter struct {
	screen  screen.Screen
	root    *Widget
	profile pointer.Profile
	clicks  *pointer.ClickTracker
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	subs []*subscription

	// Pointer state, owned by the goroutine calling HandleEvent.
	held    bool
	pressed *Widget
	lastX   int
	lastY   int
}

// New creates an adapter for root drawn on s.
func New(s screen.Screen, root *Widget, opts ...Option) *Adapter {
	a := &Adapter{
		screen:  s,
		root:    root,
		profile: pointer.Mouse,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		lastX:   -1,
		lastY:   -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.clicks == nil {
		a.clicks = pointer.NewClickTracker(0, 0)
	}
	return a
}

// Root returns the root widget.
func (a *Adapter) Root() *Widget {
	return a.root
}

// Profile returns the pointer profile in use.
func (a *Adapter) Profile() pointer.Profile {
	return a.profile
}

// Attach subscribes fn to occurrences of typ reaching widget.
func (a *Adapter) Attach(widget *Widget, typ string, fn env.NativeFunc[*Widget]) (env.Subscription, error) {
	if widget == nil {
		return nil, errors.New("terminal: attach to nil widget")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sub := &subscription{widget: widget, typ: typ, fn: fn}
	a.subs = append(a.subs, sub)
	a.logger.Debug("terminal subscription attached",
		slog.String("type", typ),
		slog.String("widget", widget.ID))
	return sub, nil
}

// Detach releases a subscription returned by Attach.
func (a *Adapter) Detach(s env.Subscription) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, sub := range a.subs {
		if sub == s {
			a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
			return nil
		}
	}
	return env.ErrUnknownSubscription
}

// Ancestors walks from source up to the root widget.
func (a *Adapter) Ancestors(source *Widget) iter.Seq[*Widget] {
	return env.Chain(source, a.root, func(w *Widget) (*Widget, bool) {
		return w.parent, w.parent != nil
	})
}

// Deliver sends occ to the subscriptions on its source's ancestor chain,
// nearest first, until one stops propagation. It returns the first error.
func (a *Adapter) Deliver(occ *Occurrence) error {
	a.mu.Lock()
	var targets []*subscription
	for w := range a.Ancestors(occ.source) {
		for _, sub := range a.subs {
			if sub.widget == w && sub.typ == occ.typ {
				targets = append(targets, sub)
			}
		}
	}
	a.mu.Unlock()

	var first error
	for _, sub := range targets {
		if occ.stopped {
			break
		}
		if err := sub.fn(occ); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// HandleEvent translates a mouse event into pointer occurrences and
// delivers them. Other event types are ignored.
func (a *Adapter) HandleEvent(ev screen.Event) error {
	if ev.Type != screen.EventMouse {
		return nil
	}

	held := ev.Buttons.Pressed()
	target := a.root.HitTest(ev.MouseX, ev.MouseY)
	moved := ev.MouseX != a.lastX || ev.MouseY != a.lastY
	a.lastX, a.lastY = ev.MouseX, ev.MouseY

	switch {
	case held && !a.held:
		a.held = true
		a.pressed = target
		return a.emit(a.profile.Press, target, ev, 0)

	case !held && a.held:
		a.held = false
		pressed := a.pressed
		a.pressed = nil

		err := a.emit(a.profile.Release, target, ev, 0)
		if target != nil && target == pressed {
			count := a.clicks.Record(pointer.Point{X: ev.MouseX, Y: ev.MouseY}, a.now())
			err = errors.Join(err, a.emit(pointer.Click, target, ev, count))
		}
		return err

	case moved && ev.Buttons&(screen.WheelUp|screen.WheelDown) == 0:
		return a.emit(a.profile.Move, target, ev, 0)
	}
	return nil
}

func (a *Adapter) emit(typ string, target *Widget, ev screen.Event, count int) error {
	if target == nil {
		return nil
	}
	occ := &Occurrence{
		typ:     typ,
		source:  target,
		X:       ev.MouseX,
		Y:       ev.MouseY,
		Buttons: ev.Buttons,
		Mod:     ev.Mod,
		Time:    a.now(),
		Count:   count,
	}
	return a.Deliver(occ)
}

// Draw renders the widget tree.
func (a *Adapter) Draw() {
	a.screen.Clear()
	a.root.draw(a.screen)
	a.screen.Show()
}

// Run reads screen events until the context is cancelled, the screen is
// shut down, or keys returns false. Mouse events are handled with
// HandleEvent and the tree is redrawn after each one.
func (a *Adapter) Run(ctx context.Context, keys KeyFunc) error {
	stop := context.AfterFunc(ctx, func() {
		a.screen.PostEvent(screen.Event{Type: screen.EventInterrupt})
	})
	defer stop()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		switch ev.Type {
		case screen.EventInterrupt:
			return ctx.Err()

		case screen.EventMouse:
			if err := a.HandleEvent(ev); err != nil {
				a.logger.Warn("pointer occurrence failed", slog.String("error", err.Error()))
			}
			a.Draw()

		case screen.EventResize:
			a.Draw()

		case screen.EventKey:
			if keys != nil && !keys(ev) {
				return nil
			}
		}
	}
}
