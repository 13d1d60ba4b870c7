package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/domevents/internal/event"
)

// DefaultTimeout bounds one top-level call into Lua.
const DefaultTimeout = 5 * time.Second

// Option configures a Bridge.
type Option func(*Bridge)

// WithHandler shares an existing handler with the script. The default
// handler halts a fire on event.ErrStop.
func WithHandler(h *event.Handler) Option {
	return func(b *Bridge) {
		if h != nil {
			b.handler = h
		}
	}
}

// WithLogger sets the logger that also receives print output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// Bridge owns a Lua state and the Go objects scripts can reach.
type Bridge struct {
	L *lua.LState

	handler   *event.Handler
	listeners map[*lua.LFunction]*event.Listener
	logger    *slog.Logger
	timeout   time.Duration

	depth  int
	closed bool
}

// New creates a sandboxed bridge with the events module installed.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		handler:   event.NewHandler(event.WithHaltOnStop()),
		listeners: make(map[*lua.LFunction]*event.Listener),
		logger:    slog.New(slog.DiscardHandler),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(b.L)
	b.installPrint()
	b.installEvents()
	return b
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (b *Bridge) installPrint() {
	b.L.SetGlobal("print", b.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		b.logger.Info("script", slog.String("output", strings.Join(parts, "\t")))
		return 0
	}))
}

// Handler returns the handler behind the events module.
func (b *Bridge) Handler() *event.Handler {
	return b.handler
}

// DoString runs a chunk of Lua code.
func (b *Bridge) DoString(code string) error {
	if b.closed {
		return ErrClosed
	}
	return b.guard(func() error {
		return b.L.DoString(code)
	})
}

// DoFile runs the Lua file at path. The host reads the file; scripts
// themselves cannot.
func (b *Bridge) DoFile(path string) error {
	if b.closed {
		return ErrClosed
	}
	return b.guard(func() error {
		return b.L.DoFile(path)
	})
}

// Close releases the Lua state and unregisters every events listener the
// script added.
func (b *Bridge) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true

	for _, name := range b.handler.Names() {
		for _, l := range b.listeners {
			b.handler.Off(name, l)
		}
	}
	clear(b.listeners)

	b.L.Close()
	return nil
}

// guard applies the timeout to the outermost call into Lua.
func (b *Bridge) guard(fn func() error) error {
	if b.depth == 0 && b.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		b.L.SetContext(ctx)
		defer func() {
			b.L.RemoveContext()
			cancel()
		}()
	}
	b.depth++
	defer func() { b.depth-- }()
	return fn()
}

// call invokes fn with args and maps a false result to event.ErrStop.
func (b *Bridge) call(fn *lua.LFunction, args ...lua.LValue) error {
	if b.closed {
		return ErrClosed
	}
	return b.guard(func() error {
		if err := b.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return fmt.Errorf("lua: %w", err)
		}
		ret := b.L.Get(-1)
		b.L.Pop(1)
		if ret == lua.LFalse {
			return event.ErrStop
		}
		return nil
	})
}

func (b *Bridge) installEvents() {
	mod := b.L.SetFuncs(b.L.NewTable(), map[string]lua.LGFunction{
		"on":    b.eventsOn(false),
		"once":  b.eventsOn(true),
		"off":   b.eventsOff,
		"fire":  b.eventsFire,
		"names": b.eventsNames,
	})
	b.L.SetGlobal("events", mod)
}

// listener returns the single Listener wrapping fn, so that events.off
// matches by function identity.
func (b *Bridge) listener(fn *lua.LFunction) *event.Listener {
	if l, ok := b.listeners[fn]; ok {
		return l
	}
	l := event.NewListener(func(_ *event.Handler, name string, args ...any) error {
		largs := make([]lua.LValue, 0, len(args)+1)
		largs = append(largs, lua.LString(name))
		for _, a := range args {
			largs = append(largs, toLua(b.L, a))
		}
		return b.call(fn, largs...)
	})
	b.listeners[fn] = l
	return l
}

func (b *Bridge) eventsOn(once bool) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		if once {
			b.handler.Once(name, b.listener(fn))
		} else {
			b.handler.On(name, b.listener(fn))
		}
		return 0
	}
}

func (b *Bridge) eventsOff(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if l, ok := b.listeners[fn]; ok {
		b.handler.Off(name, l)
	}
	return 0
}

func (b *Bridge) eventsFire(L *lua.LState) int {
	name := L.CheckString(1)
	args := make([]any, 0, L.GetTop())
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, toGo(L.Get(i)))
	}
	if err := b.handler.Fire(name, args...); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Bridge) eventsNames(L *lua.LState) int {
	t := L.NewTable()
	for _, name := range b.handler.Names() {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}
