package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/domevents/internal/domevents"
	"github.com/dshills/domevents/internal/env"
	"github.com/dshills/domevents/internal/event"
	"github.com/dshills/domevents/internal/pointer"
)

// Resolver maps a script-visible target name to a node.
type Resolver[N comparable] func(name string) (N, bool)

// BindEngine installs the dom module, which registers Lua callbacks on
// engine. Target names are turned into nodes with resolve.
func BindEngine[N comparable](b *Bridge, engine *domevents.Engine[N], resolve Resolver[N]) {
	callbacks := make(map[*lua.LFunction]*domevents.Callback[N])

	callback := func(fn *lua.LFunction) *domevents.Callback[N] {
		if cb, ok := callbacks[fn]; ok {
			return cb
		}
		cb := domevents.NewCallback(func(occ env.Occurrence[N]) error {
			err := b.call(fn, occurrenceTable(b.L, occ))
			if errors.Is(err, event.ErrStop) {
				return domevents.ErrStop
			}
			return err
		})
		callbacks[fn] = cb
		return cb
	}

	target := func(L *lua.LState) N {
		name := L.CheckString(1)
		node, ok := resolve(name)
		if !ok {
			L.RaiseError("%v: %s", ErrUnknownTarget, name)
		}
		return node
	}

	mod := b.L.SetFuncs(b.L.NewTable(), map[string]lua.LGFunction{
		"on": func(L *lua.LState) int {
			node := target(L)
			typ := L.CheckString(2)
			fn := L.CheckFunction(3)
			if err := engine.On(node, typ, callback(fn)); err != nil {
				L.RaiseError("dom.on: %s", err.Error())
			}
			return 0
		},
		"off": func(L *lua.LState) int {
			node := target(L)
			typ := L.CheckString(2)
			fn := L.CheckFunction(3)
			if cb, ok := callbacks[fn]; ok {
				engine.Off(node, typ, cb)
			}
			return 0
		},
		"take_over": func(L *lua.LState) int {
			node := target(L)
			typ := L.CheckString(2)
			fn := L.CheckFunction(3)
			if err := engine.TakeOver(node, typ, callback(fn)); err != nil {
				L.RaiseError("dom.take_over: %s", err.Error())
			}
			return 0
		},
		"types": func(L *lua.LState) int {
			t := L.NewTable()
			for _, typ := range engine.Types() {
				t.Append(lua.LString(typ))
			}
			L.Push(t)
			return 1
		},
	})
	b.L.SetGlobal("dom", mod)
}

// occurrenceTable exposes occ to Lua as a table with type, source, x, y
// and a cancel function.
func occurrenceTable[N comparable](L *lua.LState, occ env.Occurrence[N]) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(occ.Type()))
	t.RawSetString("source", lua.LString(fmt.Sprint(occ.Source())))
	if p, ok := pointer.Position(occ); ok {
		t.RawSetString("x", lua.LNumber(p.X))
		t.RawSetString("y", lua.LNumber(p.Y))
	}
	t.RawSetString("cancel", L.NewFunction(func(L *lua.LState) int {
		if c, ok := occ.(env.Canceler); ok {
			c.PreventDefault()
			c.StopPropagation()
		}
		return 0
	}))
	return t
}
