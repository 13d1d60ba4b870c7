// Package script embeds a sandboxed Lua runtime that can observe and fire
// named events and register delegated callbacks.
//
// Scripts see two modules. events exposes an event.Handler:
//
//	events.on("saved", function(name, path) print(path) end)
//	events.fire("saved", "main.go")
//
// dom, installed by BindEngine, exposes a delegation engine:
//
//	dom.on("toolbar", "mousedown", function(occ) return false end)
//	dom.take_over("body", "mouseup", function(occ) end)
//
// A Lua callback that returns false behaves like a Go callback returning
// ErrStop: it ends the current occurrence, and ends the current event fire
// when the handler halts on stop (the default handler does).
//
// gopher-lua states are not goroutine-safe. A Bridge and every callback
// it registers must be used from a single goroutine.
package script
