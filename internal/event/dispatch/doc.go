// Package dispatch runs listener and callback invocations with failure
// isolation.
//
// Both the observer registry and the delegation engine invoke caller code
// synchronously, one function at a time. The Executor wraps each invocation
// so that a returned error or a panic is captured in a Result instead of
// unwinding through the dispatch loop. Remaining functions keep running and
// the caller decides what to surface afterwards.
//
// # Panic Recovery
//
// A panicking function never escapes Execute. The recovered value and stack
// are recorded on the Result and reported to an optional PanicHandler:
//
//	exec := dispatch.NewExecutor(
//	    dispatch.WithPanicHandler(func(v any, stack []byte) {
//	        logger.Error("callback panic", "value", v)
//	    }),
//	)
//	result := exec.Execute(func() error { return cb(occ) })
//	if !result.IsSuccess() {
//	    // inspect result.Error or result.PanicValue
//	}
//
// # Statistics
//
// Executors keep lock-free counters of executions, failures and panics.
package dispatch
