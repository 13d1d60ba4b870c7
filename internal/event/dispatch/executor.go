package dispatch

import (
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Executor runs functions with panic recovery and timing.
// It is safe for concurrent use.
type Executor struct {
	panicHandler PanicHandler

	executed    atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the panic handler for the executor.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs fn and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Execute(fn Func) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// A panicking panic handler must not take the dispatch loop down.
			if e.panicHandler != nil {
				func() {
					defer func() {
						_ = recover()
					}()
					e.panicHandler(r, stack)
				}()
			}
		}

		e.record(result)
	}()

	if err := fn(); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}

func (e *Executor) record(result Result) {
	e.executed.Add(1)
	e.totalTimeNs.Add(result.Duration.Nanoseconds())

	switch {
	case result.Panicked:
		e.panicked.Add(1)
	case result.Error != nil:
		e.failed.Add(1)
	default:
		e.succeeded.Add(1)
	}
}
