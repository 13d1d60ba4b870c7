package event

import (
	"io"
	"log/slog"
)

// HandlerOption configures a Handler.
type HandlerOption func(*handlerConfig)

// ErrorHandler receives every listener failure after it is captured.
type ErrorHandler func(err error)

type handlerConfig struct {
	// haltOnStop makes ErrStop end a Fire early.
	haltOnStop bool

	// errorHandler is the process-level sink for listener failures.
	errorHandler ErrorHandler

	logger *slog.Logger
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithHaltOnStop enables early termination of Fire when a listener returns
// ErrStop.
func WithHaltOnStop() HandlerOption {
	return func(c *handlerConfig) {
		c.haltOnStop = true
	}
}

// WithErrorHandler sets the sink that receives each listener failure.
func WithErrorHandler(h ErrorHandler) HandlerOption {
	return func(c *handlerConfig) {
		c.errorHandler = h
	}
}

// WithLogger sets the structured logger used for listener failures.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
