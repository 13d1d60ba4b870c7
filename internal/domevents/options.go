package domevents

import (
	"io"
	"log/slog"
)

// Option configures an Engine.
type Option func(*engineConfig)

// ErrorHandler receives every callback failure after it is captured.
type ErrorHandler func(err error)

type engineConfig struct {
	// interceptFallthrough routes an occurrence that misses the armed
	// interception target to normal dispatch instead of dropping it.
	interceptFallthrough bool

	// releaseIdle detaches a type's native subscription once none of its
	// bindings has callbacks left.
	releaseIdle bool

	errorHandler ErrorHandler
	logger       *slog.Logger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithInterceptFallthrough controls what happens when an armed interception
// does not match the occurrence chain. The default (false) drops the
// occurrence and keeps the slot armed.
func WithInterceptFallthrough(enabled bool) Option {
	return func(c *engineConfig) {
		c.interceptFallthrough = enabled
	}
}

// WithReleaseIdle detaches native subscriptions of types whose bindings have
// no callbacks left.
func WithReleaseIdle() Option {
	return func(c *engineConfig) {
		c.releaseIdle = true
	}
}

// WithErrorHandler sets the sink that receives each callback failure.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *engineConfig) {
		c.errorHandler = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
