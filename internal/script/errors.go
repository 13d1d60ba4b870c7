package script

import "errors"

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("script: bridge closed")

	// ErrUnknownTarget is raised when dom.* names a target the resolver
	// does not know.
	ErrUnknownTarget = errors.New("script: unknown target")
)
