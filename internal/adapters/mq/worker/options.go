package worker

import (
	"github.com/okian/dropforge/pkg/logger"
)

// Option applies a configuration option to the Reactor.
type Option func(*Reactor)

// WithName sets the reactor name used in logs.
func WithName(name string) Option {
	return func(r *Reactor) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger for the reactor.
func WithLogger(l logger.Logger) Option {
	return func(r *Reactor) {
		if l != nil {
			r.logger = l
		}
	}
}
