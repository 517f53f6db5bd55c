package worker

import (
	"time"

	"github.com/okian/arena/pkg/logger"
)

// Option applies a configuration option to the Persister.
type Option func(*Persister)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(p *Persister) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(p *Persister) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSaveTimeout bounds a single background save.
func WithSaveTimeout(d time.Duration) Option {
	return func(p *Persister) {
		if d > 0 {
			p.saveTimeout = d
		}
	}
}
