package worker

import (
	"time"

	"github.com/okian/simonev/pkg/logger"
)

// Option applies a configuration option to the PersistWorker.
type Option func(*PersistWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *PersistWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *PersistWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSaveTimeout bounds each save.
func WithSaveTimeout(d time.Duration) Option {
	return func(w *PersistWorker) {
		if d > 0 {
			w.saveTimeout = d
		}
	}
}
