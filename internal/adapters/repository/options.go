package repository

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/simonev/internal/domain/scoring"
)

const tracerName = "github.com/okian/simonev/internal/adapters/repository"

type storeConfig struct {
	engine *scoring.Engine
	saver  Saver
	tracer trace.Tracer
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		engine: scoring.NewEngine(),
		tracer: otel.Tracer(tracerName),
	}
}

// Option applies a configuration option to the MemoryStore.
type Option func(*storeConfig)

// WithScoringEngine sets the engine used by Credit.
func WithScoringEngine(e *scoring.Engine) Option {
	return func(c *storeConfig) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithSaver registers the save-on-change callback.
func WithSaver(s Saver) Option {
	return func(c *storeConfig) {
		c.saver = s
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *storeConfig) {
		if t != nil {
			c.tracer = t
		}
	}
}
