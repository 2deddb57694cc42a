// Package summary produces the executive participation summary through an
// external text generator. Summarize never fails: every problem maps to a
// fixed fallback message.
package summary

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/pkg/logger"
	"github.com/okian/simonev/pkg/metrics"
)

// Fallback messages returned instead of generated text.
const (
	MsgUnconfigured = "API Key not configured. Please set SIMONEV_SUMMARY_API_KEY to use AI features."
	MsgFailed       = "Failed to generate AI analysis. Please check your connection."
	MsgEmpty        = "No analysis generated."
	MsgBusy         = "AI analysis is busy. Please try again in a moment."
)

// Default collaborator limits.
const (
	DefaultTimeout       = 20 * time.Second
	DefaultRatePerMinute = 6
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is the data the summary is written from.
type Request struct {
	Top           []model.School
	Bottom        []model.School
	EventCount    int
	CategoryLabel string
}

// Summarizer wraps a Generator with a timeout, a rate limit and fallbacks.
type Summarizer struct {
	gen     Generator
	timeout time.Duration
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTimeout bounds a single generation.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRatePerMinute limits generations. Zero or less disables the limit.
func WithRatePerMinute(n int) Option {
	return func(s *Summarizer) {
		if n <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// New builds a Summarizer. A nil gen means no API key is configured.
func New(gen Generator, opts ...Option) *Summarizer {
	s := &Summarizer{
		gen:     gen,
		timeout: DefaultTimeout,
		tracer:  otel.Tracer("github.com/okian/simonev/internal/adapters/summary"),
	}
	WithRatePerMinute(DefaultRatePerMinute)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a generator is present.
func (s *Summarizer) Configured() bool { return s.gen != nil }

// Summarize returns the generated summary or one of the fallback messages.
func (s *Summarizer) Summarize(ctx context.Context, req Request) string {
	ctx, span := s.tracer.Start(ctx, "Summarizer.Summarize")
	defer span.End()

	start := time.Now()
	text, outcome := s.summarize(ctx, req)
	span.SetAttributes(attribute.String("summary.outcome", outcome))
	metrics.RecordSummaryRequest(outcome, float64(time.Since(start).Milliseconds()))
	return text
}

func (s *Summarizer) summarize(ctx context.Context, req Request) (string, string) {
	if s.gen == nil {
		return MsgUnconfigured, "unconfigured"
	}
	if !s.limiter.Allow() {
		return MsgBusy, "rate_limited"
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.gen.Generate(ctx, BuildPrompt(req))
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		logger.Get().Named("summary").Warn(ctx, "summary generation failed",
			logger.String("outcome", outcome), logger.Error(err))
		return MsgFailed, outcome
	}
	if strings.TrimSpace(out) == "" {
		return MsgEmpty, "empty"
	}
	return out, "ok"
}
