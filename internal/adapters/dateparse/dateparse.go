// Package dateparse turns operator date input into event calendar days.
package dateparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"

	"github.com/okian/simonev/internal/domain/model"
)

// Clock supplies the reference time for relative expressions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// isoShape matches input that is meant as an ISO day, valid or not.
var isoShape = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// Parser resolves "2025-03-14", "tomorrow" or "next friday" to YYYY-MM-DD.
type Parser struct {
	clock Clock
	w     *when.Parser
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the reference clock.
func WithClock(c Clock) Option {
	return func(p *Parser) {
		if c != nil {
			p.clock = c
		}
	}
}

// New builds a Parser with English relative-date rules.
func New(opts ...Option) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	p := &Parser{clock: systemClock{}, w: w}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Day returns the calendar day named by input.
func (p *Parser) Day(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrEmptyDate
	}
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t.Format(model.DateLayout), nil
	}
	if isoShape.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a calendar day", ErrUnrecognizedDate, input)
	}

	now := p.clock.Now()
	lower := strings.ToLower(s)
	r, err := p.w.Parse(lower, now)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnrecognizedDate, input, err)
	}
	// The whole input must be the expression; when otherwise settles for a
	// fragment and falls back to the clock.
	if r == nil || r.Index != 0 || len(r.Text) != len(lower) {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
	}
	return r.Time.In(now.Location()).Format(model.DateLayout), nil
}
