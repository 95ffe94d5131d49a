package radiocall

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rttrainer/pkg/feedback"
	"rttrainer/pkg/model"
)

// Recorder observes parse outcomes. The metrics collector implements it.
type Recorder interface {
	ObserveParse(stage string, severe, minor int, elapsed time.Duration)
}

// Parser dispatches a call to the handler of the current stage.
type Parser struct {
	handlers Registry
	rec      Recorder
}

// Option configures a Parser.
type Option func(*Parser)

// WithRecorder reports every parse to rec.
func WithRecorder(rec Recorder) Option {
	return func(p *Parser) {
		p.rec = rec
	}
}

// WithRegistry replaces the default handlers.
func WithRegistry(r Registry) Option {
	return func(p *Parser) {
		p.handlers = r
	}
}

// NewParser builds a parser. It fails with ErrUnimplementedStage when any
// stage lacks a handler.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{handlers: DefaultRegistry()}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.handlers.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseCall checks text against the phraseology of the current scenario
// point.
func (p *Parser) ParseCall(text string, ctx Context) (model.ParseResult, error) {
	start := time.Now()
	point, err := ctx.Current()
	if err != nil {
		return model.ParseResult{}, err
	}
	h, ok := p.handlers[point.Stage]
	if !ok {
		return model.ParseResult{}, fmt.Errorf("stage %q: %w", point.Stage, ErrUnimplementedStage)
	}

	c := newCall(text, ctx, point)
	reply, err := h(c)
	if err != nil {
		return model.ParseResult{}, fmt.Errorf("stage %q: %w", point.Stage, err)
	}
	if strings.TrimSpace(text) == "" {
		// one mistake instead of every assertion failing
		c.fb = feedback.New()
		c.Severe("No call was made.")
	}
	res := c.fb.Result(reply.Response, reply.Expected)

	severe, minor := res.Count()
	slog.Debug("Parsed radio call", "stage", point.Stage, "index", ctx.Index, "severe", severe, "minor", minor)
	if p.rec != nil {
		p.rec.ObserveParse(string(point.Stage), severe, minor, time.Since(start))
	}
	return res, nil
}
