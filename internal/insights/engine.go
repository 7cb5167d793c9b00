// Package insights answers questions about the ingested job and event data.
// It assembles a bounded context from the latest snapshots, builds the prompt,
// calls the model once and interprets the response as JSON or plain text.
package insights

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/llm"
	"github.com/jonathan/market-copilot/internal/metrics"
	"github.com/jonathan/market-copilot/internal/prompts"
	"github.com/jonathan/market-copilot/internal/types"
)

var errNoClient = errors.New("no model client configured")

// Engine runs the question answering pipeline. It keeps no state between
// calls apart from its collaborators.
type Engine struct {
	assembler *Assembler
	client    llm.Client
	params    llm.GenerationParams
	window    int
	now       func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for the analysis date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records model calls on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithHistoryWindow sets how many recent turns are included.
func WithHistoryWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// NewEngine returns an Engine. A nil client makes every answerable question
// fail with a ModelInvocationError.
func NewEngine(assembler *Assembler, client llm.Client, opts ...Option) *Engine {
	e := &Engine{
		assembler: assembler,
		client:    client,
		params:    llm.InsightParams(),
		window:    DefaultHistoryWindow,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateInsights answers question using the latest snapshots and history.
// It fails with a DataUnavailableError when both datasets are empty and with a
// ModelInvocationError when the model call fails. history is only read.
func (e *Engine) GenerateInsights(ctx context.Context, question string, history types.History) (*Answer, error) {
	c, err := e.assembler.BuildContext(ctx)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, &DataUnavailableError{
			Datasets: e.assembler.Datasets(),
			Message:  loadPrompts().noData,
		}
	}
	if c.Truncated {
		e.metrics.ContextTruncated()
		e.logger.Debug("context truncated",
			zap.Int("full_chars", utf8.RuneCountInString(c.Full)),
			zap.Int("budget", e.assembler.budget))
	}

	prompt := e.BuildPrompt(e.now(), c.Text, history, question)

	if e.client == nil {
		e.metrics.ObserveLLM(metrics.OutcomeError, 0)
		return nil, &ModelInvocationError{Cause: errNoClient}
	}

	start := time.Now()
	raw, err := e.client.Generate(ctx, prompt, e.params)
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.ObserveLLM(metrics.OutcomeError, elapsed)
		e.logger.Warn("model call failed",
			zap.String("model", e.client.Model()),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, &ModelInvocationError{Model: e.client.Model(), Cause: err}
	}

	answer := ParseResponse(raw)
	e.metrics.ObserveLLM(string(answer.Mode), elapsed)
	e.logger.Info("model answered",
		zap.String("model", e.client.Model()),
		zap.String("mode", string(answer.Mode)),
		zap.Int("jobs", c.JobCount),
		zap.Int("events", c.EventCount),
		zap.Duration("duration", elapsed))

	return answer, nil
}

// BuildPrompt composes the full prompt: instructions, date, data block, task
// instructions, history block and, when present, the current question.
func (e *Engine) BuildPrompt(now time.Time, data string, history types.History, question string) string {
	p := loadPrompts()

	prompt := prompts.Format(p.analysis, map[string]string{
		"System":  p.system,
		"Date":    now.Format(types.DateLayout),
		"Data":    data,
		"Task":    p.task,
		"History": BuildHistoryBlock(history, e.window),
	})

	if q := strings.TrimSpace(question); q != "" {
		prompt += prompts.Format(p.question, map[string]string{"Question": q})
	}
	return prompt
}
