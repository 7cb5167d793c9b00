// Package ingest runs the write path: scrape jobs and fetch events, then
// replace the matching snapshots.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/metrics"
	"github.com/jonathan/market-copilot/internal/scrape/events"
	"github.com/jonathan/market-copilot/internal/scrape/linkedin"
	"github.com/jonathan/market-copilot/internal/snapshot"
	"github.com/jonathan/market-copilot/internal/types"
)

// JobSource produces job postings. *linkedin.Scraper implements it.
type JobSource interface {
	Name() string
	Scrape(ctx context.Context) (*linkedin.Result, error)
}

// Writer replaces a dataset snapshot. *snapshot.Store implements it.
type Writer interface {
	Put(ctx context.Context, dataset string, records []types.Record) (string, error)
}

// SourceReport is the outcome of one page or provider.
type SourceReport struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Skipped bool   `json:"skipped,omitempty"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

func sourceReport(name string, count int, skipped bool, err error) SourceReport {
	r := SourceReport{Name: name, Count: count, Skipped: skipped, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Report summarizes one dataset ingestion.
type Report struct {
	RunID    string         `json:"run_id"`
	Dataset  string         `json:"dataset"`
	Key      string         `json:"key"`
	Count    int            `json:"count"`
	Sources  []SourceReport `json:"sources"`
	Duration time.Duration  `json:"duration_ns"`
}

// Failed returns how many sources failed.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Sources {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Runner wires sources to the snapshot store.
type Runner struct {
	store     Writer
	jobs      JobSource
	providers []events.Provider
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithMetrics records ingestion counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithClock overrides the clock used for metrics timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner. jobs may be nil when only events are ingested.
func NewRunner(store Writer, jobs JobSource, providers []events.Provider, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		store:     store,
		jobs:      jobs,
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunJobs scrapes job postings and replaces the jobs snapshot. Failed pages are
// reported, not returned; only a failed write or cancellation is an error.
func (r *Runner) RunJobs(ctx context.Context) (*Report, error) {
	if r.jobs == nil {
		return nil, errors.New("no job source configured")
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Dataset: snapshot.DatasetJobs}
	logger := r.logger.With(zap.String("run_id", report.RunID), zap.String("dataset", report.Dataset))

	result, err := r.jobs.Scrape(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s scrape interrupted: %w", r.jobs.Name(), err)
	}

	for _, p := range result.Pages {
		name := fmt.Sprintf("%s/page-%d", r.jobs.Name(), p.Page)
		report.Sources = append(report.Sources, sourceReport(name, p.Count, false, p.Err))
		if p.Err != nil {
			r.metrics.SourceFailed(r.jobs.Name())
		}
	}

	if err := r.write(ctx, report, types.AsRecords(result.Jobs)); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)

	logger.Info("jobs ingested",
		zap.String("key", report.Key),
		zap.Int("count", report.Count),
		zap.Int("failed_pages", report.Failed()),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// RunEvents queries every provider in order and replaces the events snapshot.
// Providers without credentials are skipped; failing providers are reported.
func (r *Runner) RunEvents(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Dataset: snapshot.DatasetEvents}
	logger := r.logger.With(zap.String("run_id", report.RunID), zap.String("dataset", report.Dataset))

	collected, outcomes := events.Collect(ctx, r.providers, logger)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("event fetch interrupted: %w", err)
	}

	for _, o := range outcomes {
		report.Sources = append(report.Sources, sourceReport(o.Provider, o.Count, o.Skipped, o.Err))
		if o.Err != nil {
			r.metrics.SourceFailed(o.Provider)
		}
	}

	if err := r.write(ctx, report, types.AsRecords(collected)); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)

	logger.Info("events ingested",
		zap.String("key", report.Key),
		zap.Int("count", report.Count),
		zap.Int("failed_providers", report.Failed()),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// RunAll ingests jobs then events. A failure in one dataset does not stop the other.
func (r *Runner) RunAll(ctx context.Context) ([]*Report, error) {
	var (
		reports []*Report
		errs    []error
	)

	if r.jobs != nil {
		report, err := r.RunJobs(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			reports = append(reports, report)
		}
	}

	report, err := r.RunEvents(ctx)
	if err != nil {
		errs = append(errs, err)
	} else {
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

func (r *Runner) write(ctx context.Context, report *Report, records []types.Record) error {
	key, err := r.store.Put(ctx, report.Dataset, records)
	if err != nil {
		return err
	}
	report.Key = key
	report.Count = len(records)
	r.metrics.RecordIngest(report.Dataset, report.Count, r.now())
	return nil
}
