// Package metrics exposes Prometheus collectors for ingestion and model calls.
// All methods are safe on a nil *Metrics so components can run without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "copilot"

// LLM call outcomes.
const (
	OutcomeStructured = "structured"
	OutcomeText       = "text"
	OutcomeError      = "error"
)

// Metrics holds the collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	ingestRecords   *prometheus.CounterVec
	lastIngest      *prometheus.GaugeVec
	sourceFailures  *prometheus.CounterVec
	llmRequests     *prometheus.CounterVec
	llmDuration     prometheus.Histogram
	contextTruncate prometheus.Counter
}

// New creates and registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ingestRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_records_total",
		Help:      "Records written to snapshots by dataset",
	}, []string{"dataset"})
	m.lastIngest = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_ingest_timestamp_seconds",
		Help:      "Unix timestamp of the last successful snapshot write",
	}, []string{"dataset"})
	m.sourceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_failures_total",
		Help:      "Skipped pages or providers by source",
	}, []string{"source"})
	m.llmRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "Model calls by outcome",
	}, []string{"outcome"})
	m.llmDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_seconds",
		Help:      "Time spent waiting on the model",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})
	m.contextTruncate = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "context_truncations_total",
		Help:      "Prompts whose data block was cut to the character budget",
	})

	m.registry.MustRegister(
		m.ingestRecords,
		m.lastIngest,
		m.sourceFailures,
		m.llmRequests,
		m.llmDuration,
		m.contextTruncate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordIngest counts n records written to dataset at time at.
func (m *Metrics) RecordIngest(dataset string, n int, at time.Time) {
	if m == nil {
		return
	}
	m.ingestRecords.WithLabelValues(dataset).Add(float64(n))
	m.lastIngest.WithLabelValues(dataset).Set(float64(at.Unix()))
}

// SourceFailed counts one skipped page or provider.
func (m *Metrics) SourceFailed(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

// ObserveLLM records a model call.
func (m *Metrics) ObserveLLM(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(outcome).Inc()
	m.llmDuration.Observe(d.Seconds())
}

// ContextTruncated counts a truncated data block.
func (m *Metrics) ContextTruncated() {
	if m == nil {
		return
	}
	m.contextTruncate.Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
