package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordIngest("scraper_4", 3, time.Unix(1700000000, 0))
	m.RecordIngest("scraper_4", 2, time.Unix(1700000100, 0))
	m.SourceFailed("linkedin")
	m.ObserveLLM(OutcomeText, 1500*time.Millisecond)
	m.ObserveLLM(OutcomeError, time.Second)
	m.ContextTruncated()

	assert.Equal(t, float64(5), testutil.ToFloat64(m.ingestRecords.WithLabelValues("scraper_4")))
	assert.Equal(t, float64(1700000100), testutil.ToFloat64(m.lastIngest.WithLabelValues("scraper_4")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sourceFailures.WithLabelValues("linkedin")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmRequests.WithLabelValues(OutcomeText)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.contextTruncate))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordIngest("x", 1, time.Now())
		m.SourceFailed("x")
		m.ObserveLLM(OutcomeText, time.Second)
		m.ContextTruncated()
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordIngest("events_peru", 7, time.Now())

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `copilot_ingest_records_total{dataset="events_peru"} 7`)
	assert.Contains(t, string(body), "copilot_llm_request_seconds")
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
