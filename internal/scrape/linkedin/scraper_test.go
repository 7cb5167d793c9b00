package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/market-copilot/internal/fetch"
)

func TestScraper_SkipsFailedPages(t *testing.T) {
	page := loadFixture(t)

	var mu sync.Mutex
	var starts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mu.Lock()
		starts = append(starts, q.Get("start"))
		mu.Unlock()

		assert.Equal(t, "102927786", q.Get("geoId"))
		assert.Equal(t, "1,2,3,4,5", q.Get("f_E"))
		assert.Equal(t, "r86400", q.Get("f_TPR"))
		assert.Equal(t, "analista", q.Get("keywords"))
		assert.Equal(t, "es-ES,es;q=0.9,en;q=0.8", r.Header.Get("Accept-Language"))

		if q.Get("start") == "25" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	s := New(Options{
		BaseURL:  server.URL + "/jobs/search/",
		Keywords: "analista",
		MaxPages: 3,
		Fetch: &fetch.Options{
			Timeout: 2 * time.Second,
			Headers: map[string]string{"Accept-Language": "es-ES,es;q=0.9,en;q=0.8"},
		},
		Now: func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, lima) },
	}, nil)

	result, err := s.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "25", "50"}, starts)
	require.Len(t, result.Pages, 3)
	assert.Equal(t, 3, result.Pages[0].Count)
	assert.Error(t, result.Pages[1].Err)
	assert.Equal(t, 3, result.Pages[2].Count)
	assert.Equal(t, 1, result.Failed())
	assert.Len(t, result.Jobs, 6)
}

func TestScraper_AllPagesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(Options{BaseURL: server.URL, MaxPages: 2}, nil)
	result, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Jobs)
	assert.Equal(t, 2, result.Failed())
}

func TestScraper_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Options{BaseURL: "http://127.0.0.1:1", MaxPages: 3}, nil)
	result, err := s.Scrape(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Pages)
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{}, nil)
	assert.Equal(t, SearchURL, s.opts.BaseURL)
	assert.Equal(t, 5, s.opts.MaxPages)
	assert.Equal(t, "linkedin", s.Name())

	q := s.query(2)
	assert.Equal(t, "50", q.Get("start"))
	assert.Equal(t, "102927786", q.Get("geoId"))
}
