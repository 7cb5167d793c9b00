package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

func TestLimiter_AskBurstThenRefill(t *testing.T) {
	l, clock := newTestLimiter(t, defaultConfig())

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/ask", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 30, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/ask", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2*time.Second, info.RetryAfter)
	assert.Equal(t, clock.now().Add(10*time.Second), info.ResetTime)

	clock.advance(2 * time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/ask", "POST")
	assert.True(t, allowed)
}

func TestLimiter_IngestIsStrict(t *testing.T) {
	l, _ := newTestLimiter(t, defaultConfig())

	allowed, _ := l.Allow("10.0.0.1", "/ingest", "POST")
	require.True(t, allowed)

	allowed, info := l.Allow("10.0.0.1", "/ingest", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, float64(10*time.Minute), float64(info.RetryAfter), float64(time.Millisecond))
}

func TestLimiter_ClientsAreIsolated(t *testing.T) {
	l, _ := newTestLimiter(t, defaultConfig())

	allowed, _ := l.Allow("10.0.0.1", "/ingest", "POST")
	require.True(t, allowed)

	allowed, _ = l.Allow("10.0.0.2", "/ingest", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Unlimited(t *testing.T) {
	l, _ := newTestLimiter(t, defaultConfig())

	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 100; i++ {
			allowed, info := l.Allow("10.0.0.1", path, "GET")
			require.True(t, allowed)
			assert.Zero(t, info.Limit)
		}
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, _ := newTestLimiter(t, defaultConfig())

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/datasets/jobs", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.1", "/datasets/jobs", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("10.0.0.1", "/datasets/events", "GET")
	assert.True(t, allowed, "default buckets are per path")
}

func TestLimiter_Lists(t *testing.T) {
	cfg := defaultConfig()
	cfg.Whitelist = map[string]bool{"10.0.0.9": true}
	cfg.Blacklist = map[string]bool{"10.0.0.66": true}
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.9", "/ingest", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("10.0.0.66", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/ingest", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, defaultConfig())

	l.Allow("10.0.0.1", "/ask", "POST")
	clock.advance(30 * time.Minute)
	l.Allow("10.0.0.2", "/ask", "POST")
	clock.advance(45 * time.Minute)

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "10.0.0.2:POST:/ask")
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, defaultConfig())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "/ask", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/ask", Method: "POST", Limit: 30},
		{Path: "/datasets/", Method: "GET", Limit: 100},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{path: "/ask", method: "POST", wantLimit: 30},
		{path: "/ask", method: "GET", wantNil: true},
		{path: "/datasets/jobs", method: "GET", wantLimit: 100},
		{path: "/health", method: "GET", wantLimit: 0},
		{path: "/metrics", method: "GET", wantLimit: 0},
		{path: "/unknown", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 ,10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Len(t, cfg.EndpointConfigs, 2)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
