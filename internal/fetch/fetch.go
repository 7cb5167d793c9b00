// Package fetch provides HTTP page and JSON fetching for scrapers and event providers.
// A non-success response is reported as an *Error so callers can skip the unit and continue.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; MarketCopilot/1.0)"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// HTML returns the body as a string.
func (r *Result) HTML() string {
	return string(r.Body)
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Query     url.Values
	// Limiter throttles requests per host when set.
	Limiter *HostLimiter
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// With returns a copy of o with extra headers and query parameters merged in.
func (o *Options) With(headers map[string]string, query url.Values) *Options {
	if o == nil {
		o = DefaultOptions()
	}
	cp := *o
	cp.Headers = make(map[string]string, len(o.Headers)+len(headers))
	for k, v := range o.Headers {
		cp.Headers[k] = v
	}
	for k, v := range headers {
		cp.Headers[k] = v
	}
	cp.Query = url.Values{}
	for k, v := range o.Query {
		cp.Query[k] = append([]string(nil), v...)
	}
	for k, v := range query {
		cp.Query[k] = append([]string(nil), v...)
	}
	return &cp
}

// URL performs a GET request and returns the body. On a non-200 status the
// Result is still returned together with an *Error carrying the status code.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	urlStr, err := opts.resolve(urlStr)
	if err != nil {
		return nil, err
	}

	if opts.Limiter != nil {
		if err := opts.Limiter.WaitURL(ctx, urlStr); err != nil {
			return nil, &Error{URL: urlStr, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// JSON fetches urlStr and decodes the response body into v.
func JSON(ctx context.Context, urlStr string, opts *Options, v any) error {
	opts = opts.With(map[string]string{"Accept": "application/json"}, nil)
	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &Error{
			URL:        result.URL,
			Message:    "failed to decode JSON response",
			StatusCode: result.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// resolve validates urlStr and merges the query parameters from o into it.
func (o *Options) resolve(urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if len(o.Query) == 0 {
		return urlStr, nil
	}
	q := parsedURL.Query()
	for key, values := range o.Query {
		q[key] = values
	}
	parsedURL.RawQuery = q.Encode()
	return parsedURL.String(), nil
}
