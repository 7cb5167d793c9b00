package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Job boards sometimes serve an empty shell to plain HTTP clients; this is the fallback.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// result cards are injected after load
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

// Page fetches urlStr over HTTP, or renders it in a headless browser when useBrowser is set.
func Page(ctx context.Context, urlStr string, opts *Options, useBrowser bool, logger *zap.Logger) (string, error) {
	if !useBrowser {
		result, err := URL(ctx, urlStr, opts)
		if err != nil {
			return "", err
		}
		return result.HTML(), nil
	}

	if opts == nil {
		opts = DefaultOptions()
	}
	urlStr, err := opts.resolve(urlStr)
	if err != nil {
		return "", err
	}
	if opts.Limiter != nil {
		if err := opts.Limiter.WaitURL(ctx, urlStr); err != nil {
			return "", &Error{URL: urlStr, Message: "rate limiter wait aborted", Cause: err}
		}
	}
	timeout := DefaultTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	return WithBrowser(ctx, urlStr, timeout, logger)
}
