package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/fetch"
	"github.com/jonathan/market-copilot/internal/types"
)

// SearchURL is the guest job search endpoint.
const SearchURL = "https://www.linkedin.com/jobs/search/"

// PageSize is the number of cards LinkedIn returns per results page.
const PageSize = 25

// Options configures a Scraper. Zero values fall back to the defaults used for Peru.
type Options struct {
	BaseURL          string
	Keywords         string
	ExperienceLevels string
	GeoID            string
	TimePosted       string
	MaxPages         int
	UseBrowser       bool
	Fetch            *fetch.Options
	// Now returns the current local time; the publication date filter compares against it.
	Now func() time.Time
}

// PageOutcome records what happened to a single results page.
type PageOutcome struct {
	Page  int
	URL   string
	Count int
	Err   error
}

// Result is the outcome of a scrape: postings in page order plus per-page outcomes,
// so "nothing published today" can be told apart from "every page failed".
type Result struct {
	Jobs  []types.JobPosting
	Pages []PageOutcome
}

// Failed returns the number of pages that could not be fetched or parsed.
func (r *Result) Failed() int {
	n := 0
	for _, p := range r.Pages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Scraper walks the guest search result pages.
type Scraper struct {
	opts   Options
	logger *zap.Logger
}

// New returns a scraper with defaults applied.
func New(opts Options, logger *zap.Logger) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = SearchURL
	}
	if opts.ExperienceLevels == "" {
		opts.ExperienceLevels = "1,2,3,4,5"
	}
	if opts.GeoID == "" {
		opts.GeoID = "102927786"
	}
	if opts.TimePosted == "" {
		opts.TimePosted = "r86400"
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}
	if opts.Fetch == nil {
		opts.Fetch = fetch.DefaultOptions()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{opts: opts, logger: logger}
}

// Name identifies the source in reports.
func (s *Scraper) Name() string { return "linkedin" }

// Scrape fetches up to MaxPages result pages. A page that fails is logged and
// skipped; the scrape continues with the next page. The only error returned is
// context cancellation.
func (s *Scraper) Scrape(ctx context.Context) (*Result, error) {
	today := s.opts.Now()
	result := &Result{}

	for page := 0; page < s.opts.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		query := s.query(page)
		outcome := PageOutcome{Page: page, URL: s.opts.BaseURL + "?" + query.Encode()}

		html, err := fetch.Page(ctx, s.opts.BaseURL, s.opts.Fetch.With(nil, query), s.opts.UseBrowser, s.logger)
		if err != nil {
			outcome.Err = err
			result.Pages = append(result.Pages, outcome)
			s.logger.Warn("skipping results page", zap.Int("page", page), zap.Error(err))
			continue
		}

		jobs, err := ParseJobs(html, today)
		if err != nil {
			outcome.Err = fmt.Errorf("page %d: %w", page, err)
			result.Pages = append(result.Pages, outcome)
			s.logger.Warn("skipping unparseable page", zap.Int("page", page), zap.Error(err))
			continue
		}

		outcome.Count = len(jobs)
		result.Pages = append(result.Pages, outcome)
		result.Jobs = append(result.Jobs, jobs...)
		s.logger.Debug("parsed results page", zap.Int("page", page), zap.Int("jobs", len(jobs)))
	}

	return result, nil
}

func (s *Scraper) query(page int) url.Values {
	return url.Values{
		"keywords": {s.opts.Keywords},
		"f_E":      {s.opts.ExperienceLevels},
		"geoId":    {s.opts.GeoID},
		"f_TPR":    {s.opts.TimePosted},
		"start":    {strconv.Itoa(page * PageSize)},
	}
}
