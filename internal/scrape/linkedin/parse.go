// Package linkedin scrapes the public LinkedIn guest job search and normalizes
// each result card into a types.JobPosting.
package linkedin

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/market-copilot/internal/textnorm"
	"github.com/jonathan/market-copilot/internal/types"
)

// Selectors for the guest search result list.
const (
	cardSelector     = ".jobs-search__results-list li"
	entitySelector   = "div[data-entity-urn]"
	dateSelector     = ".job-search-card__listdate, .job-search-card__listdate--new"
	employerSelector = ".hidden-nested-link"
	titleSelector    = "h3"
	locationSelector = ".job-search-card__location"
	logoSelector     = ".search-entity-media img"
	linkSelector     = "a[href]"
)

// DefaultEmployer is used when a card hides the company name.
const DefaultEmployer = "Confidential"

// ParseJobs extracts postings from a search results page. Cards without an
// entity urn are skipped. A card with a parseable publication date is kept only
// when that date equals today's calendar date in today's location; cards with a
// missing or unparseable date are kept.
func ParseJobs(html string, today time.Time) ([]types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var jobs []types.JobPosting
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		job, ok := parseCard(card, today)
		if ok {
			jobs = append(jobs, job)
		}
	})
	return jobs, nil
}

func parseCard(card *goquery.Selection, today time.Time) (types.JobPosting, bool) {
	urn, ok := card.Find(entitySelector).First().Attr("data-entity-urn")
	urn = strings.TrimSpace(urn)
	if !ok || urn == "" {
		return types.JobPosting{}, false
	}

	dateElem := card.Find(dateSelector).First()
	createdAt, hasDate := dateElem.Attr("datetime")
	if hasDate {
		if published, ok := parseDate(createdAt, today.Location()); ok && !sameDay(published, today) {
			return types.JobPosting{}, false
		}
	}

	job := types.JobPosting{
		URN:       urn,
		ID:        urn[strings.LastIndex(urn, ":")+1:],
		Title:     textnorm.Clean(card.Find(titleSelector).First().Text()),
		Location:  textnorm.Clean(card.Find(locationSelector).First().Text()),
		CreatedAt: strings.TrimSpace(createdAt),
	}
	if dateElem.Length() > 0 {
		job.RelativeTime = textnorm.Clean(dateElem.Text())
	}

	employer := card.Find(employerSelector).First()
	job.Employer.Name = DefaultEmployer
	if employer.Length() > 0 {
		job.Employer.Name = textnorm.Clean(employer.Text())
		if href, ok := employer.Attr("href"); ok {
			job.Employer.ProfileURL = stripQuery(href)
		}
	}

	logo := card.Find(logoSelector).First()
	if src, ok := logo.Attr("data-delayed-url"); ok {
		job.Employer.LogoURL = src
	} else if src, ok := logo.Attr("src"); ok {
		job.Employer.LogoURL = src
	}

	if href, ok := card.Find(linkSelector).First().Attr("href"); ok {
		job.URL = strings.TrimSpace(href)
	}

	return job, true
}

// JobURLs returns the non-empty posting URLs in order.
func JobURLs(jobs []types.JobPosting) []string {
	urls := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job.URL != "" {
			urls = append(urls, job.URL)
		}
	}
	return urls
}

var dateLayouts = []string{
	types.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func stripQuery(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '?'); i >= 0 {
		return href[:i]
	}
	return href
}
