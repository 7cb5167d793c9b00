package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jonathan/market-copilot/internal/fetch"
	"github.com/jonathan/market-copilot/internal/textnorm"
	"github.com/jonathan/market-copilot/internal/types"
)

// RapidAPI Real-Time Events Search endpoint and host header.
const (
	RapidAPIURL  = "https://real-time-events-search.p.rapidapi.com/search-events"
	RapidAPIHost = "real-time-events-search.p.rapidapi.com"
)

// RapidAPIOptions configures the RapidAPI provider.
type RapidAPIOptions struct {
	BaseURL string
	APIKey  string
	City    string
	Country string
	Limit   int
	Fetch   *fetch.Options
}

// RapidAPI searches events through the Real-Time Events Search API.
type RapidAPI struct {
	opts RapidAPIOptions
}

// NewRapidAPI returns a RapidAPI provider.
func NewRapidAPI(opts RapidAPIOptions) *RapidAPI {
	if opts.BaseURL == "" {
		opts.BaseURL = RapidAPIURL
	}
	if opts.City == "" {
		opts.City = "Lima"
	}
	if opts.Country == "" {
		opts.Country = "Peru"
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return &RapidAPI{opts: opts}
}

// Name implements Provider.
func (r *RapidAPI) Name() string { return string(types.SourceRapidAPI) }

// Enabled implements Provider.
func (r *RapidAPI) Enabled() bool { return r.opts.APIKey != "" }

type rapidResponse struct {
	Data []json.RawMessage `json:"data"`
}

type rapidEvent struct {
	EventID     str `json:"event_id"`
	Source      str `json:"source"`
	Title       str `json:"title"`
	StartTime   str `json:"start_time"`
	Location    str `json:"location"`
	URL         str `json:"url"`
	Link        str `json:"link"`
	Description str `json:"description"`
}

// Fetch implements Provider.
func (r *RapidAPI) Fetch(ctx context.Context) ([]types.Event, error) {
	query := url.Values{
		"query": {fmt.Sprintf("Events in %s %s", r.opts.City, r.opts.Country)},
		"limit": {strconv.Itoa(r.opts.Limit)},
	}
	headers := map[string]string{
		"X-RapidAPI-Key":  r.opts.APIKey,
		"X-RapidAPI-Host": RapidAPIHost,
	}

	var resp rapidResponse
	if err := fetch.JSON(ctx, r.opts.BaseURL, r.opts.Fetch.With(headers, query), &resp); err != nil {
		return nil, fmt.Errorf("rapidapi: %w", err)
	}
	return parseRapidAPI(resp.Data), nil
}

func parseRapidAPI(items []json.RawMessage) []types.Event {
	events := make([]types.Event, 0, len(items))
	for _, raw := range items {
		var e rapidEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}

		source := types.SourceRapidAPI
		if e.Source != "" {
			source = types.EventSource(e.Source)
		}
		ev := types.Event{
			Source:      source,
			ID:          string(e.EventID),
			Title:       textnorm.Clean(string(e.Title)),
			Start:       string(e.StartTime),
			City:        textnorm.Clean(string(e.Location)),
			URL:         string(firstNonEmpty(e.URL, e.Link)),
			Description: textnorm.Clean(string(e.Description)),
		}

		if ev, ok := normalize(ev, raw); ok {
			events = append(events, ev)
		}
	}
	return events
}

func firstNonEmpty(values ...str) str {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
