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

// EventbriteURL is the v3 event search endpoint.
const EventbriteURL = "https://www.eventbriteapi.com/v3/events/search/"

// EventbriteOptions configures the Eventbrite provider.
type EventbriteOptions struct {
	BaseURL  string
	Token    string
	Location string
	Limit    int
	Fetch    *fetch.Options
}

// Eventbrite fetches public events near a location.
type Eventbrite struct {
	opts EventbriteOptions
}

// NewEventbrite returns an Eventbrite provider.
func NewEventbrite(opts EventbriteOptions) *Eventbrite {
	if opts.BaseURL == "" {
		opts.BaseURL = EventbriteURL
	}
	if opts.Location == "" {
		opts.Location = "Lima, Peru"
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return &Eventbrite{opts: opts}
}

// Name implements Provider.
func (e *Eventbrite) Name() string { return string(types.SourceEventbrite) }

// Enabled implements Provider.
func (e *Eventbrite) Enabled() bool { return e.opts.Token != "" }

type ebResponse struct {
	Events []json.RawMessage `json:"events"`
}

type ebText struct {
	Text str `json:"text"`
}

type ebEvent struct {
	ID          str     `json:"id"`
	URL         str     `json:"url"`
	Name        *ebText `json:"name"`
	Description *ebText `json:"description"`
	Start       *struct {
		Local str `json:"local"`
	} `json:"start"`
	Venue *struct {
		Address *struct {
			City str `json:"city"`
		} `json:"address"`
	} `json:"venue"`
}

// Fetch implements Provider.
func (e *Eventbrite) Fetch(ctx context.Context) ([]types.Event, error) {
	query := url.Values{
		"location.address": {e.opts.Location},
		"expand":           {"venue"},
		"page_size":        {strconv.Itoa(e.opts.Limit)},
	}
	headers := map[string]string{"Authorization": "Bearer " + e.opts.Token}

	var resp ebResponse
	if err := fetch.JSON(ctx, e.opts.BaseURL, e.opts.Fetch.With(headers, query), &resp); err != nil {
		return nil, fmt.Errorf("eventbrite: %w", err)
	}
	return parseEventbrite(resp.Events), nil
}

func parseEventbrite(items []json.RawMessage) []types.Event {
	events := make([]types.Event, 0, len(items))
	for _, raw := range items {
		var e ebEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}

		ev := types.Event{
			Source: types.SourceEventbrite,
			ID:     string(e.ID),
			URL:    string(e.URL),
		}
		if e.Name != nil {
			ev.Title = textnorm.Clean(string(e.Name.Text))
		}
		if e.Description != nil {
			ev.Description = textnorm.Clean(string(e.Description.Text))
		}
		if e.Start != nil {
			ev.Start = string(e.Start.Local)
		}
		if e.Venue != nil && e.Venue.Address != nil {
			ev.City = textnorm.Clean(string(e.Venue.Address.City))
		}

		if ev, ok := normalize(ev, raw); ok {
			events = append(events, ev)
		}
	}
	return events
}
