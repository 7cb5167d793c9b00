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

// TicketmasterURL is the Discovery API v2 event search endpoint.
const TicketmasterURL = "https://app.ticketmaster.com/discovery/v2/events.json"

// TicketmasterOptions configures the Ticketmaster provider.
type TicketmasterOptions struct {
	BaseURL     string
	APIKey      string
	CountryCode string
	City        string
	Limit       int
	Fetch       *fetch.Options
}

// Ticketmaster fetches events from the Discovery API.
type Ticketmaster struct {
	opts TicketmasterOptions
}

// NewTicketmaster returns a Ticketmaster provider.
func NewTicketmaster(opts TicketmasterOptions) *Ticketmaster {
	if opts.BaseURL == "" {
		opts.BaseURL = TicketmasterURL
	}
	if opts.CountryCode == "" {
		opts.CountryCode = "PE"
	}
	if opts.City == "" {
		opts.City = "Lima"
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return &Ticketmaster{opts: opts}
}

// Name implements Provider.
func (t *Ticketmaster) Name() string { return string(types.SourceTicketmaster) }

// Enabled implements Provider.
func (t *Ticketmaster) Enabled() bool { return t.opts.APIKey != "" }

type tmResponse struct {
	Embedded struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	ID    str `json:"id"`
	Name  str `json:"name"`
	URL   str `json:"url"`
	Info  str `json:"info"`
	Dates *struct {
		Start *struct {
			DateTime  str `json:"dateTime"`
			LocalDate str `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Embedded *struct {
		Venues []struct {
			City *struct {
				Name str `json:"name"`
			} `json:"city"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// Fetch implements Provider.
func (t *Ticketmaster) Fetch(ctx context.Context) ([]types.Event, error) {
	query := url.Values{
		"apikey":      {t.opts.APIKey},
		"countryCode": {t.opts.CountryCode},
		"city":        {t.opts.City},
		"size":        {strconv.Itoa(t.opts.Limit)},
		"sort":        {"date,asc"},
	}

	var resp tmResponse
	if err := fetch.JSON(ctx, t.opts.BaseURL, t.opts.Fetch.With(nil, query), &resp); err != nil {
		return nil, fmt.Errorf("ticketmaster: %w", err)
	}
	return parseTicketmaster(resp.Embedded.Events), nil
}

func parseTicketmaster(items []json.RawMessage) []types.Event {
	events := make([]types.Event, 0, len(items))
	for _, raw := range items {
		var e tmEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}

		ev := types.Event{
			Source:      types.SourceTicketmaster,
			ID:          string(e.ID),
			Title:       textnorm.Clean(string(e.Name)),
			URL:         string(e.URL),
			Description: textnorm.Clean(string(e.Info)),
		}
		if e.Dates != nil && e.Dates.Start != nil {
			ev.Start = string(e.Dates.Start.DateTime)
			if ev.Start == "" {
				ev.Start = string(e.Dates.Start.LocalDate)
			}
		}
		if e.Embedded != nil && len(e.Embedded.Venues) > 0 && e.Embedded.Venues[0].City != nil {
			ev.City = textnorm.Clean(string(e.Embedded.Venues[0].City.Name))
		}

		if ev, ok := normalize(ev, raw); ok {
			events = append(events, ev)
		}
	}
	return events
}
