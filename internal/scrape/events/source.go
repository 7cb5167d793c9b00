// Package events fetches public events from third-party providers and
// normalizes each provider object into a types.Event.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/config"
	"github.com/jonathan/market-copilot/internal/fetch"
	"github.com/jonathan/market-copilot/internal/types"
)

// Provider is a single event source.
type Provider interface {
	Name() string
	// Enabled reports whether the provider has the credentials it needs.
	Enabled() bool
	Fetch(ctx context.Context) ([]types.Event, error)
}

// Outcome records how one provider call went.
type Outcome struct {
	Provider string
	Count    int
	Skipped  bool
	Err      error
}

// Collect runs providers in order and concatenates their events. Disabled
// providers are skipped and failing providers are logged; neither stops the run.
func Collect(ctx context.Context, providers []Provider, logger *zap.Logger) ([]types.Event, []Outcome) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var all []types.Event
	outcomes := make([]Outcome, 0, len(providers))
	for _, p := range providers {
		outcome := Outcome{Provider: p.Name()}
		if !p.Enabled() {
			outcome.Skipped = true
			outcomes = append(outcomes, outcome)
			logger.Warn("provider credential not configured, skipping", zap.String("provider", p.Name()))
			continue
		}
		if ctx.Err() != nil {
			outcome.Err = ctx.Err()
			outcomes = append(outcomes, outcome)
			continue
		}

		evts, err := p.Fetch(ctx)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			logger.Warn("provider fetch failed", zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		outcome.Count = len(evts)
		outcomes = append(outcomes, outcome)
		all = append(all, evts...)
	}
	return all, outcomes
}

// FromConfig builds the providers in their fixed order: Ticketmaster, Eventbrite, RapidAPI.
func FromConfig(cfg config.EventsConfig, opts *fetch.Options) []Provider {
	return []Provider{
		NewTicketmaster(TicketmasterOptions{
			APIKey:      cfg.TicketmasterAPIKey,
			CountryCode: cfg.CountryCode,
			City:        cfg.City,
			Limit:       cfg.TicketmasterLimit,
			Fetch:       opts,
		}),
		NewEventbrite(EventbriteOptions{
			Token:    cfg.EventbriteToken,
			Location: fmt.Sprintf("%s, %s", cfg.City, cfg.Country),
			Limit:    cfg.EventbriteLimit,
			Fetch:    opts,
		}),
		NewRapidAPI(RapidAPIOptions{
			APIKey:  cfg.RapidAPIKey,
			City:    cfg.City,
			Country: cfg.Country,
			Limit:   cfg.RapidAPILimit,
			Fetch:   opts,
		}),
	}
}

// normalize applies the defaulting rule shared by all providers and reports
// whether the event can be referenced at all.
func normalize(ev types.Event, raw json.RawMessage) (types.Event, bool) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	ev.Raw = raw
	if ev.URL == "" && ev.ID == "" {
		return ev, false
	}
	return ev, true
}

// str is a string that tolerates null and non-string JSON values.
type str string

func (s *str) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = str(t)
	default:
		*s = str(fmt.Sprint(t))
	}
	return nil
}
