package types

import "encoding/json"

// EventSource names the provider an event came from.
type EventSource string

// Known event providers. RapidAPI results may carry their own upstream source name.
const (
	SourceTicketmaster EventSource = "ticketmaster"
	SourceEventbrite   EventSource = "eventbrite"
	SourceRapidAPI     EventSource = "rapidapi"
)

// Event is a public event normalized from a provider response.
type Event struct {
	Source      EventSource `json:"source"`
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Start       string      `json:"start,omitempty"` // provider granularity: date or datetime
	City        string      `json:"city"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	// Raw keeps the provider object untouched for traceability.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Kind implements Record.
func (Event) Kind() RecordKind { return KindEvent }

// Ref implements Record.
func (e Event) Ref() string {
	if e.URL != "" {
		return e.URL
	}
	return e.ID
}
