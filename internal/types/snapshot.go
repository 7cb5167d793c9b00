package types

import "encoding/json"

// TimestampLayout is the wall-clock format stored with each snapshot.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the calendar date format used for analysis dates.
const DateLayout = "2006-01-02"

// Snapshot is the envelope stored per dataset.
type Snapshot struct {
	Timestamp string            `json:"timestamp"`
	Data      []json.RawMessage `json:"data"`
}
