package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/types"
)

// Dataset names. Keys derived from them are shared with existing stores.
const (
	DatasetJobs   = "scraper_4"
	DatasetEvents = "events_peru"
)

// KeySuffix is appended to a dataset name to form its storage key.
const KeySuffix = "_data"

// Key returns the storage key for a dataset.
func Key(dataset string) string {
	return dataset + KeySuffix
}

// ResolveDataset maps the short aliases "jobs" and "events" to dataset names
// and passes other names through unchanged.
func ResolveDataset(name string) string {
	switch name {
	case "jobs":
		return DatasetJobs
	case "events":
		return DatasetEvents
	default:
		return name
	}
}

// MalformedError reports a stored value that is not a snapshot envelope or a bare array.
type MalformedError struct {
	Key     string
	Message string
	Cause   error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed snapshot %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed snapshot %s: %s", e.Key, e.Message)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// Store writes and reads dataset snapshots.
type Store struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps backend in a Store.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{backend: backend, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put replaces the dataset snapshot with records and returns the key written.
func (s *Store) Put(ctx context.Context, dataset string, records []types.Record) (string, error) {
	if records == nil {
		records = []types.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Timestamp string         `json:"timestamp"`
		Data      []types.Record `json:"data"`
	}{
		Timestamp: s.now().Format(types.TimestampLayout),
		Data:      records,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot %s: %w", dataset, err)
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	key := Key(dataset)
	if err := s.backend.Set(ctx, key, payload); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return key, nil
}

// Get returns the data sequence of the latest snapshot, or an empty sequence
// when nothing usable is stored.
func (s *Store) Get(ctx context.Context, dataset string) []json.RawMessage {
	snap, _ := s.Info(ctx, dataset)
	return snap.Data
}

// Info returns the latest snapshot envelope. ok is false when the dataset is
// absent, malformed or the backend could not be read; Data is then empty.
func (s *Store) Info(ctx context.Context, dataset string) (types.Snapshot, bool) {
	key := Key(dataset)
	empty := types.Snapshot{Data: []json.RawMessage{}}

	value, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return empty, false
	}
	if err != nil {
		s.logger.Warn("snapshot read failed", zap.String("key", key), zap.Error(err))
		return empty, false
	}

	snap, err := Decode(key, value)
	if err != nil {
		s.logger.Warn("ignoring malformed snapshot", zap.String("key", key), zap.Error(err))
		return empty, false
	}
	return snap, true
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Decode parses a stored value. It accepts the {timestamp, data} envelope and
// a bare JSON array of records.
func Decode(key string, value []byte) (types.Snapshot, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return types.Snapshot{}, &MalformedError{Key: key, Message: "empty value"}
	}

	switch trimmed[0] {
	case '[':
		var data []json.RawMessage
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return types.Snapshot{}, &MalformedError{Key: key, Message: "invalid array", Cause: err}
		}
		return types.Snapshot{Data: nonNil(data)}, nil

	case '{':
		var env struct {
			Timestamp json.RawMessage `json:"timestamp"`
			Data      json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return types.Snapshot{}, &MalformedError{Key: key, Message: "invalid envelope", Cause: err}
		}

		snap := types.Snapshot{}
		_ = json.Unmarshal(env.Timestamp, &snap.Timestamp)

		if len(env.Data) == 0 || string(env.Data) == "null" {
			snap.Data = []json.RawMessage{}
			return snap, nil
		}
		if err := json.Unmarshal(env.Data, &snap.Data); err != nil {
			return types.Snapshot{}, &MalformedError{Key: key, Message: "data is not an array", Cause: err}
		}
		snap.Data = nonNil(snap.Data)
		return snap, nil

	default:
		return types.Snapshot{}, &MalformedError{Key: key, Message: "not a JSON object or array"}
	}
}

// Load reads a dataset and decodes each element into T. Elements that do not
// decode are skipped.
func Load[T any](ctx context.Context, s *Store, dataset string) []T {
	raw := s.Get(ctx, dataset)
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			s.logger.Debug("skipping undecodable record",
				zap.String("dataset", dataset), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func nonNil(data []json.RawMessage) []json.RawMessage {
	if data == nil {
		return []json.RawMessage{}
	}
	return data
}
