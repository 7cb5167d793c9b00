package insights

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/jonathan/market-copilot/internal/snapshot"
	"github.com/jonathan/market-copilot/internal/types"
)

// Assembly limits.
const (
	DefaultContextBudget = 20000 // characters of serialized data sent to the model
	DefaultHistoryWindow = 16    // most recent turns included in the prompt
)

// SnapshotReader returns the latest data sequence of a dataset, empty when absent.
// *snapshot.Store implements it.
type SnapshotReader interface {
	Get(ctx context.Context, dataset string) []json.RawMessage
}

// Context is the assembled grounding data for one question.
type Context struct {
	// Text is the serialized {"jobs","events"} block, cut to the budget.
	Text string
	// Full is the untruncated serialization.
	Full      string
	Truncated bool

	// JobCount and EventCount are the stored rows, decodable or not.
	JobCount   int
	EventCount int

	// Jobs and Events hold the rows that decode into the known shapes.
	Jobs   []types.JobPosting
	Events []types.Event
}

// Empty reports whether there is nothing to ground an answer on.
func (c *Context) Empty() bool {
	return c.JobCount == 0 && c.EventCount == 0
}

// Assembler reads the known datasets and builds a bounded context.
type Assembler struct {
	reader        SnapshotReader
	jobsDataset   string
	eventsDataset string
	budget        int
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithBudget sets the character budget. Values below 1 are ignored.
func WithBudget(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.budget = n
		}
	}
}

// NewAssembler returns an Assembler reading the default job and event datasets.
func NewAssembler(reader SnapshotReader, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		reader:        reader,
		jobsDataset:   snapshot.DatasetJobs,
		eventsDataset: snapshot.DatasetEvents,
		budget:        DefaultContextBudget,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Datasets returns the dataset names the assembler reads.
func (a *Assembler) Datasets() []string {
	return []string{a.jobsDataset, a.eventsDataset}
}

// BuildContext reads the latest job and event snapshots and serializes them
// as one block, cut to the character budget.
func (a *Assembler) BuildContext(ctx context.Context) (*Context, error) {
	rawJobs := a.reader.Get(ctx, a.jobsDataset)
	rawEvents := a.reader.Get(ctx, a.eventsDataset)

	full, err := Serialize(rawJobs, rawEvents)
	if err != nil {
		return nil, err
	}
	text, truncated := Truncate(full, a.budget)

	return &Context{
		Text:       text,
		Full:       full,
		Truncated:  truncated,
		JobCount:   len(rawJobs),
		EventCount: len(rawEvents),
		Jobs:       decodeAll[types.JobPosting](rawJobs),
		Events:     decodeAll[types.Event](rawEvents),
	}, nil
}

// Serialize renders {"jobs":[...],"events":[...]} compactly, leaving
// non-ASCII text and HTML characters unescaped.
func Serialize(jobs, events []json.RawMessage) (string, error) {
	if jobs == nil {
		jobs = []json.RawMessage{}
	}
	if events == nil {
		events = []json.RawMessage{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Jobs   []json.RawMessage `json:"jobs"`
		Events []json.RawMessage `json:"events"`
	}{jobs, events}); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Truncate cuts s to at most budget characters (code points). The result is
// always a prefix of s and may end inside a JSON value.
func Truncate(s string, budget int) (string, bool) {
	n := 0
	for i := range s {
		if n == budget {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func decodeAll[T any](items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
