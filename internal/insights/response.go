package insights

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/market-copilot/internal/llm"
	"github.com/jonathan/market-copilot/internal/schemas"
	"github.com/jonathan/market-copilot/internal/types"
)

// Mode tells how a model response was interpreted.
type Mode string

// Response modes
const (
	ModeStructured Mode = "structured"
	ModeText       Mode = "text"
)

// ErrNotStructured is returned by Answer.Insight for non-object answers.
var ErrNotStructured = errors.New("answer is not a structured object")

// Answer is a normalized model response.
type Answer struct {
	Mode Mode `json:"mode"`
	// Structured holds the decoded JSON value in structured mode.
	Structured any `json:"structured,omitempty"`
	// Text holds the cleaned response in text mode.
	Text string `json:"text,omitempty"`
	// Raw is the response exactly as returned by the model.
	Raw string `json:"-"`
}

// ParseResponse trims the response, strips a surrounding code fence and, when
// the result starts with '{' or '[', decodes it as exactly one JSON value.
// Anything that does not decode is returned as text.
func ParseResponse(raw string) *Answer {
	cleaned := llm.StripCodeFence(raw)

	if strings.HasPrefix(cleaned, "{") || strings.HasPrefix(cleaned, "[") {
		if v, err := decodeStrict(cleaned); err == nil {
			return &Answer{Mode: ModeStructured, Structured: v, Raw: raw}
		}
	}
	return &Answer{Mode: ModeText, Text: cleaned, Raw: raw}
}

func decodeStrict(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// IsStructured reports whether the answer was decoded as JSON.
func (a *Answer) IsStructured() bool {
	return a.Mode == ModeStructured
}

// Insight validates a structured answer against the structured insight schema
// and decodes it.
func (a *Answer) Insight() (*types.StructuredInsight, error) {
	if !a.IsStructured() {
		return nil, ErrNotStructured
	}
	if _, ok := a.Structured.(map[string]any); !ok {
		return nil, ErrNotStructured
	}

	doc, err := json.Marshal(a.Structured)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode answer: %w", err)
	}
	if err := schemas.ValidateStructuredInsight(doc); err != nil {
		return nil, err
	}

	var insight types.StructuredInsight
	if err := json.Unmarshal(doc, &insight); err != nil {
		return nil, fmt.Errorf("failed to decode structured insight: %w", err)
	}
	return &insight, nil
}

// String renders the answer for display and for the conversation history:
// indented JSON in structured mode, the text otherwise.
func (a *Answer) String() string {
	if !a.IsStructured() {
		return a.Text
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Structured); err != nil {
		return a.Raw
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
