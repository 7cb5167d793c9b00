package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StructuredInsight is the fixed-schema answer returned when the user asks for JSON output.
type StructuredInsight struct {
	AnalysisDate    string           `json:"fecha_analisis"`
	MarketSummary   string           `json:"resumen_mercado"`
	Sectors         []SectorDemand   `json:"sectores_con_mayor_demanda"`
	Skills          []string         `json:"habilidades_mas_pedidas"`
	Events          []EventHighlight `json:"eventos_relevantes"`
	Recommendations []string         `json:"recomendaciones"`
}

// SectorDemand summarizes demand for one sector.
type SectorDemand struct {
	Sector          string     `json:"sector"`
	ApproxOffers    Count      `json:"cantidad_ofertas_aproximada"`
	ExampleJobTitle StringList `json:"ejemplos_puestos"`
}

// EventHighlight is an event the model considered relevant.
type EventHighlight struct {
	Title string `json:"titulo"`
	City  string `json:"ciudad"`
	Start string `json:"fecha_inicio"`
	URL   string `json:"url"`
}

// Count holds an approximate amount. Models answer with either 12 or "~12".
type Count string

// UnmarshalJSON accepts a JSON number or string.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Count(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("count must be a number or string: %w", err)
	}
	*c = Count(n.String())
	return nil
}

// MarshalJSON writes numeric counts as numbers and everything else as strings.
func (c Count) MarshalJSON() ([]byte, error) {
	var n json.Number
	if c != "" && json.Unmarshal([]byte(c), &n) == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(c))
}

// StringList is a list of strings that also accepts a single string.
type StringList []string

// UnmarshalJSON accepts ["a","b"] or a single string, kept whole as one item.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}
