package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/market-copilot/internal/ingest"
	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/types"
)

func TestPrintBox_ClipsByCharacter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("ñ", 100))

	out := buf.String()
	assert.Contains(t, out, "...")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestPrintJobs(t *testing.T) {
	var buf bytes.Buffer
	jobs := make([]types.JobPosting, 7)
	for i := range jobs {
		jobs[i] = types.JobPosting{Title: "Analista", Location: "Lima", Employer: types.Employer{Name: "Acme"}}
	}

	NewPrinter(&buf).PrintJobs(jobs)

	out := buf.String()
	assert.Contains(t, out, "JOB POSTINGS")
	assert.Contains(t, out, "Total: 7")
	assert.Contains(t, out, "Analista · Acme · Lima")
	assert.Contains(t, out, "... and 2 more")
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEvents([]types.Event{{Source: types.SourceTicketmaster, Title: "Feria", City: "Lima", Start: "2025-04-01"}})
	assert.Contains(t, buf.String(), "[ticketmaster] Feria · Lima · 2025-04-01")
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSnapshot("scraper_4", types.Snapshot{}, false)
	assert.Contains(t, buf.String(), "no snapshot stored")

	buf.Reset()
	p.PrintSnapshot("scraper_4", types.Snapshot{Timestamp: "2025-03-14 09:30:05", Data: make([]json.RawMessage, 3)}, true)
	assert.Contains(t, buf.String(), "Captured:  2025-03-14 09:30:05")
	assert.Contains(t, buf.String(), "Records:   3")
}

func TestPrintIngestReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintIngestReport(&ingest.Report{
		Dataset:  "events_peru",
		Key:      "events_peru_data",
		Count:    4,
		Duration: 1500 * time.Millisecond,
		Sources: []ingest.SourceReport{
			{Name: "ticketmaster", Count: 4},
			{Name: "eventbrite", Skipped: true},
			{Name: "rapidapi", Err: errors.New("401 unauthorized")},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "INGEST EVENTS_PERU")
	assert.Contains(t, out, "✓ ticketmaster: 4")
	assert.Contains(t, out, "eventbrite: skipped")
	assert.Contains(t, out, "✗ rapidapi: 401 unauthorized")
}

func TestPrintAnswer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnswer(insights.ParseResponse("Hay 3 ofertas."))
	assert.Equal(t, "Hay 3 ofertas.\n", buf.String())

	buf.Reset()
	p.PrintAnswer(insights.ParseResponse(`{"fecha_analisis":"2025-03-14","resumen_mercado":"Estable","sectores_con_mayor_demanda":[{"sector":"TI","cantidad_ofertas_aproximada":3,"ejemplos_puestos":["Dev"]}],"habilidades_mas_pedidas":["Go"],"eventos_relevantes":[],"recomendaciones":["Practicar"]}`))
	out := buf.String()
	assert.Contains(t, out, "MARKET INSIGHT")
	assert.Contains(t, out, "TI (~3)")
	assert.Contains(t, out, "• Go")

	buf.Reset()
	p.PrintAnswer(insights.ParseResponse(`{"otro":"formato"}`))
	assert.Contains(t, buf.String(), `"otro": "formato"`)
}
