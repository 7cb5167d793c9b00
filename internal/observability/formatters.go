// Package observability renders human-readable CLI output for answers,
// snapshots and ingestion runs.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/market-copilot/internal/ingest"
	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to width characters, marking the cut with "...".
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// PrintJobs lists job postings.
func (p *Printer) PrintJobs(jobs []types.JobPosting) {
	items := make([]string, len(jobs))
	for i, j := range jobs {
		items[i] = fmt.Sprintf("%s · %s · %s", j.Title, j.Employer.Name, j.Location)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d\n\n", len(jobs))
	writeList(&sb, "Postings", items)
	p.printBox("JOB POSTINGS", sb.String())
}

// PrintEvents lists events.
func (p *Printer) PrintEvents(events []types.Event) {
	items := make([]string, len(events))
	for i, e := range events {
		item := fmt.Sprintf("[%s] %s", e.Source, e.Title)
		if e.City != "" {
			item += " · " + e.City
		}
		if e.Start != "" {
			item += " · " + e.Start
		}
		items[i] = item
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d\n\n", len(events))
	writeList(&sb, "Events", items)
	p.printBox("EVENTS", sb.String())
}

// PrintSnapshot summarizes the stored snapshot of a dataset.
func (p *Printer) PrintSnapshot(dataset string, snap types.Snapshot, ok bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset:   %s\n", dataset)
	if !ok {
		sb.WriteString("Status:    no snapshot stored\n")
		p.printBox("SNAPSHOT", sb.String())
		return
	}

	timestamp := snap.Timestamp
	if timestamp == "" {
		timestamp = "(unknown, legacy format)"
	}
	fmt.Fprintf(&sb, "Captured:  %s\n", timestamp)
	fmt.Fprintf(&sb, "Records:   %d\n", len(snap.Data))
	p.printBox("SNAPSHOT", sb.String())
}

// PrintIngestReport summarizes an ingestion run.
func (p *Printer) PrintIngestReport(report *ingest.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset:   %s\n", report.Dataset)
	fmt.Fprintf(&sb, "Key:       %s\n", report.Key)
	fmt.Fprintf(&sb, "Records:   %d\n", report.Count)
	fmt.Fprintf(&sb, "Duration:  %s\n", report.Duration.Round(time.Millisecond))
	sb.WriteString("\n")

	for _, s := range report.Sources {
		switch {
		case s.Skipped:
			fmt.Fprintf(&sb, "  - %s: skipped (no credentials)\n", s.Name)
		case s.Err != nil:
			fmt.Fprintf(&sb, "  ✗ %s: %v\n", s.Name, s.Err)
		default:
			fmt.Fprintf(&sb, "  ✓ %s: %d\n", s.Name, s.Count)
		}
	}
	p.printBox("INGEST "+strings.ToUpper(report.Dataset), sb.String())
}

// PrintInsight renders a structured market analysis.
func (p *Printer) PrintInsight(insight *types.StructuredInsight) {
	if insight == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Fecha: %s\n\n", insight.AnalysisDate)
	if insight.MarketSummary != "" {
		for _, line := range strings.Split(insight.MarketSummary, "\n") {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	sectors := make([]string, len(insight.Sectors))
	for i, s := range insight.Sectors {
		sectors[i] = s.Sector
		if s.ApproxOffers != "" {
			sectors[i] += fmt.Sprintf(" (~%s)", s.ApproxOffers)
		}
	}
	writeList(&sb, "Sectores", sectors)
	writeList(&sb, "Habilidades", insight.Skills)

	evts := make([]string, len(insight.Events))
	for i, e := range insight.Events {
		evts[i] = strings.TrimSpace(fmt.Sprintf("%s %s", e.Title, e.Start))
	}
	writeList(&sb, "Eventos", evts)
	writeList(&sb, "Recomendaciones", insight.Recommendations)

	p.printBox("MARKET INSIGHT", sb.String())
}

// PrintAnswer prints a model answer. Structured answers that match the
// insight schema are rendered as a box; anything else is printed as is.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAnswer(answer *insights.Answer) {
	if answer == nil {
		return
	}
	if answer.IsStructured() {
		if insight, err := answer.Insight(); err == nil {
			p.PrintInsight(insight)
			return
		}
	}
	fmt.Fprintln(p.out, answer.String())
}
