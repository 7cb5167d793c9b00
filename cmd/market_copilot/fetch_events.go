package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/observability"
	"github.com/jonathan/market-copilot/internal/scrape/events"
)

var fetchEventsJSON bool

var fetchEventsCmd = &cobra.Command{
	Use:   "fetch-events",
	Short: "Query the event providers without storing the results",
	RunE:  runFetchEvents,
}

func init() {
	fetchEventsCmd.Flags().BoolVar(&fetchEventsJSON, "json", false, "Print events as JSON")
	rootCmd.AddCommand(fetchEventsCmd)
}

func runFetchEvents(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	collected, outcomes := events.Collect(cmd.Context(), a.eventProviders(), a.logger)
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if fetchEventsJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(collected)
	}

	observability.NewPrinter(out).PrintEvents(collected)
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			fmt.Fprintf(out, "%s: skipped\n", o.Provider)
		case o.Err != nil:
			fmt.Fprintf(out, "%s: failed: %v\n", o.Provider, o.Err)
		default:
			fmt.Fprintf(out, "%s: %d events\n", o.Provider, o.Count)
		}
	}
	return nil
}
