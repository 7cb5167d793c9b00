package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/ingest"
	"github.com/jonathan/market-copilot/internal/observability"
)

var ingestDataset string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scrape sources and replace the stored snapshots",
	Long:  "Run the job scraper and/or the event providers and overwrite the matching snapshot (last write wins).",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDataset, "dataset", "d", "all", "Dataset to refresh: jobs, events or all")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	switch ingestDataset {
	case "jobs", "events", "all":
	default:
		return fmt.Errorf("invalid --dataset %q: must be jobs, events or all", ingestDataset)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := a.runner(cmd.Context())
	if err != nil {
		return err
	}

	var reports []*ingest.Report
	switch ingestDataset {
	case "jobs":
		var r *ingest.Report
		if r, err = runner.RunJobs(cmd.Context()); r != nil {
			reports = append(reports, r)
		}
	case "events":
		var r *ingest.Report
		if r, err = runner.RunEvents(cmd.Context()); r != nil {
			reports = append(reports, r)
		}
	default:
		reports, err = runner.RunAll(cmd.Context())
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, r := range reports {
		printer.PrintIngestReport(r)
	}
	return err
}
