package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/observability"
	"github.com/jonathan/market-copilot/internal/scrape/linkedin"
)

var (
	scrapeJSON    bool
	scrapeVerbose bool
)

var scrapeJobsCmd = &cobra.Command{
	Use:   "scrape-jobs",
	Short: "Scrape today's LinkedIn job postings without storing them",
	Long:  "Walk the LinkedIn guest search result pages and print the posting URLs (or the full postings with --json).",
	RunE:  runScrapeJobs,
}

func init() {
	scrapeJobsCmd.Flags().BoolVar(&scrapeJSON, "json", false, "Print postings as JSON instead of URLs")
	scrapeJobsCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print a summary box")
	rootCmd.AddCommand(scrapeJobsCmd)
}

func runScrapeJobs(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.jobScraper().Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scrape interrupted: %w", err)
	}

	out := cmd.OutOrStdout()
	if scrapeVerbose {
		observability.NewPrinter(out).PrintJobs(result.Jobs)
	}

	if scrapeJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Jobs); err != nil {
			return err
		}
	} else {
		for _, u := range linkedin.JobURLs(result.Jobs) {
			fmt.Fprintln(out, u)
		}
	}

	if failed := result.Failed(); failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d pages failed\n", failed, len(result.Pages))
	}
	return nil
}
