package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/observability"
	"github.com/jonathan/market-copilot/internal/snapshot"
	"github.com/jonathan/market-copilot/internal/types"
)

var (
	snapshotDataset string
	snapshotJSON    bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the stored snapshot of a dataset",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotDataset, "dataset", "d", "jobs", "Dataset: jobs, events, or a dataset name")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Print the snapshot envelope as JSON")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}

	dataset := snapshot.ResolveDataset(snapshotDataset)
	snap, ok := store.Info(cmd.Context(), dataset)
	out := cmd.OutOrStdout()

	if snapshotJSON {
		if !ok {
			return fmt.Errorf("no snapshot stored for dataset %s", dataset)
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	printer := observability.NewPrinter(out)
	printer.PrintSnapshot(dataset, snap, ok)
	switch dataset {
	case snapshot.DatasetJobs:
		if jobs := snapshot.Load[types.JobPosting](cmd.Context(), store, dataset); len(jobs) > 0 {
			printer.PrintJobs(jobs)
		}
	case snapshot.DatasetEvents:
		if evts := snapshot.Load[types.Event](cmd.Context(), store, dataset); len(evts) > 0 {
			printer.PrintEvents(evts)
		}
	}
	return nil
}
