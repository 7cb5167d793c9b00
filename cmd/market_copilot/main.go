// Package main provides the market_copilot command line: ingestion of job
// postings and events, questions over the stored snapshots, and the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	devLogs    bool
)

var rootCmd = &cobra.Command{
	Use:   "market_copilot",
	Short: "Job and event market copilot for Peru",
	Long: "market_copilot scrapes job postings and events into snapshots and answers " +
		"labor-market questions grounded on them with a language model.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "Human-readable console logs")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
