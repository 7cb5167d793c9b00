package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command in-process and returns its stdout.
// Flag values are reset afterwards so tests do not leak into each other.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolateEnv points the commands at an empty in-memory store with no credentials.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GCP_SERVICE_ACCOUNT_FILE", "GCP_SERVICE_ACCOUNT_JSON",
		"TICKETMASTER_API_KEY", "EVENTBRITE_TOKEN", "RAPIDAPI_KEY",
		"REDIS_URL", "DATABASE_URL", "SQLITE_PATH",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
}
