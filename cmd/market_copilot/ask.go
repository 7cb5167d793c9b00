package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/observability"
)

var (
	askQuestion string
	askRaw      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about the job and event market",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "Question to ask (or pass it as the argument)")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the answer as returned, without formatting")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := askQuestion
	if question == "" && len(args) == 1 {
		question = args[0]
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return errors.New("a question is required (use --question or pass it as the argument)")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}

	answer, err := engine.GenerateInsights(cmd.Context(), question, nil)
	if err != nil {
		var unavailable *insights.DataUnavailableError
		if errors.As(err, &unavailable) {
			return errors.New(unavailable.Message)
		}
		return err
	}

	if askRaw {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), answer.String())
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAnswer(answer)
	return nil
}
