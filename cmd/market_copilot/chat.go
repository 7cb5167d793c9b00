package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/observability"
	"github.com/jonathan/market-copilot/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session; history is kept until you exit",
	Long:  "Read questions from stdin, one per line. Type 'salir' or 'exit' (or send EOF) to end the session.",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var history types.History
	fmt.Fprintln(out, "Copilot DN. Escribe tu pregunta ('salir' para terminar).")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "salir", "exit", "quit":
			return nil
		}

		answer, err := engine.GenerateInsights(cmd.Context(), question, history)
		if err != nil {
			if cmd.Context().Err() != nil {
				return err
			}
			var unavailable *insights.DataUnavailableError
			if errors.As(err, &unavailable) {
				fmt.Fprintln(out, unavailable.Message)
			} else {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		printer.PrintAnswer(answer)
		history = history.Append(question, answer.String())
	}
}
