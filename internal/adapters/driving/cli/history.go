package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the question history",
	RunE:  runHistoryShow,
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every stored question and answer",
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored question and answer",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryShow(cmd *cobra.Command, _ []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}

	history, err := reviewService.History()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if history.Len() == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for i := range history.Len() {
		cmd.Printf("[%d] Q: %s\n", i+1, history.Questions[i])
		cmd.Printf("    A: %s\n\n", history.Answers[i])
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}

	if err := reviewService.ClearHistory(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("History cleared.")
	return nil
}
