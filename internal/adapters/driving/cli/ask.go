package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

var (
	askFolders   []string
	askNoHistory bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Summarise folders, then ask questions about them",
	Long: `Summarises each labelled folder, builds a literature review for it and then
answers questions against all reviews. Earlier questions and answers are
sent along as context, and every answer is also saved to a text file.

Folders are given as --folder label=path. Without any, you are prompted
for them. Type exit, quit or end to stop.`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArrayVar(&askFolders, "folder", nil, "folder to analyse as label=path (repeatable)")
	askCmd.Flags().BoolVar(&askNoHistory, "no-history", false, "keep this session's history in memory only")
	rootCmd.AddCommand(askCmd)
}

// labelledFolder is a folder of papers and the label it is reviewed under.
type labelledFolder struct {
	Label string
	Path  string
}

func runAsk(cmd *cobra.Command, _ []string) error {
	if summaryService == nil || reviewService == nil {
		return errors.New("summary services not configured")
	}

	ctx := cmd.Context()
	reader := bufio.NewReader(cmd.InOrStdin())

	folders, err := parseFolders(askFolders)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		folders, err = promptFolders(cmd, reader)
		if err != nil {
			return err
		}
	}

	reviews := make([]domain.FolderReview, 0, len(folders))
	for _, f := range folders {
		cmd.Printf("Summarising %s (%s)...\n", f.Label, f.Path)
		summary, err := summaryService.SummariseFolder(ctx, f.Path, f.Label)
		if err != nil {
			return llmHint(fmt.Errorf("summarise %s failed: %w", f.Label, err))
		}
		printFolderSummary(cmd, summary)
		reviews = append(reviews, reviewService.Review(summary))
	}
	cmd.Println()

	for {
		cmd.Print(`Ask a question (or type "exit" to quit): `)
		line, readErr := reader.ReadString('\n')
		question := strings.TrimSpace(line)

		switch {
		case question == "":
			if readErr != nil {
				cmd.Println()
				return nil
			}
			continue
		case isExitWord(question):
			cmd.Println("Exiting the program.")
			return nil
		}

		cmd.Println("\nWorking...")
		cmd.Println()

		answer, err := reviewService.Ask(ctx, question, reviews)
		switch {
		case err == nil:
			cmd.Println(answer.Text)
			if answer.SavedTo != "" {
				cmd.Printf("Answer saved to %s\n", answer.SavedTo)
			}
			cmd.Println()
		case errors.Is(err, domain.ErrLLMUnavailable):
			return llmHint(err)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			cmd.PrintErrf("Error: %v\n", err)
		}

		if readErr != nil {
			return nil
		}
	}
}

// parseFolders reads "label=path" values.
func parseFolders(values []string) ([]labelledFolder, error) {
	folders := make([]labelledFolder, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		label, path, ok := strings.Cut(v, "=")
		label, path = strings.TrimSpace(label), strings.TrimSpace(path)
		if !ok || label == "" || path == "" {
			return nil, fmt.Errorf("%w: --folder %q must be label=path", domain.ErrInvalidInput, v)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: duplicate folder label %q", domain.ErrInvalidInput, label)
		}
		seen[label] = true
		folders = append(folders, labelledFolder{Label: label, Path: path})
	}
	return folders, nil
}

// promptFolders asks for the folder count, then each path and label.
func promptFolders(cmd *cobra.Command, reader *bufio.Reader) ([]labelledFolder, error) {
	cmd.Print("How many folders do you want to analyze? ")
	input, err := reader.ReadString('\n')
	n, convErr := strconv.Atoi(strings.TrimSpace(input))
	if convErr != nil || n < 1 {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return nil, fmt.Errorf("%w: no folders given", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %q is not a positive number", domain.ErrInvalidInput, strings.TrimSpace(input))
	}

	values := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		cmd.Printf("Enter the path for folder %d: ", i)
		path := readLine(reader)
		cmd.Printf("Enter the label for folder %d: ", i)
		label := readLine(reader)
		if label == "" {
			label = folderLabel(path)
		}
		values = append(values, label+"="+path)
	}
	return parseFolders(values)
}

func isExitWord(s string) bool {
	switch strings.ToLower(s) {
	case "exit", "quit", "end":
		return true
	default:
		return false
	}
}
