package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

var (
	summariseLabel  string
	summariseOutput string
)

var summariseCmd = &cobra.Command{
	Use:     "summarise <folder>",
	Aliases: []string{"summarize"},
	Short:   "Summarise every paper in a folder, one call at a time",
	Long: `Reads each PDF in the folder, extracts its title, authors and year from the
first page, and asks the summary questions about the full text.

The report is written as <label>_summaries_<timestamp>.xlsx in the output
directory unless -o is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

func init() {
	summariseCmd.Flags().StringVar(&summariseLabel, "label", "", "folder label (default: folder name)")
	summariseCmd.Flags().StringVarP(&summariseOutput, "output", "o", "", "report file to write")
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	folder := args[0]
	label := summariseLabel
	if label == "" {
		label = folderLabel(folder)
	}

	summary, err := summaryService.SummariseFolder(cmd.Context(), folder, label)
	if err != nil {
		return llmHint(fmt.Errorf("summarise failed: %w", err))
	}

	if summariseOutput != "" && summariseOutput != summary.ReportPath {
		if err := moveReport(summary.ReportPath, summariseOutput); err != nil {
			return err
		}
		summary.ReportPath = summariseOutput
	}

	printFolderSummary(cmd, summary)
	return nil
}

func printFolderSummary(cmd *cobra.Command, summary *domain.FolderSummary) {
	for _, p := range summary.Papers {
		cmd.Printf("  [%d] %s - %s\n", p.Index, p.Metadata.Title, p.Metadata.Citation())
	}
	cmd.Printf("All papers processed. Summary saved to '%s'.\n", summary.ReportPath)
}

// folderLabel derives a label from a folder path.
func folderLabel(folder string) string {
	label := filepath.Base(filepath.Clean(folder))
	if label == "." || label == string(filepath.Separator) {
		return "papers"
	}
	return label
}

func moveReport(from, to string) error {
	if dir := filepath.Dir(to); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move report to %s: %w", to, err)
	}
	return nil
}
