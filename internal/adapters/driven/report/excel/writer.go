// Package excel writes reports as .xlsx workbooks with excelize.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

const (
	defaultSheet = "Sheet1"

	// columnWidth is applied to every answer column.
	columnWidth = 40
)

// Writer writes one-sheet workbooks: a bold header row, then data rows.
type Writer struct{}

// NewWriter creates a new report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteReport writes the report to path, replacing any existing file.
// Cells longer than the spreadsheet limit are truncated.
func (w *Writer) WriteReport(ctx context.Context, path string, report domain.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := report.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	if err := writeRow(f, sheet, 1, report.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(report.Columns) > 0 {
		if err := styleHeader(f, sheet, len(report.Columns)); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for i, row := range report.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = truncate(v)
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, columnWidth)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= domain.MaxCellLength {
		return s
	}
	return string(runes[:domain.MaxCellLength])
}
