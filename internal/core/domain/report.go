package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxCellLength is the largest number of characters a spreadsheet cell holds.
const MaxCellLength = 32767

// Report is a single-sheet table ready for a spreadsheet sink.
type Report struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

var cellReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
)

// CleanCell strips C0 and C1 control characters, folds typographic quotes and
// dashes to ASCII and truncates to MaxCellLength characters.
func CleanCell(s string) string {
	s = strings.Map(func(r rune) rune {
		if r <= 0x1F || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, s)
	s = cellReplacer.Replace(s)

	if utf8.RuneCountInString(s) > MaxCellLength {
		s = string([]rune(s)[:MaxCellLength])
	}
	return s
}

// CollapseWhitespace replaces every whitespace run with a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
