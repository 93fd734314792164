package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Metadata fallbacks used when the model does not return a field.
const (
	UnknownTitle   = "Unknown Title"
	UnknownAuthors = "Unknown Authors"
	UnknownYear    = "Unknown Year"
)

var (
	titlePattern   = regexp.MustCompile(`Title:\s*(.+)`)
	authorsPattern = regexp.MustCompile(`Authors:\s*(.+)`)
	yearPattern    = regexp.MustCompile(`Year:\s*(\d{4})`)
)

// PaperMetadata is bibliographic information read from a paper's first page.
type PaperMetadata struct {
	Title   string
	Authors string
	Year    string
}

// UnknownPaperMetadata returns metadata with every field at its fallback.
func UnknownPaperMetadata() PaperMetadata {
	return PaperMetadata{Title: UnknownTitle, Authors: UnknownAuthors, Year: UnknownYear}
}

// ParsePaperMetadata extracts "Title:", "Authors:" and "Year: YYYY" lines from a
// model response. Missing fields take their fallback.
func ParsePaperMetadata(response string) PaperMetadata {
	meta := UnknownPaperMetadata()
	if m := titlePattern.FindStringSubmatch(response); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			meta.Title = v
		}
	}
	if m := authorsPattern.FindStringSubmatch(response); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			meta.Authors = v
		}
	}
	if m := yearPattern.FindStringSubmatch(response); m != nil {
		meta.Year = m[1]
	}
	return meta
}

// Citation formats authors as "<authors> (<year>)".
func (m PaperMetadata) Citation() string {
	return m.Authors + " (" + m.Year + ")"
}

// PaperSummary is the interactive-mode result for one paper.
type PaperSummary struct {
	// Index is the 1-based position of the paper in its folder.
	Index int

	DocumentID string
	Metadata   PaperMetadata

	// Answers maps summary question name to answer text.
	Answers map[string]string
}

// SummaryColumns returns the interactive report header for the given questions.
func SummaryColumns(questions QuestionSet) []string {
	cols := []string{"Index", "Paper Name", "Paper Authors", "Publication Year"}
	return append(cols, questions.Names()...)
}

// Row flattens the summary in SummaryColumns order.
func (p PaperSummary) Row(questions QuestionSet) []string {
	row := []string{
		strconv.Itoa(p.Index),
		p.Metadata.Title,
		p.Metadata.Citation(),
		p.Metadata.Year,
	}
	for _, q := range questions {
		row = append(row, p.Answers[q.Name])
	}
	return row
}

// FolderSummary is the interactive result for one labelled folder.
type FolderSummary struct {
	Label  string
	Folder string
	Papers []PaperSummary

	// ReportPath is where the spreadsheet was written.
	ReportPath string
}
