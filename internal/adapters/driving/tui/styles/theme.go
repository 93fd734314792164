// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

// Theme is the palette of the job view. Each colour carries a light and a
// dark variant; lipgloss picks one from the terminal background.
type Theme struct {
	Accent  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Dim     lipgloss.AdaptiveColor
	Good    lipgloss.AdaptiveColor
	Caution lipgloss.AdaptiveColor
	Bad     lipgloss.AdaptiveColor
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"},
		Info:    lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#67E8F9"},
		Text:    lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Dim:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Good:    lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"},
		Caution: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"},
		Bad:     lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"},
	}
}

// Styles holds the rendered styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title   lipgloss.Style
	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Spinner lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme:   theme,
		Title:   fg(theme.Accent).Bold(true),
		Normal:  fg(theme.Text),
		Muted:   fg(theme.Dim),
		Error:   fg(theme.Bad),
		Success: fg(theme.Good),
		Warning: fg(theme.Caution),
		Spinner: fg(theme.Info),
		Help:    fg(theme.Dim).Italic(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// JobStatus returns the style used to render a batch job status.
func (s *Styles) JobStatus(status domain.JobStatus) lipgloss.Style {
	switch status {
	case domain.JobStatusCompleted:
		return s.Success
	case domain.JobStatusFailed, domain.JobStatusExpired, domain.JobStatusCancelled:
		return s.Error
	case domain.JobStatusCancelling:
		return s.Warning
	default:
		return s.Normal
	}
}

// Progress renders a bar of width cells for done out of total.
// A zero total renders an empty bar.
func (s *Styles) Progress(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, max(0, done*width/total))
	}
	return s.Success.Render(strings.Repeat("█", filled)) +
		s.Muted.Render(strings.Repeat("░", width-filled))
}
