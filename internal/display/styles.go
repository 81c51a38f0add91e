package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles contains all styling for the TUI
type Styles struct {
	// Pane styles
	Panel   lipgloss.Style
	LogPane lipgloss.Style

	// Content styles
	Header    lipgloss.Style
	Title     lipgloss.Style
	HandInfo  lipgloss.Style
	Money     lipgloss.Style
	Actions   lipgloss.Style
	Dealer    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	CardBack  lipgloss.Style
	BarFull   lipgloss.Style
	BarEmpty  lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. With noColor set every
// style renders without ANSI colour.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// NewStyles builds the styles for a theme: "classic" draws square borders,
// anything else rounded ones.
func NewStyles(r *lipgloss.Renderer, theme string) *Styles {
	border := lipgloss.RoundedBorder()
	if theme == "classic" {
		border = lipgloss.NormalBorder()
	}

	return &Styles{
		Panel: r.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(1, 2),
		LogPane: r.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1),
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		HandInfo: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Money: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Dealer: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Italic(true),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		CardBack: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		BarFull: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		BarEmpty: r.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}
