package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// Status colors keyed by booking status.
	StatusColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 2),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Bold(true),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for the given booking status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// Theme definitions

var themes = map[string]Theme{
	"Studio": studioTheme(),
	"Slate":  slateTheme(),
}

var themeOrder = []string{"Studio", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return studioTheme()
}

// NextTheme returns the theme name following the current one.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns all theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// studioTheme matches the studio's web palette: red accents on near-black.
func studioTheme() Theme {
	return Theme{
		Name: "Studio",

		Background: "#111111",
		Surface:    "#1a1a1a",

		SelectionBg:   "#e50914",
		SelectionText: "#ffffff",

		Border: "#333333",

		Text:    "#f5f5f5",
		Muted:   "#888888",
		Accent:  "#e50914",
		Success: "#00cc44",
		Warning: "#f0a500",
		Danger:  "#e50914",

		StatusColors: map[string]string{
			"pending":   "#f0a500",
			"confirmed": "#00cc44",
			"cancelled": "#e50914",
		},
	}
}

func slateTheme() Theme {
	return Theme{
		Name: "Slate",

		Background: "#1e2030",
		Surface:    "#222436",

		SelectionBg:   "#3b4261",
		SelectionText: "#c8d3f5",

		Border: "#2f334d",

		Text:    "#c8d3f5",
		Muted:   "#636da6",
		Accent:  "#82aaff",
		Success: "#c3e88d",
		Warning: "#ffc777",
		Danger:  "#ff757f",

		StatusColors: map[string]string{
			"pending":   "#ffc777",
			"confirmed": "#c3e88d",
			"cancelled": "#ff757f",
		},
	}
}
