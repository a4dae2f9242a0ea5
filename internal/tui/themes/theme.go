// Package themes holds the color schemes of the transaction browser.
package themes

import (
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	BorderedBox   lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

type palette struct {
	primary    lipgloss.Color
	foreground lipgloss.Color
	subtle     lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	selectedFg lipgloss.Color
	success    lipgloss.Color
	warning    lipgloss.Color
	danger     lipgloss.Color
	info       lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary: p.primary,
		Border:  p.border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedFg).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.border),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Income: lipgloss.NewStyle().
			Foreground(p.success),
		Expense: lipgloss.NewStyle().
			Foreground(p.danger),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
	}
}

// Light is the default theme.
var Light = build(palette{
	primary:    lipgloss.Color("#2e7d5b"),
	foreground: lipgloss.Color("#1f2933"),
	subtle:     lipgloss.Color("#52606d"),
	muted:      lipgloss.Color("#9aa5b1"),
	border:     lipgloss.Color("#cbd2d9"),
	selectedFg: lipgloss.Color("#ffffff"),
	success:    lipgloss.Color("#0f9960"),
	warning:    lipgloss.Color("#d9822b"),
	danger:     lipgloss.Color("#db3737"),
	info:       lipgloss.Color("#2b95d6"),
})

// Dark follows the Catppuccin Mocha palette.
var Dark = build(palette{
	primary:    lipgloss.Color("#a6e3a1"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	muted:      lipgloss.Color("#6c7086"),
	border:     lipgloss.Color("#45475a"),
	selectedFg: lipgloss.Color("#1e1e2e"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	danger:     lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
})

// For returns the theme matching a settings value.
func For(theme model.Theme) Theme {
	if theme == model.ThemeDark {
		return Dark
	}
	return Light
}
