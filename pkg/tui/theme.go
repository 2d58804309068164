package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the signup screen. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText       lipgloss.Color
	FaintText        lipgloss.Color
	HeaderForeground lipgloss.Color
	FocusForeground  lipgloss.Color
	BorderColor      lipgloss.Color
	ErrorForeground  lipgloss.Color
	NoticeForeground lipgloss.Color

	ButtonForeground lipgloss.Color
	ButtonBackground lipgloss.Color
	ButtonFocused    lipgloss.Color
}

// DefaultTheme works on dark and light terminals.
var DefaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("243"),
	HeaderForeground: lipgloss.Color("255"),
	FocusForeground:  lipgloss.Color("99"),
	BorderColor:      lipgloss.Color("240"),
	ErrorForeground:  lipgloss.Color("203"),
	NoticeForeground: lipgloss.Color("214"),

	ButtonForeground: lipgloss.Color("255"),
	ButtonBackground: lipgloss.Color("238"),
	ButtonFocused:    lipgloss.Color("99"),
}

type styles struct {
	title          lipgloss.Style
	label          lipgloss.Style
	focusedLabel   lipgloss.Style
	required       lipgloss.Style
	faint          lipgloss.Style
	notice         lipgloss.Style
	button         lipgloss.Style
	focusedButton  lipgloss.Style
	disabledButton lipgloss.Style
	modal          lipgloss.Style
	modalTitle     lipgloss.Style
}

func newStyles(theme Theme) styles {
	button := lipgloss.NewStyle().
		Foreground(theme.ButtonForeground).
		Background(theme.ButtonBackground).
		Padding(0, 2).
		MarginRight(2)

	return styles{
		title:          lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).MarginBottom(1),
		label:          lipgloss.NewStyle().Foreground(theme.NormalText).Width(16),
		focusedLabel:   lipgloss.NewStyle().Foreground(theme.FocusForeground).Bold(true).Width(16),
		required:       lipgloss.NewStyle().Foreground(theme.ErrorForeground),
		faint:          lipgloss.NewStyle().Foreground(theme.FaintText),
		notice:         lipgloss.NewStyle().Foreground(theme.NoticeForeground),
		button:         button,
		focusedButton:  button.Background(theme.ButtonFocused).Bold(true),
		disabledButton: button.Foreground(theme.FaintText),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ErrorForeground).
			Padding(1, 2).
			Width(48),
		modalTitle: lipgloss.NewStyle().Bold(true).Foreground(theme.ErrorForeground),
	}
}
