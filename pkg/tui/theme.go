package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the search bar.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	MenuBackground     lipgloss.Color

	FacetField lipgloss.Color
	FacetValue lipgloss.Color
	TextFacet  lipgloss.Color
	Pending    lipgloss.Color
	HelpText   lipgloss.Color
}

// DefaultTheme is the built-in dark terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	MenuBackground:     lipgloss.Color("235"),

	FacetField: lipgloss.Color("75"),
	FacetValue: lipgloss.Color("255"),
	TextFacet:  lipgloss.Color("179"),
	Pending:    lipgloss.Color("114"),
	HelpText:   lipgloss.Color("241"),
}
