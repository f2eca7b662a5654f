package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Menu is the dropdown under the search bar. Labels mirror the displayed
// entries of the session, Cursor indexes them.
type Menu struct {
	Labels   []string
	Cursor   int
	Browsing bool // The cursor was moved since the last input.
}

// SetLabels replaces the entries and keeps the cursor inside them.
func (menu *Menu) SetLabels(labels []string) {
	menu.Labels = labels
	if menu.Cursor >= len(labels) {
		menu.Cursor = max(len(labels)-1, 0)
	}
}

func (menu *Menu) Reset() {
	menu.Cursor = 0
	menu.Browsing = false
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (menu *Menu) MoveUp() {
	if len(menu.Labels) == 0 {
		return
	}
	menu.Browsing = true
	menu.Cursor--
	if menu.Cursor < 0 {
		menu.Cursor = len(menu.Labels) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (menu *Menu) MoveDown() {
	if len(menu.Labels) == 0 {
		return
	}
	menu.Browsing = true
	menu.Cursor++
	if menu.Cursor >= len(menu.Labels) {
		menu.Cursor = 0
	}
}

// Render produces one line per entry, padded to the same visible width.
func (menu *Menu) Render(theme Theme, maxWidth int) []string {
	labelWidth := 0
	for _, label := range menu.Labels {
		labelWidth = max(labelWidth, ansi.StringWidth(label))
	}
	innerWidth := 2 + labelWidth
	if maxWidth > 4 && innerWidth > maxWidth-2 {
		innerWidth = maxWidth - 2
	}

	background := lipgloss.NewStyle().
		Background(theme.MenuBackground).
		Foreground(theme.NormalText)
	selected := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	lines := make([]string, 0, len(menu.Labels))
	for index, label := range menu.Labels {
		marker := "  "
		style := background
		if index == menu.Cursor {
			marker = "> "
			style = selected
		}
		content := ansi.Truncate(marker+label, innerWidth, "…")
		pad := max(innerWidth-ansi.StringWidth(content), 0)
		lines = append(lines, style.Render(" "+content+strings.Repeat(" ", pad)+" "))
	}
	return lines
}
