package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the search bar.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Enter      key.Binding // Select the highlighted entry or commit the input.
	Escape     key.Binding // Abort the pending field.
	Complete   key.Binding // Take the first displayed entry.
	Backspace  key.Binding
	RemoveLast key.Binding // Drop the last active facet.
	Clear      key.Binding // Drop every facet and the text search.

	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Complete: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "complete"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
	),
	RemoveLast: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "remove last"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "clear"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Complete, k.Escape, k.RemoveLast, k.Clear, k.Quit}
}
