package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matst80/magic-search/pkg/facet"
	"github.com/matst80/magic-search/pkg/search"
	"github.com/matst80/magic-search/pkg/types"
)

// Model hosts a search session as a bubbletea program.
type Model struct {
	session  *search.Session
	recorder *types.EventRecorder
	keys     KeyMap
	theme    Theme
	menu     Menu
	width    int
	status   string
	quitting bool
}

// NewModel starts a session from doc and the query string.
func NewModel(doc *types.FacetDocument, query string) Model {
	recorder := &types.EventRecorder{}
	session := search.NewSession(doc.Settings, recorder)
	session.InitSearch(doc.Facets, facet.ParseQueryString(query))
	recorder.Reset()
	model := Model{
		session:  session,
		recorder: recorder,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
		width:    80,
	}
	model.syncMenu()
	return model
}

func (model Model) Session() *search.Session {
	return model.session
}

// Query returns the shareable query of the committed facets.
func (model Model) Query() string {
	return model.session.Query()
}

func (model Model) Quitting() bool {
	return model.quitting
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		return model, nil
	case tea.KeyMsg:
		return model.handleKeys(message)
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := model.session
	switch {
	case key.Matches(message, model.keys.Quit):
		model.quitting = true
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.menu.MoveUp()
		return model, nil

	case key.Matches(message, model.keys.Down):
		model.menu.MoveDown()
		return model, nil

	case key.Matches(message, model.keys.Enter):
		model.enter()

	case key.Matches(message, model.keys.Escape):
		s.Escape()

	case key.Matches(message, model.keys.Complete):
		s.Complete()

	case key.Matches(message, model.keys.Backspace):
		s.Backspace()

	case key.Matches(message, model.keys.RemoveLast):
		if n := len(s.Facets()); n > 0 {
			s.RemoveFacet(n - 1)
		}

	case key.Matches(message, model.keys.Clear):
		s.ClearSearch()

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		typed := string(message.Runes)
		if message.Type == tea.KeySpace && typed == "" {
			typed = " "
		}
		s.SetInput(s.Input() + typed)

	default:
		return model, nil
	}
	model.menu.Reset()
	model.syncMenu()
	model.recordStatus()
	return model, nil
}

// enter picks the highlighted entry once the cursor was moved, otherwise it
// commits the typed input.
func (model *Model) enter() {
	s := model.session
	if model.menu.Browsing && len(model.menu.Labels) > 0 {
		if s.State() == search.FieldSelected {
			s.OptionSelected(model.menu.Cursor)
		} else {
			s.FacetSelected(model.menu.Cursor)
		}
		return
	}
	s.EnterCommit()
}

func (model *Model) syncMenu() {
	s := model.session
	var labels []string
	if s.State() == search.FieldSelected {
		for _, o := range s.MenuOptions() {
			labels = append(labels, o.Label)
		}
	} else {
		for _, c := range s.MenuChoices() {
			labels = append(labels, c.Label)
		}
	}
	model.menu.SetLabels(labels)
}

func (model *Model) recordStatus() {
	for _, event := range model.recorder.Reset() {
		switch event.Kind {
		case types.SearchUpdated:
			model.status = fmt.Sprintf("query: %s", event.Query)
		case types.TextSearch:
			model.status = fmt.Sprintf("text: %s", event.Text)
		}
	}
}

func (model Model) renderFacets() string {
	s := model.session
	field := lipgloss.NewStyle().Foreground(model.theme.FacetField)
	value := lipgloss.NewStyle().Foreground(model.theme.FacetValue).Bold(true)
	text := lipgloss.NewStyle().Foreground(model.theme.TextFacet)
	pills := []string{}
	for _, f := range s.Facets() {
		if f.IsText() {
			pills = append(pills, text.Render(fmt.Sprintf("[%s: %q]", f.Label[0], f.Label[1])))
			continue
		}
		pills = append(pills, "["+field.Render(f.Label[0]+":")+" "+value.Render(f.Label[1])+"]")
	}
	return strings.Join(pills, " ")
}

func (model Model) renderInput() string {
	s := model.session
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	line := "> "
	if selected, ok := s.Selected(); ok {
		line += lipgloss.NewStyle().Foreground(model.theme.Pending).Render(selected.Label+":") + " "
	}
	if s.Input() == "" && s.Prompt() != "" {
		return line + faint.Render(s.Prompt())
	}
	return line + s.Input() + "█"
}

func (model Model) View() string {
	if model.quitting {
		return ""
	}
	var b strings.Builder
	if pills := model.renderFacets(); pills != "" {
		b.WriteString(pills)
		b.WriteString("\n")
	}
	b.WriteString(model.renderInput())
	b.WriteString("\n")
	for _, line := range model.menu.Render(model.theme, model.width) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	if model.status != "" {
		b.WriteString(help.Render(model.status))
		b.WriteString("\n")
	}
	parts := []string{}
	for _, binding := range model.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	b.WriteString(help.Render(strings.Join(parts, " · ")))
	return b.String()
}
