package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/magic-search/pkg/search"
	"github.com/matst80/magic-search/pkg/types"
)

func testDocument() *types.FacetDocument {
	return &types.FacetDocument{
		Facets: []types.FacetChoice{
			{Name: "name", Label: "Name", Singleton: true},
			{
				Name:  "status",
				Label: "Status",
				Options: []types.FacetOption{
					{Key: "active", Label: "Active"},
					{Key: "error", Label: "Error"},
				},
			},
		},
	}
}

func send(t *testing.T, model Model, messages ...tea.Msg) Model {
	t.Helper()
	for _, message := range messages {
		updated, _ := model.Update(message)
		model = updated.(Model)
	}
	return model
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestTypeAndCompleteFacet(t *testing.T) {
	model := NewModel(testDocument(), "")
	model = send(t, model, runes("sta"), tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, search.FieldSelected, model.Session().State())
	assert.Equal(t, []string{"Active", "Error"}, model.menu.Labels)

	model = send(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "status=error", model.Query())
	assert.Equal(t, "query: status=error", model.status)
	assert.Equal(t, []string{"Name", "Status"}, model.menu.Labels)
}

func TestEnterCommitsOpenFieldAndText(t *testing.T) {
	model := NewModel(testDocument(), "")
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, search.Idle, model.Session().State(), "enter without input is a no-op")

	model = send(t, model, tea.KeyMsg{Type: tea.KeyTab}, runes("web"), tea.KeyMsg{Type: tea.KeySpace}, runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "name=web 1", model.Query())

	model = send(t, model, runes("db"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "db", model.Session().TextSearch())
	assert.Equal(t, "text: db", model.status)
}

func TestRemoveLastAndClear(t *testing.T) {
	model := NewModel(testDocument(), "status=active&name=web")
	model = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, "status=active", model.Query())

	model = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, model.Session().Facets())
	assert.Len(t, model.menu.Labels, 2)
}

func TestEscapeAndBackspace(t *testing.T) {
	model := NewModel(testDocument(), "")
	model = send(t, model, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, search.Idle, model.Session().State())

	model = send(t, model, runes("ab"), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "a", model.Session().Input())
}

func TestCursorWraps(t *testing.T) {
	model := NewModel(testDocument(), "")
	model = send(t, model, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, model.menu.Cursor)
	model = send(t, model, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, model.menu.Cursor)
}

func TestQuit(t *testing.T) {
	model := NewModel(testDocument(), "status=active")
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	model = updated.(Model)
	assert.True(t, model.Quitting())
	assert.Equal(t, "", model.View())
	assert.Equal(t, "status=active", model.Query())
}

func TestView(t *testing.T) {
	model := NewModel(testDocument(), "status=active")
	model = send(t, model, tea.WindowSizeMsg{Width: 60, Height: 20})
	view := model.View()
	assert.Contains(t, view, "Status:")
	assert.Contains(t, view, "Active")
	assert.Contains(t, view, "Name")

	empty := NewModel(testDocument(), "").View()
	assert.True(t, strings.Contains(empty, types.DefaultPrompt))
}
