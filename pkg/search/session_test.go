package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/magic-search/pkg/facet"
	"github.com/matst80/magic-search/pkg/types"
)

func testChoices() []types.FacetChoice {
	return []types.FacetChoice{
		{Name: "name", Label: "Name", Singleton: true},
		{
			Name:  "status",
			Label: "Status",
			Options: []types.FacetOption{
				{Key: "active", Label: "Active"},
				{Key: "error", Label: "Error"},
			},
		},
		{
			Name:      "flavor",
			Label:     "Flavor",
			Singleton: true,
			Options: []types.FacetOption{
				{Key: "m1.small", Label: "Small"},
				{Key: "m1.large", Label: "Large"},
			},
		},
		{Name: "ip", Label: "IP Address"},
	}
}

func newTestSession(choices []types.FacetChoice, query string) (*Session, *types.EventRecorder) {
	rec := &types.EventRecorder{}
	s := NewSession(types.Settings{}, rec)
	s.InitSearch(choices, facet.ParseQueryString(query))
	return s, rec
}

func names(facets []types.Facet) []string {
	return facet.FacetNames(facets)
}

func TestInitFacetsWithOption(t *testing.T) {
	choices := []types.FacetChoice{testChoices()[1]}
	s, rec := newTestSession(choices, "status=active")

	assert.Equal(t, []types.Facet{{Name: "status=active", Label: [2]string{"Status", "Active"}}}, s.Facets())
	assert.Equal(t, []types.FacetChoice{
		{Name: "status", Label: "Status", Options: []types.FacetOption{{Key: "error", Label: "Error"}}},
	}, s.UnusedChoices())

	ev, ok := rec.Last(types.CheckFacets)
	require.True(t, ok)
	assert.Equal(t, s.Facets(), ev.Facets)
}

func TestInitFacetsSingletonConsumed(t *testing.T) {
	choices := []types.FacetChoice{{Name: "name", Label: "Name", Singleton: true}}
	s, _ := newTestSession(choices, "name=foo")
	assert.Empty(t, s.UnusedChoices())
	assert.Equal(t, []types.Facet{{Name: "name=foo", Label: [2]string{"Name", "foo"}}}, s.Facets())
}

func TestInitFacetsDropsUnknownAndMalformed(t *testing.T) {
	s, _ := newTestSession(testChoices(), "bogus=1&status&status=active&status=missing")
	assert.Equal(t, []string{"status=active"}, names(s.Facets()))
}

func TestInitFacetsSingletonKeepsFirstValue(t *testing.T) {
	s, _ := newTestSession(testChoices(), "name=a&name=b&status=active&status=active")
	assert.Equal(t, []string{"name=a", "status=active"}, names(s.Facets()))
}

func TestInitFacetsWithTextTerm(t *testing.T) {
	s, _ := newTestSession(testChoices(), "text=web&status=active")
	assert.Equal(t, []string{"text=web", "status=active"}, names(s.Facets()))
	assert.Equal(t, "web", s.TextSearch())
	assert.Equal(t, "status=active", s.Query())
}

func TestRemoveFacetEmitsQuery(t *testing.T) {
	choices := []types.FacetChoice{
		{Name: "a", Label: "A"},
		{Name: "b", Label: "B"},
	}
	s, rec := newTestSession(choices, "a=1&b=2")
	rec.Reset()

	require.True(t, s.RemoveFacet(0))
	assert.Equal(t, []string{"b=2"}, names(s.Facets()))
	require.NotEmpty(t, rec.Events)
	assert.Equal(t, types.Event{Kind: types.SearchUpdated, Query: "b=2"}, rec.Events[0])
	_, ok := rec.Last(types.CheckFacets)
	assert.True(t, ok)

	menu := s.MenuChoices()
	require.Len(t, menu, 1)
	assert.Equal(t, "a", menu[0].Name)
}

func TestRemoveLastFacetRestoresPrompt(t *testing.T) {
	s, _ := newTestSession(testChoices(), "ip=10.0.0.1")
	assert.Equal(t, "", s.Prompt())
	s.RemoveFacet(0)
	assert.Equal(t, types.DefaultPrompt, s.Prompt())
	assert.Len(t, s.MenuChoices(), 4)
}

func TestRemoveFacetOutOfRange(t *testing.T) {
	s, rec := newTestSession(testChoices(), "ip=10.0.0.1")
	rec.Reset()
	assert.False(t, s.RemoveFacet(1))
	assert.False(t, s.RemoveFacet(-1))
	assert.Empty(t, rec.Events)
}

func TestRemoveFacetDuringSelection(t *testing.T) {
	s, rec := newTestSession(testChoices(), "status=active&ip=1.2.3.4")
	require.True(t, s.FacetSelected(0))
	require.Equal(t, FieldSelected, s.State())
	rec.Reset()

	require.True(t, s.RemoveFacet(0))
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []string{"ip=1.2.3.4"}, names(s.Facets()))
	_, updated := rec.Last(types.SearchUpdated)
	assert.False(t, updated)
}

func TestClearSearch(t *testing.T) {
	choices := testChoices()
	s, rec := newTestSession(choices, "status=active&name=web&text=foo")
	rec.Reset()

	s.ClearSearch()
	assert.Empty(t, s.Facets())
	assert.NotNil(t, s.Facets())
	assert.Equal(t, choices, s.UnusedChoices())
	assert.False(t, s.HasTextSearch())
	assert.Equal(t, types.DefaultPrompt, s.Prompt())
	assert.Equal(t, []types.Event{
		{Kind: types.SearchUpdated, Query: ""},
		{Kind: types.TextSearch, Text: ""},
	}, rec.Events)
}

func TestSelectFacetAndOption(t *testing.T) {
	s, rec := newTestSession(testChoices(), "")
	assert.Equal(t, types.DefaultPrompt, s.Prompt())
	require.Len(t, s.MenuChoices(), 4)

	require.True(t, s.FacetSelected(1))
	assert.Equal(t, FieldSelected, s.State())
	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "status", selected.Name)
	assert.Len(t, s.MenuOptions(), 2)
	assert.False(t, s.FacetSelected(0), "a pending field blocks another selection")

	rec.Reset()
	require.True(t, s.OptionSelected(1))
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []types.Facet{{Name: "status=error", Label: [2]string{"Status", "Error"}}}, s.Facets())
	assert.Equal(t, []types.Event{{Kind: types.SearchUpdated, Query: "status=error"}}, rec.Events)

	for _, c := range s.UnusedChoices() {
		if c.Name == "status" {
			assert.Equal(t, []types.FacetOption{{Key: "active", Label: "Active"}}, c.Options)
		}
	}
	assert.Equal(t, "", s.Prompt())
}

func TestOptionSelectedWithoutPendingField(t *testing.T) {
	s, _ := newTestSession(testChoices(), "")
	assert.False(t, s.OptionSelected(0))
	require.True(t, s.FacetSelected(0))
	assert.False(t, s.OptionSelected(0), "open fields have no options")
}

func TestEnterCommitOpenField(t *testing.T) {
	s, rec := newTestSession(testChoices(), "")
	require.True(t, s.FacetSelected(0))
	assert.False(t, s.EnterCommit(), "blank values are not committed")

	s.SetInput("web-01")
	rec.Reset()
	require.True(t, s.EnterCommit())
	assert.Equal(t, []types.Facet{{Name: "name=web-01", Label: [2]string{"Name", "web-01"}}}, s.Facets())
	assert.Equal(t, "", s.Input())
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []types.Event{{Kind: types.SearchUpdated, Query: "name=web-01"}}, rec.Events)
	for _, c := range s.UnusedChoices() {
		assert.NotEqual(t, "name", c.Name)
	}
}

func TestEnterCommitTextSearchReplacesPrevious(t *testing.T) {
	s, rec := newTestSession(testChoices(), "status=active")
	s.SetInput("hello")
	rec.Reset()
	require.True(t, s.EnterCommit())
	assert.Equal(t, []types.Event{{Kind: types.TextSearch, Text: "hello"}}, rec.Events)

	s.SetInput("world")
	require.True(t, s.EnterCommit())

	texts := 0
	for _, f := range s.Facets() {
		if f.IsText() {
			texts++
			assert.Equal(t, "text=world", f.Name)
			assert.Equal(t, [2]string{types.DefaultText, "world"}, f.Label)
		}
	}
	assert.Equal(t, 1, texts)
	assert.Equal(t, "world", s.TextSearch())
	assert.Equal(t, "status=active", s.Query())
}

func TestEnterCommitBlankText(t *testing.T) {
	s, rec := newTestSession(testChoices(), "")
	rec.Reset()
	s.SetInput("   ")
	assert.False(t, s.EnterCommit())
	assert.Empty(t, rec.Events)
}

func TestEnterCommitWithOptionsTakesFirstDisplayed(t *testing.T) {
	s, _ := newTestSession(testChoices(), "")
	require.True(t, s.FacetSelected(2))
	s.SetInput("large")
	require.True(t, s.EnterCommit())
	assert.Equal(t, []string{"flavor=m1.large"}, names(s.Facets()))
}

func TestRemoveTextFacetClearsTextSearch(t *testing.T) {
	s, rec := newTestSession(testChoices(), "status=active")
	s.SetInput("hello")
	s.EnterCommit()
	rec.Reset()

	require.True(t, s.RemoveFacet(1))
	assert.False(t, s.HasTextSearch())
	assert.Equal(t, types.Event{Kind: types.TextSearch, Text: ""}, rec.Events[0])
	_, updated := rec.Last(types.SearchUpdated)
	assert.False(t, updated)
	assert.Equal(t, []string{"status=active"}, names(s.Facets()))
}

func TestTextSearchSurvivesRemoval(t *testing.T) {
	s, _ := newTestSession(testChoices(), "status=active&ip=1.1.1.1")
	s.SetInput("hello")
	s.EnterCommit()
	require.True(t, s.RemoveFacet(0))
	assert.Equal(t, []string{"ip=1.1.1.1", "text=hello"}, names(s.Facets()))
	assert.Equal(t, "hello", s.TextSearch())
}

func TestEscape(t *testing.T) {
	s, rec := newTestSession(testChoices(), "text=abc")
	require.True(t, s.FacetSelected(0))
	s.SetInput("typed")
	rec.Reset()

	s.Escape()
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "", s.Input())
	assert.Equal(t, []types.Event{{Kind: types.TextSearch, Text: "abc"}}, rec.Events)
	assert.Equal(t, []string{"text=abc"}, names(s.Facets()))
}

func TestOnFacetsChangedWithQuery(t *testing.T) {
	s, rec := newTestSession(testChoices(), "status=active&text=foo")
	require.True(t, s.FacetSelected(0))
	rec.Reset()

	query := "status=error"
	s.OnFacetsChanged(types.FacetsChanged{Query: &query})
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []string{"status=error", "text=foo"}, names(s.Facets()))
	_, ok := rec.Last(types.CheckFacets)
	assert.True(t, ok)
}

func TestOnFacetsChangedWithNewChoices(t *testing.T) {
	s, _ := newTestSession(testChoices(), "status=error&ip=1.1.1.1")
	choices := testChoices()
	choices[1].Options = []types.FacetOption{{Key: "active", Label: "Running"}}

	s.OnFacetsChanged(types.FacetsChanged{Choices: choices})
	assert.Equal(t, []string{"ip=1.1.1.1"}, names(s.Facets()))

	for _, c := range s.UnusedChoices() {
		if c.Name == "status" {
			assert.Equal(t, []types.FacetOption{{Key: "active", Label: "Running"}}, c.Options)
		}
	}
}

func TestSetInputFiltersMenu(t *testing.T) {
	s, _ := newTestSession(testChoices(), "")
	s.SetInput("sta")
	menu := s.MenuChoices()
	require.Len(t, menu, 1)
	assert.Equal(t, "status", menu[0].Name)

	require.True(t, s.FacetSelected(0))
	assert.Equal(t, "", s.Input())
	s.SetInput("err")
	options := s.MenuOptions()
	require.Len(t, options, 1)
	require.True(t, s.OptionSelected(0))
	assert.Equal(t, []string{"status=error"}, names(s.Facets()))
}

func TestBackspace(t *testing.T) {
	s, _ := newTestSession(testChoices(), "")
	s.SetInput("stä")
	require.True(t, s.Backspace())
	assert.Equal(t, "st", s.Input())
	require.True(t, s.Backspace())
	require.True(t, s.Backspace())
	assert.Equal(t, "", s.Input())
	assert.False(t, s.Backspace())

	require.True(t, s.FacetSelected(1))
	require.True(t, s.Backspace())
	assert.Equal(t, Idle, s.State())
}

func TestComplete(t *testing.T) {
	s, _ := newTestSession(testChoices(), "")
	s.SetInput("flav")
	require.True(t, s.Complete())
	selected, _ := s.Selected()
	assert.Equal(t, "flavor", selected.Name)

	require.True(t, s.Complete())
	assert.Equal(t, []string{"flavor=m1.small"}, names(s.Facets()))
	for _, c := range s.UnusedChoices() {
		assert.NotEqual(t, "flavor", c.Name)
	}

	require.True(t, s.FacetSelected(0))
	assert.False(t, s.Complete(), "open fields need Enter")
}

func TestMenuLimit(t *testing.T) {
	s := NewSession(types.Settings{MenuLimit: 2}, nil)
	s.InitSearch(testChoices(), nil)
	assert.Len(t, s.MenuChoices(), 2)
	assert.Len(t, s.UnusedChoices(), 4)
}

func TestDefinitionsAreNeverMutated(t *testing.T) {
	choices := testChoices()
	s, _ := newTestSession(choices, "status=active")
	s.FacetSelected(0)
	s.SetInput("x")
	s.EnterCommit()
	s.FacetSelected(0)
	s.OptionSelected(0)
	s.RemoveFacet(0)
	s.ClearSearch()
	assert.Equal(t, testChoices(), choices)
	assert.Equal(t, testChoices(), s.FacetChoices())
}

func TestUnusedInvariantsHoldAfterTransitions(t *testing.T) {
	s, _ := newTestSession(testChoices(), "status=active")
	s.FacetSelected(1)
	s.OptionSelected(0)
	s.SetInput("web")
	s.FacetSelected(0)
	s.SetInput("web")
	s.EnterCommit()

	defs := map[string]types.FacetChoice{}
	for _, c := range testChoices() {
		defs[c.Name] = c
	}
	unused := map[string]types.FacetChoice{}
	for _, c := range s.UnusedChoices() {
		unused[c.Name] = c
	}
	for _, f := range s.Facets() {
		def, known := defs[f.Field()]
		if !known {
			continue
		}
		u, found := unused[f.Field()]
		if def.Singleton || !def.HasOptions() {
			assert.False(t, found, "%s should be consumed", f.Name)
			continue
		}
		if found {
			_, has := u.FindOption(f.Value())
			assert.False(t, has, "%s should be consumed", f.Name)
		}
	}
}

func TestView(t *testing.T) {
	s, _ := newTestSession(testChoices(), "status=active&text=db")
	s.FacetSelected(0)
	v := s.View()
	assert.Equal(t, "field_selected", v.State)
	require.NotNil(t, v.Selected)
	assert.Equal(t, "name", v.Selected.Name)
	require.NotNil(t, v.TextSearch)
	assert.Equal(t, "db", *v.TextSearch)
	assert.Equal(t, "status=active", v.Query)
	assert.Equal(t, types.DefaultRemove, v.Strings.Remove)

	v.Facets[0].Name = "changed"
	assert.Equal(t, "status=active", s.Facets()[0].Name)
}
