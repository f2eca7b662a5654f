package search

import (
	"slices"

	"github.com/matst80/magic-search/pkg/facet"
	"github.com/matst80/magic-search/pkg/types"
)

func (s *Session) State() State {
	if s.facetSelected != nil {
		return FieldSelected
	}
	return Idle
}

func (s *Session) Settings() types.Settings {
	return s.settings
}

// Facets returns a copy of the active facets in display order.
func (s *Session) Facets() []types.Facet {
	return slices.Clone(s.currentSearch)
}

func (s *Session) FacetChoices() []types.FacetChoice {
	return facet.CloneChoices(s.facetChoices)
}

func (s *Session) UnusedChoices() []types.FacetChoice {
	return facet.CloneChoices(s.unusedFacetChoices)
}

// MenuChoices returns the displayed fields, the ones FacetSelected indexes.
func (s *Session) MenuChoices() []types.FacetChoice {
	return facet.CloneChoices(s.menuChoices)
}

// MenuOptions returns the displayed options of the pending field, the ones
// OptionSelected indexes.
func (s *Session) MenuOptions() []types.FacetOption {
	return slices.Clone(s.menuOptions)
}

func (s *Session) Selected() (types.FacetChoice, bool) {
	if s.facetSelected == nil {
		return types.FacetChoice{}, false
	}
	return s.facetSelected.Clone(), true
}

func (s *Session) TextSearch() string {
	if s.textSearch == nil {
		return ""
	}
	return *s.textSearch
}

func (s *Session) HasTextSearch() bool {
	return s.textSearch != nil
}

func (s *Session) Input() string {
	return s.input
}

func (s *Session) Prompt() string {
	return s.prompt
}

// Query returns the shareable query of the committed facets.
func (s *Session) Query() string {
	return facet.BuildQueryPattern(s.currentSearch)
}

type View struct {
	State      string              `json:"state"`
	Facets     []types.Facet       `json:"facets"`
	Selected   *types.FacetChoice  `json:"selected,omitempty"`
	Choices    []types.FacetChoice `json:"choices"`
	Options    []types.FacetOption `json:"options,omitempty"`
	Unused     []types.FacetChoice `json:"unused"`
	Input      string              `json:"input"`
	Prompt     string              `json:"prompt"`
	TextSearch *string             `json:"textSearch,omitempty"`
	Query      string              `json:"query"`
	Strings    types.Strings       `json:"strings"`
}

// View snapshots the session for rendering. The result shares no memory
// with the session.
func (s *Session) View() View {
	v := View{
		State:   s.State().String(),
		Facets:  s.Facets(),
		Choices: s.MenuChoices(),
		Options: s.MenuOptions(),
		Unused:  s.UnusedChoices(),
		Input:   s.input,
		Prompt:  s.prompt,
		Query:   s.Query(),
		Strings: s.settings.Strings,
	}
	if selected, ok := s.Selected(); ok {
		v.Selected = &selected
	}
	if s.textSearch != nil {
		text := *s.textSearch
		v.TextSearch = &text
	}
	return v
}
