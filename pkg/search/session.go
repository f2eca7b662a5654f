package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/matst80/magic-search/pkg/facet"
	"github.com/matst80/magic-search/pkg/types"
)

type State int

const (
	// Idle means no field is pending, typed text filters the facet menu.
	Idle State = iota
	// FieldSelected means a field was picked and awaits a value.
	FieldSelected
)

func (s State) String() string {
	switch s {
	case FieldSelected:
		return "field_selected"
	default:
		return "idle"
	}
}

// Session holds the state of one search bar. It is not safe for concurrent
// use, hosts serialise the calls.
type Session struct {
	settings types.Settings
	events   types.EventSink
	logger   zerolog.Logger

	facetChoices       []types.FacetChoice
	currentSearch      []types.Facet
	unusedFacetChoices []types.FacetChoice

	facetSelected *types.FacetChoice
	textSearch    *string
	input         string
	prompt        string

	menuChoices []types.FacetChoice
	menuOptions []types.FacetOption
}

func NewSession(settings types.Settings, events types.EventSink) *Session {
	s := &Session{
		settings:           types.DefaultSettings().Merge(settings),
		events:             events,
		logger:             zerolog.Nop(),
		currentSearch:      []types.Facet{},
		unusedFacetChoices: []types.FacetChoice{},
	}
	s.resetState()
	return s
}

func (s *Session) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

func (s *Session) SetEvents(events types.EventSink) {
	s.events = events
}

func (s *Session) emit(event types.Event) {
	if s.events != nil {
		s.events.Emit(event)
	}
}

// InitSearch replaces the facet definitions and builds the search from the
// raw "field=value" terms.
func (s *Session) InitSearch(choices []types.FacetChoice, terms []string) {
	if err := types.ValidateChoices(choices); err != nil {
		s.logger.Warn().Err(err).Msg("facet definitions are inconsistent")
	}
	s.facetChoices = facet.CloneChoices(choices)
	s.InitFacets(terms)
}

// InitFacets rebuilds the active facets and the unused choices from raw
// terms. Terms naming unknown fields or lacking a value are dropped. A text
// term represents the text search, otherwise a committed text search is
// appended last.
func (s *Session) InitFacets(terms []string) {
	parsed := facet.ParseSearchTerms(terms)
	facets := make([]types.Facet, 0, len(parsed)+1)
	hasText := false
	add := func(f types.Facet, singleton bool) {
		for _, existing := range facets {
			if existing.Name == f.Name || (singleton && existing.Field() == f.Field()) {
				return
			}
		}
		facets = append(facets, f)
	}
	for _, term := range parsed {
		if !term.HasValue {
			s.logger.Debug().Str("term", term.Type).Msg("dropping search term without value")
			continue
		}
		matched := false
		for i := range s.facetChoices {
			c := &s.facetChoices[i]
			if c.Name != term.Type {
				continue
			}
			matched = true
			if !c.HasOptions() {
				add(facet.SerializeFacet(term.Type, term.Value, c.Label, term.Value), c.Singleton)
				continue
			}
			for _, o := range c.Options {
				if o.Key == term.Value {
					add(facet.SerializeFacet(term.Type, term.Value, c.Label, o.Label), c.Singleton)
				}
			}
		}
		if matched {
			continue
		}
		if term.Type == types.TextField {
			if !hasText {
				text := term.Value
				s.textSearch = &text
				add(facet.SerializeTextFacet(text, s.settings.Strings.Text), true)
				hasText = true
			}
			continue
		}
		s.logger.Debug().Str("field", term.Type).Msg("dropping search term for unknown field")
	}
	if s.textSearch != nil && !hasText {
		add(facet.SerializeTextFacet(*s.textSearch, s.settings.Strings.Text), true)
	}
	s.currentSearch = facets
	s.unusedFacetChoices = facet.ComputeUnused(s.facetChoices, parsed)
	s.resetState()
	s.emit(types.Event{Kind: types.CheckFacets, Facets: s.Facets()})
}

// FacetSelected picks the field at index of the displayed menu. A field with
// options switches the menu to its options, an open field waits for Enter.
func (s *Session) FacetSelected(index int) bool {
	if s.facetSelected != nil || index < 0 || index >= len(s.menuChoices) {
		return false
	}
	choice := s.menuChoices[index].Clone()
	s.facetSelected = &choice
	s.input = ""
	s.refreshMenu()
	s.updatePrompt()
	return true
}

// OptionSelected completes the pending field with the displayed option at
// index.
func (s *Session) OptionSelected(index int) bool {
	if s.facetSelected == nil || !s.facetSelected.HasOptions() || index < 0 || index >= len(s.menuOptions) {
		return false
	}
	o := s.menuOptions[index]
	s.commit(facet.SerializeFacet(s.facetSelected.Name, o.Key, s.facetSelected.Label, o.Label))
	return true
}

// EnterCommit finalizes the typed text. A pending open field gets it as its
// value, a pending field with options takes the first displayed option, and
// without a pending field the text replaces the text search.
func (s *Session) EnterCommit() bool {
	if s.facetSelected != nil {
		if s.facetSelected.HasOptions() {
			return s.OptionSelected(0)
		}
		if strings.TrimSpace(s.input) == "" {
			return false
		}
		value := s.input
		s.commit(facet.SerializeFacet(s.facetSelected.Name, value, s.facetSelected.Label, value))
		return true
	}
	if strings.TrimSpace(s.input) == "" {
		return false
	}
	text := s.input
	s.currentSearch = slices.DeleteFunc(s.currentSearch, types.Facet.IsText)
	s.currentSearch = append(s.currentSearch, facet.SerializeTextFacet(text, s.settings.Strings.Text))
	s.textSearch = &text
	s.resetState()
	s.emit(types.Event{Kind: types.TextSearch, Text: text})
	return true
}

func (s *Session) commit(f types.Facet) {
	if !slices.ContainsFunc(s.currentSearch, func(existing types.Facet) bool {
		return existing.Name == f.Name
	}) {
		s.currentSearch = append(s.currentSearch, f)
	}
	s.recomputeUnused()
	s.resetState()
	s.emitQuery(nil)
}

// RemoveFacet drops the active facet at index. Removing the text facet
// clears the text search.
func (s *Session) RemoveFacet(index int) bool {
	if index < 0 || index >= len(s.currentSearch) {
		return false
	}
	removed := s.currentSearch[index]
	s.currentSearch = slices.Delete(s.currentSearch, index, index+1)
	if removed.IsText() {
		s.textSearch = nil
	}
	if s.facetSelected == nil {
		s.emitQuery(&removed)
	} else {
		s.resetState()
	}
	s.InitFacets(facet.FacetNames(s.currentSearch))
	return true
}

// ClearSearch drops every facet and the text search.
func (s *Session) ClearSearch() {
	s.currentSearch = []types.Facet{}
	s.textSearch = nil
	s.unusedFacetChoices = facet.ComputeUnused(s.facetChoices, nil)
	s.resetState()
	s.emit(types.Event{Kind: types.SearchUpdated, Query: ""})
	s.emit(types.Event{Kind: types.TextSearch, Text: ""})
}

// Escape aborts a pending selection and clears the input. The committed text
// search is emitted unchanged.
func (s *Session) Escape() {
	s.resetState()
	s.emit(types.Event{Kind: types.TextSearch, Text: s.TextSearch()})
}

// OnFacetsChanged applies an external refresh, for example reloaded option
// lists. Any pending selection is dropped.
func (s *Session) OnFacetsChanged(payload types.FacetsChanged) {
	if payload.Choices != nil {
		s.facetChoices = facet.CloneChoices(payload.Choices)
	}
	if payload.Query != nil {
		s.InitFacets(facet.ParseQueryString(*payload.Query))
		return
	}
	s.InitFacets(facet.FacetNames(s.currentSearch))
}

// SetInput updates the typed text and filters the displayed menu by it.
func (s *Session) SetInput(text string) {
	s.input = text
	s.refreshMenu()
}

// Backspace removes the last typed rune, or cancels the pending field when
// nothing is typed.
func (s *Session) Backspace() bool {
	if s.input != "" {
		_, size := utf8.DecodeLastRuneInString(s.input)
		s.SetInput(s.input[:len(s.input)-size])
		return true
	}
	if s.facetSelected != nil {
		s.resetState()
		return true
	}
	return false
}

// Complete picks the first displayed entry of the menu.
func (s *Session) Complete() bool {
	if s.facetSelected == nil {
		return s.FacetSelected(0)
	}
	if s.facetSelected.HasOptions() {
		return s.OptionSelected(0)
	}
	return false
}

func (s *Session) emitQuery(removed *types.Facet) {
	if removed != nil && removed.IsText() {
		s.emit(types.Event{Kind: types.TextSearch, Text: ""})
		return
	}
	s.emit(types.Event{Kind: types.SearchUpdated, Query: s.Query()})
}

func (s *Session) recomputeUnused() {
	terms := facet.ParseSearchTerms(facet.FacetNames(s.currentSearch))
	s.unusedFacetChoices = facet.ComputeUnused(s.facetChoices, terms)
}

func (s *Session) resetState() {
	s.facetSelected = nil
	s.input = ""
	s.refreshMenu()
	s.updatePrompt()
}

func (s *Session) refreshMenu() {
	limit := s.settings.MenuLimit
	if s.facetSelected != nil {
		s.menuChoices = []types.FacetChoice{}
		if s.facetSelected.HasOptions() {
			s.menuOptions = facet.FilterOptions(s.facetSelected.Options, s.input, limit)
		} else {
			s.menuOptions = nil
		}
		return
	}
	s.menuOptions = nil
	s.menuChoices = facet.FilterChoices(s.unusedFacetChoices, s.input, limit)
}

func (s *Session) updatePrompt() {
	if len(s.currentSearch) == 0 && s.facetSelected == nil {
		s.prompt = s.settings.Strings.Prompt
	} else {
		s.prompt = ""
	}
}
