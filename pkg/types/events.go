package types

type EventKind string

const (
	SearchUpdated EventKind = "search_updated"
	TextSearch    EventKind = "text_search"
	CheckFacets   EventKind = "check_facets"
)

// Event is emitted by a search session when its committed state changes.
// Query is set for SearchUpdated, Text for TextSearch and Facets for
// CheckFacets.
type Event struct {
	Kind   EventKind `json:"kind"`
	Query  string    `json:"query"`
	Text   string    `json:"text"`
	Facets []Facet   `json:"facets,omitempty"`
}

type EventSink interface {
	Emit(event Event)
}

type EventSinkFunc func(event Event)

func (f EventSinkFunc) Emit(event Event) {
	f(event)
}

type MultiSink []EventSink

func (m MultiSink) Emit(event Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(event)
		}
	}
}

// EventRecorder keeps every emitted event in order.
type EventRecorder struct {
	Events []Event
}

func (r *EventRecorder) Emit(event Event) {
	r.Events = append(r.Events, event)
}

func (r *EventRecorder) Reset() []Event {
	ret := r.Events
	r.Events = nil
	return ret
}

func (r *EventRecorder) Last(kind EventKind) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == kind {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// FacetsChanged is the payload of an external facet refresh. A nil Choices
// keeps the current definitions and a nil Query re-derives the search from
// the active facets.
type FacetsChanged struct {
	Choices []FacetChoice `json:"choices,omitempty"`
	Query   *string       `json:"query,omitempty"`
}
