package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matst80/magic-search/pkg/facet"
	"github.com/matst80/magic-search/pkg/search"
	"github.com/matst80/magic-search/pkg/types"
)

var ErrSessionNotFound = errors.New("search session not found")

// Response is the result of a session transition: the resulting view and
// the events the transition emitted, in order.
type Response struct {
	Id      string        `json:"id"`
	Changed bool          `json:"changed"`
	View    search.View   `json:"view"`
	Events  []types.Event `json:"events"`
}

type entry struct {
	mu       sync.Mutex
	session  *search.Session
	recorder *types.EventRecorder
	lastUsed time.Time
}

// Registry holds the live search sessions of the service. Calls on one
// session are serialised, different sessions run in parallel.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session from the definitions in doc and the query string.
// sink receives every event besides the response.
func (r *Registry) Create(doc *types.FacetDocument, query string, sink types.EventSink) *Response {
	id := uuid.NewString()
	rec := &types.EventRecorder{}
	var events types.EventSink = rec
	if sink != nil {
		events = types.MultiSink{rec, sink}
	}
	session := search.NewSession(doc.Settings, events)
	session.SetLogger(r.logger.With().Str("session", id).Logger())
	session.InitSearch(doc.Facets, facet.ParseQueryString(query))

	e := &entry{session: session, recorder: rec, lastUsed: r.now()}
	r.mu.Lock()
	r.sessions[id] = e
	count := len(r.sessions)
	r.mu.Unlock()

	sessionsCreated.Inc()
	activeSessions.Set(float64(count))
	created := rec.Reset()
	countEvents(created)
	return &Response{Id: id, Changed: true, View: session.View(), Events: created}
}

func (r *Registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	return e, ok
}

// Do runs fn on the session with exclusive access. fn reports whether the
// transition changed anything.
func (r *Registry) Do(id string, fn func(s *search.Session) bool) (*Response, error) {
	e, ok := r.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorder.Reset()
	changed := fn(e.session)
	e.lastUsed = r.now()
	events := e.recorder.Reset()
	countEvents(events)
	return &Response{Id: id, Changed: changed, View: e.session.View(), Events: events}, nil
}

func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	activeSessions.Set(float64(len(r.sessions)))
	return nil
}

// Each calls fn for every session, one at a time.
func (r *Registry) Each(fn func(id string, s *search.Session)) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	entries := make([]*entry, 0, len(r.sessions))
	for id, e := range r.sessions {
		ids = append(ids, id)
		entries = append(entries, e)
	}
	r.mu.RUnlock()
	for i, e := range entries {
		e.mu.Lock()
		fn(ids[i], e.session)
		e.recorder.Reset()
		e.mu.Unlock()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions unused for longer than maxIdle and returns how many
// were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	activeSessions.Set(float64(len(r.sessions)))
	if removed > 0 {
		sweptSessions.Add(float64(removed))
		r.logger.Debug().Int("removed", removed).Msg("swept idle sessions")
	}
	return removed
}
