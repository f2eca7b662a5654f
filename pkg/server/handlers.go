package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/search"
	"github.com/matst80/magic-search/pkg/types"
)

var ErrUnknownAction = errors.New("unknown session action")

type transition func(s *search.Session, tr *TransitionRequest, defs *types.FacetDocument) bool

var actions = map[string]transition{
	"facet": func(s *search.Session, tr *TransitionRequest, _ *types.FacetDocument) bool {
		return s.FacetSelected(tr.Index)
	},
	"option": func(s *search.Session, tr *TransitionRequest, _ *types.FacetDocument) bool {
		return s.OptionSelected(tr.Index)
	},
	"input": func(s *search.Session, tr *TransitionRequest, _ *types.FacetDocument) bool {
		s.SetInput(tr.Text)
		return true
	},
	"enter": func(s *search.Session, tr *TransitionRequest, _ *types.FacetDocument) bool {
		if tr.Text != "" {
			s.SetInput(tr.Text)
		}
		return s.EnterCommit()
	},
	"remove": func(s *search.Session, tr *TransitionRequest, _ *types.FacetDocument) bool {
		return s.RemoveFacet(tr.Index)
	},
	"clear": func(s *search.Session, _ *TransitionRequest, _ *types.FacetDocument) bool {
		s.ClearSearch()
		return true
	},
	"escape": func(s *search.Session, _ *TransitionRequest, _ *types.FacetDocument) bool {
		s.Escape()
		return true
	},
	"backspace": func(s *search.Session, _ *TransitionRequest, _ *types.FacetDocument) bool {
		return s.Backspace()
	},
	"complete": func(s *search.Session, _ *TransitionRequest, _ *types.FacetDocument) bool {
		return s.Complete()
	},
	"facets-changed": func(s *search.Session, tr *TransitionRequest, defs *types.FacetDocument) bool {
		s.OnFacetsChanged(types.FacetsChanged{Choices: defs.Facets, Query: tr.Query})
		return true
	},
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrUnknownAction):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func (ws *SearchServer) GetFacets(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ws.Definitions())
}

func (ws *SearchServer) CreateSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	tr, err := GetTransitionFromRequest(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err)
		return err
	}
	query := ""
	if tr.Query != nil {
		query = *tr.Query
	}
	var sink types.EventSink
	if ws.Tracking != nil {
		sink = &types.TrackingSink{SessionId: sessionId, Tracking: ws.Tracking}
	}
	res := ws.Registry.Create(ws.Definitions(), query, sink)
	noCache(w)
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(res)
}

func (ws *SearchServer) GetSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	res, err := ws.Registry.Do(r.PathValue("id"), func(s *search.Session) bool {
		return false
	})
	if err != nil {
		common.WriteError(w, statusFor(err), err)
		return nil
	}
	noCache(w)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func (ws *SearchServer) DeleteSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if err := ws.Registry.Discard(r.PathValue("id")); err != nil {
		common.WriteError(w, statusFor(err), err)
		return nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *SearchServer) Transition(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	action := r.PathValue("action")
	fn, ok := actions[action]
	if !ok {
		common.WriteError(w, http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownAction, action))
		return nil
	}
	tr, err := GetTransitionFromRequest(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err)
		return nil
	}
	defs := ws.Definitions()
	res, err := ws.Registry.Do(r.PathValue("id"), func(s *search.Session) bool {
		return fn(s, tr, defs)
	})
	if err != nil {
		common.WriteError(w, statusFor(err), err)
		return nil
	}
	transitions.WithLabelValues(action).Inc()
	noCache(w)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}
