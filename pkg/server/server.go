package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/search"
	"github.com/matst80/magic-search/pkg/storage"
	"github.com/matst80/magic-search/pkg/types"
)

// SearchServer hosts search sessions over HTTP. Definitions come from Store
// and are shared by every new session.
type SearchServer struct {
	Registry *Registry
	Store    types.FacetStorage
	Tracking types.Tracking

	logger zerolog.Logger
	mu     sync.RWMutex
	doc    *types.FacetDocument
}

func NewSearchServer(store types.FacetStorage, tracking types.Tracking, logger zerolog.Logger) *SearchServer {
	return &SearchServer{
		Registry: NewRegistry(logger),
		Store:    store,
		Tracking: tracking,
		logger:   logger,
		doc:      &types.FacetDocument{Settings: types.DefaultSettings(), Facets: []types.FacetChoice{}},
	}
}

func (ws *SearchServer) Definitions() *types.FacetDocument {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.doc
}

func (ws *SearchServer) setDefinitions(doc *types.FacetDocument) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.doc = doc
}

// LoadDefinitions reads the definitions from the store. An empty store keeps
// the current definitions.
func (ws *SearchServer) LoadDefinitions(ctx context.Context) error {
	doc, err := ws.Store.LoadFacets(ctx)
	if errors.Is(err, storage.ErrNoFacets) {
		ws.logger.Warn().Msg("no facet definitions stored, keeping current")
		return nil
	}
	if err != nil {
		return err
	}
	ws.setDefinitions(doc)
	ws.logger.Info().Int("facets", len(doc.Facets)).Msg("loaded facet definitions")
	return nil
}

// ApplyFacetsChanged installs changed definitions and refreshes every live
// session. Without choices in the payload the definitions are reloaded from
// the store. The payload query is not applied to sessions, each keeps its own
// search.
func (ws *SearchServer) ApplyFacetsChanged(ctx context.Context, payload types.FacetsChanged) error {
	if payload.Choices == nil {
		if c, ok := ws.Store.(interface{ Invalidate() }); ok {
			c.Invalidate()
		}
		if err := ws.LoadDefinitions(ctx); err != nil {
			return err
		}
	} else {
		current := ws.Definitions()
		ws.setDefinitions(&types.FacetDocument{Settings: current.Settings, Facets: payload.Choices})
	}
	choices := ws.Definitions().Facets
	ws.Registry.Each(func(id string, s *search.Session) {
		s.OnFacetsChanged(types.FacetsChanged{Choices: choices})
	})
	facetReloads.Inc()
	return nil
}

// StartSweeper drops idle sessions every interval until ctx is done.
func (ws *SearchServer) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ws.Registry.Sweep(maxIdle)
			}
		}
	}()
}

func (ws *SearchServer) Handle() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	srv.HandleFunc("GET /api/facets", common.JsonHandler(ws.Tracking, ws.GetFacets))
	srv.HandleFunc("POST /api/session", common.JsonHandler(ws.Tracking, ws.CreateSession))
	srv.HandleFunc("GET /api/session/{id}", common.JsonHandler(ws.Tracking, ws.GetSession))
	srv.HandleFunc("DELETE /api/session/{id}", common.JsonHandler(ws.Tracking, ws.DeleteSession))
	srv.HandleFunc("POST /api/session/{id}/{action}", common.JsonHandler(ws.Tracking, ws.Transition))
	return srv
}
