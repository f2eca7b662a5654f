package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/storage"
	"github.com/matst80/magic-search/pkg/types"
)

const maxDocumentSize = 4 << 20

type WriterApp struct {
	store  types.FacetStorage
	sender FacetsSender
}

func formatFromRequest(r *http.Request) storage.Format {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "yaml") {
		return storage.FormatYAML
	}
	return storage.FormatJSON
}

func (app *WriterApp) getFacets(w http.ResponseWriter, r *http.Request) {
	doc, err := app.store.LoadFacets(r.Context())
	if errors.Is(err, storage.ErrNoFacets) {
		common.WriteError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = jsoncompat.NewEncoder(w).Encode(doc); err != nil {
		log.Warn().Err(err).Msg("error writing facets")
	}
}

func (app *WriterApp) readDocument(r *http.Request) (*types.FacetDocument, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		return nil, err
	}
	return storage.ParseDocument(data, formatFromRequest(r))
}

// validateFacets parses the posted document without storing it.
func (app *WriterApp) validateFacets(w http.ResponseWriter, r *http.Request) {
	doc, err := app.readDocument(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = jsoncompat.NewEncoder(w).Encode(doc); err != nil {
		log.Warn().Err(err).Msg("error writing facets")
	}
}

// putFacets stores the posted document and tells the search services.
func (app *WriterApp) putFacets(w http.ResponseWriter, r *http.Request) {
	doc, err := app.readDocument(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err = app.store.SaveFacets(r.Context(), doc); err != nil {
		common.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	log.Info().Str("role", roleFromContext(r.Context())).Int("facets", len(doc.Facets)).Msg("facet definitions saved")
	if app.sender != nil {
		if err = app.sender.SendFacetsChanged(types.FacetsChanged{Choices: doc.Facets}); err != nil {
			log.Error().Err(err).Msg("failed to publish facets changed")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
