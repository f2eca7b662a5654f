package common

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/types"
)

// JsonHandler answers preflight requests, resolves the tracking session and
// hands fn an encoder writing JSON to the response.
func JsonHandler(trk types.Tracking, fn func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		w.Header().Set("Content-Type", "application/json")

		if err := fn(w, r, sessionId, jsoncompat.NewEncoder(w)); err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("error handling request")
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// WriteError writes a JSON error body with status.
func WriteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := jsoncompat.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		log.Warn().Err(encErr).Msg("failed to write error response")
	}
}
