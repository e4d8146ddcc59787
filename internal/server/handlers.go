package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mgalanis/holdview/internal/datasource"
	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// handleHealth is a minimal liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSourceRefresh re-fetches the holdings table wholesale, bypassing the
// cache. Connectivity failures surface as 502, malformed tables as 422.
func (s *Server) handleSourceRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.loader.Load(r.Context(), true)
	if err != nil {
		var formatErr *holdings.DataFormatError
		switch {
		case errors.As(err, &formatErr):
			s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":           formatErr.Error(),
				"missing_columns": formatErr.MissingColumns,
			})
		case errors.Is(err, datasource.ErrSourceUnavailable):
			s.writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": "holdings source is unreachable, try again later",
			})
		default:
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": err.Error(),
			})
		}
		return
	}

	s.writeJSON(w, http.StatusOK, s.store.Status())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
