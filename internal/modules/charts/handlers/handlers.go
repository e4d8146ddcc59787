// Package handlers provides HTTP handlers for chart data.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/charts"
)

// Handler handles chart data HTTP requests.
type Handler struct {
	service *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new charts handler.
func NewHandler(service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleGetSectorPerformance returns the sector performance bar chart series.
func (h *Handler) HandleGetSectorPerformance(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	h.writeJSON(w, http.StatusOK, h.service.SectorPerformance(client))
}

// HandleGetTopHoldings returns the top holdings pie chart series.
func (h *Handler) HandleGetTopHoldings(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	h.writeJSON(w, http.StatusOK, h.service.TopHoldings(client, limit))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
