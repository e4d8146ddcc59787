// Package handlers provides HTTP handlers for the analyzer module.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/analyzer"
)

// Handler handles analyzer HTTP requests.
type Handler struct {
	service *analyzer.Service
	log     zerolog.Logger
}

// NewHandler creates a new analyzer handler.
func NewHandler(service *analyzer.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analyzer").Logger(),
	}
}

// HandleGetClients returns the distinct clients in the loaded table, for the
// client selector.
func (h *Handler) HandleGetClients(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Clients())
}

// HandleGetHoldings returns the holdings rows for a client. An unknown client
// yields an empty list, not an error.
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	h.writeJSON(w, http.StatusOK, h.service.Holdings(client))
}

// HandleGetKPIs returns the KPI summary for a client.
func (h *Handler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	h.writeJSON(w, http.StatusOK, h.service.KPIs(client))
}

// HandleGetAtRisk returns at-risk holdings for a client. The optional
// threshold query param overrides the configured default.
func (h *Handler) HandleGetAtRisk(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")

	threshold := -1.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			h.writeError(w, http.StatusBadRequest, "threshold must be a non-negative number")
			return
		}
		threshold = v
	}

	h.writeJSON(w, http.StatusOK, h.service.AtRisk(client, threshold))
}

// HandleGetRequiredGrowth back-solves the annual growth rate needed to reach
// target over years, from the client's current market value.
func (h *Handler) HandleGetRequiredGrowth(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")

	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "target must be a number")
		return
	}
	years, err := strconv.ParseFloat(r.URL.Query().Get("years"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "years must be a number")
		return
	}

	result, err := h.service.RequiredGrowth(client, target, years)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrNonPositiveYears),
			errors.Is(err, analyzer.ErrNonPositiveTarget):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, analyzer.ErrNonPositiveCurrent):
			// Client has no holdings (or zero market value); the back-solve
			// has no defined answer. Surface as unprocessable, not a crash.
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetSectors returns the per-sector aggregates for a client.
func (h *Handler) HandleGetSectors(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	h.writeJSON(w, http.StatusOK, h.service.Sectors(client))
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
