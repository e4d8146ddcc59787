package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analyzer routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/clients", h.HandleGetClients)   // Client selector list
	r.Get("/holdings", h.HandleGetHoldings) // Filtered holdings table

	r.Route("/analyzer", func(r chi.Router) {
		r.Get("/kpis", h.HandleGetKPIs)                      // KPI summary
		r.Get("/at-risk", h.HandleGetAtRisk)                 // At-risk holdings
		r.Get("/required-growth", h.HandleGetRequiredGrowth) // Target growth back-solve
		r.Get("/sectors", h.HandleGetSectors)                // Sector aggregates
	})
}
