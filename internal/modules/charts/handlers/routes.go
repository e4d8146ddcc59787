package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all chart data routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/sector-performance", h.HandleGetSectorPerformance) // Bar chart
		r.Get("/top-holdings", h.HandleGetTopHoldings)             // Pie chart
	})
}
