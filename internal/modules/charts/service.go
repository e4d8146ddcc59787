// Package charts converts analyzer aggregates into the label/value series the
// dashboard's bar and pie charts consume. Rendering happens in the browser;
// this package only shapes the data.
package charts

import (
	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/analyzer"
)

// DefaultTopHoldingsLimit matches the dashboard's top-5 holdings pie.
const DefaultTopHoldingsLimit = 5

// Series is a chart-ready dataset: parallel labels and values plus a type tag
// telling the frontend which chart to draw.
type Series struct {
	Type   string    `json:"type"` // "bar" or "pie"
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Service builds chart series from analyzer aggregates.
type Service struct {
	analyzer *analyzer.Service
	log      zerolog.Logger
}

// NewService creates a new charts service.
func NewService(analyzerSvc *analyzer.Service, log zerolog.Logger) *Service {
	return &Service{
		analyzer: analyzerSvc,
		log:      log.With().Str("service", "charts").Logger(),
	}
}

// SectorPerformance returns the net gain/loss by sector bar chart for a
// client, sectors ordered best to worst.
func (s *Service) SectorPerformance(client string) Series {
	sectors := s.analyzer.Sectors(client)

	series := Series{
		Type:   "bar",
		Title:  "Net Gain/Loss by Sector",
		Labels: make([]string, 0, len(sectors)),
		Values: make([]float64, 0, len(sectors)),
	}
	for _, agg := range sectors {
		series.Labels = append(series.Labels, agg.Sector)
		series.Values = append(series.Values, agg.NetGainLoss)
	}
	return series
}

// TopHoldings returns the top holdings by invested amount pie chart for a
// client. limit <= 0 selects the default of 5.
func (s *Service) TopHoldings(client string, limit int) Series {
	if limit <= 0 {
		limit = DefaultTopHoldingsLimit
	}
	products := s.analyzer.TopHoldings(client, limit)

	series := Series{
		Type:   "pie",
		Title:  "Top Holdings by Investment Amount",
		Labels: make([]string, 0, len(products)),
		Values: make([]float64, 0, len(products)),
	}
	for _, agg := range products {
		series.Labels = append(series.Labels, agg.ProductName)
		series.Values = append(series.Values, agg.TotalInvested)
	}
	return series
}
