package analyzer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// TableProvider is the analyzer's view of the loaded holdings table.
type TableProvider interface {
	Rows() []holdings.Row
}

// Service exposes the analyzer operations over the currently loaded table.
// Every method snapshots the table, filters by client, and runs the pure
// aggregation functions; there is no cached derived state.
type Service struct {
	table            TableProvider
	defaultThreshold float64
	log              zerolog.Logger
}

// NewService creates an analyzer service. defaultThreshold is the at-risk
// performance-gap threshold used when a request does not override it.
func NewService(table TableProvider, defaultThreshold float64, log zerolog.Logger) *Service {
	return &Service{
		table:            table,
		defaultThreshold: defaultThreshold,
		log:              log.With().Str("service", "analyzer").Logger(),
	}
}

// DefaultThreshold returns the configured at-risk threshold.
func (s *Service) DefaultThreshold() float64 {
	return s.defaultThreshold
}

// Clients lists the distinct clients in the loaded table.
func (s *Service) Clients() []holdings.ClientRef {
	return holdings.Clients(s.table.Rows())
}

// Holdings returns the rows for a client; all rows when client is empty.
func (s *Service) Holdings(client string) []holdings.Row {
	return FilterByClient(s.table.Rows(), client)
}

// KPIs computes the KPI summary for a client's rows.
func (s *Service) KPIs(client string) KPISummary {
	return ComputeKPIs(s.Holdings(client))
}

// AtRisk runs at-risk detection over a client's rows. A negative threshold
// selects the configured default.
func (s *Service) AtRisk(client string, threshold float64) []AtRiskHolding {
	if threshold < 0 {
		threshold = s.defaultThreshold
	}
	return DetectAtRisk(s.Holdings(client), threshold)
}

// RequiredGrowth back-solves the annual rate needed to grow the client's
// current market value to targetValue over years.
func (s *Service) RequiredGrowth(client string, targetValue, years float64) (GrowthTarget, error) {
	kpis := s.KPIs(client)

	rate, err := RequiredGrowthRate(kpis.TotalMarketValue, targetValue, years)
	if err != nil {
		return GrowthTarget{}, fmt.Errorf("required growth rate for %q: %w", client, err)
	}

	return GrowthTarget{
		CurrentValue:       kpis.TotalMarketValue,
		TargetValue:        targetValue,
		Years:              years,
		RequiredAnnualRate: rate,
	}, nil
}

// Sectors rolls a client's rows up per sector.
func (s *Service) Sectors(client string) []SectorAggregate {
	return GroupBySector(s.Holdings(client))
}

// TopHoldings returns the client's top products by invested amount.
func (s *Service) TopHoldings(client string, limit int) []ProductAggregate {
	return TopHoldings(s.Holdings(client), limit)
}
