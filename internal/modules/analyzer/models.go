package analyzer

import "github.com/mgalanis/holdview/internal/modules/holdings"

// KPISummary aggregates a set of holdings rows into the dashboard's headline
// metrics. Totals are additive across disjoint subsets; the weighted return
// is an invested-weighted average and must be recombined with weights.
type KPISummary struct {
	TotalInvested    float64 `json:"total_invested"`
	TotalMarketValue float64 `json:"total_market_value"`
	NetGainLoss      float64 `json:"net_gain_loss"`

	// WeightedExpectedReturn is the invested-weighted mean of the per-row
	// annual expected return rates. RatesValid is false when total invested
	// is zero, in which case both rates hold the zero sentinel.
	WeightedExpectedReturn float64 `json:"weighted_expected_return"`
	WeightedActualReturn   float64 `json:"weighted_actual_return"`
	RatesValid             bool    `json:"rates_valid"`

	HoldingCount int `json:"holding_count"`
}

// AtRiskHolding is a holdings row flagged by at-risk detection, with the
// realized performance figures that triggered the flag.
type AtRiskHolding struct {
	holdings.Row

	// ActualPerformance is market_value/invested - 1.
	ActualPerformance float64 `json:"actual_performance"`
	// PerformanceGap is expected return minus actual performance; positive
	// means the holding is underperforming its expectation.
	PerformanceGap float64  `json:"performance_gap"`
	Reasons        []string `json:"reasons"`
}

// At-risk reason labels surfaced to the UI.
const (
	ReasonUnderperforming = "underperforming_expectation"
	ReasonHighRiskLoss    = "high_risk_negative_gain"
)

// SectorAggregate is a per-sector rollup for the sector performance chart.
type SectorAggregate struct {
	Sector           string  `json:"sector"`
	TotalInvested    float64 `json:"total_invested"`
	TotalMarketValue float64 `json:"total_market_value"`
	NetGainLoss      float64 `json:"net_gain_loss"`
}

// ProductAggregate is a per-product rollup for the top holdings chart.
type ProductAggregate struct {
	ProductName   string  `json:"product_name"`
	TotalInvested float64 `json:"total_invested"`
}

// GrowthTarget is the target-growth back-solve result.
type GrowthTarget struct {
	CurrentValue       float64 `json:"current_value"`
	TargetValue        float64 `json:"target_value"`
	Years              float64 `json:"years"`
	RequiredAnnualRate float64 `json:"required_annual_rate"`
}
