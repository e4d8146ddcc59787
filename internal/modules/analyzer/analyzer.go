// Package analyzer computes the dashboard's aggregate metrics: per-client
// KPIs, target-growth back-solving, at-risk detection, and the sector and
// product rollups that feed the charts. Every function here is a pure,
// synchronous transformation over an in-memory table.
package analyzer

import (
	"errors"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// Input validation errors for target-growth back-solving.
var (
	ErrNonPositiveYears   = errors.New("years must be greater than zero")
	ErrNonPositiveCurrent = errors.New("current value must be greater than zero")
	ErrNonPositiveTarget  = errors.New("target value must be greater than zero")
)

// FilterByClient returns the rows belonging to the given client. The filter
// matches on client ID first and falls back to client name, so the UI can
// pass either. An empty result is a valid outcome, not an error.
func FilterByClient(rows []holdings.Row, client string) []holdings.Row {
	if client == "" {
		return rows
	}

	out := make([]holdings.Row, 0)
	for _, r := range rows {
		if r.ClientID == client || strings.EqualFold(r.ClientName, client) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeKPIs aggregates rows into the headline KPI summary. With zero total
// invested the weighted rates hold the zero sentinel and RatesValid is false;
// the function never divides by zero.
func ComputeKPIs(rows []holdings.Row) KPISummary {
	summary := KPISummary{HoldingCount: len(rows)}

	weights := make([]float64, 0, len(rows))
	expected := make([]float64, 0, len(rows))
	actual := make([]float64, 0, len(rows))

	for _, r := range rows {
		summary.TotalInvested += r.InvestmentAmount
		summary.TotalMarketValue += r.MarketValue

		if r.InvestmentAmount > 0 {
			weights = append(weights, r.InvestmentAmount)
			expected = append(expected, r.ExpectedReturnRate)
			actual = append(actual, r.ActualReturnRate)
		}
	}

	summary.NetGainLoss = summary.TotalMarketValue - summary.TotalInvested

	if len(weights) > 0 && summary.TotalInvested > 0 {
		summary.WeightedExpectedReturn = stat.Mean(expected, weights)
		summary.WeightedActualReturn = stat.Mean(actual, weights)
		summary.RatesValid = true
	}

	return summary
}

// RequiredGrowthRate solves target = current * (1+r)^years for r. years may
// be fractional. Fails when years or current value is not positive; the
// compound-growth relation is undefined there.
func RequiredGrowthRate(currentValue, targetValue, years float64) (float64, error) {
	if years <= 0 {
		return 0, ErrNonPositiveYears
	}
	if currentValue <= 0 {
		return 0, ErrNonPositiveCurrent
	}
	if targetValue <= 0 {
		return 0, ErrNonPositiveTarget
	}

	return math.Pow(targetValue/currentValue, 1.0/years) - 1.0, nil
}

// DetectAtRisk returns the rows whose realized performance falls short of
// their expected return by more than threshold, plus high-risk rows sitting
// on a negative gain regardless of threshold. The result is ordered worst
// gain/loss first, matching the at-risk table in the UI.
//
// Raising the threshold never grows the result set: the threshold rule is
// strictly monotonic and the high-risk rule is threshold-independent.
// Rows with zero invested are skipped; no performance ratio exists for them.
func DetectAtRisk(rows []holdings.Row, threshold float64) []AtRiskHolding {
	out := make([]AtRiskHolding, 0)

	for _, r := range rows {
		if r.InvestmentAmount <= 0 {
			continue
		}

		actualPerf := r.MarketValue/r.InvestmentAmount - 1.0
		gap := r.ExpectedReturnRate - actualPerf

		var reasons []string
		if gap > threshold {
			reasons = append(reasons, ReasonUnderperforming)
		}
		if r.RiskLevel == holdings.RiskHigh && r.GainLoss() < 0 {
			reasons = append(reasons, ReasonHighRiskLoss)
		}
		if len(reasons) == 0 {
			continue
		}

		out = append(out, AtRiskHolding{
			Row:               r,
			ActualPerformance: actualPerf,
			PerformanceGap:    gap,
			Reasons:           reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GainLoss() < out[j].GainLoss()
	})

	return out
}

// GroupBySector rolls rows up per sector, ordered by net gain/loss
// descending for the sector performance chart.
func GroupBySector(rows []holdings.Row) []SectorAggregate {
	bySector := make(map[string]*SectorAggregate)
	order := make([]string, 0)

	for _, r := range rows {
		agg, ok := bySector[r.Sector]
		if !ok {
			agg = &SectorAggregate{Sector: r.Sector}
			bySector[r.Sector] = agg
			order = append(order, r.Sector)
		}
		agg.TotalInvested += r.InvestmentAmount
		agg.TotalMarketValue += r.MarketValue
	}

	out := make([]SectorAggregate, 0, len(order))
	for _, sector := range order {
		agg := bySector[sector]
		agg.NetGainLoss = agg.TotalMarketValue - agg.TotalInvested
		out = append(out, *agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetGainLoss > out[j].NetGainLoss
	})

	return out
}

// TopHoldings aggregates invested amounts per product and returns the top
// limit products by invested amount, for the top holdings pie chart.
func TopHoldings(rows []holdings.Row, limit int) []ProductAggregate {
	byProduct := make(map[string]*ProductAggregate)
	order := make([]string, 0)

	for _, r := range rows {
		agg, ok := byProduct[r.ProductName]
		if !ok {
			agg = &ProductAggregate{ProductName: r.ProductName}
			byProduct[r.ProductName] = agg
			order = append(order, r.ProductName)
		}
		agg.TotalInvested += r.InvestmentAmount
	}

	out := make([]ProductAggregate, 0, len(order))
	for _, product := range order {
		out = append(out, *byProduct[product])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalInvested > out[j].TotalInvested
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
