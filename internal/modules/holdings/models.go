// Package holdings defines the holdings table record type and the column
// coercion rules applied at the load boundary.
package holdings

import (
	"fmt"
	"strings"
)

// RiskLevel classifies a holding's risk bucket.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel normalizes a spreadsheet risk label into a RiskLevel.
// Unknown labels default to medium rather than failing the whole load.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "high":
		return RiskHigh
	default:
		return RiskMedium
	}
}

// Row is a single holdings record as loaded from the spreadsheet.
// Rows are immutable once loaded; the table is replaced wholesale on refresh.
type Row struct {
	ClientID           string    `json:"client_id"`
	ClientName         string    `json:"client_name"`
	ProductName        string    `json:"product_name"`
	Sector             string    `json:"sector"`
	InvestmentAmount   float64   `json:"investment_amount"`
	MarketValue        float64   `json:"market_value"`
	ExpectedReturnRate float64   `json:"expected_return_rate"` // annual, fraction (0.07 = 7%)
	ActualReturnRate   float64   `json:"actual_return_rate"`   // annual, fraction; 0 when column absent
	RiskLevel          RiskLevel `json:"risk_level"`
}

// GainLoss returns the unrealized gain (or loss, negative) of the row.
func (r Row) GainLoss() float64 {
	return r.MarketValue - r.InvestmentAmount
}

// Spreadsheet column headers. RequiredColumns must all be present for a load
// to succeed; OptionalColumns are coerced when present.
const (
	ColClientID       = "Client ID"
	ColClientName     = "Client Name"
	ColProductName    = "Product Name"
	ColSector         = "Sector"
	ColInvestment     = "Investment Amount"
	ColMarketValue    = "Market Value"
	ColRiskLevel      = "Risk Level"
	ColExpectedGrowth = "Annualized Expected Growth"
	ColActualGrowth   = "Actual Annual Growth"
)

// RequiredColumns lists the headers a source table must provide.
var RequiredColumns = []string{
	ColClientID,
	ColClientName,
	ColProductName,
	ColSector,
	ColInvestment,
	ColMarketValue,
	ColRiskLevel,
	ColExpectedGrowth,
}

// DataFormatError reports a source table that cannot be loaded because
// required columns are missing. It is surfaced to the UI as a 422, never as
// a crash.
type DataFormatError struct {
	MissingColumns []string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("source table is missing required columns: %s",
		strings.Join(e.MissingColumns, ", "))
}
