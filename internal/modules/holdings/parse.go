package holdings

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTable converts a raw header+records table (as read from CSV or a
// spreadsheet export) into typed rows. The first record is the header row.
// Missing required columns produce a *DataFormatError. Individual cells that
// fail numeric coercion zero out rather than failing the load; the original
// dashboard tolerated blank cells the same way.
func ParseTable(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, &DataFormatError{MissingColumns: RequiredColumns}
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, Row{
			ClientID:           cell(rec, index[ColClientID]),
			ClientName:         cell(rec, index[ColClientName]),
			ProductName:        cell(rec, index[ColProductName]),
			Sector:             cell(rec, index[ColSector]),
			InvestmentAmount:   numericCell(rec, index[ColInvestment]),
			MarketValue:        numericCell(rec, index[ColMarketValue]),
			ExpectedReturnRate: rateCell(rec, index[ColExpectedGrowth]),
			ActualReturnRate:   rateCell(rec, optionalIndex(index, ColActualGrowth)),
			RiskLevel:          ParseRiskLevel(cell(rec, index[ColRiskLevel])),
		})
	}

	return rows, nil
}

// headerIndex maps column headers to their positions, validating that all
// required columns exist.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &DataFormatError{MissingColumns: missing}
	}

	return index, nil
}

func optionalIndex(index map[string]int, col string) int {
	if i, ok := index[col]; ok {
		return i
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// numericCell coerces a money cell to float64. Handles currency symbols and
// thousands separators ("$1,234.50" -> 1234.5). Blank or unparseable cells
// coerce to zero.
func numericCell(rec []string, i int) float64 {
	raw := cell(rec, i)
	if raw == "" {
		return 0
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// rateCell coerces a growth-rate cell to an annual fraction. The sheet stores
// percentages ("7.5" or "7.5%" meaning 7.5% per year).
func rateCell(rec []string, i int) float64 {
	if i < 0 {
		return 0
	}
	return numericCell(rec, i) / 100.0
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Clients returns the distinct client IDs and names present in rows, in
// first-seen order. Used by the UI's client selector.
func Clients(rows []Row) []ClientRef {
	seen := make(map[string]bool, len(rows))
	clients := make([]ClientRef, 0)
	for _, r := range rows {
		key := r.ClientID
		if key == "" {
			key = r.ClientName
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		clients = append(clients, ClientRef{ID: r.ClientID, Name: r.ClientName})
	}
	return clients
}

// ClientRef identifies a client for selector lists.
type ClientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// String implements fmt.Stringer for log output.
func (c ClientRef) String() string {
	if c.ID == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}
