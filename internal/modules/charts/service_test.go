package charts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgalanis/holdview/internal/modules/analyzer"
	"github.com/mgalanis/holdview/internal/modules/holdings"
)

type stubTable struct {
	rows []holdings.Row
}

func (s *stubTable) Rows() []holdings.Row { return s.rows }

func newTestCharts(rows []holdings.Row) *Service {
	analyzerSvc := analyzer.NewService(&stubTable{rows: rows}, 0.05, zerolog.Nop())
	return NewService(analyzerSvc, zerolog.Nop())
}

func testRows() []holdings.Row {
	return []holdings.Row{
		{ClientID: "C001", ProductName: "Tech Fund", Sector: "Technology", InvestmentAmount: 10000, MarketValue: 12000},
		{ClientID: "C001", ProductName: "Bond Ladder", Sector: "Fixed Income", InvestmentAmount: 5000, MarketValue: 4500},
		{ClientID: "C001", ProductName: "Energy Fund", Sector: "Energy", InvestmentAmount: 2000, MarketValue: 2100},
	}
}

func TestSectorPerformance(t *testing.T) {
	series := newTestCharts(testRows()).SectorPerformance("C001")

	assert.Equal(t, "bar", series.Type)
	require.Equal(t, len(series.Labels), len(series.Values))
	require.Len(t, series.Labels, 3)

	// Ordered best to worst
	assert.Equal(t, "Technology", series.Labels[0])
	assert.Equal(t, 2000.0, series.Values[0])
	assert.Equal(t, "Fixed Income", series.Labels[2])
	assert.Equal(t, -500.0, series.Values[2])
}

func TestTopHoldings(t *testing.T) {
	series := newTestCharts(testRows()).TopHoldings("C001", 2)

	assert.Equal(t, "pie", series.Type)
	require.Len(t, series.Labels, 2)
	assert.Equal(t, "Tech Fund", series.Labels[0])
	assert.Equal(t, 10000.0, series.Values[0])
}

func TestTopHoldingsDefaultLimit(t *testing.T) {
	rows := make([]holdings.Row, 0, 8)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		rows = append(rows, holdings.Row{ProductName: name, InvestmentAmount: 100})
	}

	series := newTestCharts(rows).TopHoldings("", 0)
	assert.Len(t, series.Labels, DefaultTopHoldingsLimit)
}

func TestChartsEmptyClient(t *testing.T) {
	svc := newTestCharts(testRows())

	series := svc.SectorPerformance("nobody")
	assert.Empty(t, series.Labels)
	assert.Empty(t, series.Values)
}
