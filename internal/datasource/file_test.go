package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

const testCSV = `Client ID,Client Name,Product Name,Sector,Investment Amount,Market Value,Risk Level,Annualized Expected Growth
C001,Acme,Tech Fund,Technology,"$10,000",12000,low,8
C002,Beta,Bond Ladder,Fixed Income,5000,4800,high,3
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSourceFetch(t *testing.T) {
	source := NewFileSource(writeTempCSV(t, testCSV), zerolog.Nop())

	rows, err := source.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 10000.0, rows[0].InvestmentAmount)
	assert.Equal(t, holdings.RiskHigh, rows[1].RiskLevel)
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource("/no/such/file.csv", zerolog.Nop())

	_, err := source.Fetch(context.Background(), false)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFileSourceMissingColumns(t *testing.T) {
	path := writeTempCSV(t, "Client ID,Client Name\nC001,Acme\n")
	source := NewFileSource(path, zerolog.Nop())

	_, err := source.Fetch(context.Background(), false)

	var formatErr *holdings.DataFormatError
	require.True(t, errors.As(err, &formatErr))
}

func TestFileSourceName(t *testing.T) {
	source := NewFileSource("/data/h.csv", zerolog.Nop())
	assert.Equal(t, "file:/data/h.csv", source.Name())
}
