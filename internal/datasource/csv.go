package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
)

// decodeCSV reads all CSV records from r. Ragged rows are tolerated; the
// column coercion layer handles short records.
func decodeCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}
