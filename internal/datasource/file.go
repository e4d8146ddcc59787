package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// FileSource loads the holdings table from a local CSV file. Used for
// development and for deployments that sync the spreadsheet out-of-band.
type FileSource struct {
	path string
	log  zerolog.Logger
}

// NewFileSource creates a file-backed holdings source.
func NewFileSource(path string, log zerolog.Logger) *FileSource {
	return &FileSource{
		path: path,
		log:  log.With().Str("source", "file").Logger(),
	}
}

// Fetch reads and parses the CSV file. force has no effect; the file is read
// fresh on every call.
func (s *FileSource) Fetch(ctx context.Context, force bool) ([]holdings.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	records, err := decodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	rows, err := holdings.ParseTable(records)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int("rows", len(rows)).Str("path", s.path).Msg("Loaded holdings from file")
	return rows, nil
}

// Name identifies the source for logging and status reporting.
func (s *FileSource) Name() string {
	return "file:" + s.path
}
