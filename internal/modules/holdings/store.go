package holdings

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TableStore holds the currently loaded holdings table. The table is the
// only shared state in the application: it is replaced wholesale on load or
// refresh and read by every request handler.
type TableStore struct {
	mu       sync.RWMutex
	rows     []Row
	loadedAt time.Time
	source   string
	log      zerolog.Logger
}

// NewTableStore creates an empty table store.
func NewTableStore(log zerolog.Logger) *TableStore {
	return &TableStore{
		log: log.With().Str("component", "table_store").Logger(),
	}
}

// Replace swaps in a freshly loaded table. source identifies where the rows
// came from (for the system status endpoint).
func (s *TableStore) Replace(rows []Row, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = rows
	s.loadedAt = time.Now()
	s.source = source

	s.log.Info().
		Int("rows", len(rows)).
		Str("source", source).
		Msg("Holdings table replaced")
}

// Rows returns a copy of the current table. Callers may filter and aggregate
// the copy freely without holding the lock.
func (s *TableStore) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Status describes the loaded table for monitoring.
type Status struct {
	RowCount int       `json:"row_count"`
	LoadedAt time.Time `json:"loaded_at"`
	Source   string    `json:"source"`
	Loaded   bool      `json:"loaded"`
}

// Status returns load metadata for the system status endpoint.
func (s *TableStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		RowCount: len(s.rows),
		LoadedAt: s.loadedAt,
		Source:   s.source,
		Loaded:   !s.loadedAt.IsZero(),
	}
}
