package datasource

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// Loader fetches the holdings table from a source and swaps it into the
// table store. It runs at startup, on explicit refresh requests, and from
// the optional scheduled refresh job.
type Loader struct {
	source Source
	store  *holdings.TableStore
	log    zerolog.Logger
}

// NewLoader creates a loader for the given source and store.
func NewLoader(source Source, store *holdings.TableStore, log zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		store:  store,
		log:    log.With().Str("component", "loader").Logger(),
	}
}

// Load fetches the table and replaces the store's contents. When force is
// true the source bypasses its cache.
func (l *Loader) Load(ctx context.Context, force bool) error {
	rows, err := l.source.Fetch(ctx, force)
	if err != nil {
		return fmt.Errorf("failed to load holdings table: %w", err)
	}

	l.store.Replace(rows, l.source.Name())
	return nil
}

// Source returns the loader's source name for status reporting.
func (l *Loader) Source() string {
	return l.source.Name()
}
