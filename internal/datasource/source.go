// Package datasource defines the data-access interface for holdings tables
// and the loader that feeds the in-memory table store. Callers depend on the
// Source interface, never on a concrete spreadsheet backend.
package datasource

import (
	"context"
	"errors"

	"github.com/mgalanis/holdview/internal/modules/holdings"
)

// ErrSourceUnavailable wraps connectivity failures against the external
// source. Handlers map it to a gateway error rather than a server fault.
var ErrSourceUnavailable = errors.New("holdings source unavailable")

// Source fetches the holdings table from a backing store.
type Source interface {
	// Fetch returns the full holdings table. When force is true the source
	// must bypass any cache and re-fetch from the external store.
	Fetch(ctx context.Context, force bool) ([]holdings.Row, error)
	// Name identifies the source for logging and status reporting.
	Name() string
}
