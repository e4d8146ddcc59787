package sourcecache

import "time"

// TTL constants. These are added to time.Now() when storing to calculate
// expires_at.
const (
	// TTLSourceTable - fetched spreadsheet exports. Short enough that a
	// morning's edits show up without a manual refresh, long enough to spare
	// the source on every slider move.
	TTLSourceTable = 15 * time.Minute
)

// TableSourceTables is the cache table holding fetched holdings tables,
// keyed by source identity (sheet URL + worksheet, or file path).
const TableSourceTables = "source_tables"
