// Package gsheet fetches holdings tables from the published-CSV export of a
// Google Sheets worksheet. No API credentials are needed; the sheet must be
// link-visible.
package gsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/datasource"
	"github.com/mgalanis/holdview/internal/modules/holdings"
	"github.com/mgalanis/holdview/internal/sourcecache"
)

// editURLPattern extracts the document ID from a sharing/edit URL.
var editURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Client fetches a worksheet's CSV export with cache-first behavior.
// cacheRepo is optional - if nil, caching is disabled.
type Client struct {
	baseURL   string // overridden in tests
	sheetURL  string // sharing/edit URL or bare document ID
	gid       string // worksheet GID
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *sourcecache.Repository
	cacheTTL  time.Duration
}

// NewClient creates a new Google Sheets CSV export client.
func NewClient(sheetURL, gid string, cacheRepo *sourcecache.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   "https://docs.google.com",
		sheetURL:  sheetURL,
		gid:       gid,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log.With().Str("client", "gsheet").Logger(),
		cacheRepo: cacheRepo,
		cacheTTL:  sourcecache.TTLSourceTable,
	}
}

// cacheKey identifies this sheet+worksheet in the source cache.
func (c *Client) cacheKey() string {
	return c.sheetURL + "#" + c.gid
}

// exportURL builds the CSV export URL for the configured worksheet.
func (c *Client) exportURL() (string, error) {
	docID := c.sheetURL
	if m := editURLPattern.FindStringSubmatch(c.sheetURL); m != nil {
		docID = m[1]
	}
	if docID == "" {
		return "", fmt.Errorf("sheet URL or document ID not configured")
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s", c.baseURL, docID, c.gid), nil
}

// Fetch returns the holdings table. Cache-first unless force is set; when the
// export fetch fails, stale cached data is returned if available (stale data
// > no data).
func (c *Client) Fetch(ctx context.Context, force bool) ([]holdings.Row, error) {
	if !force && c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(sourcecache.TableSourceTables, c.cacheKey())
		if err == nil && data != nil {
			var rows []holdings.Row
			if err := json.Unmarshal(data, &rows); err == nil {
				c.log.Debug().Int("rows", len(rows)).Msg("Cache hit")
				return rows, nil
			}
		}
	}

	rows, err := c.fetchExport(ctx)
	if err != nil {
		// A malformed table is a data error, not a connectivity error;
		// serving a stale copy would mask it.
		var formatErr *holdings.DataFormatError
		if errors.As(err, &formatErr) {
			return nil, err
		}

		if staleRows, ok := c.getStaleFromCache(); ok {
			c.log.Warn().
				Err(err).
				Int("rows", len(staleRows)).
				Msg("Export fetch failed, using stale cached table")
			return staleRows, nil
		}
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(sourcecache.TableSourceTables, c.cacheKey(), rows, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache fetched table")
		}
	}

	return rows, nil
}

// fetchExport downloads and parses the CSV export.
func (c *Client) fetchExport(ctx context.Context) ([]holdings.Row, error) {
	url, err := c.exportURL()
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("gid", c.gid).Msg("Fetching sheet export")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build export request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: export request failed: %v", datasource.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: export returned status %d", datasource.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read export body: %v", datasource.ErrSourceUnavailable, err)
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet export CSV: %w", err)
	}

	return holdings.ParseTable(records)
}

// getStaleFromCache tries to retrieve expired cached rows as a fallback.
func (c *Client) getStaleFromCache() ([]holdings.Row, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, _, err := c.cacheRepo.Get(sourcecache.TableSourceTables, c.cacheKey())
	if err != nil || data == nil {
		return nil, false
	}

	var rows []holdings.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// Name identifies the source for logging and status reporting.
func (c *Client) Name() string {
	return "gsheet:" + c.gid
}
