package gsheet

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mgalanis/holdview/internal/datasource"
	"github.com/mgalanis/holdview/internal/modules/holdings"
	"github.com/mgalanis/holdview/internal/sourcecache"
)

const testCSV = `Client ID,Client Name,Product Name,Sector,Investment Amount,Market Value,Risk Level,Annualized Expected Growth
C001,Acme,Tech Fund,Technology,10000,12000,low,8
C002,Beta,Bond Ladder,Fixed Income,5000,4800,high,3
`

func setupCacheRepo(t *testing.T) *sourcecache.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sourcecache.NewRepository(db)
	require.NoError(t, repo.InitSchema())
	return repo
}

func newTestClient(t *testing.T, serverURL string, repo *sourcecache.Repository) *Client {
	t.Helper()
	c := NewClient("doc123", "0", repo, zerolog.Nop())
	c.baseURL = serverURL
	return c
}

func TestFetchParsesExport(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/spreadsheets/d/doc123/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, setupCacheRepo(t))

	rows, err := client.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].ClientName)
	assert.Equal(t, holdings.RiskHigh, rows[1].RiskLevel)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchServesFromCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, setupCacheRepo(t))

	_, err := client.Fetch(context.Background(), false)
	require.NoError(t, err)

	// Second fetch hits the cache, not the server
	rows, err := client.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// force bypasses the cache
	_, err = client.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchFallsBackToStaleCacheOnError(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, setupCacheRepo(t))

	_, err := client.Fetch(context.Background(), false)
	require.NoError(t, err)

	// Source goes down; a forced fetch falls back to the cached copy
	fail.Store(true)
	rows, err := client.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFetchNoCacheNoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	_, err := client.Fetch(context.Background(), false)
	assert.ErrorIs(t, err, datasource.ErrSourceUnavailable)
}

func TestFetchMalformedTableNotMaskedByCache(t *testing.T) {
	missingColumns := "Client ID,Client Name\nC001,Acme\n"

	var serveBad atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if serveBad.Load() {
			_, _ = w.Write([]byte(missingColumns))
			return
		}
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, setupCacheRepo(t))

	_, err := client.Fetch(context.Background(), false)
	require.NoError(t, err)

	// The sheet loses required columns; the error must surface even though
	// a good cached copy exists.
	serveBad.Store(true)
	_, err = client.Fetch(context.Background(), true)

	var formatErr *holdings.DataFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.MissingColumns, holdings.ColInvestment)
}

func TestExportURLFromSharingURL(t *testing.T) {
	client := NewClient("https://docs.google.com/spreadsheets/d/1bTT7R7hImTF/edit?usp=sharing", "290160618", nil, zerolog.Nop())

	url, err := client.exportURL()
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1bTT7R7hImTF/export?format=csv&gid=290160618", url)
}

func TestExportURLEmptyConfig(t *testing.T) {
	client := NewClient("", "0", nil, zerolog.Nop())
	_, err := client.exportURL()
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	client := NewClient("doc123", "42", nil, zerolog.Nop())
	assert.Equal(t, "gsheet:42", client.Name())
}
