package sourcecache

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.InitSchema())

	return db
}

type testPayload struct {
	Value string `json:"value"`
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Store(TableSourceTables, "sheet#0", testPayload{Value: "hello"}, time.Hour)
	require.NoError(t, err)

	data, err := repo.GetIfFresh(TableSourceTables, "sheet#0")
	require.NoError(t, err)
	require.NotNil(t, data)

	var payload testPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "hello", payload.Value)
}

func TestGetIfFreshMissingKey(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	data, err := repo.GetIfFresh(TableSourceTables, "nope")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetIfFreshExpired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	// Negative TTL stores an already-expired entry
	require.NoError(t, repo.Store(TableSourceTables, "old", testPayload{Value: "stale"}, -time.Hour))

	data, err := repo.GetIfFresh(TableSourceTables, "old")
	require.NoError(t, err)
	assert.Nil(t, data)

	// Get still returns the stale entry with its fetch time
	data, fetchedAt, err := repo.Get(TableSourceTables, "old")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.False(t, fetchedAt.IsZero())
}

func TestStoreUpserts(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableSourceTables, "k", testPayload{Value: "v1"}, time.Hour))
	require.NoError(t, repo.Store(TableSourceTables, "k", testPayload{Value: "v2"}, time.Hour))

	data, err := repo.GetIfFresh(TableSourceTables, "k")
	require.NoError(t, err)

	var payload testPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "v2", payload.Value)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableSourceTables, "k", testPayload{}, time.Hour))
	require.NoError(t, repo.Delete(TableSourceTables, "k"))

	data, _, err := repo.Get(TableSourceTables, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDeleteExpired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableSourceTables, "fresh", testPayload{}, time.Hour))
	require.NoError(t, repo.Store(TableSourceTables, "stale", testPayload{}, -time.Hour))

	deleted, err := repo.DeleteExpired(TableSourceTables)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	data, err := repo.GetIfFresh(TableSourceTables, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableSourceTables, "stale", testPayload{}, -time.Hour))

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[TableSourceTables])
}

func TestInvalidTableRejected(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Store("holdings; DROP TABLE source_tables", "k", testPayload{}, time.Hour)
	assert.Error(t, err)

	_, err = repo.GetIfFresh("bogus", "k")
	assert.Error(t, err)
}
