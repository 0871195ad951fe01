package freq

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestStore(t *testing.T, schema string, inserts ...string) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(schema)
	require.NoError(t, err)
	for _, stmt := range inserts {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	store, err := New(db, "", "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func standardStore(t *testing.T) *Store {
	return setupTestStore(t,
		`CREATE TABLE frequency (id INTEGER PRIMARY KEY, lemma TEXT, rank INTEGER, pmw REAL)`,
		`INSERT INTO frequency (lemma, rank, pmw) VALUES
			('alpha', 1, 20),
			('beta',  2, 10),
			('gamma', NULL, 999),
			('delta', NULL, 1)`,
	)
}

func TestIterTopByRankNullsLast(t *testing.T) {
	store := standardStore(t)
	rows, err := store.IterTopByRank(4, "rank", "pmw", nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var lemmas []string
	for _, r := range rows {
		lemmas = append(lemmas, r.Lemma)
	}
	// Non-null ranks ascending first, then null ranks by pmw descending.
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, lemmas)
	assert.Nil(t, rows[2].Rank)
	require.NotNil(t, rows[0].Rank)
	assert.Equal(t, 1.0, *rows[0].Rank)
	require.NotNil(t, rows[2].Value)
	assert.Equal(t, 999.0, *rows[2].Value)
}

func TestIterTopByRankLimit(t *testing.T) {
	store := standardStore(t)
	rows, err := store.IterTopByRank(2, "rank", "pmw", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0].Lemma)

	rows, err = store.IterTopByRank(0, "rank", "pmw", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestIterTopByRankFallbackColumns(t *testing.T) {
	// No rank or pmw column at all: rank falls back to id, value to the
	// first non-key column.
	store := setupTestStore(t,
		`CREATE TABLE frequency (id INTEGER PRIMARY KEY, lemma TEXT, freq REAL)`,
		`INSERT INTO frequency (lemma, freq) VALUES ('one', 5), ('two', 3)`,
	)
	rows, err := store.IterTopByRank(10, "rank", "pmw", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0].RankColumn)
	assert.Equal(t, "freq", rows[0].ValueColumn)
	assert.Equal(t, "one", rows[0].Lemma)
}

func TestIterTopByRankExtraColumns(t *testing.T) {
	store := setupTestStore(t,
		`CREATE TABLE frequency (id INTEGER PRIMARY KEY, lemma TEXT, rank INTEGER, pmw REAL, pos TEXT)`,
		`INSERT INTO frequency (lemma, rank, pmw, pos) VALUES ('run', 1, 40, 'verb'), ('sky', 2, 30, NULL)`,
	)
	rows, err := store.IterTopByRank(10, "rank", "pmw", []string{"pos", "missing"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Extra["pos"])
	assert.Equal(t, "verb", *rows[0].Extra["pos"])
	assert.Nil(t, rows[1].Extra["pos"])
	_, requested := rows[0].Extra["missing"]
	assert.False(t, requested)
}

func TestMaxValue(t *testing.T) {
	store := standardStore(t)
	max := store.MaxValue("pmw")
	require.NotNil(t, max)
	assert.Equal(t, 999.0, *max)
	// Cached result is the same on repeat calls.
	assert.Equal(t, max, store.MaxValue("pmw"))
	assert.Nil(t, store.MaxValue("no_such_column"))
}

func TestGetValue(t *testing.T) {
	store := standardStore(t)
	v := store.GetValue("beta", "pmw")
	require.NotNil(t, v)
	assert.Equal(t, 10.0, *v)
	assert.Nil(t, store.GetValue("zeta", "pmw"))
	assert.Nil(t, store.GetValue("beta", "no_such_column"))
	// Null cells read as absent.
	r := store.GetValue("gamma", "rank")
	assert.Nil(t, r)
}

func TestColumnNames(t *testing.T) {
	store := standardStore(t)
	assert.Equal(t, []string{"id", "lemma", "rank", "pmw"}, store.ColumnNames())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(t.TempDir()+"/nope.sqlite", "", "")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}
