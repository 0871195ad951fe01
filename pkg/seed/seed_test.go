package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/weighting"

	_ "github.com/mattn/go-sqlite3"
)

// writeFrequencyDB creates an on-disk SQLite file with the standard schema
// and the literal seeding fixture from the scenario tests.
func writeFrequencyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freq.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE frequency (id INTEGER PRIMARY KEY, lemma TEXT, rank INTEGER, pmw REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO frequency (lemma, rank, pmw) VALUES
		('alpha', 1, 20),
		('beta',  2, 10),
		('gamma', NULL, 999),
		('delta', NULL, 1)`)
	require.NoError(t, err)
	return path
}

func TestBuildOrdering(t *testing.T) {
	cfg := Config{
		FrequencyDB: writeFrequencyDB(t),
		TopN:        4,
		Weighting:   weighting.PmwWeighting{Mode: weighting.ModeLog1p},
		Pair:        langpair.MustParse("en-ja"),
	}
	seeds, err := Build(cfg)
	require.NoError(t, err)
	require.Len(t, seeds, 4)

	var lemmas []string
	for _, s := range seeds {
		lemmas = append(lemmas, s.Lemma)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, lemmas)

	// gamma has the corpus-max pmw so it normalizes to 1.
	assert.Equal(t, 1.0, seeds[2].BaseWeight)
	assert.Nil(t, seeds[2].CoreRank)
	require.NotNil(t, seeds[0].CoreRank)
	assert.Equal(t, 1.0, *seeds[0].CoreRank)
	assert.Greater(t, seeds[0].BaseWeight, seeds[1].BaseWeight)
	assert.Equal(t, "freq.sqlite", seeds[0].Metadata["source"])
	assert.Equal(t, "pmw", seeds[0].Metadata["pmw_column"])
}

func TestBuildWhitelist(t *testing.T) {
	cfg := Config{
		FrequencyDB:   writeFrequencyDB(t),
		TopN:          4,
		Weighting:     weighting.PmwWeighting{Mode: weighting.ModeLog1p},
		Pair:          langpair.MustParse("en-ja"),
		WhitelistPath: "whitelist.xml",
		LoadWhitelist: func(string) map[string]bool {
			return map[string]bool{"alpha": true, "gamma": true}
		},
	}
	seeds, err := Build(cfg)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "alpha", seeds[0].Lemma)
	assert.Equal(t, "gamma", seeds[1].Lemma)
}

func TestBuildWhitelistRequiredButMissing(t *testing.T) {
	cfg := Config{
		FrequencyDB:       writeFrequencyDB(t),
		TopN:              4,
		Pair:              langpair.MustParse("en-ja"),
		WhitelistRequired: true,
	}
	_, err := Build(cfg)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestBuildMissingDatabase(t *testing.T) {
	cfg := Config{
		FrequencyDB: filepath.Join(t.TempDir(), "nope.sqlite"),
		TopN:        4,
		Pair:        langpair.MustParse("en-ja"),
	}
	_, err := Build(cfg)
	assert.Error(t, err)
}
