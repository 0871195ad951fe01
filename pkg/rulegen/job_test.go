package rulegen

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/seed"

	_ "github.com/mattn/go-sqlite3"
)

const jobJMdict = `<?xml version="1.0" encoding="UTF-8"?>
<JMdict>
<entry>
<k_ele><keb>黄昏</keb></k_ele>
<r_ele><reb>たそがれ</reb></r_ele>
<sense><gloss>twilight</gloss><gloss>dusk</gloss></sense>
</entry>
<entry>
<k_ele><keb>猫</keb></k_ele>
<r_ele><reb>ねこ</reb></r_ele>
<sense><gloss>cat</gloss></sense>
</entry>
</JMdict>`

func writeJobResources(t *testing.T) Resources {
	t.Helper()
	dir := t.TempDir()

	dictPath := filepath.Join(dir, "jmdict.xml")
	require.NoError(t, os.WriteFile(dictPath, []byte(jobJMdict), 0o644))

	dbPath := filepath.Join(dir, "ja_freq.sqlite")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE frequency (id INTEGER PRIMARY KEY, lemma TEXT, rank INTEGER, pmw REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO frequency (lemma, rank, pmw) VALUES
		('猫', 1, 120),
		('黄昏', 2, 40),
		('unlisted', 3, 10)`)
	require.NoError(t, err)

	return Resources{JMdictPath: dictPath, FrequencyDB: dbPath}
}

func TestRunJobJaEn(t *testing.T) {
	cfg := JobConfig{
		Pair:      langpair.MustParse("en-ja"),
		Mode:      langpair.ModeJaEn,
		Resources: writeJobResources(t),
	}
	result, err := RunJob(context.Background(), cfg)
	require.NoError(t, err)

	// "unlisted" is not in the dictionary, so only two targets survive
	// the whitelist, in frequency-rank order.
	assert.Equal(t, []string{"猫", "黄昏"}, result.Targets)
	assert.Equal(t, 2, result.TargetCount)

	phrases := map[string]string{}
	for _, r := range result.Rules {
		phrases[r.SourcePhrase] = r.Replacement
		assert.Equal(t, "en-ja", r.Metadata.LanguagePair)
		assert.GreaterOrEqual(t, r.Metadata.Confidence, 0.0)
		assert.LessOrEqual(t, r.Metadata.Confidence, 1.0)
	}
	assert.Equal(t, "猫", phrases["cat"])
	assert.Equal(t, "黄昏", phrases["twilight"])
	assert.Equal(t, "黄昏", phrases["dusk"])

	// Snapshot covers both targets with their rules.
	require.Len(t, result.Snapshot.Targets, 2)
	assert.Equal(t, "猫", result.Snapshot.Targets[0].Lemma)
	assert.Equal(t, len(result.Rules), result.Snapshot.RuleCount)
}

func TestRunJobMissingResource(t *testing.T) {
	res := writeJobResources(t)
	res.JMdictPath = filepath.Join(t.TempDir(), "nope.xml")
	_, err := RunJob(context.Background(), JobConfig{
		Pair:      langpair.MustParse("en-ja"),
		Mode:      langpair.ModeJaEn,
		Resources: res,
	})
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestRunJobUnconfiguredResource(t *testing.T) {
	res := writeJobResources(t)
	res.JMdictPath = ""
	_, err := RunJob(context.Background(), JobConfig{
		Pair:      langpair.MustParse("en-ja"),
		Mode:      langpair.ModeJaEn,
		Resources: res,
	})
	assert.ErrorIs(t, err, seed.ErrConfigurationMissing)
}

func TestRunJobUnknownMode(t *testing.T) {
	_, err := RunJob(context.Background(), JobConfig{Mode: "nope"})
	assert.Error(t, err)
}

func TestSnapshotBounds(t *testing.T) {
	cfg := JobConfig{
		Pair:            langpair.MustParse("en-ja"),
		SnapshotTargets: 1,
		SnapshotSources: 1,
	}
	result := &JobResult{
		Targets:     []string{"黄昏", "猫"},
		TargetCount: 2,
		Rules: []VocabRule{
			{SourcePhrase: "twilight", Replacement: "黄昏"},
			{SourcePhrase: "dusk", Replacement: "黄昏"},
			{SourcePhrase: "cat", Replacement: "猫"},
		},
	}
	snap := buildSnapshot(cfg, result)
	require.Len(t, snap.Targets, 1)
	require.Len(t, snap.Targets[0].Rules, 1)
	assert.Equal(t, "黄昏", snap.Targets[0].Lemma)
	assert.Equal(t, 3, snap.RuleCount)
}
