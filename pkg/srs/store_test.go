package srs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/storage"
)

var (
	enJa = langpair.MustParse("en-ja")
	enEn = langpair.MustParse("en-en")
	deEn = langpair.MustParse("de-en")
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(storage.TimeLayout, s)
	require.NoError(t, err)
	return ts
}

func TestRecordExposureCreates(t *testing.T) {
	now := mustTime(t, "2026-02-02T12:00:00Z")
	store := NewStore().RecordExposure(enJa, "黄昏", now, true, "translation")

	item, ok := store.Find(enJa, "黄昏")
	require.True(t, ok)
	assert.Equal(t, "en-ja:黄昏", item.ItemID)
	assert.Equal(t, 1, item.Exposures)
	assert.Equal(t, now, item.LastSeen.Time)
	assert.Equal(t, DefaultStability, item.Stability)
	assert.Equal(t, DefaultDifficulty, item.Difficulty)
}

func TestRecordExposureMonotonic(t *testing.T) {
	now := time.Now()
	store := NewStore()
	for i := 1; i <= 5; i++ {
		store = store.RecordExposure(enJa, "猫", now, true, "")
		item, _ := store.Find(enJa, "猫")
		assert.Equal(t, i, item.Exposures)
	}
}

func TestRecordExposureMissingNoCreate(t *testing.T) {
	store := NewStore()
	after := store.RecordExposure(enJa, "猫", time.Now(), false, "")
	assert.Empty(t, after.Items)
}

func TestRecordExposurePure(t *testing.T) {
	store := NewStore().RecordExposure(enJa, "猫", time.Now(), true, "")
	before, _ := store.Find(enJa, "猫")
	_ = store.RecordExposure(enJa, "猫", time.Now(), true, "")
	after, _ := store.Find(enJa, "猫")
	// The original store value is untouched by the second transformation.
	assert.Equal(t, before.Exposures, after.Exposures)
}

func TestRecordFeedback(t *testing.T) {
	now := mustTime(t, "2026-02-02T12:00:00Z")
	store, err := NewStore().RecordFeedback(enJa, "黄昏", RatingGood, now, FeedbackOptions{
		CreateIfMissing:    true,
		IncrementExposures: true,
	})
	require.NoError(t, err)

	item, ok := store.Find(enJa, "黄昏")
	require.True(t, ok)
	assert.Equal(t, 1, item.Exposures)
	require.Len(t, item.History, 1)
	assert.Equal(t, RatingGood, item.History[0].Rating)
	assert.Equal(t, now.AddDate(0, 0, 4), item.NextDue.Time)
}

func TestRecordFeedbackInvalidRating(t *testing.T) {
	_, err := NewStore().RecordFeedback(enJa, "黄昏", "superb", time.Now(), FeedbackOptions{CreateIfMissing: true})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRecordFeedbackMissingNoCreate(t *testing.T) {
	store, err := NewStore().RecordFeedback(enJa, "黄昏", RatingGood, time.Now(), FeedbackOptions{})
	require.NoError(t, err)
	assert.Empty(t, store.Items)
}

func TestAppendHistoryNoReschedule(t *testing.T) {
	now := time.Now()
	store, err := NewStore().AppendHistory(enJa, "黄昏", RatingHard, now, true, "")
	require.NoError(t, err)
	item, ok := store.Find(enJa, "黄昏")
	require.True(t, ok)
	require.Len(t, item.History, 1)
	assert.True(t, item.NextDue.IsZero())
	assert.Equal(t, DefaultStability, item.Stability)
}

func TestUpsertPreservesOrderAndUniqueness(t *testing.T) {
	store := NewStore()
	store = store.Upsert(NewItem(enJa, "一", ""))
	store = store.Upsert(NewItem(enJa, "二", ""))
	store = store.Upsert(NewItem(enJa, "三", ""))

	updated := NewItem(enJa, "二", "")
	updated.Exposures = 7
	store = store.Upsert(updated)

	require.Len(t, store.Items, 3)
	assert.Equal(t, "en-ja:二", store.Items[1].ItemID)
	assert.Equal(t, 7, store.Items[1].Exposures)

	seen := make(map[string]bool)
	for _, it := range store.Items {
		assert.False(t, seen[it.ItemID], "duplicate item_id %s", it.ItemID)
		seen[it.ItemID] = true
	}
}

func TestStoreRoundTrip(t *testing.T) {
	now := mustTime(t, "2026-02-02T12:00:00Z")
	store := NewStore().RecordExposure(enJa, "黄昏", now, true, "translation")
	store, err := store.RecordFeedback(enJa, "黄昏", RatingEasy, now, FeedbackOptions{})
	require.NoError(t, err)
	item, _ := store.Find(enJa, "黄昏")
	item.WordPackage = &WordPackage{
		Version:     1,
		LanguageTag: "ja",
		Surface:     "黄昏",
		Reading:     "たそがれ",
		ScriptForms: map[string]string{"surface": "黄昏", "reading": "たそがれ"},
		Source:      WordSource{Provider: "kagome-ipa"},
	}
	store = store.Upsert(item)

	path := filepath.Join(t.TempDir(), "srs_store.json")
	require.NoError(t, SaveStore(path, store))
	loaded := LoadStore(path)
	assert.Equal(t, store, loaded)
}

func TestLoadStoreMissingFile(t *testing.T) {
	store := LoadStore(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, StoreVersion, store.Version)
	assert.Empty(t, store.Items)
}

func TestLoadStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srs_store.json")
	require.NoError(t, writeRawFile(path, "{not json"))
	store := LoadStore(path)
	assert.Empty(t, store.Items)
}

func TestLoadStoreLegacyItem(t *testing.T) {
	// A legacy record: no stability, difficulty, or word_package.
	raw := `{"version":1,"items":[{"item_id":"en-ja:猫","lemma":"猫","language_pair":"en-ja","exposures":3,"history":[]}]}`
	path := filepath.Join(t.TempDir(), "srs_store.json")
	require.NoError(t, writeRawFile(path, raw))

	store := LoadStore(path)
	require.Len(t, store.Items, 1)
	item := store.Items[0]
	assert.Nil(t, item.WordPackage)
	assert.Equal(t, 3, item.Exposures)
	// Absent scheduler state loads as the defaults.
	assert.Equal(t, DefaultStability, item.Stability)
	assert.Equal(t, DefaultDifficulty, item.Difficulty)
	assert.True(t, item.LastSeen.IsZero())
}
