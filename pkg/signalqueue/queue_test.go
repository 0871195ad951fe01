package signalqueue

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/srs"
	"github.com/lexishift/lexicore/pkg/storage"
)

func queuePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "srs_signal_queue.json")
}

func at(t *testing.T, value string) storage.Timestamp {
	t.Helper()
	parsed, err := time.Parse(storage.TimeLayout, value)
	require.NoError(t, err)
	return storage.At(parsed)
}

func TestLoadMissingFile(t *testing.T) {
	q := Load(queuePath(t))
	assert.Equal(t, QueueVersion, q.Version)
	assert.Empty(t, q.Events)
}

func TestLoadCorruptFile(t *testing.T) {
	path := queuePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))
	q := Load(path)
	assert.Equal(t, QueueVersion, q.Version)
	assert.Empty(t, q.Events)
}

func TestAppendAndLoad(t *testing.T) {
	path := queuePath(t)
	events := []Event{
		{EventType: EventExposure, Pair: "en-ja", Lemma: "猫", TS: at(t, "2026-02-02T12:00:00Z")},
		{EventType: EventFeedback, Pair: "en-ja", Lemma: "猫", Rating: "good", TS: at(t, "2026-02-02T12:05:00Z")},
	}
	require.NoError(t, Append(path, events, 0))

	q := Load(path)
	require.Len(t, q.Events, 2)
	assert.Equal(t, EventExposure, q.Events[0].EventType)
	assert.Equal(t, "good", q.Events[1].Rating)

	// Appends accumulate in order.
	require.NoError(t, Append(path, []Event{{EventType: EventExposure, Pair: "en-de", Lemma: "hund", TS: at(t, "2026-02-03T09:00:00Z")}}, 0))
	q = Load(path)
	require.Len(t, q.Events, 3)
	assert.Equal(t, "hund", q.Events[2].Lemma)
}

func TestAppendRingBound(t *testing.T) {
	path := queuePath(t)
	var events []Event
	for i := 0; i < 5; i++ {
		events = append(events, Event{
			EventType: EventExposure,
			Pair:      "en-ja",
			Lemma:     string(rune('a' + i)),
			TS:        at(t, "2026-02-02T12:00:00Z"),
		})
	}
	require.NoError(t, Append(path, events, 3))

	q := Load(path)
	require.Len(t, q.Events, 3)
	assert.Equal(t, "c", q.Events[0].Lemma)
	assert.Equal(t, "e", q.Events[2].Lemma)
}

func TestLoadSkipsIncompleteEvents(t *testing.T) {
	path := queuePath(t)
	q := Queue{Version: QueueVersion, Events: []Event{
		{EventType: EventExposure, Pair: "", Lemma: "猫"},
		{EventType: EventExposure, Pair: "en-ja", Lemma: ""},
		{EventType: "", Pair: "en-ja", Lemma: "猫"},
	}}
	require.NoError(t, storage.WriteJSON(path, q))

	loaded := Load(path)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, EventUnknown, loaded.Events[0].EventType)
}

func TestSummarize(t *testing.T) {
	path := queuePath(t)
	events := []Event{
		{EventType: EventExposure, Pair: "en-ja", Lemma: "猫", TS: at(t, "2026-02-02T12:00:00Z")},
		{EventType: EventExposure, Pair: "en-ja", Lemma: "犬", TS: at(t, "2026-02-02T13:00:00Z")},
		{EventType: EventFeedback, Pair: "en-ja", Lemma: "猫", Rating: "good", TS: at(t, "2026-02-02T14:00:00Z")},
		{EventType: EventExposure, Pair: "en-de", Lemma: "hund", TS: at(t, "2026-02-01T08:00:00Z")},
	}
	require.NoError(t, Append(path, events, 0))

	all := Summarize(path, "")
	assert.Equal(t, 4, all.EventCount)
	assert.Equal(t, 3, all.EventTypes[EventExposure])
	assert.Equal(t, 1, all.EventTypes[EventFeedback])
	assert.Equal(t, 3, all.UniqueLemmas)
	assert.Equal(t, "2026-02-02T14:00:00Z", all.LastEventAt.Format(storage.TimeLayout))

	ja := Summarize(path, "en-ja")
	assert.Equal(t, 3, ja.EventCount)
	assert.Equal(t, 2, ja.UniqueLemmas)

	empty := Summarize(path, "en-zh")
	assert.Equal(t, 0, empty.EventCount)
	assert.True(t, empty.LastEventAt.IsZero())
}

func TestReplay(t *testing.T) {
	pair := langpair.MustParse("en-ja")
	events := []Event{
		{EventType: EventExposure, Pair: "en-ja", Lemma: "猫", TS: at(t, "2026-02-02T12:00:00Z")},
		{EventType: EventFeedback, Pair: "en-ja", Lemma: "猫", Rating: "good", TS: at(t, "2026-02-02T12:05:00Z")},
		{EventType: EventFeedback, Pair: "en-ja", Lemma: "犬", Rating: "sideways", TS: at(t, "2026-02-02T12:06:00Z")},
		{EventType: EventExposure, Pair: "not a pair", Lemma: "猫", TS: at(t, "2026-02-02T12:07:00Z")},
	}

	store := Replay(srs.NewStore(), events)
	item, ok := store.Find(pair, "猫")
	require.True(t, ok)
	assert.Equal(t, 2, item.Exposures)
	require.Len(t, item.History, 1)
	assert.Equal(t, srs.RatingGood, item.History[0].Rating)
	assert.Equal(t, "2026-02-06T12:05:00Z", item.NextDue.Format(storage.TimeLayout))

	_, ok = store.Find(pair, "犬")
	assert.False(t, ok)
	assert.Len(t, store.Items, 1)
}
