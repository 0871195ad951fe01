// Package signalqueue journals exposure and feedback events to an
// append-only, ring-bounded JSON file per profile.
package signalqueue

import (
	"github.com/lexishift/lexicore/pkg/storage"
)

// QueueVersion is the current on-disk queue schema version.
const QueueVersion = 1

// DefaultMaxEvents bounds the journal; Append drops the oldest events past
// the limit.
const DefaultMaxEvents = 5000

// Event types.
const (
	EventExposure = "exposure"
	EventFeedback = "feedback"
	EventUnknown  = "unknown"
)

// Event is one journaled learning signal. Pair and Lemma must be non-empty
// for the event to survive a load.
type Event struct {
	EventType  string            `json:"event_type"`
	Pair       string            `json:"pair"`
	Lemma      string            `json:"lemma"`
	SourceType string            `json:"source_type,omitempty"`
	Rating     string            `json:"rating,omitempty"`
	TS         storage.Timestamp `json:"ts"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Queue is the journal's on-disk shape.
type Queue struct {
	Version int     `json:"version"`
	Events  []Event `json:"events"`
}

// NewEvent stamps an event with the current time. An empty eventType is
// recorded as unknown so malformed producers stay visible in summaries.
func NewEvent(eventType, pair, lemma string) Event {
	if eventType == "" {
		eventType = EventUnknown
	}
	return Event{EventType: eventType, Pair: pair, Lemma: lemma, TS: storage.Now()}
}

// Load reads the queue, dropping events with a missing pair or lemma. A
// missing or corrupt file loads as an empty queue.
func Load(path string) Queue {
	var q Queue
	if !storage.ReadJSONOrZero(path, &q) {
		return Queue{Version: QueueVersion}
	}
	if q.Version == 0 {
		q.Version = QueueVersion
	}
	kept := q.Events[:0]
	for _, ev := range q.Events {
		if ev.Pair == "" || ev.Lemma == "" {
			continue
		}
		if ev.EventType == "" {
			ev.EventType = EventUnknown
		}
		kept = append(kept, ev)
	}
	q.Events = kept
	return q
}

// Append loads the queue, appends events, truncates to the last maxEvents
// entries, and atomically rewrites the file. maxEvents <= 0 uses the
// default bound.
func Append(path string, events []Event, maxEvents int) error {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	q := Load(path)
	q.Events = append(q.Events, events...)
	if len(q.Events) > maxEvents {
		q.Events = q.Events[len(q.Events)-maxEvents:]
	}
	return storage.WriteJSON(path, q)
}

// Summary aggregates a queue for status displays.
type Summary struct {
	EventCount   int               `json:"event_count"`
	EventTypes   map[string]int    `json:"event_types"`
	UniqueLemmas int               `json:"unique_lemmas"`
	LastEventAt  storage.Timestamp `json:"last_event_at"`
}

// Summarize reports counts for the queue at path, optionally restricted to
// one language pair.
func Summarize(path, pair string) Summary {
	q := Load(path)
	summary := Summary{EventTypes: make(map[string]int)}
	lemmas := make(map[string]bool)
	for _, ev := range q.Events {
		if pair != "" && ev.Pair != pair {
			continue
		}
		summary.EventCount++
		summary.EventTypes[ev.EventType]++
		lemmas[ev.Lemma] = true
		if summary.LastEventAt.IsZero() || ev.TS.After(summary.LastEventAt.Time) {
			summary.LastEventAt = ev.TS
		}
	}
	summary.UniqueLemmas = len(lemmas)
	return summary
}
