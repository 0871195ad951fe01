package srs

import (
	"os"
	"time"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/storage"
)

// StoreVersion is the current on-disk store schema version.
const StoreVersion = 1

// Store is the versioned container of a profile's items, unique by ItemID.
// All operations are pure: they return a new store and leave the receiver
// untouched.
type Store struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// NewStore returns an empty store at the current version.
func NewStore() Store {
	return Store{Version: StoreVersion}
}

// Find returns the item for (pair, lemma) and whether it exists.
func (s Store) Find(pair langpair.Pair, lemma string) (Item, bool) {
	id := ItemID(pair, lemma)
	for _, it := range s.Items {
		if it.ItemID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Upsert replaces the item with the same ItemID in place, or appends it.
// Order of existing items is preserved.
func (s Store) Upsert(item Item) Store {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	for i, it := range items {
		if it.ItemID == item.ItemID {
			items[i] = item
			return Store{Version: s.Version, Items: items}
		}
	}
	return Store{Version: s.Version, Items: append(items, item)}
}

// RecordExposure increments the item's exposure count and stamps last-seen.
// When the item does not exist it is created only if createIfMissing is set;
// otherwise the store comes back unchanged.
func (s Store) RecordExposure(pair langpair.Pair, lemma string, now time.Time, createIfMissing bool, sourceType string) Store {
	item, ok := s.Find(pair, lemma)
	if !ok {
		if !createIfMissing {
			return s
		}
		item = NewItem(pair, lemma, sourceType)
	}
	item = item.normalized()
	item.Exposures++
	item.LastSeen = storage.At(now)
	return s.Upsert(item)
}

// FeedbackOptions tunes RecordFeedback.
type FeedbackOptions struct {
	CreateIfMissing    bool
	SourceType         string
	IncrementExposures bool
}

// RecordFeedback applies the scheduler transition for rating to the item,
// appending a history entry, and optionally counts the review as an
// exposure. An unknown rating fails; a missing item without createIfMissing
// returns the store unchanged.
func (s Store) RecordFeedback(pair langpair.Pair, lemma string, rating Rating, now time.Time, opts FeedbackOptions) (Store, error) {
	if _, err := ParseRating(string(rating)); err != nil {
		return s, err
	}
	item, ok := s.Find(pair, lemma)
	if !ok {
		if !opts.CreateIfMissing {
			return s, nil
		}
		item = NewItem(pair, lemma, opts.SourceType)
	}
	scheduled, err := ApplyRating(item, rating, now)
	if err != nil {
		return s, err
	}
	if opts.IncrementExposures {
		scheduled.Exposures++
	}
	return s.Upsert(scheduled), nil
}

// AppendHistory records a feedback event without rescheduling, the path the
// signal-queue replay uses to reconcile events that already updated a store
// elsewhere.
func (s Store) AppendHistory(pair langpair.Pair, lemma string, rating Rating, now time.Time, createIfMissing bool, sourceType string) (Store, error) {
	if _, err := ParseRating(string(rating)); err != nil {
		return s, err
	}
	item, ok := s.Find(pair, lemma)
	if !ok {
		if !createIfMissing {
			return s, nil
		}
		item = NewItem(pair, lemma, sourceType)
	}
	item = item.normalized().withHistory(HistoryEntry{TS: storage.At(now), Rating: rating})
	return s.Upsert(item), nil
}

// LoadStore reads a profile's store, falling back to an empty store when the
// file is missing or corrupt. Items are normalized on the way in so legacy
// records satisfy the scheduler bounds.
func LoadStore(path string) Store {
	var store Store
	if !storage.ReadJSONOrZero(path, &store) {
		return NewStore()
	}
	if store.Version == 0 {
		store.Version = StoreVersion
	}
	for i := range store.Items {
		store.Items[i] = store.Items[i].normalized()
	}
	return store
}

// SaveStore atomically rewrites a profile's store file.
func SaveStore(path string, store Store) error {
	return storage.WriteJSON(path, store)
}

// ResetStore removes the store file; the explicit reset is the only way
// items are ever deleted.
func ResetStore(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
