// Package srs holds the per-user spaced-repetition state: the versioned item
// store, the pure exposure/feedback transformations, the scheduler, and the
// growth and gating policies around it. Every transformation returns a new
// store value; nothing here mutates shared state.
package srs

import (
	"errors"
	"fmt"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/storage"
)

// Rating is a user feedback grade.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ErrInvalidRating is returned for a rating outside the allowed set. Fatal
// at the call site; store transformations never guess.
var ErrInvalidRating = errors.New("invalid rating")

// ParseRating validates a raw rating token.
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return Rating(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// Scheduler state defaults and bounds.
const (
	DefaultStability  = 1.0
	DefaultDifficulty = 0.5
	MinStability      = 0.5
	MinDifficulty     = 0.2
	MaxDifficulty     = 1.0
)

// HistoryEntry is one feedback event; history is append-only.
type HistoryEntry struct {
	TS     storage.Timestamp `json:"ts"`
	Rating Rating            `json:"rating"`
}

// WordPackage carries display data for a learned word so the UI collaborator
// never needs the dictionaries at render time.
type WordPackage struct {
	Version     int               `json:"version"`
	LanguageTag string            `json:"language_tag"`
	Surface     string            `json:"surface"`
	Reading     string            `json:"reading,omitempty"`
	ScriptForms map[string]string `json:"script_forms,omitempty"`
	Source      WordSource        `json:"source"`
}

// WordSource records which provider produced the package.
type WordSource struct {
	Provider string `json:"provider"`
}

// Item is one user's learning state for a (pair, lemma). Items are value
// records; transformations return updated copies.
type Item struct {
	ItemID       string            `json:"item_id"`
	Lemma        string            `json:"lemma"`
	LanguagePair string            `json:"language_pair"`
	SourceType   string            `json:"source_type,omitempty"`
	Exposures    int               `json:"exposures"`
	Stability    float64           `json:"stability"`
	Difficulty   float64           `json:"difficulty"`
	LastSeen     storage.Timestamp `json:"last_seen"`
	NextDue      storage.Timestamp `json:"next_due"`
	History      []HistoryEntry    `json:"history"`
	WordPackage  *WordPackage      `json:"word_package,omitempty"`
}

// ItemID builds the store key for a (pair, lemma).
func ItemID(pair langpair.Pair, lemma string) string {
	return pair.String() + ":" + lemma
}

// NewItem creates an item with scheduler defaults.
func NewItem(pair langpair.Pair, lemma, sourceType string) Item {
	return Item{
		ItemID:       ItemID(pair, lemma),
		Lemma:        lemma,
		LanguagePair: pair.String(),
		SourceType:   sourceType,
		Stability:    DefaultStability,
		Difficulty:   DefaultDifficulty,
	}
}

// normalized returns the item with legacy gaps filled: items persisted
// before stability/difficulty existed load as zero, which is outside both
// valid ranges and means "use the default".
func (it Item) normalized() Item {
	if it.Stability < MinStability {
		it.Stability = DefaultStability
	}
	if it.Difficulty < MinDifficulty {
		it.Difficulty = DefaultDifficulty
	} else if it.Difficulty > MaxDifficulty {
		it.Difficulty = MaxDifficulty
	}
	return it
}

// withHistory returns the item with an entry appended to a fresh history
// slice, so sibling copies never share backing arrays.
func (it Item) withHistory(entry HistoryEntry) Item {
	history := make([]HistoryEntry, len(it.History), len(it.History)+1)
	copy(history, it.History)
	it.History = append(history, entry)
	return it
}
