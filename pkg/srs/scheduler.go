package srs

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lexishift/lexicore/pkg/storage"
)

// ratingTransition is one row of the scheduler table.
type ratingTransition struct {
	intervalFactor float64
	next           func(stability, difficulty float64) (float64, float64)
}

// The scheduler is deliberately small and deterministic: per-rating interval
// growth with bounded stability and difficulty, no retention modeling.
var transitions = map[Rating]ratingTransition{
	RatingAgain: {0.5, func(s, d float64) (float64, float64) {
		return math.Max(MinStability, s*0.5), math.Min(MaxDifficulty, d+0.15)
	}},
	RatingHard: {2.0, func(s, d float64) (float64, float64) {
		return s * 1.2, math.Min(MaxDifficulty, d+0.05)
	}},
	RatingGood: {4.0, func(s, d float64) (float64, float64) {
		return s * 1.5, math.Max(MinDifficulty, d-0.05)
	}},
	RatingEasy: {6.0, func(s, d float64) (float64, float64) {
		return s * 1.8, math.Max(MinDifficulty, d-0.1)
	}},
}

// ApplyRating computes the item's next state for a feedback rating: the new
// due time, stability, and difficulty, plus a history entry stamped now.
func ApplyRating(item Item, rating Rating, now time.Time) (Item, error) {
	tr, ok := transitions[rating]
	if !ok {
		return item, fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}

	item = item.normalized()
	intervalDays := math.Max(1, math.Round(item.Stability*tr.intervalFactor))
	item.Stability, item.Difficulty = tr.next(item.Stability, item.Difficulty)

	stamped := storage.At(now)
	item.NextDue = storage.At(now.Add(time.Duration(intervalDays) * 24 * time.Hour))
	item.LastSeen = stamped
	return item.withHistory(HistoryEntry{TS: stamped, Rating: rating}), nil
}

// SelectActiveItems returns the items due at now (or never scheduled),
// optionally restricted to allowedPairs, ordered soonest-due first with
// unscheduled items at the front, capped at maxActive.
func SelectActiveItems(items []Item, now time.Time, maxActive int, allowedPairs map[string]bool) []Item {
	cutoff := storage.At(now)
	var active []Item
	for _, it := range items {
		if allowedPairs != nil && !allowedPairs[it.LanguagePair] {
			continue
		}
		if !it.NextDue.IsZero() && it.NextDue.After(cutoff.Time) {
			continue
		}
		active = append(active, it)
	}

	// Unset due times sort as the minimum.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].NextDue.Before(active[j].NextDue.Time)
	})

	if maxActive < 0 {
		maxActive = 0
	}
	if len(active) > maxActive {
		active = active[:maxActive]
	}
	return active
}
