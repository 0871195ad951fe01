// Package weighting holds the pure functions that map raw frequency and rank
// values onto normalized [0,1] weights. Everything here is deterministic and
// clamped; resource adapters decide what counts as missing before calling in.
package weighting

import "math"

// PmwMode selects the normalization schedule for per-million-word values.
type PmwMode string

const (
	ModeLog1p  PmwMode = "log1p"
	ModeLinear PmwMode = "linear"
)

// Clamp bounds v to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PmwWeighting normalizes per-million-word frequencies against the corpus
// maximum. Values below MinValue are treated as noise and weigh 0.
type PmwWeighting struct {
	Mode     PmwMode
	MinValue float64
}

// Normalize maps v onto [0,1] relative to max. Returns 0 when max is not
// positive or v is below the configured floor.
func (w PmwWeighting) Normalize(v, max float64) float64 {
	if max <= 0 || v < w.MinValue {
		return 0
	}
	switch w.Mode {
	case ModeLinear:
		return Clamp(v / max)
	default:
		return Clamp(math.Log1p(v) / math.Log1p(max))
	}
}

// NormalizeOpt is Normalize for optional inputs; either pointer being nil
// yields 0. Frequency rows expose nullable columns, so this is the form the
// seed builder uses.
func (w PmwWeighting) NormalizeOpt(v, max *float64) float64 {
	if v == nil || max == nil {
		return 0
	}
	return w.Normalize(*v, *max)
}

// RankWeighting maps a 1-based corpus rank onto [0,1], rank 1 weighing 1.
type RankWeighting struct{}

// Normalize returns clamp(1 − (rank−1)/(max−1)), or 0 when max ≤ 1.
func (RankWeighting) Normalize(rank, max float64) float64 {
	if max <= 1 {
		return 0
	}
	return Clamp(1 - (rank-1)/(max-1))
}

// NormalizeOpt is Normalize for optional inputs; nil yields 0.
func (r RankWeighting) NormalizeOpt(rank, max *float64) float64 {
	if rank == nil || max == nil {
		return 0
	}
	return r.Normalize(*rank, *max)
}

// GlossDecay attenuates later glosses of a dictionary entry: the first gloss
// keeps full weight, later ones decay per the schedule, and glosses past the
// schedule's end hold its last value.
type GlossDecay struct {
	Schedule []float64
}

// DefaultGlossDecay is the stock 1.0 / 0.7 / 0.5 schedule.
func DefaultGlossDecay() GlossDecay {
	return GlossDecay{Schedule: []float64{1.0, 0.7, 0.5}}
}

// Multiplier returns the decay factor for the i-th gloss (0-based). Negative
// indexes mean "not a gloss-ordered candidate" and weigh 1.0.
func (g GlossDecay) Multiplier(i int) float64 {
	if i < 0 || len(g.Schedule) == 0 {
		return 1.0
	}
	if i >= len(g.Schedule) {
		i = len(g.Schedule) - 1
	}
	return Clamp(g.Schedule[i])
}
