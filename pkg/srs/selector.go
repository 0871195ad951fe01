package srs

// ScoreComponents are the normalized [0,1] inputs to the selector's weighted
// sum. Missing signals stay 0 and simply contribute nothing.
type ScoreComponents struct {
	BaseFreq         float64
	TopicBias        float64
	UserPref         float64
	Confidence       float64
	DifficultyTarget float64
}

// ScoreWeights are the per-component weights. They are expected to sum to 1
// but the selector does not enforce it.
type ScoreWeights struct {
	BaseFreq         float64
	TopicBias        float64
	UserPref         float64
	Confidence       float64
	DifficultyTarget float64
}

// DefaultScoreWeights is the stock 0.55/0.15/0.10/0.10/0.10 split: corpus
// frequency dominates, the preference signals nudge.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		BaseFreq:         0.55,
		TopicBias:        0.15,
		UserPref:         0.10,
		Confidence:       0.10,
		DifficultyTarget: 0.10,
	}
}

// Penalty multipliers. Multiple applicable penalties compose.
const (
	recencyPenalty        = 0.30
	masteredPenalty       = 0.20
	oversubscribedPenalty = 0.80
	recencyThreshold      = 0.25
)

// ScoreFlags are the penalty inputs. Recency is a [0,1] freshness signal
// where low values mean "seen very recently"; candidates with no recency
// signal should pass 1.
type ScoreFlags struct {
	Recency        float64
	Mastered       bool
	Oversubscribed bool
}

// FinalScore combines the weighted component sum with the multiplicative
// penalties.
func FinalScore(c ScoreComponents, w ScoreWeights, f ScoreFlags) float64 {
	sum := w.BaseFreq*c.BaseFreq +
		w.TopicBias*c.TopicBias +
		w.UserPref*c.UserPref +
		w.Confidence*c.Confidence +
		w.DifficultyTarget*c.DifficultyTarget

	if f.Recency < recencyThreshold {
		sum *= recencyPenalty
	}
	if f.Mastered {
		sum *= masteredPenalty
	}
	if f.Oversubscribed {
		sum *= oversubscribedPenalty
	}
	return sum
}
