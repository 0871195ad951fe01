package rulegen

import "github.com/lexishift/lexicore/pkg/weighting"

// DefaultVariantPenalty is subtracted from inflected variants so they never
// outrank the base form they came from.
const DefaultVariantPenalty = 0.15

// DefaultEmbeddingWeight is the blend weight given to embedding similarity
// when a provider is configured: score = base·(1−w) + similarity·w.
const DefaultEmbeddingWeight = 0.35

// SignalProvider computes the confidence signals for a candidate and
// combines them. The zero value scores everything 0; adapters populate the
// dictionary priorities and hook in the frequency and embedding providers.
type SignalProvider struct {
	// DictPriorities maps a source dictionary name to its base priority.
	// Unknown dictionaries weigh 0.
	DictPriorities map[string]float64

	// FrequencyBoost returns an already-normalized additive boost for the
	// candidate's target lemma. nil means no boost.
	FrequencyBoost func(Candidate) float64

	// GlossDecay attenuates later glosses of an entry.
	GlossDecay weighting.GlossDecay

	// VariantPenalty is subtracted from expander-produced variants.
	VariantPenalty float64

	// EmbeddingSimilarity, when set, returns a [0,1] similarity between
	// the candidate's source phrase and its target; the result is blended
	// into the score with EmbeddingWeight.
	EmbeddingSimilarity func(Candidate) (float64, bool)
	EmbeddingWeight     float64
}

// Score combines the signals into a confidence in [0,1]:
//
//	base = dict_priority · gloss_decay + frequency_boost − variant_penalty
//
// and, when an embedding similarity is available,
//
//	score = clamp(base·(1−w) + similarity·w)
func (p SignalProvider) Score(c Candidate) float64 {
	priority := p.DictPriorities[c.SourceDict]
	base := priority * p.GlossDecay.Multiplier(c.GlossIndex)
	if p.FrequencyBoost != nil {
		base += p.FrequencyBoost(c)
	}
	if c.Metadata[MetaVariant] != "" {
		base -= p.VariantPenalty
	}
	base = weighting.Clamp(base)

	if p.EmbeddingSimilarity != nil {
		if sim, ok := p.EmbeddingSimilarity(c); ok {
			w := p.EmbeddingWeight
			if w <= 0 {
				w = DefaultEmbeddingWeight
			}
			return weighting.Clamp(base*(1-w) + weighting.Clamp(sim)*w)
		}
	}
	return base
}
