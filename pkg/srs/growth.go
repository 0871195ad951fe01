package srs

import (
	"math"
	"sort"
	"strings"

	"github.com/lexishift/lexicore/pkg/langpair"
)

// POSBucket is the coarse part-of-speech class used for admission weights.
type POSBucket string

const (
	BucketNoun      POSBucket = "noun"
	BucketAdjective POSBucket = "adjective"
	BucketVerb      POSBucket = "verb"
	BucketAdverb    POSBucket = "adverb"
	BucketOther     POSBucket = "other"
)

// Admission weights per bucket: nouns admit at full weight, function-ish
// words are discounted.
var bucketWeights = map[POSBucket]float64{
	BucketNoun:      1.00,
	BucketAdjective: 0.85,
	BucketVerb:      0.70,
	BucketAdverb:    0.55,
	BucketOther:     0.40,
}

// japaneseHeads maps IPA POS label heads to buckets. Head match, because
// kagome labels carry sub-categories after the head (e.g. "名詞,一般").
var japaneseHeads = []struct {
	head   string
	bucket POSBucket
}{
	{"名詞", BucketNoun},
	{"形容動詞", BucketAdjective},
	{"形容詞", BucketAdjective},
	{"動詞", BucketVerb},
	{"副詞", BucketAdverb},
}

// ClassifyPOS maps a raw POS string to its bucket, language-pair aware:
// Japanese labels match by head, everything else by substring on the
// lowercased string. Substring checks run adjective → adverb → verb → noun
// so "adverb" does not hit the verb rule and "pronoun" resolves as a noun
// rather than nothing.
func ClassifyPOS(pair langpair.Pair, pos string) POSBucket {
	pos = strings.TrimSpace(pos)
	if pos == "" {
		return BucketOther
	}
	if pair.Target == "ja" || pair.Source == "ja" {
		for _, h := range japaneseHeads {
			if strings.HasPrefix(pos, h.head) {
				return h.bucket
			}
		}
	}
	lower := strings.ToLower(pos)
	switch {
	case strings.Contains(lower, "adj"):
		return BucketAdjective
	case strings.Contains(lower, "adv"):
		return BucketAdverb
	case strings.Contains(lower, "verb"):
		return BucketVerb
	case strings.Contains(lower, "noun"):
		return BucketNoun
	}
	return BucketOther
}

// AdmissionWeight modulates a candidate's base weight by its POS bucket.
// Negative inputs clamp to 0 so a bad signal can only suppress, not flip.
func AdmissionWeight(baseWeight float64, bucket POSBucket) float64 {
	return math.Max(0, baseWeight) * math.Max(0, bucketWeights[bucket])
}

// Candidate is a growth-policy input: a scored lemma not yet (necessarily)
// in the store.
type Candidate struct {
	Lemma       string
	Pair        langpair.Pair
	SourceType  string
	POS         string
	BaseWeight  float64
	FinalScore  float64
	WordPackage *WordPackage
}

// PlanGrowth picks which new candidates to admit into the store:
//
//  1. restrict candidates to allowed pairs; growth targets a coverage
//     fraction of that whole pool;
//  2. target := round(coverage · pool size);
//  3. admit := min(target − existing store items, daily cap, number of
//     not-yet-present candidates), floored at 0;
//  4. take the top `admit` not-yet-present candidates by final score,
//     input order breaking ties.
func PlanGrowth(candidates []Candidate, store Store, allowedPairs map[string]bool, settings Settings) []Candidate {
	existing := 0
	for _, it := range store.Items {
		if allowedPairs == nil || allowedPairs[it.LanguagePair] {
			existing++
		}
	}

	poolSize := 0
	var fresh []Candidate
	for _, c := range candidates {
		if allowedPairs != nil && !allowedPairs[c.Pair.String()] {
			continue
		}
		poolSize++
		if _, ok := store.Find(c.Pair, c.Lemma); ok {
			continue
		}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return nil
	}

	coverage := NormalizeCoverageScalar(settings.CoverageScalar)
	targetSize := int(math.Round(coverage * float64(poolSize)))

	addCount := targetSize - existing
	if settings.MaxNewItemsPerDay != nil && addCount > *settings.MaxNewItemsPerDay {
		addCount = *settings.MaxNewItemsPerDay
	}
	if addCount > len(fresh) {
		addCount = len(fresh)
	}
	if addCount <= 0 {
		return nil
	}

	ranked := make([]Candidate, len(fresh))
	copy(ranked, fresh)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	return ranked[:addCount]
}

// AdmitCandidates inserts planned candidates into the store as fresh items.
func AdmitCandidates(store Store, planned []Candidate) Store {
	for _, c := range planned {
		if _, ok := store.Find(c.Pair, c.Lemma); ok {
			continue
		}
		item := NewItem(c.Pair, c.Lemma, c.SourceType)
		item.WordPackage = c.WordPackage
		store = store.Upsert(item)
	}
	return store
}
