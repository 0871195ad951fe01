package rulegen

import (
	"context"

	"github.com/lexishift/lexicore/pkg/langpair"
)

// MappingSource produces zero or more candidates for a target lemma, e.g.
// one per English gloss of a JMdict entry.
type MappingSource interface {
	Name() string
	Candidates(targetLemma string) []Candidate
}

// GlossSource adapts an ordered gloss map (JMdict or FreeDict) into a
// mapping source: one candidate per gloss, gloss order preserved in
// GlossIndex so the decay schedule applies.
type GlossSource struct {
	DictName string
	Glosses  interface {
		Glosses(term string) []string
	}
}

// Name returns the dictionary name used for priority lookup and rule tags.
func (s GlossSource) Name() string { return s.DictName }

// Candidates returns one candidate per gloss of the target lemma.
func (s GlossSource) Candidates(targetLemma string) []Candidate {
	glosses := s.Glosses.Glosses(targetLemma)
	out := make([]Candidate, 0, len(glosses))
	for i, gloss := range glosses {
		out = append(out, Candidate{
			SourcePhrase: gloss,
			TargetLemma:  targetLemma,
			SourceDict:   s.DictName,
			SourceType:   "translation",
			GlossIndex:   i,
		})
	}
	return out
}

// Pipeline is a per-pair rule generator. Stages run in declaration order;
// see Generate for the flow.
type Pipeline struct {
	Pair        langpair.Pair
	Sources     []MappingSource
	Normalizers []Normalizer
	Expanders   []Expander
	Filters     []Filter
	Signals     SignalProvider

	// ConfidenceThreshold discards candidates scoring below it.
	ConfidenceThreshold float64

	// Tags are attached to every emitted rule, after the source dict name.
	Tags []string
	// Label is copied into rule metadata for UI display.
	Label string
	// ScriptForms, when set, supplies display forms for a target lemma
	// (e.g. hiragana reading from the morphological analyzer).
	ScriptForms func(targetLemma string) map[string]string

	// Workers bounds the per-target parallelism; 0 means 4.
	Workers int
}

// scored pairs a surviving candidate with its confidence.
type scored struct {
	cand  Candidate
	score float64
}

// Generate runs every target through the pipeline and returns the deduped
// rule list. Output order is deterministic: targets in input order, then
// candidate order within a target, regardless of worker scheduling.
func (p *Pipeline) Generate(ctx context.Context, targets []string) []VocabRule {
	workers := p.Workers
	if workers <= 0 {
		workers = 4
	}

	results := make([][]scored, len(targets))
	pool := newWorkerPool(workers, workers*2)
	pool.start(ctx)
	for i, target := range targets {
		i, target := i, target
		if err := pool.submit(ctx, func(context.Context) {
			results[i] = p.processTarget(target)
		}); err != nil {
			break
		}
	}
	pool.close()

	// Dedupe by (source phrase, replacement), keeping the best-scoring
	// candidate at its first-seen position.
	type key struct{ source, target string }
	index := make(map[key]int)
	var kept []scored
	for _, targetResults := range results {
		for _, s := range targetResults {
			k := key{s.cand.SourcePhrase, s.cand.TargetLemma}
			if at, ok := index[k]; ok {
				if s.score > kept[at].score {
					kept[at] = s
				}
				continue
			}
			index[k] = len(kept)
			kept = append(kept, s)
		}
	}

	rules := make([]VocabRule, 0, len(kept))
	for _, s := range kept {
		rules = append(rules, p.emit(s))
	}
	return rules
}

// processTarget runs the stage chain for one target lemma.
func (p *Pipeline) processTarget(target string) []scored {
	var out []scored
	for _, source := range p.Sources {
		for _, cand := range source.Candidates(target) {
			for _, n := range p.Normalizers {
				cand = n.Normalize(cand)
			}

			expanded := []Candidate{cand}
			for _, e := range p.Expanders {
				var next []Candidate
				for _, c := range expanded {
					next = append(next, e.Expand(c)...)
				}
				expanded = next
			}

			for _, c := range expanded {
				if c.SourcePhrase == c.TargetLemma {
					// No-op rules are forbidden.
					continue
				}
				if !p.keep(c) {
					continue
				}
				score := p.Signals.Score(c)
				if score < p.ConfidenceThreshold {
					continue
				}
				out = append(out, scored{cand: c, score: score})
			}
		}
	}
	return out
}

func (p *Pipeline) keep(c Candidate) bool {
	for _, f := range p.Filters {
		if !f.Keep(c) {
			return false
		}
	}
	return true
}

func (p *Pipeline) emit(s scored) VocabRule {
	tags := []string{s.cand.SourceType, s.cand.SourceDict}
	tags = append(tags, p.Tags...)

	meta := RuleMetadata{
		LanguagePair: p.Pair.String(),
		Label:        p.Label,
		Confidence:   s.score,
	}
	if p.ScriptForms != nil {
		meta.ScriptForms = p.ScriptForms(s.cand.TargetLemma)
	}
	return VocabRule{
		SourcePhrase: s.cand.SourcePhrase,
		Replacement:  s.cand.TargetLemma,
		Tags:         tags,
		Metadata:     meta,
	}
}
