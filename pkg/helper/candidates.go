package helper

import (
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/morph"
	"github.com/lexishift/lexicore/pkg/rulegen"
	"github.com/lexishift/lexicore/pkg/srs"
	"github.com/lexishift/lexicore/pkg/weighting"
)

// WordPackageProvider identifies the analyzer behind generated word
// packages.
const WordPackageProvider = "kagome-ipa"

// SourceTypeRulegen marks items admitted from a generation run.
const SourceTypeRulegen = "rulegen"

// BuildCandidates turns a generation run into growth-policy candidates: one
// per target that produced rules, scored from its frequency position and its
// best rule confidence, with POS-bucketed admission weight and, for Japanese
// targets, a display word package.
func BuildCandidates(pair langpair.Pair, result *rulegen.JobResult, analyzer *morph.Analyzer) []srs.Candidate {
	bestConfidence := make(map[string]float64, result.TargetCount)
	for _, rule := range result.Rules {
		if c := rule.Metadata.Confidence; c > bestConfidence[rule.Replacement] {
			bestConfidence[rule.Replacement] = c
		}
	}

	// Targets arrive in frequency-rank order; rank position stands in for a
	// corpus weight here because the job result does not carry raw pmw.
	maxRank := float64(len(result.Targets))
	var rankWeight weighting.RankWeighting

	var out []srs.Candidate
	for i, lemma := range result.Targets {
		confidence, ok := bestConfidence[lemma]
		if !ok {
			continue
		}

		baseFreq := rankWeight.Normalize(float64(i+1), maxRank)
		var pos string
		if analyzer != nil && pair.Target == "ja" {
			pos = analyzer.PrimaryPOS(lemma)
		}
		bucket := srs.ClassifyPOS(pair, pos)
		baseWeight := srs.AdmissionWeight(baseFreq, bucket)
		final := srs.FinalScore(srs.ScoreComponents{
			BaseFreq:   baseWeight,
			Confidence: confidence,
		}, srs.DefaultScoreWeights(), srs.ScoreFlags{Recency: 1})

		out = append(out, srs.Candidate{
			Lemma:       lemma,
			Pair:        pair,
			SourceType:  SourceTypeRulegen,
			POS:         pos,
			BaseWeight:  baseWeight,
			FinalScore:  final,
			WordPackage: buildWordPackage(pair, lemma, analyzer),
		})
	}
	return out
}

// buildWordPackage assembles display data for a Japanese lemma. Other
// targets return nil; their surface is already renderable.
func buildWordPackage(pair langpair.Pair, lemma string, analyzer *morph.Analyzer) *srs.WordPackage {
	if pair.Target != "ja" || analyzer == nil {
		return nil
	}
	pkg := &srs.WordPackage{
		Version:     1,
		LanguageTag: "ja",
		Surface:     lemma,
		ScriptForms: map[string]string{"surface": lemma},
		Source:      srs.WordSource{Provider: WordPackageProvider},
	}
	if reading := analyzer.Reading(lemma); reading != "" {
		pkg.Reading = reading
		pkg.ScriptForms["reading"] = reading
	}
	return pkg
}
