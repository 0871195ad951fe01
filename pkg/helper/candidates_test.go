package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/morph"
	"github.com/lexishift/lexicore/pkg/rulegen"
	"github.com/lexishift/lexicore/pkg/srs"
)

func jaRule(source, replacement string, confidence float64) rulegen.VocabRule {
	return rulegen.VocabRule{
		SourcePhrase: source,
		Replacement:  replacement,
		Metadata:     rulegen.RuleMetadata{LanguagePair: "en-ja", Confidence: confidence},
	}
}

func TestBuildCandidates(t *testing.T) {
	analyzer, err := morph.NewAnalyzer()
	require.NoError(t, err)

	pair := langpair.MustParse("en-ja")
	result := &rulegen.JobResult{
		Targets:     []string{"猫", "黄昏", "ruleless"},
		TargetCount: 3,
		Rules: []rulegen.VocabRule{
			jaRule("cat", "猫", 0.95),
			jaRule("twilight", "黄昏", 0.9),
			jaRule("dusk", "黄昏", 0.8),
		},
	}

	candidates := BuildCandidates(pair, result, analyzer)
	// Targets without rules produce no candidate.
	require.Len(t, candidates, 2)

	cat := candidates[0]
	assert.Equal(t, "猫", cat.Lemma)
	assert.Equal(t, SourceTypeRulegen, cat.SourceType)
	assert.Equal(t, "名詞", cat.POS)
	// Rank 1 of 3 at the noun bucket keeps full base weight.
	assert.InDelta(t, 1.0, cat.BaseWeight, 1e-9)
	assert.Greater(t, cat.FinalScore, candidates[1].FinalScore)

	require.NotNil(t, cat.WordPackage)
	assert.Equal(t, WordPackageProvider, cat.WordPackage.Source.Provider)
	assert.Equal(t, "猫", cat.WordPackage.Surface)
	assert.Equal(t, "ねこ", cat.WordPackage.Reading)
	assert.Equal(t, "ねこ", cat.WordPackage.ScriptForms["reading"])
}

func TestBuildCandidatesNonJapanese(t *testing.T) {
	pair := langpair.MustParse("en-de")
	result := &rulegen.JobResult{
		Targets:     []string{"hund"},
		TargetCount: 1,
		Rules: []rulegen.VocabRule{
			{
				SourcePhrase: "dog",
				Replacement:  "hund",
				Metadata:     rulegen.RuleMetadata{LanguagePair: "en-de", Confidence: 0.85},
			},
		},
	}

	candidates := BuildCandidates(pair, result, nil)
	require.Len(t, candidates, 1)
	assert.Nil(t, candidates[0].WordPackage)
	assert.Empty(t, candidates[0].POS)
}

func TestBuildCandidatesAdmission(t *testing.T) {
	pair := langpair.MustParse("en-ja")
	result := &rulegen.JobResult{
		Targets:     []string{"猫", "黄昏"},
		TargetCount: 2,
		Rules: []rulegen.VocabRule{
			jaRule("cat", "猫", 0.95),
			jaRule("twilight", "黄昏", 0.9),
		},
	}
	candidates := BuildCandidates(pair, result, nil)

	settings := srs.Settings{CoverageScalar: 0.5}
	planned := srs.PlanGrowth(candidates, srs.NewStore(), nil, settings)
	require.Len(t, planned, 1)
	assert.Equal(t, "猫", planned[0].Lemma)

	store := srs.AdmitCandidates(srs.NewStore(), planned)
	item, ok := store.Find(pair, "猫")
	require.True(t, ok)
	assert.Equal(t, SourceTypeRulegen, item.SourceType)
}
