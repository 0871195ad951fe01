package rulegen

import (
	"errors"
	"fmt"
	"os"

	"github.com/lexishift/lexicore/pkg/dict"
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/morph"
	"github.com/lexishift/lexicore/pkg/seed"
	"github.com/lexishift/lexicore/pkg/weighting"
)

// ErrMissingResource is the fail-fast error for a required resource that is
// configured but absent on disk. An unconfigured required path surfaces as
// seed.ErrConfigurationMissing instead.
var ErrMissingResource = errors.New("required resource missing")

// Resources names the input files a pair's adapter may need.
type Resources struct {
	JMdictPath   string
	FreeDictPath string
	FrequencyDB  string
}

// AdapterOptions tunes pipeline construction across all pair modes.
type AdapterOptions struct {
	ConfidenceThreshold float64
	Workers             int
	// TopN bounds how many frequency rows seed the run; <=0 uses the
	// default.
	TopN int
	// Morph supplies readings and script forms for Japanese targets; nil
	// skips script forms.
	Morph *morph.Analyzer
}

// Dictionary priorities per adapter. The dictionary a pair is built around
// gets a high base priority; the gloss decay and frequency boost move
// individual candidates around it.
const (
	jmdictPriority   = 0.9
	freedictPriority = 0.85
)

func adapterTopN(opts AdapterOptions) int {
	if opts.TopN > 0 {
		return opts.TopN
	}
	return defaultTopN
}

func requireFile(path, label string) error {
	if path == "" {
		return fmt.Errorf("%w: %s path", seed.ErrConfigurationMissing, label)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s at %s", ErrMissingResource, label, path)
	}
	return nil
}

// buildJaEn assembles the en-ja pipeline: JMdict glosses become English
// source phrases replaced by Japanese lemmas seeded from the frequency DB.
func buildJaEn(res Resources, opts AdapterOptions) (*Pipeline, []string, map[string]float64, error) {
	if err := requireFile(res.JMdictPath, "jmdict"); err != nil {
		return nil, nil, nil, err
	}
	if err := requireFile(res.FrequencyDB, "frequency database"); err != nil {
		return nil, nil, nil, err
	}

	glosses := dict.LoadJMdictGlossesOrdered(res.JMdictPath, dict.JMdictOptions{
		IncludeKana:  true,
		IncludeKanji: true,
	})

	seeds, err := seed.Build(seed.Config{
		FrequencyDB:       res.FrequencyDB,
		TopN:              adapterTopN(opts),
		Weighting:         weighting.PmwWeighting{Mode: weighting.ModeLog1p},
		Pair:              langpair.Pair{Source: "en", Target: "ja"},
		WhitelistPath:     res.JMdictPath,
		WhitelistRequired: true,
		LoadWhitelist: func(string) map[string]bool {
			// The gloss map already parsed the dictionary; reuse its
			// term set instead of streaming the XML a second time.
			set := make(map[string]bool, glosses.Len())
			for _, term := range glosses.Terms() {
				set[term] = true
			}
			return set
		},
	})
	if err != nil {
		return nil, nil, nil, err
	}

	targets, weights := seedTargets(seeds)
	p := &Pipeline{
		Pair:        langpair.Pair{Source: "en", Target: "ja"},
		Sources:     []MappingSource{GlossSource{DictName: "jmdict", Glosses: glosses}},
		Normalizers: []Normalizer{TextNormalizer{StripPunctuation: `.,;:!?"'()`}},
		Expanders: []Expander{InflectionExpander{
			Gate:  IsASCII,
			Forms: []InflectionForm{FormPlural, FormPossessive},
		}},
		Filters: []Filter{BasicFilter{MinLength: 2}},
		Signals: SignalProvider{
			DictPriorities: map[string]float64{"jmdict": jmdictPriority},
			FrequencyBoost: frequencyBoost(weights),
			GlossDecay:     weighting.DefaultGlossDecay(),
			VariantPenalty: DefaultVariantPenalty,
		},
		ConfidenceThreshold: opts.ConfidenceThreshold,
		Label:               "Japanese",
		Workers:             opts.Workers,
	}
	if opts.Morph != nil {
		analyzer := opts.Morph
		p.ScriptForms = func(lemma string) map[string]string {
			forms := map[string]string{"surface": lemma}
			if reading := analyzer.Reading(lemma); reading != "" {
				forms["reading"] = reading
			}
			return forms
		}
	}
	return p, targets, weights, nil
}

// buildEnDe assembles the en-de pipeline from the FreeDict DE→EN file:
// English translations become source phrases replaced by German lemmas.
func buildEnDe(res Resources, opts AdapterOptions) (*Pipeline, []string, map[string]float64, error) {
	if err := requireFile(res.FreeDictPath, "freedict"); err != nil {
		return nil, nil, nil, err
	}
	if err := requireFile(res.FrequencyDB, "frequency database"); err != nil {
		return nil, nil, nil, err
	}

	glosses := dict.LoadFreeDictGlossesOrdered(res.FreeDictPath)

	seeds, err := seed.Build(seed.Config{
		FrequencyDB:       res.FrequencyDB,
		TopN:              adapterTopN(opts),
		Weighting:         weighting.PmwWeighting{Mode: weighting.ModeLog1p},
		Pair:              langpair.Pair{Source: "en", Target: "de"},
		WhitelistPath:     res.FreeDictPath,
		WhitelistRequired: true,
		LoadWhitelist: func(string) map[string]bool {
			set := make(map[string]bool, glosses.Len())
			for _, term := range glosses.Terms() {
				set[term] = true
			}
			return set
		},
	})
	if err != nil {
		return nil, nil, nil, err
	}

	targets, weights := seedTargets(seeds)
	p := &Pipeline{
		Pair:        langpair.Pair{Source: "en", Target: "de"},
		Sources:     []MappingSource{GlossSource{DictName: "freedict", Glosses: glosses}},
		Normalizers: []Normalizer{TextNormalizer{StripPunctuation: `.,;:!?"'()`}},
		Expanders: []Expander{InflectionExpander{
			Gate:  IsASCII,
			Forms: []InflectionForm{FormPlural, FormPossessive},
		}},
		Filters: []Filter{BasicFilter{MinLength: 2}},
		Signals: SignalProvider{
			DictPriorities: map[string]float64{"freedict": freedictPriority},
			FrequencyBoost: frequencyBoost(weights),
			GlossDecay:     weighting.DefaultGlossDecay(),
			VariantPenalty: DefaultVariantPenalty,
		},
		ConfidenceThreshold: opts.ConfidenceThreshold,
		Label:               "German",
		Workers:             opts.Workers,
	}
	return p, targets, weights, nil
}

// seedTargets splits a seed list into the target lemma order and the
// lemma→base-weight map used for frequency boosts.
func seedTargets(seeds []seed.Word) ([]string, map[string]float64) {
	targets := make([]string, 0, len(seeds))
	weights := make(map[string]float64, len(seeds))
	for _, s := range seeds {
		targets = append(targets, s.Lemma)
		weights[s.Lemma] = s.BaseWeight
	}
	return targets, weights
}

// frequencyBoost scales a target's normalized corpus weight into a small
// additive confidence boost. The scale keeps the boost below the span
// between gloss-decay steps so frequency reorders within a tier only.
const frequencyBoostScale = 0.1

func frequencyBoost(weights map[string]float64) func(Candidate) float64 {
	return func(c Candidate) float64 {
		return frequencyBoostScale * weights[c.TargetLemma]
	}
}
