package srs

import (
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/rulegen"
)

// GateOptions controls SelectRulesForPractice.
type GateOptions struct {
	// IncludeUnpairedRules admits rules with no language pair when their
	// replacement matches any active lemma.
	IncludeUnpairedRules bool
	// IncludeAllIfEmpty returns every rule when no items are active,
	// which onboarding uses before the first admission.
	IncludeAllIfEmpty bool
}

// SelectRulesForPractice filters rules down to those whose replacement is an
// active SRS item. Input order is preserved.
func SelectRulesForPractice(rules []rulegen.VocabRule, activeItems []Item, opts GateOptions) []rulegen.VocabRule {
	if len(activeItems) == 0 {
		if opts.IncludeAllIfEmpty {
			out := make([]rulegen.VocabRule, len(rules))
			copy(out, rules)
			return out
		}
		return nil
	}

	type pairLemma struct{ pair, lemma string }
	activeByPair := make(map[pairLemma]bool, len(activeItems))
	activeLemmas := make(map[string]bool, len(activeItems))
	for _, it := range activeItems {
		activeByPair[pairLemma{langpair.Normalize(it.LanguagePair), it.Lemma}] = true
		activeLemmas[it.Lemma] = true
	}

	var out []rulegen.VocabRule
	for _, rule := range rules {
		pair := langpair.Normalize(rule.Metadata.LanguagePair)
		if pair != "" {
			if activeByPair[pairLemma{pair, rule.Replacement}] {
				out = append(out, rule)
			}
			continue
		}
		if opts.IncludeUnpairedRules && activeLemmas[rule.Replacement] {
			out = append(out, rule)
		}
	}
	return out
}
