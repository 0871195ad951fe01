// Package rulegen turns seed lemmas into replacement rules. A per-pair
// pipeline runs each target lemma through mapping sources, normalizers,
// expanders, filters, and a scorer, then dedupes and emits VocabRules.
package rulegen

// Candidate is the intermediate record flowing through the pipeline. Stages
// never mutate a candidate in place; they return a replaced copy.
type Candidate struct {
	SourcePhrase string
	TargetLemma  string
	SourceDict   string
	SourceType   string
	GlossIndex   int // position within the dictionary entry's glosses; -1 when not gloss-ordered
	Metadata     map[string]string
}

// MetaVariant marks candidates produced by an expander; the scorer applies
// the variant penalty to them.
const MetaVariant = "variant"

// WithSourcePhrase returns a copy of c with a new source phrase.
func (c Candidate) WithSourcePhrase(phrase string) Candidate {
	c.SourcePhrase = phrase
	return c
}

// WithMeta returns a copy of c whose metadata has key set. The metadata map
// is cloned so siblings stay untouched.
func (c Candidate) WithMeta(key, value string) Candidate {
	meta := make(map[string]string, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[key] = value
	c.Metadata = meta
	return c
}

// RuleMetadata carries the rule's pair, display label, target script forms,
// and the pipeline's confidence in [0,1].
type RuleMetadata struct {
	LanguagePair string            `json:"language_pair,omitempty"`
	Label        string            `json:"label,omitempty"`
	ScriptForms  map[string]string `json:"script_forms,omitempty"`
	Confidence   float64           `json:"confidence"`
}

// VocabRule is a finalized source→replacement mapping. Invariants: the
// source phrase never equals the replacement, and confidence is in [0,1].
type VocabRule struct {
	SourcePhrase string       `json:"source_phrase"`
	Replacement  string       `json:"replacement"`
	Tags         []string     `json:"tags,omitempty"`
	Metadata     RuleMetadata `json:"metadata"`
}
