package langpair

// RulegenMode identifies the per-pair rule-generation adapter.
type RulegenMode string

const (
	ModeJaEn RulegenMode = "ja_en"
	ModeEnDe RulegenMode = "en_de"
)

// Capability describes what the system can do for one language pair and
// which resources that requires. The registry is a compile-time constant;
// adding a pair means adding a row here.
type Capability struct {
	Pair               Pair
	RulegenMode        RulegenMode // empty when the pair has no rule generation
	DefaultFrequencyDB string      // file name under the frequency pack dir
	RequiresJMdict     bool
	RequiresFreeDict   bool
	RequiresFrequency  bool
}

// SupportsRulegen reports whether the pair has a rule-generation adapter.
func (c Capability) SupportsRulegen() bool {
	return c.RulegenMode != ""
}

var registry = []Capability{
	{Pair: Pair{"en", "ja"}, RulegenMode: ModeJaEn, DefaultFrequencyDB: "ja_freq.sqlite", RequiresJMdict: true, RequiresFrequency: true},
	{Pair: Pair{"ja", "ja"}},
	{Pair: Pair{"en", "en"}},
	{Pair: Pair{"de", "en"}},
	{Pair: Pair{"en", "de"}, RulegenMode: ModeEnDe, DefaultFrequencyDB: "de_freq.sqlite", RequiresFreeDict: true, RequiresFrequency: true},
	{Pair: Pair{"de", "de"}},
	{Pair: Pair{"en", "zh"}},
}

// Lookup returns the capability row for a pair.
func Lookup(p Pair) (Capability, bool) {
	for _, c := range registry {
		if c.Pair == p {
			return c, true
		}
	}
	return Capability{}, false
}

// All returns every registered pair capability in registry order.
func All() []Capability {
	out := make([]Capability, len(registry))
	copy(out, registry)
	return out
}

// RulegenPairs returns the pairs that have a rule-generation adapter.
func RulegenPairs() []Pair {
	var out []Pair
	for _, c := range registry {
		if c.SupportsRulegen() {
			out = append(out, c.Pair)
		}
	}
	return out
}
