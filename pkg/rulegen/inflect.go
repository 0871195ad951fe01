package rulegen

import (
	"strings"
	"unicode"
)

// InflectionForm names one surface variant the expander can produce.
type InflectionForm string

const (
	FormPlural     InflectionForm = "plural"
	FormPossessive InflectionForm = "possessive"
)

// Expander maps one candidate to one or more. The input candidate is always
// the first element of the result.
type Expander interface {
	Expand(Candidate) []Candidate
}

// InflectionExpander produces inflected variants of the last word of the
// source phrase. Variants carry metadata variant=inflected so the scorer can
// penalize them. Gate restricts which candidates get expanded; the ja_en
// adapter gates on ASCII-only phrases since the English side is what
// inflects.
type InflectionExpander struct {
	Gate  func(Candidate) bool
	Forms []InflectionForm
}

// Expand returns the candidate followed by its inflected variants.
func (e InflectionExpander) Expand(c Candidate) []Candidate {
	out := []Candidate{c}
	if e.Gate != nil && !e.Gate(c) {
		return out
	}
	for _, variant := range ExpandPhrase(c.SourcePhrase, e.Forms) {
		if variant == c.SourcePhrase {
			continue
		}
		out = append(out, c.WithSourcePhrase(variant).WithMeta(MetaVariant, "inflected"))
	}
	return out
}

// ExpandPhrase inflects the last word of phrase and returns the variants,
// one per requested form, originals excluded. "twilight sky" yields
// "twilight skies" and "twilight sky's".
func ExpandPhrase(phrase string, forms []InflectionForm) []string {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil
	}
	words := strings.Fields(phrase)
	last := words[len(words)-1]
	prefix := strings.Join(words[:len(words)-1], " ")
	join := func(w string) string {
		if prefix == "" {
			return w
		}
		return prefix + " " + w
	}

	var out []string
	for _, form := range forms {
		switch form {
		case FormPlural:
			if p := pluralize(last); p != last {
				out = append(out, join(p))
			}
		case FormPossessive:
			if p := possessive(last); p != last {
				out = append(out, join(p))
			}
		}
	}
	return out
}

// pluralize applies the regular English rules: consonant+y → ies; sibilant
// endings → es; everything else → s. Irregulars are out of scope for a
// light expander.
func pluralize(word string) string {
	lower := strings.ToLower(word)
	if len(lower) >= 2 && strings.HasSuffix(lower, "y") && !isVowel(rune(lower[len(lower)-2])) {
		return word[:len(word)-1] + "ies"
	}
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(lower, suffix) {
			return word + "es"
		}
	}
	return word + "s"
}

func possessive(word string) string {
	if strings.HasSuffix(word, "'s") || strings.HasSuffix(word, "'") {
		return word
	}
	if strings.HasSuffix(strings.ToLower(word), "s") {
		return word + "'"
	}
	return word + "'s"
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// IsASCIIString reports whether every byte of s is ASCII.
func IsASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// IsASCII admits a candidate only when its source phrase is pure ASCII;
// the standard gate for the inflection expander.
func IsASCII(c Candidate) bool {
	return IsASCIIString(c.SourcePhrase)
}
