// Package morph wraps the kagome IPA tokenizer behind the small surface the
// learning core needs: base-form extraction for exposure matching, hiragana
// readings for word packages, and primary part-of-speech labels for the
// admission classifier.
package morph

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is a single analyzed unit of Japanese text.
type Token struct {
	Surface    string // the text as it appears (e.g. "行っ")
	BaseForm   string // the dictionary form (e.g. "行く")
	Reading    string // katakana reading (e.g. "イッ")
	PrimaryPOS string // first IPA POS label (e.g. "動詞")
}

// Analyzer segments Japanese text. Construction loads the IPA dictionary
// once; the tokenizer itself is safe for repeated use.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a tokenizer backed by the bundled IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with base forms and readings. Whitespace
// tokens are dropped.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, tok := range a.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(tok.Surface) == "" {
			continue
		}

		// IPA feature layout: 0 POS, 6 base form, 7 reading.
		features := tok.Features()
		base := tok.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:    tok.Surface,
			BaseForm:   base,
			Reading:    reading,
			PrimaryPOS: primaryPOS,
		})
	}
	return result
}

// Reading returns the hiragana reading of a lemma, empty when the tokenizer
// has none. Multi-token lemmas concatenate their readings.
func (a *Analyzer) Reading(lemma string) string {
	var b strings.Builder
	for _, tok := range a.Analyze(lemma) {
		b.WriteString(ToHiragana(tok.Reading))
	}
	return b.String()
}

// PrimaryPOS returns the IPA POS label of a lemma's first token, empty when
// the lemma does not tokenize.
func (a *Analyzer) PrimaryPOS(lemma string) string {
	tokens := a.Analyze(lemma)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].PrimaryPOS
}

// ToHiragana converts katakana runes to hiragana, leaving everything else
// untouched.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
