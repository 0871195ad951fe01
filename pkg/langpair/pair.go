package langpair

import (
	"fmt"
	"strings"
)

// Pair is an ordered source→target language pair, e.g. "en-ja" means the
// user reads English text and sees Japanese replacements.
type Pair struct {
	Source string
	Target string
}

// Parse normalizes a pair token like "EN-JA" or "en-ja" into a Pair.
// Comparisons throughout the module are on the lowercase form.
func Parse(s string) (Pair, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid language pair %q", s)
	}
	return Pair{Source: parts[0], Target: parts[1]}, nil
}

// MustParse is Parse for static pair literals; it panics on malformed input.
func MustParse(s string) Pair {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical "source-target" token.
func (p Pair) String() string {
	return p.Source + "-" + p.Target
}

// IsZero reports whether the pair is unset.
func (p Pair) IsZero() bool {
	return p.Source == "" && p.Target == ""
}

// Normalize lowercases and trims a raw pair token without validating it.
// Unknown tokens pass through so that metadata written by newer versions
// survives a round trip.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
