package rulegen

import (
	"regexp"
	"strings"
)

// Normalizer rewrites a candidate's source phrase into canonical form.
type Normalizer interface {
	Normalize(Candidate) Candidate
}

// TextNormalizer applies the standard cleanup in order: trim outer
// whitespace, strip configured punctuation from the edges, collapse internal
// whitespace runs, lowercase.
type TextNormalizer struct {
	// StripPunctuation lists the characters trimmed from both ends after
	// the whitespace trim. Empty means no punctuation stripping.
	StripPunctuation string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize returns the candidate with its source phrase canonicalized.
func (n TextNormalizer) Normalize(c Candidate) Candidate {
	phrase := strings.TrimSpace(c.SourcePhrase)
	if n.StripPunctuation != "" {
		phrase = strings.Trim(phrase, n.StripPunctuation)
		phrase = strings.TrimSpace(phrase)
	}
	phrase = whitespaceRun.ReplaceAllString(phrase, " ")
	phrase = strings.ToLower(phrase)
	return c.WithSourcePhrase(phrase)
}

// Filter decides whether a candidate survives into scoring.
type Filter interface {
	Keep(Candidate) bool
}

var wordChar = regexp.MustCompile(`[\p{L}\p{N}_]`)

// BasicFilter drops candidates whose trimmed source phrase is shorter than
// MinLength runes or contains no word character at all.
type BasicFilter struct {
	MinLength int
}

// Keep reports whether the candidate passes.
func (f BasicFilter) Keep(c Candidate) bool {
	phrase := strings.TrimSpace(c.SourcePhrase)
	if len([]rune(phrase)) < f.MinLength {
		return false
	}
	return wordChar.MatchString(phrase)
}
