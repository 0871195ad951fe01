// Package scan counts rule exposures in read content. It extracts article
// text from HTML, matches active rules' source phrases against it, and
// turns the counts into journal events and store updates.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/morph"
	"github.com/lexishift/lexicore/pkg/rulegen"
	"github.com/lexishift/lexicore/pkg/signalqueue"
	"github.com/lexishift/lexicore/pkg/srs"
	"github.com/lexishift/lexicore/pkg/storage"
)

// SourceTypeScan marks store items and events that came from page scanning.
const SourceTypeScan = "scan"

// Exposure is one rule's occurrence count in a scanned document.
type Exposure struct {
	Pair         string
	Lemma        string
	SourcePhrase string
	Count        int
}

// Scanner matches rule source phrases against extracted text. A nil Morph
// falls back to plain substring matching for non-ASCII phrases.
type Scanner struct {
	Morph *morph.Analyzer
}

// ScanHTML strips ruby annotations, extracts the article text, and scans it.
// pageURL may be nil for local content.
func (s *Scanner) ScanHTML(r io.Reader, pageURL *url.URL, rules []rulegen.VocabRule) ([]Exposure, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	raw = morph.SanitizeRuby(raw)
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	return s.ScanText(article.TextContent, rules), nil
}

// ScanText counts each rule's source phrase in text. ASCII phrases match on
// word boundaries case-insensitively; Japanese phrases match tokenizer base
// forms so inflected surface text still counts, with a substring fallback
// for multi-token phrases.
func (s *Scanner) ScanText(text string, rules []rulegen.VocabRule) []Exposure {
	var baseForms map[string]int
	if s.Morph != nil && containsNonASCII(rules) {
		baseForms = make(map[string]int)
		for _, tok := range s.Morph.Analyze(text) {
			baseForms[tok.BaseForm]++
		}
	}

	var out []Exposure
	for _, rule := range rules {
		phrase := rule.SourcePhrase
		if phrase == "" || rule.Replacement == "" {
			continue
		}
		var count int
		if rulegen.IsASCIIString(phrase) {
			count = countWords(text, phrase)
		} else if baseForms != nil {
			count = baseForms[phrase]
			if count == 0 {
				count = strings.Count(text, phrase)
			}
		} else {
			count = strings.Count(text, phrase)
		}
		if count == 0 {
			continue
		}
		out = append(out, Exposure{
			Pair:         rule.Metadata.LanguagePair,
			Lemma:        rule.Replacement,
			SourcePhrase: phrase,
			Count:        count,
		})
	}
	return out
}

// countWords counts case-insensitive whole-word occurrences of phrase.
func countWords(text, phrase string) int {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

func containsNonASCII(rules []rulegen.VocabRule) bool {
	for _, rule := range rules {
		if !rulegen.IsASCIIString(rule.SourcePhrase) {
			return true
		}
	}
	return false
}

// Events converts exposures into journal events, one per exposure with the
// occurrence count in the metadata.
func Events(exposures []Exposure, now time.Time) []signalqueue.Event {
	events := make([]signalqueue.Event, 0, len(exposures))
	for _, exp := range exposures {
		ev := signalqueue.NewEvent(signalqueue.EventExposure, exp.Pair, exp.Lemma)
		ev.SourceType = SourceTypeScan
		ev.TS = storage.At(now)
		ev.Metadata = map[string]string{
			"source_phrase": exp.SourcePhrase,
			"count":         strconv.Itoa(exp.Count),
		}
		events = append(events, ev)
	}
	return events
}

// Apply folds exposures into the store, one exposure increment per counted
// occurrence. Exposures with an unparseable pair are skipped.
func Apply(store srs.Store, exposures []Exposure, now time.Time) srs.Store {
	for _, exp := range exposures {
		pair, err := langpair.Parse(exp.Pair)
		if err != nil {
			continue
		}
		for i := 0; i < exp.Count; i++ {
			store = store.RecordExposure(pair, exp.Lemma, now, true, SourceTypeScan)
		}
	}
	return store
}
