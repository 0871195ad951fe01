package dict

import (
	"encoding/xml"
	"io"
	"os"
	"strings"
)

// JMdictOptions controls which entry elements feed the results.
type JMdictOptions struct {
	// Languages accepted for glosses; nil means {"eng", "en"}. JMdict
	// glosses without an xml:lang attribute default to "eng".
	Languages    map[string]bool
	IncludeKana  bool
	IncludeKanji bool
}

// jmdictEntry mirrors the subset of the JMdict <entry> element we read. Each
// entry is decoded on its own and released before the next, so the whole
// file never sits in memory.
type jmdictEntry struct {
	KEle []struct {
		Keb string `xml:"keb"`
	} `xml:"k_ele"`
	REle []struct {
		Reb string `xml:"reb"`
	} `xml:"r_ele"`
	Sense []struct {
		Gloss []struct {
			Lang string `xml:"lang,attr"`
			Text string `xml:",chardata"`
		} `xml:"gloss"`
	} `xml:"sense"`
}

func defaultLanguages(langs map[string]bool) map[string]bool {
	if langs != nil {
		return langs
	}
	return map[string]bool{"eng": true, "en": true}
}

// streamJMdict decodes path entry by entry, invoking visit for each one.
// A missing file yields zero entries; a decode error stops the stream and
// whatever visit accumulated so far stands.
func streamJMdict(path string, visit func(jmdictEntry)) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	// JMdict ships with numeric entities for priority tags; a permissive
	// charset reader keeps odd encodings from aborting the stream early.
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			// resource-malformed: keep what we have.
			return
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}
		var entry jmdictEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			return
		}
		visit(entry)
	}
}

// entryTerms collects the entry's headwords per the include flags, kanji
// spellings first, preserving document order and dropping duplicates.
func entryTerms(e jmdictEntry, includeKana, includeKanji bool) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	if includeKanji {
		for _, k := range e.KEle {
			add(k.Keb)
		}
	}
	if includeKana {
		for _, r := range e.REle {
			add(r.Reb)
		}
	}
	return terms
}

// LoadJMdictGlossesOrdered streams a JMdict XML file into an ordered map of
// Japanese term → glosses in the accepted languages. Gloss order follows
// sense order in the file; duplicates within a term are dropped.
func LoadJMdictGlossesOrdered(path string, opts JMdictOptions) *GlossMap {
	langs := defaultLanguages(opts.Languages)
	out := NewGlossMap()
	streamJMdict(path, func(e jmdictEntry) {
		terms := entryTerms(e, opts.IncludeKana, opts.IncludeKanji)
		if len(terms) == 0 {
			return
		}
		for _, sense := range e.Sense {
			for _, g := range sense.Gloss {
				lang := g.Lang
				if lang == "" {
					lang = "eng"
				}
				if !langs[lang] {
					continue
				}
				gloss := strings.TrimSpace(g.Text)
				if gloss == "" {
					continue
				}
				for _, term := range terms {
					out.Add(term, gloss)
				}
			}
		}
	})
	return out
}

// LoadJMdictLemmas streams a JMdict XML file into the set of Japanese terms,
// for use as a seed whitelist.
func LoadJMdictLemmas(path string, includeKana, includeKanji bool) map[string]bool {
	out := make(map[string]bool)
	streamJMdict(path, func(e jmdictEntry) {
		for _, term := range entryTerms(e, includeKana, includeKanji) {
			out[term] = true
		}
	})
	return out
}
