package dict

import (
	"encoding/xml"
	"io"
	"os"
	"strings"
)

// teiEntry mirrors the subset of a FreeDict TEI <entry> we read: the
// headword orthography and the translation quotes inside each sense.
type teiEntry struct {
	Form struct {
		Orth []string `xml:"orth"`
	} `xml:"form"`
	Sense []struct {
		Cit []struct {
			Type  string   `xml:"type,attr"`
			Quote []string `xml:"quote"`
		} `xml:"cit"`
	} `xml:"sense"`
}

func streamFreeDict(path string, visit func(teiEntry)) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}
		var entry teiEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			return
		}
		visit(entry)
	}
}

// LoadFreeDictGlossesOrdered streams a FreeDict TEI file into an ordered map
// of headword → translations. Translation order follows sense and citation
// order; duplicates within a headword are dropped. Same tolerance contract
// as the JMdict adapter.
func LoadFreeDictGlossesOrdered(path string) *GlossMap {
	out := NewGlossMap()
	streamFreeDict(path, func(e teiEntry) {
		var terms []string
		for _, orth := range e.Form.Orth {
			orth = strings.TrimSpace(orth)
			if orth != "" {
				terms = append(terms, orth)
			}
		}
		if len(terms) == 0 {
			return
		}
		for _, sense := range e.Sense {
			for _, cit := range sense.Cit {
				// FreeDict marks translations as cit type="trans";
				// untyped citations count too for older files.
				if cit.Type != "" && cit.Type != "trans" {
					continue
				}
				for _, quote := range cit.Quote {
					quote = strings.TrimSpace(quote)
					if quote == "" {
						continue
					}
					for _, term := range terms {
						out.Add(term, quote)
					}
				}
			}
		}
	})
	return out
}

// LoadFreeDictLemmas streams a FreeDict TEI file into the set of headwords.
func LoadFreeDictLemmas(path string) map[string]bool {
	out := make(map[string]bool)
	streamFreeDict(path, func(e teiEntry) {
		for _, orth := range e.Form.Orth {
			orth = strings.TrimSpace(orth)
			if orth != "" {
				out[orth] = true
			}
		}
	})
	return out
}
