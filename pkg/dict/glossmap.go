// Package dict holds the read-only bilingual dictionary adapters: JMdict XML
// for Japanese↔English and FreeDict TEI for German↔English. Both stream the
// file entry by entry, tolerate a missing file by returning empty, and
// tolerate malformed XML by returning whatever parsed before the error.
package dict

// GlossMap is an insertion-ordered map from a headword to its glosses.
// Gloss order within a bucket is preserved and duplicates are dropped.
type GlossMap struct {
	terms   []string
	glosses map[string][]string
	seen    map[string]map[string]bool
}

// NewGlossMap returns an empty ordered gloss map.
func NewGlossMap() *GlossMap {
	return &GlossMap{
		glosses: make(map[string][]string),
		seen:    make(map[string]map[string]bool),
	}
}

// Add appends gloss under term, keeping first-seen order and skipping
// duplicates within the term's bucket.
func (m *GlossMap) Add(term, gloss string) {
	if term == "" || gloss == "" {
		return
	}
	bucket, ok := m.seen[term]
	if !ok {
		m.terms = append(m.terms, term)
		bucket = make(map[string]bool)
		m.seen[term] = bucket
	}
	if bucket[gloss] {
		return
	}
	bucket[gloss] = true
	m.glosses[term] = append(m.glosses[term], gloss)
}

// Terms returns the headwords in first-seen order.
func (m *GlossMap) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// Glosses returns the glosses recorded for term, in recorded order.
func (m *GlossMap) Glosses(term string) []string {
	return m.glosses[term]
}

// Len returns the number of headwords.
func (m *GlossMap) Len() int {
	return len(m.terms)
}
