// Package seed turns a frequency database, optionally intersected with a
// dictionary's lemma set, into the ranked SeedWord list the rule pipeline
// and growth policy consume.
package seed

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lexishift/lexicore/pkg/freq"
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/weighting"
)

// ErrConfigurationMissing is returned when a required resource path was not
// supplied (e.g. a whitelist dictionary the pair mandates).
var ErrConfigurationMissing = errors.New("required configuration missing")

// Word is one seed lemma with its corpus statistics and normalized weight.
type Word struct {
	Lemma      string
	Pair       langpair.Pair
	CoreRank   *float64
	PMW        *float64
	BaseWeight float64 // in [0,1]
	Metadata   map[string]string
}

// Config drives one seed build.
type Config struct {
	FrequencyDB string
	Table       string // empty means "frequency"
	LemmaColumn string // empty means "lemma"
	RankColumn  string // empty falls through the store's rank fallback
	PmwColumn   string // empty falls through the store's value fallback
	TopN        int
	Weighting   weighting.PmwWeighting
	Pair        langpair.Pair

	// WhitelistPath points at the dictionary whose lemma set gates seeds.
	// LoadWhitelist turns that path into the set; pairs plug in their
	// dictionary adapter here. WhitelistRequired makes an empty path a
	// configuration error instead of "no gating".
	WhitelistPath     string
	WhitelistRequired bool
	LoadWhitelist     func(path string) map[string]bool
}

// Build produces seeds in frequency-rank order (NULL ranks last). Rows with
// an empty lemma or a lemma outside the whitelist are skipped; the skip does
// not free up a slot, matching "top N rows" rather than "N seeds".
func Build(cfg Config) ([]Word, error) {
	if cfg.WhitelistRequired && cfg.WhitelistPath == "" {
		return nil, fmt.Errorf("%w: whitelist dictionary for %s", ErrConfigurationMissing, cfg.Pair)
	}

	store, err := freq.Open(cfg.FrequencyDB, cfg.Table, cfg.LemmaColumn)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var whitelist map[string]bool
	if cfg.WhitelistPath != "" && cfg.LoadWhitelist != nil {
		whitelist = cfg.LoadWhitelist(cfg.WhitelistPath)
	}

	pmwColumn := cfg.PmwColumn
	if pmwColumn == "" {
		pmwColumn = freq.DefaultPmwColumn
	}
	maxPMW := store.MaxValue(pmwColumn)

	rows, err := store.IterTopByRank(cfg.TopN, cfg.RankColumn, cfg.PmwColumn, nil)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(cfg.FrequencyDB)
	var seeds []Word
	for _, row := range rows {
		lemma := strings.TrimSpace(row.Lemma)
		if lemma == "" {
			continue
		}
		if whitelist != nil && !whitelist[lemma] {
			continue
		}
		seeds = append(seeds, Word{
			Lemma:      lemma,
			Pair:       cfg.Pair,
			CoreRank:   row.Rank,
			PMW:        row.Value,
			BaseWeight: cfg.Weighting.NormalizeOpt(row.Value, maxPMW),
			Metadata: map[string]string{
				"source":      source,
				"rank_column": row.RankColumn,
				"pmw_column":  row.ValueColumn,
			},
		})
	}
	return seeds, nil
}
