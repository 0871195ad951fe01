package srs

import (
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/storage"
	"github.com/lexishift/lexicore/pkg/weighting"
)

// DefaultFeedbackWindowSize bounds how many recent feedback events the UI
// surfaces for undo.
const DefaultFeedbackWindowSize = 20

// Settings are the user-editable knobs of the learning core.
type Settings struct {
	// CoverageScalar is the fraction of the candidate pool growth aims
	// for. Values above 1 are read as percentages.
	CoverageScalar float64 `json:"coverage_scalar"`
	// MaxNewItemsPerDay caps daily admissions; nil means unlimited.
	MaxNewItemsPerDay *int `json:"max_new_items_per_day"`
	// AllowedPairs restricts which pairs the helper and selector touch;
	// empty means every rulegen-supported pair.
	AllowedPairs []string `json:"allowed_pairs"`
	// FeedbackWindowSize is how many recent feedback events to retain for
	// the UI's review strip.
	FeedbackWindowSize int `json:"feedback_window_size"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		CoverageScalar:     0.2,
		FeedbackWindowSize: DefaultFeedbackWindowSize,
	}
}

// NormalizeCoverageScalar maps a raw user value onto [0,1]: values above 1
// are percentages (50 means 0.5), and everything clamps into range.
func NormalizeCoverageScalar(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	return weighting.Clamp(v)
}

// AllowedPairSet resolves the allowed pairs to a lookup set; an empty list
// falls back to the rulegen-supported pairs. Malformed tokens are dropped.
func (s Settings) AllowedPairSet() map[string]bool {
	out := make(map[string]bool)
	if len(s.AllowedPairs) == 0 {
		for _, p := range langpair.RulegenPairs() {
			out[p.String()] = true
		}
		return out
	}
	for _, raw := range s.AllowedPairs {
		if p, err := langpair.Parse(raw); err == nil {
			out[p.String()] = true
		}
	}
	return out
}

// LoadSettings reads settings, falling back to defaults when the file is
// missing or corrupt.
func LoadSettings(path string) Settings {
	settings := DefaultSettings()
	var loaded Settings
	if storage.ReadJSONOrZero(path, &loaded) {
		settings = loaded
		if settings.FeedbackWindowSize <= 0 {
			settings.FeedbackWindowSize = DefaultFeedbackWindowSize
		}
	}
	return settings
}

// SaveSettings atomically rewrites the settings file.
func SaveSettings(path string, settings Settings) error {
	return storage.WriteJSON(path, settings)
}
