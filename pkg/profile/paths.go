// Package profile resolves the per-platform data root and the per-profile
// file layout of the learning core.
package profile

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvDataDir overrides the platform data root when set.
const EnvDataDir = "LEXISHIFT_DATA_DIR"

const appDirName = "LexiShift"

// DataRoot resolves the application data directory. The environment
// override wins; otherwise the platform convention applies.
func DataRoot() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appDirName, appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName, appDirName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, appDirName, appDirName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appDirName, appDirName)
	}
}

// SafeProfileID maps a profile identifier onto a filesystem-safe directory
// name: anything outside [A-Za-z0-9._-] becomes an underscore, and an empty
// identifier becomes "default".
func SafeProfileID(id string) string {
	if id == "" {
		return "default"
	}
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SafePair maps a pair token onto a filename fragment by replacing path and
// drive separators with hyphens.
func SafePair(pair string) string {
	pair = strings.ReplaceAll(pair, "/", "-")
	return strings.ReplaceAll(pair, ":", "-")
}

// Paths is the resolved file layout for one profile under a data root.
type Paths struct {
	DataRoot  string
	ProfileID string
}

// NewPaths binds a data root and profile identifier. An empty dataRoot uses
// the platform default.
func NewPaths(dataRoot, profileID string) Paths {
	if dataRoot == "" {
		dataRoot = DataRoot()
	}
	return Paths{DataRoot: dataRoot, ProfileID: SafeProfileID(profileID)}
}

// SrsDir is the shared spaced-repetition directory under the data root.
func (p Paths) SrsDir() string {
	return filepath.Join(p.DataRoot, "srs")
}

// ProfileDir is this profile's private directory.
func (p Paths) ProfileDir() string {
	return filepath.Join(p.SrsDir(), "profiles", p.ProfileID)
}

// SettingsPath locates the app-level settings file.
func (p Paths) SettingsPath() string {
	return filepath.Join(p.DataRoot, "settings.json")
}

// SrsSettingsPath locates the shared learning settings file.
func (p Paths) SrsSettingsPath() string {
	return filepath.Join(p.SrsDir(), "srs_settings.json")
}

// StopwordsPath locates the stopword list for one language.
func (p Paths) StopwordsPath(lang string) string {
	return filepath.Join(p.SrsDir(), "stopwords", "stopwords-"+lang+".json")
}

// StorePath locates this profile's item store.
func (p Paths) StorePath() string {
	return filepath.Join(p.ProfileDir(), "srs_store.json")
}

// StatusPath locates this profile's helper status record.
func (p Paths) StatusPath() string {
	return filepath.Join(p.ProfileDir(), "srs_status.json")
}

// QueuePath locates this profile's signal journal.
func (p Paths) QueuePath() string {
	return filepath.Join(p.ProfileDir(), "srs_signal_queue.json")
}

// SnapshotPath locates the rule-generation snapshot for a pair.
func (p Paths) SnapshotPath(pair string) string {
	return filepath.Join(p.ProfileDir(), "srs_rulegen_snapshot_"+SafePair(pair)+".json")
}

// RulesetPath locates the generated ruleset for a pair.
func (p Paths) RulesetPath(pair string) string {
	return filepath.Join(p.ProfileDir(), "srs_ruleset_"+SafePair(pair)+".json")
}

// LanguagePacksDir holds downloaded dictionary files.
func (p Paths) LanguagePacksDir() string {
	return filepath.Join(p.DataRoot, "language_packs")
}

// FrequencyPacksDir holds downloaded frequency databases.
func (p Paths) FrequencyPacksDir() string {
	return filepath.Join(p.DataRoot, "frequency_packs")
}
