// Package status persists the helper's per-profile run record.
package status

import (
	"github.com/lexishift/lexicore/pkg/storage"
)

// Version is the current status schema version.
const Version = 1

// HelperVersion identifies the helper build that wrote the record.
const HelperVersion = "0.4.0"

// HelperStatus is the per-profile record the helper overwrites each tick.
// Readers tolerate a missing or damaged file by falling back to Default.
type HelperStatus struct {
	Version         int               `json:"version"`
	HelperVersion   string            `json:"helper_version"`
	LastRunAt       storage.Timestamp `json:"last_run_at"`
	LastError       string            `json:"last_error,omitempty"`
	LastPair        string            `json:"last_pair,omitempty"`
	LastRuleCount   int               `json:"last_rule_count"`
	LastTargetCount int               `json:"last_target_count"`
}

// Default returns an empty status for the current helper build.
func Default() HelperStatus {
	return HelperStatus{Version: Version, HelperVersion: HelperVersion}
}

// Load reads the status file, falling back to Default when it is missing or
// corrupt.
func Load(path string) HelperStatus {
	var s HelperStatus
	if !storage.ReadJSONOrZero(path, &s) {
		return Default()
	}
	if s.Version == 0 {
		s.Version = Version
	}
	if s.HelperVersion == "" {
		s.HelperVersion = HelperVersion
	}
	return s
}

// Save atomically rewrites the status file.
func Save(path string, s HelperStatus) error {
	return storage.WriteJSON(path, s)
}
