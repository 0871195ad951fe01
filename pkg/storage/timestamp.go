package storage

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the on-disk timestamp format: UTC, second precision,
// trailing Z. Every state file uses it.
const TimeLayout = "2006-01-02T15:04:05Z"

// Timestamp is a time.Time that marshals to the fixed UTC layout above.
// The zero value marshals to null and unmarshals from null or "".
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the on-disk precision.
func Now() Timestamp {
	return At(time.Now())
}

// At truncates t to the on-disk precision in UTC.
func At(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

// MarshalJSON renders the fixed layout, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(TimeLayout) + `"`), nil
}

// UnmarshalJSON accepts the fixed layout, full RFC 3339 (legacy files carry
// fractional seconds), null, or "".
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(TimeLayout, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC().Truncate(time.Second)
	return nil
}
