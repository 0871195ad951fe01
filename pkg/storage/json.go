// Package storage provides the JSON persistence contract shared by every
// state file: whole-file atomic rewrites via temp-file-and-rename, and reads
// that tolerate a missing or corrupt file by reporting it so the caller can
// fall back to a zero value.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutputExists is returned by WriteJSONNew when the destination already
// exists and the caller did not ask to overwrite.
var ErrOutputExists = errors.New("output path already exists")

// ErrStateCorrupt is returned by ReadJSON when the file exists but cannot be
// parsed. Callers that own recoverable state treat it as "empty".
var ErrStateCorrupt = errors.New("state file corrupt")

// WriteJSON marshals v pretty-printed and atomically replaces path with it.
// The parent directory is created if needed. The temp file lives in the same
// directory so the final rename never crosses filesystems.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteJSONNew writes like WriteJSON but fails with ErrOutputExists when the
// destination is already present, unless overwrite is set.
func WriteJSONNew(path string, v any, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
	}
	return WriteJSON(path, v)
}

// ReadJSON unmarshals path into v. A missing file returns os.ErrNotExist;
// unreadable or unparsable content returns ErrStateCorrupt. v is untouched
// on any error.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrStateCorrupt, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStateCorrupt, path, err)
	}
	return nil
}

// ReadJSONOrZero unmarshals path into v, treating a missing or corrupt file
// as a no-op. It reports whether the file was actually loaded.
func ReadJSONOrZero(path string, v any) bool {
	return ReadJSON(path, v) == nil
}
