// Package dataset defines the shareable vocabulary dataset payload and its
// compressed URL-safe transfer codes.
package dataset

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lexishift/lexicore/pkg/rulegen"
)

// VocabDataset is the payload behind a ruleset file and a share code. The
// settings block is opaque to the core and travels as-is.
type VocabDataset struct {
	Rules        []rulegen.VocabRule    `json:"rules"`
	MeaningRules []rulegen.VocabRule    `json:"meaning_rules"`
	Synonyms     map[string][]string    `json:"synonyms"`
	Settings     map[string]interface{} `json:"settings"`
}

// NewVocabDataset wraps generated rules in an otherwise empty dataset.
func NewVocabDataset(rules []rulegen.VocabRule) VocabDataset {
	return VocabDataset{
		Rules:        rules,
		MeaningRules: []rulegen.VocabRule{},
		Synonyms:     map[string][]string{},
		Settings:     map[string]interface{}{},
	}
}

// encodeCode produces the transfer form of any JSON value: compact JSON
// with object keys sorted, zlib-compressed, base64 URL-safe with padding
// stripped.
func encodeCode(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode code: %w", err)
	}
	raw, err = sortKeys(raw)
	if err != nil {
		return "", fmt.Errorf("encode code: %w", err)
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("encode code: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("encode code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// sortKeys rewrites a JSON document with every object's keys in
// lexicographic order. Objects decode to Go maps, which Marshal emits
// sorted; json.Number keeps numeric literals verbatim.
func sortKeys(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// decodeCode inverts encodeCode. Codes with base64 padding are accepted.
func decodeCode(code string, v interface{}) error {
	code = strings.TrimRight(strings.TrimSpace(code), "=")
	compressed, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return fmt.Errorf("decode code: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("decode code: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("decode code: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode code: %w", err)
	}
	return nil
}

// ExportCode serializes a dataset into a shareable transfer code.
func ExportCode(d VocabDataset) (string, error) {
	return encodeCode(d)
}

// ImportCode parses a transfer code back into a dataset.
func ImportCode(code string) (VocabDataset, error) {
	var d VocabDataset
	if err := decodeCode(code, &d); err != nil {
		return VocabDataset{}, err
	}
	return d, nil
}

// ExportSettingsCode serializes an app settings block with the same scheme.
func ExportSettingsCode(settings map[string]interface{}) (string, error) {
	return encodeCode(settings)
}

// ImportSettingsCode parses a settings transfer code.
func ImportSettingsCode(code string) (map[string]interface{}, error) {
	var settings map[string]interface{}
	if err := decodeCode(code, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}
