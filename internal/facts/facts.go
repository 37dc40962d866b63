// Package facts loads the personal data a wordlist is built from.
//
// A facts document is a flat mapping of category name to a list of strings,
// for example:
//
//	{"names": ["Alice", "Bob"], "pets": ["Fluffy"], "years": ["1999"]}
//
// JSON and YAML documents are supported. Loading reports a missing file and a
// malformed document as distinct errors so callers can tell the user which
// one happened.
package facts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the facts document does not exist.
	ErrNotFound = errors.New("facts file not found")
	// ErrMalformed is returned when the document cannot be parsed as a
	// mapping of category to list of strings.
	ErrMalformed = errors.New("facts file is malformed")
)

// Facts maps a category (e.g. "pets") to its fact strings.
type Facts map[string][]string

// Categories returns the category names in sorted order.
func (f Facts) Categories() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten returns every fact, categories in sorted order and values in
// document order.
func (f Facts) Flatten() []string {
	out := make([]string, 0, f.Count())
	for _, k := range f.Categories() {
		out = append(out, f[k]...)
	}
	return out
}

// Count is the total number of facts across all categories.
func (f Facts) Count() int {
	n := 0
	for _, v := range f {
		n += len(v)
	}
	return n
}

// Load reads and parses the facts document at path. The format is chosen by
// extension: .yaml and .yml are YAML, anything else is JSON.
func Load(path string) (Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// FormatOf returns "yaml" or "json" for path.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes a facts document held in memory.
func Parse(data []byte, format string) (Facts, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Facts{}, nil
	}

	var raw map[string]any
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML: %v", ErrMalformed, err)
		}
	case "json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("%w: trailing data after JSON document", ErrMalformed)
		}
	default:
		return nil, fmt.Errorf("unsupported facts format %q", format)
	}

	return FromMap(raw)
}

// FromMap converts a generic decoded document into Facts. Every value must be
// a list of strings.
func FromMap(raw map[string]any) (Facts, error) {
	out := make(Facts, len(raw))
	for category, v := range raw {
		list, ok := v.([]any)
		if !ok {
			if v == nil {
				out[category] = nil
				continue
			}
			return nil, fmt.Errorf("%w: category %q is %T, want a list of strings", ErrMalformed, category, v)
		}
		values := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] is %T, want a string", ErrMalformed, category, i, item)
			}
			values = append(values, s)
		}
		out[category] = values
	}
	return out, nil
}
