// Package output writes a finished wordlist to disk.
//
// Three formats are supported: a JSON document with a single "passwords"
// field, a plain text file with one password per line (the format hashcat
// and John the Ripper read), and a SQLite database. Every format is written
// once per run; an existing file at the destination is replaced.
package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format selects the on-disk representation.
type Format string

const (
	FormatJSON   Format = "json"
	FormatText   Format = "txt"
	FormatSQLite Format = "sqlite"
)

// ParseFormat accepts json, txt/text and sqlite/db. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: json, txt, sqlite)", s)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatSQLite:
		return "db"
	default:
		return "json"
	}
}

// Meta describes the run that produced a wordlist. Only the sqlite format
// persists it.
type Meta struct {
	RunID     string
	Mode      string
	CreatedAt time.Time
}

// document is the JSON output shape.
type document struct {
	Passwords []string `json:"passwords"`
}

// Write stores words at path in the given format.
func Write(ctx context.Context, path string, words []string, format Format, meta Meta) error {
	if words == nil {
		words = []string{}
	}
	switch format {
	case FormatJSON, "":
		return writeJSON(path, words)
	case FormatText:
		return writeText(path, words)
	case FormatSQLite:
		return writeSQLite(ctx, path, words, meta)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(path string, words []string) error {
	data, err := json.MarshalIndent(document{Passwords: words}, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding wordlist: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeText(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		w.WriteString(word)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadJSON loads a wordlist written in the JSON format.
func ReadJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Passwords, nil
}

// Filename joins a base name (without extension) and the format extension.
func Filename(base string, format Format) string {
	return base + "." + format.Ext()
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
