// Package inventory reads the contents of the fridge from a file.
package inventory

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Item is one thing in the fridge.
type Item struct {
	Name string
	// Expires is the zero time when no date was given.
	Expires time.Time
	Memo    string
}

// Parse reads an inventory file, choosing the format from its extension.
func Parse(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return parse(f, path)
}

// ParseFromBytes parses file content directly from memory.
func ParseFromBytes(data []byte, filename string) ([]Item, error) {
	return parse(bytes.NewReader(data), filename)
}

func parse(r io.Reader, filename string) ([]Item, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return ParseCSV(r)
	case ".txt", "":
		return ParseText(r)
	default:
		return nil, fmt.Errorf("unknown file format: %s (must be .csv or .txt)", ext)
	}
}

// Names returns the item names in file order.
func Names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

// ExpiringWithin keeps items with an expiry date before now+d. Items without
// a date are left out.
func ExpiringWithin(items []Item, now time.Time, d time.Duration) []Item {
	cutoff := now.Add(d)
	var out []Item
	for _, it := range items {
		if it.Expires.IsZero() {
			continue
		}
		if it.Expires.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}
