package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// DateLayout is the expiry date format in inventory files.
const DateLayout = "2006-01-02"

// ParseCSV reads CSV with a header row. Columns are matched by header name
// (case-insensitive). When none of the headers is recognised the columns are
// read by position:
//
//	name,expires,memo
//
// Rows without a name are skipped.
func ParseCSV(reader io.Reader) ([]Item, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[normalizeHeader(h)] = i
	}

	defaults := map[string]int{
		"name":    0,
		"expires": 1,
		"memo":    2,
	}
	aliases := map[string][]string{
		"name":    {"name", "ingredient", "item"},
		"expires": {"expires", "expiration_date", "expiry", "expiration"},
		"memo":    {"memo", "note", "notes"},
	}

	lookup := func(name string) (int, bool) {
		for _, alias := range aliases[name] {
			if i, ok := headerMap[alias]; ok {
				return i, true
			}
		}
		return -1, false
	}

	// Positional defaults only apply when no header is recognised at all.
	recognised := false
	for name := range defaults {
		if _, ok := lookup(name); ok {
			recognised = true
			break
		}
	}

	getIndex := func(name string) int {
		if i, ok := lookup(name); ok {
			return i
		}
		if recognised {
			return -1
		}
		return defaults[name]
	}

	nameIdx := getIndex("name")
	expiresIdx := getIndex("expires")
	memoIdx := getIndex("memo")

	get := func(rec []string, idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	var out []Item
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		name := get(rec, nameIdx)
		if name == "" {
			continue
		}

		item := Item{Name: name, Memo: get(rec, memoIdx)}
		if raw := get(rec, expiresIdx); raw != "" {
			t, err := time.ParseInLocation(DateLayout, raw, time.Local)
			if err != nil {
				return nil, fmt.Errorf("line %d: expires %q: %w", line, raw, err)
			}
			item.Expires = t
		}
		out = append(out, item)
	}

	return out, nil
}

// normalizeHeader lowercases and trims a header and turns spaces and dashes
// into underscores, so "Expiration Date" matches "expiration_date".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return h
}
