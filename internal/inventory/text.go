package inventory

import (
	"bufio"
	"io"
	"strings"
)

// ParseText reads one ingredient name per line. Blank lines and lines
// starting with # are ignored.
func ParseText(r io.Reader) ([]Item, error) {
	var out []Item
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, Item{Name: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
