package refdata

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// UnitsCatalog is the name of the built-in measurement unit catalog.
const UnitsCatalog = "units"

//go:embed data/units.txt
var dataFS embed.FS

const defaultUnitsPath = "data/units.txt"

var (
	defaultOnce  sync.Once
	defaultUnits []Entry
	defaultErr   error
)

// DefaultUnits returns the embedded measurement unit catalog.
func DefaultUnits() ([]Entry, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultUnitsPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		units, err := LoadEntries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultUnits = units
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Entry{}, defaultUnits...), nil
}

// LoadEntries reads a catalog from a line-oriented reader. Each line is
// either "value" or "value|label"; blank lines and # comments are
// skipped and duplicate values are dropped.
func LoadEntries(r io.Reader) ([]Entry, error) {
	if r == nil {
		return nil, fmt.Errorf("refdata: missing reader")
	}

	scanner := bufio.NewScanner(r)
	entries := make([]Entry, 0, 64)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		value, label := line, line
		if idx := strings.Index(line, "|"); idx >= 0 {
			value = strings.TrimSpace(line[:idx])
			label = strings.TrimSpace(line[idx+1:])
			if label == "" {
				label = value
			}
		}
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		entries = append(entries, Entry{Value: value, Label: label})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return entries, nil
}
