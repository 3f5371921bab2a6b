package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the entries whose molecule name or author contains query,
// compared case-insensitively, and that have at least minSteps steps.
// An empty query matches everything.
func Filter(entries []IndexEntry, query string, minSteps int) []IndexEntry {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	out := make([]IndexEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.StepCount < minSteps {
			continue
		}
		if needle != "" &&
			!strings.Contains(folder.String(entry.MoleculeName), needle) &&
			!strings.Contains(folder.String(entry.Author), needle) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
