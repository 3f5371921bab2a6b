package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultStepCount is assumed for index entries that carry no step_count.
const DefaultStepCount = 1

// IndexEntry is the listing metadata for one synthesis.
type IndexEntry struct {
	ID           string `json:"id"`
	MoleculeName string `json:"molecule_name"`
	Author       string `json:"author"`
	Year         int    `json:"year"`
	Class        string `json:"class"`
	Path         string `json:"path"`
	StepCount    int    `json:"step_count"`
}

// Meta describes the publication a synthesis comes from.
type Meta struct {
	MoleculeName string `json:"molecule_name"`
	Author       string `json:"author"`
	Year         int    `json:"year"`
	Journal      string `json:"journal"`
}

// Step is one reaction in a synthesis. StepID is display-only; navigation uses
// the step's position in Record.Sequence.
type Step struct {
	StepID         int    `json:"step_id"`
	ReactionType   string `json:"reaction_type"`
	ReactantSmiles string `json:"reactant_smiles"`
	ProductSmiles  string `json:"product_smiles"`
	Reagents       string `json:"reagents"`
	Conditions     string `json:"conditions"`
	Yield          string `json:"yield"`
	Notes          string `json:"notes"`
}

// Record is a full synthesis as stored at IndexEntry.Path.
type Record struct {
	Meta     Meta   `json:"meta"`
	Sequence []Step `json:"sequence"`
}

// Navigable reports whether the record has at least one step.
func (r *Record) Navigable() bool {
	return r != nil && len(r.Sequence) > 0
}

type rawIndexEntry struct {
	IndexEntry
	StepCount *int `json:"step_count"`
}

// ParseIndex decodes an index document and normalizes it: entries without an
// id are dropped and a missing step_count becomes DefaultStepCount.
func ParseIndex(data []byte) ([]IndexEntry, int, error) {
	var raw []rawIndexEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode index: %w", err)
	}
	entries := make([]IndexEntry, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		entry := item.IndexEntry
		entry.ID = strings.TrimSpace(entry.ID)
		if entry.ID == "" {
			dropped++
			continue
		}
		entry.StepCount = DefaultStepCount
		if item.StepCount != nil && *item.StepCount >= 0 {
			entry.StepCount = *item.StepCount
		}
		entries = append(entries, entry)
	}
	return entries, dropped, nil
}

// ParseRecord decodes a synthesis record document.
func ParseRecord(data []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}

// NormalizeLocator returns path as an absolute-from-root locator.
func NormalizeLocator(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
