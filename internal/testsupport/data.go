package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Entry is an index entry fixture. StepCount nil omits the field.
type Entry struct {
	ID           string `json:"id"`
	MoleculeName string `json:"molecule_name"`
	Author       string `json:"author"`
	Year         int    `json:"year"`
	Class        string `json:"class"`
	Path         string `json:"path,omitempty"`
	StepCount    *int   `json:"step_count,omitempty"`
}

// Count returns a pointer to n for Entry.StepCount.
func Count(n int) *int {
	return &n
}

// WriteJSON marshals value with indentation and writes it under root at rel.
func WriteJSON(t testing.TB, root, rel string, value any) string {
	t.Helper()
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		t.Fatalf("marshal %s: %v", rel, err)
	}
	return WriteRaw(t, root, rel, data)
}

// WriteRaw writes data under root at rel, creating parent directories.
func WriteRaw(t testing.TB, root, rel string, data []byte) string {
	t.Helper()
	target := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", target, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", target, err)
	}
	return target
}

// WriteIndex writes entries as the index document at rel under root.
func WriteIndex(t testing.TB, root, rel string, entries ...Entry) string {
	t.Helper()
	if entries == nil {
		entries = []Entry{}
	}
	return WriteJSON(t, root, rel, entries)
}

// WriteRecord writes a synthesis record with the given number of steps.
func WriteRecord(t testing.TB, root, rel, name string, steps int) string {
	t.Helper()
	return WriteJSON(t, root, rel, Record(name, steps))
}

// Record builds a record document with steps numbered from 1.
func Record(name string, steps int) map[string]any {
	sequence := make([]map[string]any, 0, steps)
	for i := 1; i <= steps; i++ {
		sequence = append(sequence, map[string]any{
			"step_id":         i,
			"reaction_type":   fmt.Sprintf("Reaction %d", i),
			"reactant_smiles": fmt.Sprintf("C%d", i),
			"product_smiles":  fmt.Sprintf("C%dO", i),
			"reagents":        "NaBH4",
			"conditions":      "MeOH, 0 C",
			"yield":           "90%",
			"notes":           fmt.Sprintf("note %d", i),
		})
	}
	return map[string]any{
		"meta": map[string]any{
			"molecule_name": name,
			"author":        "Woodward, R.B.",
			"year":          1954,
			"journal":       "J. Am. Chem. Soc.",
		},
		"sequence": sequence,
	}
}
