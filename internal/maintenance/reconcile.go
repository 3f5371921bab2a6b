// Package maintenance rewrites the synthesis index so each entry's step_count
// matches the number of steps in its record.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"opensynth/internal/catalog"
	"opensynth/internal/indexlock"
	"opensynth/internal/logging"
)

const stepCountKey = "step_count"

// ErrIndexMissing is returned when the index file does not exist.
var ErrIndexMissing = errors.New("index file not found")

// Options controls a reconciliation run.
type Options struct {
	// DataDir is the root that entry paths are relative to.
	DataDir string
	// IndexPath is the absolute path of the index file.
	IndexPath string
	// DryRun computes the result without writing the index.
	DryRun bool
	Logger *slog.Logger
}

// Result summarizes a run.
type Result struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Reconcile updates step_count for every entry whose record can be read. Entries
// without a path or whose record is missing or unparsable are logged and left
// untouched. Fields other than step_count are preserved.
func Reconcile(ctx context.Context, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "maintenance")
	var result Result

	if _, err := os.Stat(opts.IndexPath); errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("%w: %s", ErrIndexMissing, opts.IndexPath)
	}
	release, err := indexlock.Exclusive(ctx, opts.IndexPath)
	if err != nil {
		return result, err
	}
	defer release()

	data, err := os.ReadFile(opts.IndexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrIndexMissing, opts.IndexPath)
		}
		return result, fmt.Errorf("read index: %w", err)
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return result, fmt.Errorf("decode index: %w", err)
	}

	source := catalog.NewDirSource(opts.DataDir, "")
	result.Total = len(entries)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id := stringField(entry, "id")
		count, err := countSteps(source, stringField(entry, "path"))
		if err != nil {
			result.Skipped++
			logging.WarnWithContext(logger, "index entry skipped", "reindex_entry_skipped",
				logging.String(logging.FieldSynthesisID, id),
				logging.Error(err),
			)
			continue
		}
		if current, ok := intField(entry, stepCountKey); ok && current == count {
			continue
		}
		entry[stepCountKey] = json.RawMessage(fmt.Sprintf("%d", count))
		result.Updated++
		logger.Debug("step count updated",
			logging.String(logging.FieldSynthesisID, id),
			logging.Int("step_count", count),
		)
	}

	if opts.DryRun {
		logger.Info("dry run; index not written", logging.Int("updated", result.Updated))
		return result, nil
	}
	out, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return result, fmt.Errorf("encode index: %w", err)
	}
	if err := writeAtomic(opts.IndexPath, out); err != nil {
		return result, err
	}
	logger.Info("index reconciled",
		logging.Int("total", result.Total),
		logging.Int("updated", result.Updated),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

var errNoPath = errors.New("entry has no path")

func countSteps(source *catalog.DirSource, locator string) (int, error) {
	if locator == "" {
		return 0, errNoPath
	}
	target, err := source.Resolve(locator)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return 0, fmt.Errorf("read record: %w", err)
	}
	// Only the sequence length matters; other fields may carry any shape.
	var record struct {
		Sequence []json.RawMessage `json:"sequence"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return 0, fmt.Errorf("parse record: %w", err)
	}
	return len(record.Sequence), nil
}

func stringField(entry map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := entry[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func intField(entry map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := entry[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}
