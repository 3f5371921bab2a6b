package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"opensynth/internal/logging"
)

// Store holds the most recently loaded index.
type Store struct {
	source  Source
	locator string
	logger  *slog.Logger

	mu      sync.RWMutex
	entries []IndexEntry
	lastErr error
}

// NewStore returns a store that reads the index at locator from source.
func NewStore(source Source, locator string, logger *slog.Logger) *Store {
	return &Store{
		source:  source,
		locator: NormalizeLocator(locator),
		logger:  logging.NewComponentLogger(logger, "catalog"),
	}
}

// LoadIndex fetches and parses the index. On failure it logs the cause,
// replaces the held index with an empty one, and returns an empty slice; the
// failure stays available through LastError.
func (s *Store) LoadIndex(ctx context.Context) []IndexEntry {
	entries, err := s.fetch(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		logging.WarnWithContext(s.logger, "index unavailable; showing empty library", "index_unavailable",
			logging.String(logging.FieldLocator, s.locator),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.data_dir / source.base_url and the index JSON"),
			logging.String(logging.FieldImpact, "library listing is empty"),
		)
		s.entries = nil
		return []IndexEntry{}
	}
	s.entries = entries
	return cloneEntries(entries)
}

func (s *Store) fetch(ctx context.Context) ([]IndexEntry, error) {
	data, err := s.source.Fetch(ctx, s.locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	entries, dropped, err := ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if dropped > 0 {
		s.logger.Warn("index entries without id dropped",
			logging.Int("dropped", dropped),
			logging.String(logging.FieldLocator, s.locator),
		)
	}
	s.logger.Debug("index loaded", logging.Int("entries", len(entries)))
	return entries, nil
}

// Entries returns a copy of the most recently loaded index.
func (s *Store) Entries() []IndexEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Lookup finds an entry by exact identifier in the most recently loaded index.
func (s *Store) Lookup(id string) (IndexEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return IndexEntry{}, false
}

// LastError returns the failure of the most recent LoadIndex, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func cloneEntries(entries []IndexEntry) []IndexEntry {
	out := make([]IndexEntry, len(entries))
	copy(out, entries)
	return out
}
