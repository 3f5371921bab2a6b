package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"opensynth/internal/logging"
)

// Resolver maps synthesis identifiers to full records.
type Resolver struct {
	store  *Store
	source Source
	logger *slog.Logger
}

// NewResolver builds a resolver over store that fetches records from source.
func NewResolver(store *Store, source Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		source: source,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve looks id up in the most recently loaded index and fetches its record.
// Unknown ids return ErrNotFound; fetch or parse failures return ErrFetchFailed.
// Nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Record, error) {
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldSynthesisID, id))

	entry, ok := r.store.Lookup(id)
	if !ok {
		logger.Info("synthesis not in index")
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	locator := NormalizeLocator(entry.Path)
	data, err := r.source.Fetch(ctx, locator)
	if err != nil {
		logging.WarnWithContext(logger, "synthesis record fetch failed", "record_fetch_failed",
			logging.String(logging.FieldLocator, locator),
			logging.Error(err),
			logging.String(logging.FieldImpact, "synthesis shown as not found"),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, locator, err)
	}
	record, err := ParseRecord(data)
	if err != nil {
		logging.WarnWithContext(logger, "synthesis record unparsable", "record_parse_failed",
			logging.String(logging.FieldLocator, locator),
			logging.Error(err),
			logging.String(logging.FieldImpact, "synthesis shown as not found"),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, locator, err)
	}
	if entry.StepCount != len(record.Sequence) {
		logger.Debug("index step count is stale",
			logging.Int("indexed", entry.StepCount),
			logging.Int("actual", len(record.Sequence)),
		)
	}
	logger.Info("synthesis resolved", logging.Int("steps", len(record.Sequence)))
	return record, nil
}
