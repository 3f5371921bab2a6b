package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"opensynth/internal/catalog"
	"opensynth/internal/logging"
)

const indexCacheKey = "index"

// CatalogService serves listings and records. The loaded index is reused for
// the configured TTL; a zero TTL reloads on every call.
type CatalogService struct {
	store    *catalog.Store
	resolver *catalog.Resolver
	ttl      time.Duration
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewCatalogService builds a service over source, reading the index at locator.
func NewCatalogService(source catalog.Source, locator string, ttl time.Duration, logger *slog.Logger) *CatalogService {
	store := catalog.NewStore(source, locator, logger)
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &CatalogService{
		store:    store,
		resolver: catalog.NewResolver(store, source, logger),
		ttl:      ttl,
		cache:    c,
		logger:   logging.NewComponentLogger(logger, "catalog-service"),
	}
}

// Entries returns the index, reloading it when the cached copy expired. Only
// a successful load is cached, so the next caller retries after a failure.
func (s *CatalogService) Entries(ctx context.Context) []catalog.IndexEntry {
	if s.cache != nil {
		if _, ok := s.cache.Get(indexCacheKey); ok {
			return s.store.Entries()
		}
	}
	// The index is shared by every caller; one caller going away must not
	// fail the load for the rest.
	entries := s.store.LoadIndex(context.WithoutCancel(ctx))
	if s.cache != nil && s.store.LastError() == nil {
		s.cache.Set(indexCacheKey, struct{}{}, cache.DefaultExpiration)
	}
	return entries
}

// Refresh drops the cached index so the next call reloads it.
func (s *CatalogService) Refresh() {
	if s.cache != nil {
		s.cache.Delete(indexCacheKey)
	}
}

// IndexError returns the failure of the most recent index load, or nil.
func (s *CatalogService) IndexError() error {
	return s.store.LastError()
}

// List returns the entries matching query with at least minSteps steps.
func (s *CatalogService) List(ctx context.Context, query string, minSteps int) SynthesisListResponse {
	entries := s.Entries(ctx)
	matched := catalog.Filter(entries, query, minSteps)
	return SynthesisListResponse{
		Items:       FromIndexEntries(matched),
		Total:       len(entries),
		Unavailable: s.store.LastError() != nil,
	}
}

// Resolve fetches the record for id against the current index.
func (s *CatalogService) Resolve(ctx context.Context, id string) (*catalog.Record, error) {
	s.Entries(ctx)
	return s.resolver.Resolve(ctx, id)
}

// Describe resolves id into its DTO.
func (s *CatalogService) Describe(ctx context.Context, id string) (*SynthesisDetail, error) {
	record, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := FromRecord(id, record)
	return &detail, nil
}
