// Package api is the service layer shared by the CLI and the HTTP daemon. It
// wires the catalog, quiz preferences, viewer registry, and renderer from a
// config, and translates their models into transport-friendly DTOs.
//
// # Key Types
//
// CatalogService: index listing with a TTL cache, filtering, and record
// resolution. It implements viewer.Resolver.
//
// SynthesisSummary / SynthesisDetail: camelCase views of index entries and
// records.
//
// QuizSettings: the shared hide/show mapping plus the hidden category list.
//
// # Design Notes
//
// A failed index load is not an error at this layer: listings come back empty
// with Unavailable set, mirroring what the library page shows. Lookups of
// unknown ids and unreadable records both surface as catalog.ErrNotFound or
// catalog.ErrFetchFailed, which the daemon maps to a single 404.
package api
