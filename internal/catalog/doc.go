// Package catalog loads the synthesis index and resolves identifiers to full
// synthesis records.
//
// The index is a lightweight listing of every synthesis (name, author, year,
// class, record locator, step count). A Store keeps the most recently loaded
// index; a Resolver looks identifiers up in it and fetches the matching record
// through a Source. Sources read from a data directory or an HTTP origin.
//
// Failures never escape as fatal errors. An unreadable index degrades to an
// empty listing (ErrDataUnavailable), an unknown identifier yields ErrNotFound,
// and a record that cannot be fetched or parsed yields ErrFetchFailed.
package catalog
