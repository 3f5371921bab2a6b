package catalog

import "errors"

var (
	// ErrDataUnavailable reports that the index could not be fetched or parsed.
	ErrDataUnavailable = errors.New("synthesis index unavailable")
	// ErrNotFound reports an identifier that is absent from the loaded index.
	ErrNotFound = errors.New("synthesis not found")
	// ErrFetchFailed reports a record that could not be fetched or parsed after a successful lookup.
	ErrFetchFailed = errors.New("synthesis record fetch failed")
	// ErrMissing is returned by sources when the locator does not exist.
	ErrMissing = errors.New("resource does not exist")
)
