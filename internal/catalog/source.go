package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"opensynth/internal/indexlock"
)

// Source fetches documents by root-relative locator ("/data/index.json").
type Source interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// DirSource serves locators from a directory on disk. Reads of the locked
// locator take a shared index lock so they never observe a rewrite in progress.
type DirSource struct {
	root   string
	locked string
}

// NewDirSource returns a source rooted at root. lockedLocator, when non-empty,
// names the locator whose reads are guarded by an indexlock shared lock.
func NewDirSource(root, lockedLocator string) *DirSource {
	locked := ""
	if lockedLocator != "" {
		locked = path.Clean(NormalizeLocator(lockedLocator))
	}
	return &DirSource{root: root, locked: locked}
}

// Resolve maps a locator to a filesystem path under the root. Locators that
// would escape the root are rejected.
func (s *DirSource) Resolve(locator string) (string, error) {
	cleaned := path.Clean(NormalizeLocator(locator))
	if cleaned == "/" {
		return "", fmt.Errorf("locator %q names the data root", locator)
	}
	rel := strings.TrimPrefix(cleaned, "/")
	if !fs.ValidPath(rel) {
		return "", fmt.Errorf("locator %q escapes the data root", locator)
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

func (s *DirSource) Fetch(ctx context.Context, locator string) ([]byte, error) {
	target, err := s.Resolve(locator)
	if err != nil {
		return nil, err
	}
	if s.locked != "" && path.Clean(NormalizeLocator(locator)) == s.locked {
		release, err := indexlock.Shared(ctx, target)
		if errors.Is(err, indexlock.ErrBusy) {
			return nil, err
		}
		// A read-only data root cannot hold the lock file; such reads go unguarded.
		if err == nil {
			defer release()
		}
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, locator)
		}
		return nil, fmt.Errorf("read %s: %w", locator, err)
	}
	return data, nil
}

// HTTPSource fetches locators relative to a base URL.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource builds an HTTP source. A nil client gets one with the given timeout.
func NewHTTPSource(baseURL string, timeout time.Duration, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context, locator string) ([]byte, error) {
	url := s.baseURL + NormalizeLocator(locator)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrMissing, locator)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}
