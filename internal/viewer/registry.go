package viewer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"opensynth/internal/quiz"
)

// Registry keeps live views keyed by id. Views untouched for the idle timeout
// are dropped.
type Registry struct {
	cache    *cache.Cache
	resolver Resolver
	prefs    *quiz.Preferences
	logger   *slog.Logger
}

// NewRegistry creates a registry whose views expire after idle.
func NewRegistry(resolver Resolver, prefs *quiz.Preferences, idle time.Duration, logger *slog.Logger) *Registry {
	cleanup := idle / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Registry{
		cache:    cache.New(idle, cleanup),
		resolver: resolver,
		prefs:    prefs,
		logger:   logger,
	}
}

// Create registers a new idle view.
func (r *Registry) Create() *View {
	view := New(uuid.NewString(), r.resolver, r.prefs, r.logger)
	r.cache.Set(view.ID(), view, cache.DefaultExpiration)
	return view
}

// Get returns the view and refreshes its expiry.
func (r *Registry) Get(id string) (*View, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	view := x.(*View)
	r.cache.Set(id, view, cache.DefaultExpiration)
	return view, true
}

// Delete drops a view.
func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

// Count returns the number of live views.
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}
