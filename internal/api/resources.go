package api

import (
	"context"
	"log/slog"
	"time"

	"opensynth/internal/catalog"
	"opensynth/internal/config"
	"opensynth/internal/logging"
	"opensynth/internal/quiz"
	"opensynth/internal/render"
	"opensynth/internal/settingsstore"
)

// NewSource builds the configured data source.
func NewSource(cfg *config.Config) catalog.Source {
	if cfg.UsesHTTPSource() {
		return catalog.NewHTTPSource(cfg.Source.BaseURL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second, nil)
	}
	return catalog.NewDirSource(cfg.Paths.DataDir, cfg.IndexLocator())
}

// OpenCatalog builds a CatalogService from config.
func OpenCatalog(cfg *config.Config, logger *slog.Logger) *CatalogService {
	ttl := time.Duration(cfg.Cache.IndexTTLSeconds) * time.Second
	return NewCatalogService(NewSource(cfg), cfg.IndexLocator(), ttl, logger)
}

// Preferences bundles the shared quiz settings with the store backing them.
type Preferences struct {
	*quiz.Preferences
	store *settingsstore.Store
}

// Close releases the settings database.
func (p *Preferences) Close() error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Close()
}

// OpenPreferences loads quiz settings from the state database. When the
// database cannot be opened, settings live in memory only for this process.
func OpenPreferences(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Preferences {
	defaults := quiz.SettingsFromHidden(cfg.Quiz.DefaultHidden)
	store, err := settingsstore.Open(cfg.SettingsDBPath())
	if err != nil {
		logging.WarnWithContext(logger, "quiz settings store unavailable", "settings_store_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.state_dir permissions"),
			logging.String(logging.FieldImpact, "quiz settings are not persisted"),
		)
		return &Preferences{Preferences: quiz.LoadPreferences(ctx, nil, defaults, logger)}
	}
	port := settingsstore.NewQuizPort(store, cfg.Quiz.StorageKey)
	return &Preferences{
		Preferences: quiz.LoadPreferences(ctx, port, defaults, logger),
		store:       store,
	}
}

// Renderer bundles the configured drawing command with its panel geometry.
type Renderer struct {
	drawer render.Renderer
	Width  int
	Height int
	Theme  render.Theme
	logger *slog.Logger
}

// NewRendererWith wraps an arbitrary drawer with the configured geometry.
func NewRendererWith(drawer render.Renderer, cfg *config.Config, logger *slog.Logger) *Renderer {
	r := NewRenderer(cfg, logger)
	r.drawer = drawer
	return r
}

// NewRenderer builds the configured external renderer.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		drawer: &render.CommandRenderer{
			Command: cfg.Render.Command,
			Args:    cfg.Render.Args,
			Timeout: time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
		},
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
		Theme:  render.Theme(cfg.Render.Theme),
		logger: logger,
	}
}

// Draw renders notation, splitting multi-molecule strings into panels.
func (r *Renderer) Draw(ctx context.Context, notation string) RenderResponse {
	panels := render.DrawAll(ctx, r.drawer, notation, r.Width, r.Height, r.Theme, true, r.logger)
	if panels == nil {
		panels = []render.Panel{}
	}
	return RenderResponse{Notation: notation, Panels: panels}
}
