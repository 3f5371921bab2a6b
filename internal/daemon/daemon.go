package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"opensynth/internal/api"
	"opensynth/internal/config"
	"opensynth/internal/logging"
	"opensynth/internal/preflight"
	"opensynth/internal/viewer"
)

// LockFileName is the single-instance lock inside the state directory.
const LockFileName = "opensynth.lock"

// Daemon owns the service components and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *api.CatalogService
	prefs    *api.Preferences
	views    *viewer.Registry
	renderer *api.Renderer
	server   *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Option customizes a daemon before it starts.
type Option func(*Daemon)

// WithRenderer replaces the configured structure renderer.
func WithRenderer(r *api.Renderer) Option {
	return func(d *Daemon) { d.renderer = r }
}

// New constructs a daemon with initialized dependencies.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	catalogSvc := api.OpenCatalog(cfg, logger)
	prefs := api.OpenPreferences(ctx, cfg, logger)
	idle := time.Duration(cfg.Viewer.IdleTimeoutMinutes) * time.Minute

	lockPath := filepath.Join(cfg.Paths.StateDir, LockFileName)
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		catalog:  catalogSvc,
		prefs:    prefs,
		views:    viewer.NewRegistry(catalogSvc, prefs.Preferences, idle, logger),
		renderer: api.NewRenderer(cfg, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the instance lock, runs preflight checks, loads the index,
// and starts serving HTTP.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another opensynth service is already using this state directory")
	}

	for _, result := range preflight.Failed(preflight.RunAll(ctx, d.cfg)) {
		level := slog.LevelWarn
		if result.Optional {
			level = slog.LevelInfo
		}
		d.logger.Log(ctx, level, "preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
	entries := d.catalog.Entries(ctx)

	var serveCtx context.Context
	serveCtx, d.cancel = context.WithCancel(ctx)
	if err := d.server.start(serveCtx); err != nil {
		d.cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("opensynth service started",
		logging.String("lock", d.lockPath),
		logging.Int("entries", len(entries)),
	)
	return nil
}

// Stop stops serving and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release service lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("opensynth service stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return d.prefs.Close()
}

// Addr returns the bound HTTP address once started.
func (d *Daemon) Addr() string {
	return d.server.addr()
}

// Status summarizes the running service.
func (d *Daemon) Status(ctx context.Context) api.StatusResponse {
	status := api.StatusResponse{
		PID:         os.Getpid(),
		Entries:     len(d.catalog.Entries(ctx)),
		ActiveViews: d.views.Count(),
		Checks:      preflight.RunAll(ctx, d.cfg),
	}
	if err := d.catalog.IndexError(); err != nil {
		status.IndexError = err.Error()
	}
	return status
}
