package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"opensynth/internal/logging"
)

// Settings maps a category to whether it is hidden. Categories that are
// absent are not hidden.
type Settings map[Category]bool

// DefaultSettings hides every category.
func DefaultSettings() Settings {
	s := make(Settings, len(Categories))
	for _, c := range Categories {
		s[c] = true
	}
	return s
}

// SettingsFromHidden builds settings with exactly the named categories hidden.
// Unknown names are ignored.
func SettingsFromHidden(hidden []string) Settings {
	s := make(Settings, len(Categories))
	for _, c := range Categories {
		s[c] = false
	}
	for _, name := range hidden {
		if c, err := ParseCategory(name); err == nil {
			s[c] = true
		}
	}
	return s
}

// Hidden reports whether c is hidden.
func (s Settings) Hidden(c Category) bool {
	return s[c]
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	return maps.Clone(s)
}

// MarshalSettings encodes settings as the stored JSON object.
func MarshalSettings(s Settings) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSettings decodes the stored JSON object.
func UnmarshalSettings(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode quiz settings: %w", err)
	}
	if s == nil {
		s = Settings{}
	}
	return s, nil
}

// Port persists quiz settings. Load reports false when nothing was stored yet.
type Port interface {
	Load(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, settings Settings) error
}

// Clearer is implemented by ports that can forget the stored settings.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Preferences is the application-wide quiz configuration. It lives as long as
// the process and is shared by every Controller.
type Preferences struct {
	port     Port
	defaults Settings
	logger   *slog.Logger

	mu       sync.RWMutex
	settings Settings
}

// LoadPreferences reads settings through port, falling back to defaults when
// nothing is stored or the store is unreadable. It never fails.
func LoadPreferences(ctx context.Context, port Port, defaults Settings, logger *slog.Logger) *Preferences {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	p := &Preferences{
		port:     port,
		defaults: defaults.Clone(),
		logger:   logging.NewComponentLogger(logger, "quiz"),
	}
	p.settings = p.load(ctx)
	return p
}

func (p *Preferences) load(ctx context.Context) Settings {
	if p.port == nil {
		return p.defaults.Clone()
	}
	stored, ok, err := p.port.Load(ctx)
	if err != nil {
		logging.WarnWithContext(p.logger, "quiz settings unreadable; using defaults", "quiz_settings_load_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "quiz settings reset to defaults"),
		)
		return p.defaults.Clone()
	}
	if !ok {
		return p.defaults.Clone()
	}
	return stored.Clone()
}

// Current returns a copy of the active settings.
func (p *Preferences) Current() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Clone()
}

// Hidden reports whether c is currently hidden.
func (p *Preferences) Hidden(c Category) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Hidden(c)
}

// Toggle flips c, persists the full mapping, and returns the updated settings.
// A persistence failure is logged and otherwise ignored.
func (p *Preferences) Toggle(ctx context.Context, c Category) Settings {
	p.mu.Lock()
	p.settings[c] = !p.settings[c]
	updated := p.settings.Clone()
	p.mu.Unlock()

	p.persist(ctx, updated)
	return updated
}

// Reset restores the defaults. A port that can clear drops the stored value so
// later loads fall back to the configured defaults; others store the defaults.
func (p *Preferences) Reset(ctx context.Context) Settings {
	p.mu.Lock()
	p.settings = p.defaults.Clone()
	updated := p.settings.Clone()
	p.mu.Unlock()

	clearer, ok := p.port.(Clearer)
	if !ok {
		p.persist(ctx, updated)
		return updated
	}
	if err := clearer.Clear(ctx); err != nil {
		logging.WarnWithContext(p.logger, "quiz settings not cleared", "quiz_settings_clear_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "previous settings return on next start"),
		)
	}
	return updated
}

func (p *Preferences) persist(ctx context.Context, s Settings) {
	if p.port == nil {
		return
	}
	if err := p.port.Save(ctx, s); err != nil {
		logging.WarnWithContext(p.logger, "quiz settings not saved", "quiz_settings_save_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "settings revert to defaults on next start"),
		)
	}
}
