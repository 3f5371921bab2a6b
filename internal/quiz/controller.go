package quiz

import (
	"context"
	"sync"
)

// Controller holds the reveal state of the step on screen. It is owned by one
// view; the Preferences it reads from are shared.
type Controller struct {
	prefs *Preferences

	mu       sync.Mutex
	revealed map[Category]bool
}

// NewController returns a controller with nothing revealed.
func NewController(prefs *Preferences) *Controller {
	return &Controller{prefs: prefs, revealed: map[Category]bool{}}
}

// IsVisible reports whether the real value of c is shown: either c is not
// hidden, or it has been revealed on this step.
func (c *Controller) IsVisible(category Category) bool {
	if !c.prefs.Hidden(category) {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed[category]
}

// Reveal exposes a hidden category for the rest of this step. It reports
// whether anything changed; revealing a visible or already revealed category
// is a no-op.
func (c *Controller) Reveal(category Category) bool {
	if !c.prefs.Hidden(category) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revealed[category] {
		return false
	}
	c.revealed[category] = true
	return true
}

// ToggleSetting flips the shared hidden setting for category and returns the
// updated settings. Reveal state is left as is.
func (c *Controller) ToggleSetting(ctx context.Context, category Category) Settings {
	return c.prefs.Toggle(ctx, category)
}

// ResetReveals clears every reveal.
func (c *Controller) ResetReveals() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.revealed)
}

// Revealed returns the categories revealed on this step.
func (c *Controller) Revealed() map[Category]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Category]bool, len(c.revealed))
	for k, v := range c.revealed {
		if v {
			out[k] = true
		}
	}
	return out
}

// Settings returns the shared settings.
func (c *Controller) Settings() Settings {
	return c.prefs.Current()
}
