// Package viewer holds the per-client state of the synthesis slideshow: which
// synthesis is open, where the cursor is, and what has been revealed.
//
// A View resolves its synthesis without holding its lock, so a slow fetch
// never blocks navigation. Each Open bumps a generation counter; a fetch that
// completes after a newer Open is discarded instead of overwriting the newer
// state.
package viewer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"opensynth/internal/catalog"
	"opensynth/internal/logging"
	"opensynth/internal/quiz"
)

// State is the presentation state of a view.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateNotFound State = "not_found"
	StateEmpty    State = "empty"
)

var (
	// ErrNotReady is returned by navigation when no playable synthesis is open.
	ErrNotReady = errors.New("no synthesis ready in this view")
	// ErrSuperseded is returned by Open when a newer Open replaced its result.
	ErrSuperseded = errors.New("synthesis load superseded by a newer request")
)

// Resolver fetches a synthesis record by identifier.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*catalog.Record, error)
}

// View is one client's slideshow.
type View struct {
	id       string
	resolver Resolver
	prefs    *quiz.Preferences
	logger   *slog.Logger

	mu          sync.Mutex
	generation  uint64
	synthesisID string
	state       State
	record      *catalog.Record
	player      *quiz.Player
}

// New returns an idle view.
func New(id string, resolver Resolver, prefs *quiz.Preferences, logger *slog.Logger) *View {
	return &View{
		id:       id,
		resolver: resolver,
		prefs:    prefs,
		logger:   logging.NewComponentLogger(logger, "viewer").With(logging.String(logging.FieldViewID, id)),
		state:    StateIdle,
	}
}

func (v *View) ID() string { return v.id }

// Open switches the view to synthesisID and resolves it. Resolution failures
// leave the view in StateNotFound; a record without steps leaves it in
// StateEmpty. If another Open started while this one was resolving, the
// result is dropped and ErrSuperseded is returned with the newer state.
func (v *View) Open(ctx context.Context, synthesisID string) (Snapshot, error) {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	v.synthesisID = synthesisID
	v.state = StateLoading
	v.record = nil
	v.player = nil
	v.mu.Unlock()

	ctx = logging.WithSynthesisID(logging.WithViewID(ctx, v.id), synthesisID)
	record, err := v.resolver.Resolve(ctx, synthesisID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		v.logger.Debug("stale synthesis load discarded",
			logging.String(logging.FieldSynthesisID, synthesisID),
			logging.String("current", v.synthesisID),
		)
		return v.snapshotLocked(), ErrSuperseded
	}
	v.apply(record, err)
	return v.snapshotLocked(), nil
}

func (v *View) apply(record *catalog.Record, err error) {
	if err != nil {
		v.state = StateNotFound
		return
	}
	player, perr := quiz.NewPlayer(record, v.prefs)
	if perr != nil {
		v.logger.Info("synthesis has no steps", logging.String(logging.FieldSynthesisID, v.synthesisID))
		v.record = record
		v.state = StateEmpty
		return
	}
	v.record = record
	v.player = player
	v.state = StateReady
}

// Next advances the slideshow.
func (v *View) Next() (Snapshot, error) {
	return v.navigate(func(p *quiz.Player) { p.Next() })
}

// Prev steps the slideshow back.
func (v *View) Prev() (Snapshot, error) {
	return v.navigate(func(p *quiz.Player) { p.Prev() })
}

// Reveal exposes a hidden category on the current step.
func (v *View) Reveal(category quiz.Category) (Snapshot, error) {
	return v.navigate(func(p *quiz.Player) { p.Controller().Reveal(category) })
}

func (v *View) navigate(fn func(*quiz.Player)) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player == nil {
		return v.snapshotLocked(), ErrNotReady
	}
	fn(v.player)
	return v.snapshotLocked(), nil
}

// ToggleSetting flips a shared quiz setting and returns the refreshed view.
func (v *View) ToggleSetting(ctx context.Context, category quiz.Category) Snapshot {
	v.prefs.Toggle(ctx, category)
	return v.Snapshot()
}

// Snapshot returns the current presentation state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}
