package quiz_test

import (
	"context"
	"errors"
	"testing"

	"opensynth/internal/catalog"
	"opensynth/internal/logging"
	"opensynth/internal/quiz"
	"opensynth/internal/sequence"
)

type memoryPort struct {
	stored  quiz.Settings
	ok      bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryPort) Load(context.Context) (quiz.Settings, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return m.stored.Clone(), m.ok, nil
}

func (m *memoryPort) Save(_ context.Context, s quiz.Settings) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = s.Clone()
	m.ok = true
	return nil
}

func preferences(t *testing.T, port quiz.Port) *quiz.Preferences {
	t.Helper()
	return quiz.LoadPreferences(context.Background(), port, nil, logging.NewNop())
}

func record(steps int) *catalog.Record {
	r := &catalog.Record{}
	for i := 1; i <= steps; i++ {
		r.Sequence = append(r.Sequence, catalog.Step{
			StepID:         i * 10,
			ReactionType:   "Aldol",
			ReactantSmiles: "CC=O.CC=O",
			ProductSmiles:  "CC(O)CC=O",
			Reagents:       "NaOH",
			Conditions:     "H2O, rt",
			Yield:          "85%",
			Notes:          "classic",
		})
	}
	return r
}

func TestDefaultsHideEverything(t *testing.T) {
	prefs := preferences(t, &memoryPort{})
	for _, c := range quiz.Categories {
		if !prefs.Hidden(c) {
			t.Fatalf("expected %s hidden by default", c)
		}
	}
}

func TestVisibilityScenario(t *testing.T) {
	port := &memoryPort{stored: quiz.Settings{quiz.Reactant: true, quiz.Product: false}, ok: true}
	ctrl := quiz.NewController(preferences(t, port))

	if !ctrl.IsVisible(quiz.Product) {
		t.Fatal("product is not hidden and should be visible")
	}
	if ctrl.IsVisible(quiz.Reactant) {
		t.Fatal("reactant is hidden and not revealed")
	}
	if !ctrl.IsVisible(quiz.Notes) {
		t.Fatal("categories absent from settings are visible")
	}
	if !ctrl.Reveal(quiz.Reactant) {
		t.Fatal("first reveal should change state")
	}
	if !ctrl.IsVisible(quiz.Reactant) {
		t.Fatal("revealed reactant should be visible")
	}
	if ctrl.Reveal(quiz.Reactant) {
		t.Fatal("second reveal should be a no-op")
	}
	if !ctrl.IsVisible(quiz.Reactant) {
		t.Fatal("reactant should stay visible")
	}
	if ctrl.Reveal(quiz.Product) {
		t.Fatal("revealing a visible category should be a no-op")
	}
	if len(ctrl.Revealed()) != 1 {
		t.Fatalf("expected exactly one revealed category, got %v", ctrl.Revealed())
	}
}

func TestToggleSettingPersistsAndExposesImmediately(t *testing.T) {
	port := &memoryPort{}
	ctrl := quiz.NewController(preferences(t, port))

	updated := ctrl.ToggleSetting(context.Background(), quiz.Notes)
	if updated[quiz.Notes] {
		t.Fatal("expected notes to become not hidden")
	}
	if !ctrl.IsVisible(quiz.Notes) {
		t.Fatal("notes should be visible without a reveal")
	}
	if len(ctrl.Revealed()) != 0 {
		t.Fatal("toggling must not touch reveal state")
	}
	if port.saves != 1 || port.stored[quiz.Notes] || !port.stored[quiz.Reactant] {
		t.Fatalf("expected full mapping saved once, got %d saves %v", port.saves, port.stored)
	}

	reloaded := preferences(t, port)
	if reloaded.Hidden(quiz.Notes) {
		t.Fatal("toggle should survive reload")
	}
}

func TestToggleAbsentCategoryHidesIt(t *testing.T) {
	port := &memoryPort{stored: quiz.Settings{}, ok: true}
	prefs := preferences(t, port)
	if prefs.Hidden(quiz.Name) {
		t.Fatal("absent category should not be hidden")
	}
	if !prefs.Toggle(context.Background(), quiz.Name)[quiz.Name] {
		t.Fatal("toggling an absent category should hide it")
	}
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	broken := &memoryPort{loadErr: errors.New("disk gone"), saveErr: errors.New("disk gone")}
	prefs := preferences(t, broken)
	if !prefs.Hidden(quiz.Product) {
		t.Fatal("expected defaults when load fails")
	}
	updated := prefs.Toggle(context.Background(), quiz.Product)
	if updated[quiz.Product] {
		t.Fatal("toggle should still apply in memory")
	}
	if prefs.Hidden(quiz.Product) {
		t.Fatal("in-memory state should reflect toggle")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	port := &memoryPort{}
	prefs := quiz.LoadPreferences(context.Background(), port, quiz.SettingsFromHidden([]string{"product"}), logging.NewNop())
	prefs.Toggle(context.Background(), quiz.Reactant)
	got := prefs.Reset(context.Background())
	if got[quiz.Reactant] || !got[quiz.Product] {
		t.Fatalf("unexpected settings after reset: %v", got)
	}
	if port.saves != 2 {
		t.Fatalf("expected reset to persist, saves=%d", port.saves)
	}
}

type clearingPort struct {
	memoryPort
	clears int
}

func (c *clearingPort) Clear(context.Context) error {
	c.clears++
	c.stored = nil
	c.ok = false
	return nil
}

func TestResetClearsStoredSettings(t *testing.T) {
	port := &clearingPort{}
	ctx := context.Background()
	prefs := quiz.LoadPreferences(ctx, port, quiz.SettingsFromHidden([]string{"product"}), logging.NewNop())
	prefs.Toggle(ctx, quiz.Product)

	got := prefs.Reset(ctx)
	if !got[quiz.Product] || got[quiz.Reactant] {
		t.Fatalf("unexpected settings after reset: %v", got)
	}
	if port.clears != 1 || port.saves != 1 {
		t.Fatalf("expected reset to clear instead of save, clears=%d saves=%d", port.clears, port.saves)
	}
	if _, ok, _ := port.Load(ctx); ok {
		t.Fatal("stored settings should be gone after reset")
	}
}

func TestPlayerClearsRevealsOnMove(t *testing.T) {
	player, err := quiz.NewPlayer(record(3), preferences(t, &memoryPort{}))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	ctrl := player.Controller()
	for _, c := range quiz.Categories {
		ctrl.Reveal(c)
	}

	if !player.Next() {
		t.Fatal("expected to advance")
	}
	if len(ctrl.Revealed()) != 0 {
		t.Fatalf("reveal state should be empty after moving, got %v", ctrl.Revealed())
	}

	ctrl.Reveal(quiz.Notes)
	if !player.Prev() {
		t.Fatal("expected to retreat")
	}
	if len(ctrl.Revealed()) != 0 {
		t.Fatal("reveal state should be empty after retreating")
	}
}

func TestPlayerSaturatedMoveKeepsReveals(t *testing.T) {
	player, err := quiz.NewPlayer(record(1), preferences(t, &memoryPort{}))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	player.Controller().Reveal(quiz.Name)
	if player.Next() || player.Prev() {
		t.Fatal("single-step player should not move")
	}
	if !player.Controller().IsVisible(quiz.Name) {
		t.Fatal("a no-op move is not a position change")
	}
	if player.CanNext() || player.CanPrev() {
		t.Fatal("both transitions should be disabled")
	}
}

func TestNewPlayerRejectsEmptyRecord(t *testing.T) {
	prefs := preferences(t, &memoryPort{})
	if _, err := quiz.NewPlayer(&catalog.Record{}, prefs); !errors.Is(err, sequence.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := quiz.NewPlayer(nil, prefs); !errors.Is(err, sequence.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence for nil record, got %v", err)
	}
}

func TestFieldsProjectPlaceholders(t *testing.T) {
	port := &memoryPort{stored: quiz.SettingsFromHidden([]string{"reactant", "conditions"}), ok: true}
	player, err := quiz.NewPlayer(record(2), preferences(t, port))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	if got := player.Heading(); got != "Step 10 / 2" {
		t.Fatalf("unexpected heading %q", got)
	}

	byCategory := map[quiz.Category]quiz.Field{}
	for _, f := range player.Fields() {
		byCategory[f.Category] = f
	}
	if f := byCategory[quiz.Reactant]; !f.Hidden || f.Value != quiz.Placeholder || f.Notation != "" {
		t.Fatalf("reactant should be a placeholder, got %+v", f)
	}
	if f := byCategory[quiz.Product]; f.Hidden || f.Notation != "CC(O)CC=O" {
		t.Fatalf("product should be shown, got %+v", f)
	}
	if f := byCategory[quiz.Name]; f.Value != "Aldol" || f.Label != "Reaction Name" {
		t.Fatalf("unexpected name field %+v", f)
	}

	player.Controller().Reveal(quiz.Conditions)
	for _, f := range player.Fields() {
		if f.Category == quiz.Conditions && f.Value != "NaOH; H2O, rt; 85% yield" {
			t.Fatalf("unexpected conditions text %q", f.Value)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := quiz.ParseCategory(" Product "); err != nil || c != quiz.Product {
		t.Fatalf("ParseCategory = %q, %v", c, err)
	}
	if _, err := quiz.ParseCategory("yield"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSettingsJSONMatchesStoredShape(t *testing.T) {
	data, err := quiz.MarshalSettings(quiz.Settings{quiz.Reactant: true, quiz.Notes: false})
	if err != nil {
		t.Fatalf("MarshalSettings: %v", err)
	}
	if string(data) != `{"notes":false,"reactant":true}` {
		t.Fatalf("unexpected JSON %s", data)
	}
	if _, err := quiz.UnmarshalSettings([]byte("nope")); err == nil {
		t.Fatal("expected decode error")
	}
}
