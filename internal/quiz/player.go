package quiz

import (
	"fmt"
	"strings"

	"opensynth/internal/catalog"
	"opensynth/internal/sequence"
)

// Player steps through a synthesis with quiz-mode disclosure. Every change of
// position clears the reveal state so hidden fields hide again on the next step.
type Player struct {
	cursor     *sequence.Cursor[catalog.Step]
	controller *Controller
}

// NewPlayer builds a player over the record's steps. It returns
// sequence.ErrEmptySequence when there is nothing to play.
func NewPlayer(record *catalog.Record, prefs *Preferences) (*Player, error) {
	if record == nil {
		return nil, sequence.ErrEmptySequence
	}
	cursor, err := sequence.New(record.Sequence)
	if err != nil {
		return nil, err
	}
	return &Player{cursor: cursor, controller: NewController(prefs)}, nil
}

// Next advances one step and reports whether the position changed.
func (p *Player) Next() bool {
	if !p.cursor.Advance() {
		return false
	}
	p.controller.ResetReveals()
	return true
}

// Prev retreats one step and reports whether the position changed.
func (p *Player) Prev() bool {
	if !p.cursor.Retreat() {
		return false
	}
	p.controller.ResetReveals()
	return true
}

func (p *Player) Controller() *Controller { return p.controller }

func (p *Player) Current() catalog.Step { return p.cursor.Current() }

func (p *Player) Position() int { return p.cursor.Position() }

func (p *Player) Len() int { return p.cursor.Len() }

func (p *Player) CanPrev() bool { return !p.cursor.AtStart() }

func (p *Player) CanNext() bool { return !p.cursor.AtEnd() }

// Heading renders the "Step 3 / 12" title using the display-only step id.
func (p *Player) Heading() string {
	return fmt.Sprintf("Step %d / %d", p.Current().StepID, p.Len())
}

// Placeholder is shown in place of a hidden field.
const Placeholder = "?"

// Field is one category of the current step as it should be presented.
type Field struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Hidden   bool     `json:"hidden"`
	Value    string   `json:"value"`
	Notation string   `json:"notation,omitempty"`
}

// Fields projects the current step through the controller: hidden categories
// carry Placeholder and no notation.
func (p *Player) Fields() []Field {
	return ProjectStep(p.Current(), p.controller)
}

// ProjectStep projects step through controller in category order.
func ProjectStep(step catalog.Step, controller *Controller) []Field {
	fields := make([]Field, 0, len(Categories))
	for _, category := range Categories {
		field := Field{Category: category, Label: category.Label()}
		if !controller.IsVisible(category) {
			field.Hidden = true
			field.Value = Placeholder
			fields = append(fields, field)
			continue
		}
		switch category {
		case Reactant:
			field.Value = step.ReactantSmiles
			field.Notation = step.ReactantSmiles
		case Product:
			field.Value = step.ProductSmiles
			field.Notation = step.ProductSmiles
		case Name:
			field.Value = step.ReactionType
		case Conditions:
			field.Value = conditionsText(step)
		case Notes:
			field.Value = step.Notes
		}
		fields = append(fields, field)
	}
	return fields
}

func conditionsText(step catalog.Step) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{step.Reagents, step.Conditions} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if y := strings.TrimSpace(step.Yield); y != "" {
		parts = append(parts, y+" yield")
	}
	return strings.Join(parts, "; ")
}
