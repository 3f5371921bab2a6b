// Package render is the boundary to the external molecule drawing tool.
//
// Callers hand a structure-notation string to a Renderer and get either a
// diagram written to their Target or a *RenderError. DrawAll splits
// multi-molecule notation and turns each failure into an inline error panel so
// one bad molecule never blanks the rest of a step.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"opensynth/internal/logging"
)

// Theme selects the diagram colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Target is the caller-supplied drawing surface.
type Target struct {
	Width  int
	Height int
	Out    io.Writer
}

// Renderer draws one notation string into a target.
type Renderer interface {
	Draw(ctx context.Context, notation string, target Target, theme Theme) error
}

// RenderError reports that a notation string could not be drawn.
type RenderError struct {
	Notation string
	Message  string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %s", e.Notation, e.Message)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Validate rejects notation the drawing tool must never see: empty strings
// and strings containing whitespace or control characters.
func Validate(notation string) error {
	if notation == "" {
		return &RenderError{Notation: notation, Message: "empty notation"}
	}
	for _, r := range notation {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &RenderError{Notation: notation, Message: "notation contains whitespace or control characters"}
		}
	}
	return nil
}

// Split breaks '.'-joined notation into its molecules, dropping empty parts.
func Split(notation string) []string {
	parts := strings.Split(strings.TrimSpace(notation), ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Panel is the outcome of drawing one molecule.
type Panel struct {
	Notation string `json:"notation"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Diagram  string `json:"diagram,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the panel is an error placeholder.
func (p Panel) Failed() bool { return p.Error != "" }

// DrawAll draws every molecule in notation side by side within width. With
// split false the whole notation is drawn as one diagram. Failures become
// error panels and are logged with the offending notation.
func DrawAll(ctx context.Context, r Renderer, notation string, width, height int, theme Theme, split bool, logger *slog.Logger) []Panel {
	molecules := []string{strings.TrimSpace(notation)}
	if split {
		molecules = Split(notation)
	}
	if len(molecules) == 0 || molecules[0] == "" {
		return nil
	}
	single := width
	if len(molecules) > 1 {
		single = width/len(molecules) - 10
	}

	logger = logging.NewComponentLogger(logger, "render")
	panels := make([]Panel, 0, len(molecules))
	for _, molecule := range molecules {
		panel := Panel{Notation: molecule, Width: single, Height: height}
		var buf bytes.Buffer
		err := Validate(molecule)
		if err == nil {
			err = r.Draw(ctx, molecule, Target{Width: single, Height: height, Out: &buf}, theme)
		}
		if err != nil {
			panel.Error = errorMessage(err)
			logging.WarnWithContext(logging.WithContext(ctx, logger), "molecule render failed", "render_failed",
				logging.String(logging.FieldNotation, molecule),
				logging.Error(err),
				logging.String(logging.FieldImpact, "inline error shown for this molecule"),
			)
		} else {
			panel.Diagram = buf.String()
		}
		panels = append(panels, panel)
	}
	return panels
}

func errorMessage(err error) string {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Message
	}
	return err.Error()
}
