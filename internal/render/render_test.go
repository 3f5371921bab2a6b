package render_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"opensynth/internal/logging"
	"opensynth/internal/render"
)

type stubRenderer struct {
	fail  map[string]bool
	calls []string
}

func (s *stubRenderer) Draw(_ context.Context, notation string, target render.Target, theme render.Theme) error {
	s.calls = append(s.calls, notation)
	if s.fail[notation] {
		return &render.RenderError{Notation: notation, Message: "unexpected character"}
	}
	_, err := fmt.Fprintf(target.Out, "<svg w=%d theme=%s>%s</svg>", target.Width, theme, notation)
	return err
}

func TestSplit(t *testing.T) {
	got := render.Split(" CC=O..c1ccccc1. ")
	if strings.Join(got, "|") != "CC=O|c1ccccc1" {
		t.Fatalf("unexpected split %v", got)
	}
	if len(render.Split("")) != 0 {
		t.Fatal("expected no molecules for empty notation")
	}
}

func TestValidate(t *testing.T) {
	for _, bad := range []string{"", "C C", "C\nO", "C\x00"} {
		var renderErr *render.RenderError
		if err := render.Validate(bad); !errors.As(err, &renderErr) {
			t.Fatalf("Validate(%q) = %v, want RenderError", bad, err)
		}
	}
	if err := render.Validate("C1=CC=CC=C1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDrawAllIsolatesFailures(t *testing.T) {
	stub := &stubRenderer{fail: map[string]bool{"Xx": true}}
	panels := render.DrawAll(context.Background(), stub, "CCO.Xx.O", 300, 200, render.ThemeDark, true, logging.NewNop())

	if len(panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(panels))
	}
	if panels[1].Error != "unexpected character" || !panels[1].Failed() {
		t.Fatalf("expected inline error for middle molecule, got %+v", panels[1])
	}
	for _, i := range []int{0, 2} {
		if panels[i].Failed() || !strings.Contains(panels[i].Diagram, "theme=dark") {
			t.Fatalf("panel %d should have rendered, got %+v", i, panels[i])
		}
		if panels[i].Width != 90 {
			t.Fatalf("expected split width 90, got %d", panels[i].Width)
		}
	}
}

func TestDrawAllWithoutSplitDrawsWhole(t *testing.T) {
	stub := &stubRenderer{}
	panels := render.DrawAll(context.Background(), stub, "CCO.O", 300, 200, render.ThemeLight, false, logging.NewNop())
	if len(panels) != 1 || panels[0].Notation != "CCO.O" || panels[0].Width != 300 {
		t.Fatalf("unexpected panels %+v", panels)
	}
	if len(render.DrawAll(context.Background(), stub, "  ", 300, 200, render.ThemeLight, true, logging.NewNop())) != 0 {
		t.Fatal("expected no panels for blank notation")
	}
}

func TestDrawAllNeverPassesInvalidNotation(t *testing.T) {
	stub := &stubRenderer{}
	panels := render.DrawAll(context.Background(), stub, "C C", 300, 200, render.ThemeLight, false, logging.NewNop())
	if len(stub.calls) != 0 {
		t.Fatalf("renderer should not be called, got %v", stub.calls)
	}
	if len(panels) != 1 || !panels[0].Failed() {
		t.Fatalf("expected error panel, got %+v", panels)
	}
}

func TestCommandRenderer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	ok := &render.CommandRenderer{
		Command: "sh",
		Args:    []string{"-c", `printf '<svg width="%s">%s</svg>' "$1" "$0"`, "{notation}", "{width}"},
		Timeout: 5 * time.Second,
	}
	var buf bytes.Buffer
	if err := ok.Draw(context.Background(), "CCO", render.Target{Width: 120, Height: 80, Out: &buf}, render.ThemeLight); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if buf.String() != `<svg width="120">CCO</svg>` {
		t.Fatalf("unexpected output %q", buf.String())
	}

	failing := &render.CommandRenderer{Command: "sh", Args: []string{"-c", "echo 'parse error at 3' >&2; exit 2"}}
	err := failing.Draw(context.Background(), "C(C", render.Target{Out: &buf}, render.ThemeLight)
	var renderErr *render.RenderError
	if !errors.As(err, &renderErr) || renderErr.Message != "parse error at 3" {
		t.Fatalf("expected RenderError with stderr message, got %v", err)
	}

	unset := &render.CommandRenderer{}
	if err := unset.Draw(context.Background(), "C", render.Target{}, render.ThemeLight); !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError without command, got %v", err)
	}
}
