package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"opensynth/internal/preflight"
	"opensynth/internal/quiz"
	"opensynth/internal/viewer"
)

const (
	sgrReset  = "\x1b[0m"
	sgrBold   = "\x1b[1m"
	sgrDim    = "\x1b[2m"
	sgrRed    = "\x1b[31m"
	sgrGreen  = "\x1b[32m"
	sgrYellow = "\x1b[33m"
	sgrCyan   = "\x1b[36m"
)

const (
	labelWidth = 20
	lineIndent = "  "
)

// palette styles terminal output. The zero value writes plain text.
type palette struct {
	color bool
}

func newPalette(w io.Writer) palette {
	file, ok := w.(*os.File)
	if !ok {
		return palette{}
	}
	fd := file.Fd()
	return palette{color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (p palette) wrap(code, s string) string {
	if !p.color || s == "" {
		return s
	}
	return code + s + sgrReset
}

func (p palette) title(s string) string { return p.wrap(sgrBold, s) }

func (p palette) muted(s string) string { return p.wrap(sgrDim, s) }

func (p palette) heading(s string) []string {
	line := strings.TrimSpace(s)
	return []string{p.wrap(sgrBold+sgrCyan, line), p.wrap(sgrCyan, strings.Repeat("─", len([]rune(line))))}
}

func labelled(label, value string) string {
	return fmt.Sprintf("%s%-*s %s", lineIndent, labelWidth, label+":", value)
}

// field renders one category of a step. A hidden value keeps its placeholder
// and names the command that reveals it.
func (p palette) field(f quiz.Field) string {
	if !f.Hidden {
		return labelled(f.Label, f.Value)
	}
	return labelled(f.Label, p.wrap(sgrYellow, f.Value)+" "+p.muted("(r "+string(f.Category)+")"))
}

// navigation lists the moves for the current step; a move that is unavailable
// at either end of the sequence stays listed but dimmed.
func (p palette) navigation(snap viewer.Snapshot) string {
	move := func(enabled bool, label string) string {
		if enabled {
			return label
		}
		return p.muted(label + " (none)")
	}
	return strings.Join([]string{
		move(snap.CanPrev, "p previous"),
		move(snap.CanNext, "n next"),
		"q quit",
	}, " | ")
}

// check renders a preflight result as a labelled ok/warn/fail line.
func (p palette) check(r preflight.Result) string {
	mark, code := "ok", sgrGreen
	switch {
	case !r.Passed && r.Optional:
		mark, code = "warn", sgrYellow
	case !r.Passed:
		mark, code = "fail", sgrRed
	}
	value := p.wrap(code, "["+mark+"]")
	if r.Detail != "" {
		value += " " + r.Detail
	}
	return labelled(r.Name, value)
}

func (p palette) failure(label, detail string) string {
	return labelled(label, p.wrap(sgrRed, "[fail]")+" "+detail)
}
