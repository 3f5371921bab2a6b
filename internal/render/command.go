package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandRenderer runs an external drawing tool and copies its stdout to the
// target. Arguments may contain {notation}, {width}, {height} and {theme}.
type CommandRenderer struct {
	Command string
	Args    []string
	Timeout time.Duration
}

func (c *CommandRenderer) Draw(ctx context.Context, notation string, target Target, theme Theme) error {
	if err := Validate(notation); err != nil {
		return err
	}
	if strings.TrimSpace(c.Command) == "" {
		return &RenderError{Notation: notation, Message: "no render command configured"}
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	replacer := strings.NewReplacer(
		"{notation}", notation,
		"{width}", strconv.Itoa(target.Width),
		"{height}", strconv.Itoa(target.Height),
		"{theme}", string(theme),
	)
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = replacer.Replace(arg)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			message = fmt.Sprintf("timed out after %s", c.Timeout)
		}
		return &RenderError{Notation: notation, Message: message, Err: err}
	}
	if stdout.Len() == 0 {
		return &RenderError{Notation: notation, Message: firstLine(stderr.String(), "renderer produced no output")}
	}
	if target.Out != nil {
		if _, err := target.Out.Write(stdout.Bytes()); err != nil {
			return &RenderError{Notation: notation, Message: "write diagram", Err: err}
		}
	}
	return nil
}

func firstLine(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
