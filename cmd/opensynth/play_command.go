package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"opensynth/internal/api"
	"opensynth/internal/quiz"
	"opensynth/internal/viewer"
)

const playHelp = "n next, p previous, r <category> reveal, t <category> toggle hiding, q quit"

func newPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Step through a synthesis in quiz mode",
		Long: "Step through a synthesis one reaction at a time. Hidden categories show \"?\" until revealed.\n" +
			"Commands: " + playHelp + ".\nCategories: " + categoryList() + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.cliLogger()
			prefs := api.OpenPreferences(cmd.Context(), cfg, logger)
			defer prefs.Close()

			view := viewer.New("terminal", api.OpenCatalog(cfg, logger), prefs.Preferences, logger)
			id := strings.TrimSpace(args[0])
			snap, err := view.Open(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch snap.State {
			case viewer.StateNotFound:
				return fmt.Errorf("synthesis %q not found", id)
			case viewer.StateEmpty:
				if snap.Meta != nil {
					fmt.Fprintln(out, describeMeta(*snap.Meta))
				}
				fmt.Fprintln(out, "This synthesis has no steps")
				return nil
			}
			return playLoop(cmd.InOrStdin(), out, view, snap, newPalette(out), func(c quiz.Category) viewer.Snapshot {
				return view.ToggleSetting(cmd.Context(), c)
			})
		},
	}
}

func playLoop(in io.Reader, out io.Writer, view *viewer.View, snap viewer.Snapshot, style palette, toggle func(quiz.Category) viewer.Snapshot) error {
	writeFrame(out, snap, style)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		verb = strings.ToLower(verb)
		var err error
		switch verb {
		case "q", "quit", "exit":
			return nil
		case "n", "next":
			snap, err = view.Next()
		case "p", "prev", "previous":
			snap, err = view.Prev()
		case "r", "reveal", "t", "toggle":
			category, perr := quiz.ParseCategory(strings.TrimSpace(arg))
			if perr != nil {
				fmt.Fprintf(out, "%v (categories: %s)\n", perr, categoryList())
				continue
			}
			if verb == "t" || verb == "toggle" {
				snap = toggle(category)
			} else {
				snap, err = view.Reveal(category)
			}
		case "", "h", "help", "?":
			fmt.Fprintln(out, playHelp)
			continue
		default:
			fmt.Fprintf(out, "unknown command %q; %s\n", verb, playHelp)
			continue
		}
		if errors.Is(err, viewer.ErrNotReady) {
			return err
		}
		writeFrame(out, snap, style)
	}
}

func writeFrame(out io.Writer, snap viewer.Snapshot, style palette) {
	fmt.Fprintln(out)
	if snap.Meta != nil {
		fmt.Fprintln(out, style.title(describeMeta(*snap.Meta)))
	}
	for _, line := range style.heading(snap.Heading) {
		fmt.Fprintln(out, line)
	}
	for _, field := range snap.Fields {
		fmt.Fprintln(out, style.field(field))
	}
	fmt.Fprintln(out, style.navigation(snap))
}

func categoryList() string {
	names := make([]string, 0, len(quiz.Categories))
	for _, c := range quiz.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
