package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"opensynth/internal/api"
	"opensynth/internal/quiz"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Show or change which categories quiz mode hides",
	}
	quizCmd.AddCommand(newQuizShowCommand(ctx))
	quizCmd.AddCommand(newQuizToggleCommand(ctx))
	quizCmd.AddCommand(newQuizResetCommand(ctx))
	return quizCmd
}

func newQuizShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the quiz settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPreferences(cmd, ctx, func(prefs *api.Preferences) error {
				settings := prefs.Current()
				if asJSON {
					return writeJSON(cmd, api.FromSettings(settings))
				}
				writeSettings(cmd.OutOrStdout(), settings)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newQuizToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <category>",
		Short: "Flip whether a category is hidden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := quiz.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return withPreferences(cmd, ctx, func(prefs *api.Preferences) error {
				writeSettings(cmd.OutOrStdout(), prefs.Toggle(cmd.Context(), category))
				return nil
			})
		},
	}
}

func newQuizResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default quiz settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPreferences(cmd, ctx, func(prefs *api.Preferences) error {
				writeSettings(cmd.OutOrStdout(), prefs.Reset(cmd.Context()))
				return nil
			})
		},
	}
}

func withPreferences(cmd *cobra.Command, ctx *commandContext, fn func(*api.Preferences) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	prefs := api.OpenPreferences(cmd.Context(), cfg, ctx.cliLogger())
	defer prefs.Close()
	return fn(prefs)
}

func writeSettings(out io.Writer, settings quiz.Settings) {
	rows := make([][]string, 0, len(quiz.Categories))
	for _, c := range quiz.Categories {
		rows = append(rows, []string{string(c), c.Label(), yesNo(settings.Hidden(c))})
	}
	fmt.Fprintln(out, renderTable([]column{
		{Header: "Category"},
		{Header: "Label"},
		{Header: "Hidden"},
	}, rows))
}
