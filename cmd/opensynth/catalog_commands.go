package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"opensynth/internal/api"
	"opensynth/internal/catalog"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var minSteps int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List syntheses, optionally filtered by molecule or author",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			svc := api.OpenCatalog(cfg, ctx.cliLogger())
			resp := svc.List(cmd.Context(), query, minSteps)
			if asJSON {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if resp.Unavailable {
				fmt.Fprintf(out, "Synthesis index unavailable at %s\n", describeSource(cfg))
				return nil
			}
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "No syntheses match")
				return nil
			}
			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.ID,
					item.MoleculeName,
					item.Author,
					formatYear(item.Year),
					item.Class,
					strconv.Itoa(item.StepCount),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{Header: "ID"},
				{Header: "Molecule", MaxWidth: 32},
				{Header: "Author", MaxWidth: 32},
				{Header: "Year", Align: alignRight},
				{Header: "Class"},
				{Header: "Steps", Align: alignRight},
			}, rows))
			fmt.Fprintf(out, "%d of %d syntheses\n", len(resp.Items), resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&minSteps, "min-steps", 0, "Only list syntheses with at least this many steps")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every step of a synthesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			svc := api.OpenCatalog(cfg, ctx.cliLogger())
			detail, err := svc.Describe(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrFetchFailed) {
					return fmt.Errorf("synthesis %q not found", id)
				}
				return err
			}
			if asJSON {
				return writeJSON(cmd, detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, describeMeta(detail.Meta))
			if len(detail.Sequence) == 0 {
				fmt.Fprintln(out, "This synthesis has no steps")
				return nil
			}
			rows := make([][]string, 0, len(detail.Sequence))
			for _, step := range detail.Sequence {
				rows = append(rows, []string{
					strconv.Itoa(step.StepID),
					step.ReactionType,
					step.ReactantSmiles,
					step.ProductSmiles,
					conditionsSummary(step),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{Header: "Step", Align: alignRight},
				{Header: "Reaction", MaxWidth: 24},
				{Header: "Reactant", MaxWidth: 36},
				{Header: "Product", MaxWidth: 36},
				{Header: "Conditions", MaxWidth: 36},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func describeMeta(meta catalog.Meta) string {
	parts := []string{meta.MoleculeName}
	if meta.Author != "" {
		parts = append(parts, meta.Author)
	}
	if meta.Year > 0 {
		parts = append(parts, strconv.Itoa(meta.Year))
	}
	line := strings.Join(parts, " / ")
	if meta.Journal != "" {
		line += " (" + meta.Journal + ")"
	}
	return line
}

func conditionsSummary(step catalog.Step) string {
	var parts []string
	for _, value := range []string{step.Reagents, step.Conditions} {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, v)
		}
	}
	summary := strings.Join(parts, "; ")
	if y := strings.TrimSpace(step.Yield); y != "" {
		summary = strings.TrimSpace(summary + " " + y)
	}
	return summary
}

func formatYear(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
