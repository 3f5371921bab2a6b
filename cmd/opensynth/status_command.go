package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"opensynth/internal/api"
	"opensynth/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the data source, directories, and renderer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			style := newPalette(out)

			for _, line := range style.heading("Checks") {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				fmt.Fprintln(out, style.check(result))
			}

			svc := api.OpenCatalog(cfg, ctx.cliLogger())
			entries := svc.Entries(cmd.Context())
			fmt.Fprintln(out)
			for _, line := range style.heading("Library") {
				fmt.Fprintln(out, line)
			}
			if err := svc.IndexError(); err != nil {
				fmt.Fprintln(out, style.failure("Index", err.Error()))
				return nil
			}
			fmt.Fprintln(out, labelled("Index", fmt.Sprintf("%d syntheses", len(entries))))
			fmt.Fprintln(out, labelled("API bind", cfg.Paths.APIBind))
			fmt.Fprintln(out, labelled("Token required", yesNo(cfg.Paths.APIToken != "")))
			return nil
		},
	}
}
