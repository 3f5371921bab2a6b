package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"opensynth/internal/logging"
	"opensynth/internal/maintenance"
)

func newReindexCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Recount the steps of every synthesis and update the index",
		Long: "Reads every record named by the index under paths.data_dir and rewrites its step_count.\n" +
			"Entries without a path, or whose record is missing or unreadable, are left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Maintenance runs unattended, so keep a record in the log directory.
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				logger = ctx.cliLogger()
			}
			result, err := maintenance.Reconcile(cmd.Context(), maintenance.Options{
				DataDir:   cfg.Paths.DataDir,
				IndexPath: cfg.IndexPath(),
				DryRun:    dryRun,
				Logger:    logger,
			})
			if err != nil {
				if errors.Is(err, maintenance.ErrIndexMissing) {
					return fmt.Errorf("index not found at %s", cfg.IndexPath())
				}
				return err
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]column{
				{Header: "Entries", Align: alignRight},
				{Header: "Updated", Align: alignRight},
				{Header: "Skipped", Align: alignRight},
			}, [][]string{{
				strconv.Itoa(result.Total),
				strconv.Itoa(result.Updated),
				strconv.Itoa(result.Skipped),
			}}))
			if dryRun {
				fmt.Fprintln(out, "Dry run: index not written")
			} else {
				fmt.Fprintf(out, "Updated %d entries with step counts\n", result.Updated)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing the index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
