package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dubber/internal/journal"
	"dubber/internal/language"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recently finished jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			j, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			entries, err := j.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No finished jobs recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				detail := entry.OutputKey
				if entry.ErrorMessage != "" {
					detail = entry.ErrorMessage
				}
				rows = append(rows, []string{
					entry.JobID,
					string(entry.Status),
					language.DisplayName(entry.TargetLanguage),
					entry.CompletedAt.Local().Format(time.DateTime),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Job", "Status", "Language", "Finished", "Output / Error"},
				rows,
				3,
			))
			fmt.Fprintf(out, "%s finished job(s)\n", strconv.Itoa(len(entries)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list (0 for all)")
	return cmd
}
