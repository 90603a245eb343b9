package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stagecrate/internal/catalog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently inspected Crate files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Catalog.Enabled {
				return fmt.Errorf("the inspection catalog is disabled in configuration")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg.Catalog.Path, logger)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			var entries []catalog.Entry
			if fingerprint != "" {
				entries, err = store.LookupFingerprint(context.Background(), fingerprint)
			} else {
				entries, err = store.Recent(context.Background(), limit)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded decodes")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"When", "File", "Prims", "Warnings", "OK", "Elapsed", "Fingerprint"})
			for _, e := range entries {
				ok := "yes"
				if !e.Succeeded {
					ok = "no"
				}
				t.AppendRow(table.Row{
					e.CreatedAt.Local().Format(time.DateTime),
					e.FilePath,
					e.PrimCount,
					e.WarningCount,
					ok,
					e.Duration,
					e.Fingerprint,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Show decodes matching a content fingerprint")
	return cmd
}
