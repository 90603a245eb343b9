package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stagecrate/internal/dump"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file.usdc>",
		Short: "Decode a Crate file and print a stage summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ctx.decodeFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			metas := result.Stage.Metas
			if metas.UpAxis != nil {
				fmt.Fprintf(out, "up axis:          %s\n", metas.UpAxis)
			}
			if metas.MetersPerUnit != nil {
				fmt.Fprintf(out, "meters per unit:  %g\n", *metas.MetersPerUnit)
			}
			if metas.TimeCodesPerSecond != nil {
				fmt.Fprintf(out, "timecodes/sec:    %g\n", *metas.TimeCodesPerSecond)
			}
			if metas.DefaultPrim != "" {
				fmt.Fprintf(out, "default prim:     %s\n", metas.DefaultPrim)
			}
			fmt.Fprintf(out, "file size:        %d bytes\n", result.FileSize)
			fmt.Fprintf(out, "fingerprint:      %s\n", result.Fingerprint)
			fmt.Fprintf(out, "decode time:      %s\n", result.Duration)

			summary := dump.Summarize(&result.Stage)
			fmt.Fprintf(out, "prims:            %d\n", summary.PrimCount)

			if len(summary.TypeCounts) > 0 {
				t := table.NewWriter()
				t.SetOutputMirror(out)
				t.AppendHeader(table.Row{"Prim Type", "Count"})
				for _, tc := range summary.TypeCounts {
					t.AppendRow(table.Row{tc.TypeName, tc.Count})
				}
				t.Render()
			}

			if warning := result.Reader.Warning(); warning != "" {
				fmt.Fprintf(out, "\nwarnings:\n%s", warning)
			}
			return nil
		},
	}
	return cmd
}
