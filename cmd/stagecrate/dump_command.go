package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagecrate/internal/dump"
)

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "dump <file.usdc>",
		Short: "Decode a Crate file and print the stage as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ctx.decodeFile(args[0])
			if err != nil {
				return err
			}

			data, err := dump.StageJSON(&result.Stage, !compact)
			if err != nil {
				return fmt.Errorf("render stage: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON without indentation")
	return cmd
}
