package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type partitionGC interface {
	Name() string
	GarbageCollect(ctx context.Context, maxAgeDays int) (int64, error)
}

func newGCCommand(ctx *commandContext) *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete assets older than the age cutoff from both partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			age := maxAgeDays
			if age <= 0 {
				age = st.cfg.Assets.GCMaxAgeDays
			}

			out := cmd.OutOrStdout()
			var total int64
			for _, partition := range []partitionGC{st.assets.Images(), st.assets.Payloads()} {
				deleted, err := partition.GarbageCollect(cmd.Context(), age)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: deleted %d\n", partition.Name(), deleted)
				total += deleted
			}
			fmt.Fprintf(out, "Total deleted: %d (older than %d days)\n", total, age)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age", 0, "Age cutoff in days (defaults from config)")
	return cmd
}
