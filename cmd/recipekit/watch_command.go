package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recipekit/internal/broadcast"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print workspace change broadcasts as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sub := broadcast.NewSubscriber(st.facade, st.local, st.cfg, st.logger)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching for workspace changes (ctrl-c to stop)")
			for msg := range sub.Watch(runCtx) {
				fmt.Fprintf(out, "%s %s\n", msg.Timestamp.Local().Format("15:04:05"), msg.Payload)
			}
			return nil
		},
	}
}
