package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage backend, asset store, and workspace health",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			health, err := st.assets.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			docIDs := st.ws.DocumentIDs(cmd.Context())

			rows := [][]string{
				{"Default backend", st.facade.DefaultBackendName()},
				{"Asset database", health.DBPath},
				{"Database readable", yesNo(health.DatabaseReadable)},
				{"Integrity check", yesNo(health.IntegrityCheck)},
				{"Images stored", strconv.Itoa(health.ImageCount)},
				{"Payloads stored", strconv.Itoa(health.PayloadCount)},
				{"Workspace documents", strconv.Itoa(len(docIDs))},
				{"Export directory", st.cfg.Paths.ExportDir},
			}
			if len(health.MissingTables) > 0 {
				rows = append(rows, []string{"Missing tables", strings.Join(health.MissingTables, ", ")})
			}
			if health.Error != "" {
				rows = append(rows, []string{"Error", health.Error})
			}

			out := cmd.OutOrStdout()
			if isTerminal(os.Stdout) {
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
			}
			return nil
		},
	}
}
