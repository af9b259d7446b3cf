package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"recipekit/internal/broadcast"
	"recipekit/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var skipSave bool

	cmd := &cobra.Command{
		Use:   "import <archive>",
		Short: "Restore documents and assets from a deployment archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ws.Lock(); err != nil {
				return err
			}
			defer st.ws.Unlock()

			imp := importer.NewImporter(st.assets, st.cfg, st.logger)
			result, err := imp.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Folders attempted: %d  imported: %d  invalid: %d  inactive: %d\n",
				result.Attempted, result.Imported, result.SkippedInvalid, result.SkippedInactive)
			if result.Attempted == 0 {
				fmt.Fprintln(out, "Archive contained no recipe folders")
				return nil
			}

			if !skipSave {
				for i := range result.Documents {
					if _, ok := st.ws.SaveDocument(cmd.Context(), &result.Documents[i]); !ok {
						return fmt.Errorf("save imported document %q", result.Documents[i].Title)
					}
				}
				if result.Imported > 0 {
					// Tell watching processes the document set changed.
					payload, err := json.Marshal(struct {
						Event    string `json:"event"`
						Imported int    `json:"imported"`
					}{Event: "import", Imported: result.Imported})
					if err == nil {
						broadcast.NewPublisher(st.facade, st.cfg, st.logger).Publish(cmd.Context(), payload)
					}
				}
			}

			report, err := importer.IntegrityReport(cmd.Context(), result.Documents, st.assets.Images())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Images referenced: %d  missing: %d\n", report.TotalImages, report.MissingCount)
			for _, url := range report.MissingImages {
				fmt.Fprintf(out, "  missing: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSave, "no-save", false, "Restore assets only; do not add documents to the workspace")
	return cmd
}
