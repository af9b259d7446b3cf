package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipekit/internal/export"
	"recipekit/internal/resolve"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var ids []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a deployment archive from the workspace documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStores()
			if err != nil {
				return err
			}
			defer st.Close()

			all := st.ws.ListDocuments(cmd.Context())
			if len(all) == 0 {
				return fmt.Errorf("workspace holds no documents; import an archive or save a document first")
			}

			selected := all
			if len(ids) > 0 {
				wanted := make(map[string]struct{}, len(ids))
				for _, id := range ids {
					wanted[id] = struct{}{}
				}
				selected = nil
				for _, doc := range all {
					if _, ok := wanted[doc.ID]; ok {
						selected = append(selected, doc)
						delete(wanted, doc.ID)
					}
				}
				for id := range wanted {
					return fmt.Errorf("document %q is not in the workspace", id)
				}
			}

			resolver := resolve.NewResolver(st.assets.Images(), resolve.NewStaticSource(st.cfg), st.logger)
			exporter := export.NewExporter(resolver, st.assets.Payloads(), st.cfg.Paths.ExportDir, st.logger)

			summary, err := exporter.Export(cmd.Context(), export.Request{
				Documents:        selected,
				CatalogDocuments: all,
				ActiveOverrides:  st.ws.ActiveOverrides(cmd.Context()),
				OutputPath:       outputPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", summary.ArchivePath)
			fmt.Fprintf(out, "Folders: %d  Assets: %d  Missing: %d\n",
				summary.Folders, summary.AssetsWritten, summary.AssetsMissing)
			for _, missing := range summary.Missing {
				fmt.Fprintf(out, "  missing: %s\n", missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Archive path (defaults into the export directory)")
	cmd.Flags().StringArrayVar(&ids, "id", nil, "Package only these document ids (repeatable)")
	return cmd
}
