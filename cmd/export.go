package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/catalog"
	"github.com/brandenburg-angeln/spot-cli/internal/query"
)

var (
	exportOut       string
	exportGroups    []string
	exportAllGroups bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as GeoJSON for the map renderer",
	RunE: func(cmd *cobra.Command, args []string) error {
		spots, err := catalog.Load(cfg.Harvest.Output)
		if err != nil {
			return err
		}

		prefixes := exportGroups
		if exportAllGroups || len(prefixes) == 0 {
			// Exporting is an explicit "everything" request, unlike an
			// interactive query with no selection.
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			prefixes = reg.AllPrefixes()
		}

		results, err := query.Run(spots, query.Params{Prefixes: prefixes})
		if err != nil {
			return err
		}

		data, err := catalog.ToGeoJSON(results)
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			fmt.Fprintln(os.Stdout, string(data))
			return nil
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return err
		}

		zap.L().Info("exported geojson", zap.String("path", exportOut), zap.Int("spots", len(results)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output path, or - for stdout")
	exportCmd.Flags().StringSliceVar(&exportGroups, "groups", nil, "group prefixes to include (default all)")
	exportCmd.Flags().BoolVar(&exportAllGroups, "all-groups", false, "include every known group")
	rootCmd.AddCommand(exportCmd)
}
