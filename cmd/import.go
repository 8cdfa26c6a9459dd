package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/harvest"
)

var (
	importXLSX     string
	importSheet    int
	importColumn   int
	importSkipRows int
	importOut      string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Extract an identifier list from a water-directory spreadsheet",
	Long:  "Reads one column of an xlsx sheet and writes a newline-delimited identifier file that harvest can consume.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := harvest.LoadIdentifiersXLSX(importXLSX, importSheet, importColumn, importSkipRows)
		if err != nil {
			return err
		}
		ids = harvest.Dedupe(ids)

		if err := harvest.WriteIdentifiers(importOut, ids); err != nil {
			return err
		}

		zap.L().Info("imported identifiers",
			zap.String("xlsx", importXLSX),
			zap.String("out", importOut),
			zap.Int("identifiers", len(ids)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSX, "xlsx", "", "spreadsheet to read")
	importCmd.Flags().IntVar(&importSheet, "sheet", 0, "sheet index")
	importCmd.Flags().IntVar(&importColumn, "column", 0, "identifier column index")
	importCmd.Flags().IntVar(&importSkipRows, "skip-rows", 1, "header rows to skip")
	importCmd.Flags().StringVar(&importOut, "out", "ids.txt", "output identifier file")
	importCmd.MarkFlagRequired("xlsx") //nolint:errcheck
	rootCmd.AddCommand(importCmd)
}
