package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brandenburg-angeln/spot-cli/internal/catalog"
	"github.com/brandenburg-angeln/spot-cli/internal/model"
	"github.com/brandenburg-angeln/spot-cli/internal/query"
)

var (
	queryGroups    []string
	queryAllGroups bool
	queryLat       float64
	queryLng       float64
	queryRadiusKm  float64
	querySort      string
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the validated catalog",
	Long:  "Loads the harvest snapshot, validates it, and filters by region group and/or distance from a reference point. Without a group selection the result is empty; use --all-groups to enumerate every known group.",
	RunE: func(cmd *cobra.Command, args []string) error {
		spots, err := catalog.Load(cfg.Harvest.Output)
		if err != nil {
			return err
		}

		prefixes := queryGroups
		if queryAllGroups {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			prefixes = reg.AllPrefixes()
		}

		params := query.Params{Prefixes: prefixes}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("--lat and --lng must be given together")
			}
			params.Reference = &query.Point{Lat: queryLat, Lng: queryLng}
			params.MaxDistanceKm = queryRadiusKm
			if params.MaxDistanceKm == 0 {
				params.MaxDistanceKm = cfg.Query.DefaultRadiusKm
			}
		}

		results, err := query.Run(spots, params)
		if err != nil {
			return err
		}

		switch querySort {
		case "name":
			query.SortByName(results)
		case "distance":
			query.SortByDistance(results)
		case "":
			// catalog order
		default:
			return fmt.Errorf("unknown sort %q (name, distance)", querySort)
		}

		if queryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		formatResults(os.Stdout, results)
		return nil
	},
}

func formatResults(w io.Writer, results []model.SpotResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No spots matched.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLUB\tLAT\tLNG\tDISTANCE")
	for _, r := range results {
		dist := "-"
		if r.DistanceKm != nil {
			dist = fmt.Sprintf("%.1f km", *r.DistanceKm)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\t%s\n",
			r.ID, r.Name, r.Club, r.Latitude, r.Longitude, dist)
	}
	tw.Flush() //nolint:errcheck
	fmt.Fprintf(w, "\n%d spot(s)\n", len(results))
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryGroups, "groups", nil, "group prefixes to include (e.g. P,C)")
	queryCmd.Flags().BoolVar(&queryAllGroups, "all-groups", false, "include every known group")
	queryCmd.Flags().Float64Var(&queryLat, "lat", 0, "reference latitude")
	queryCmd.Flags().Float64Var(&queryLng, "lng", 0, "reference longitude")
	queryCmd.Flags().Float64Var(&queryRadiusKm, "radius-km", 0, "max distance from the reference point (default from config)")
	queryCmd.Flags().StringVar(&querySort, "sort", "", "sort order: name or distance (default catalog order)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(queryCmd)
}
