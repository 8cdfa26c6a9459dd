package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/catalog"
	"github.com/brandenburg-angeln/spot-cli/internal/harvest"
	"github.com/brandenburg-angeln/spot-cli/internal/observability"
	"github.com/brandenburg-angeln/spot-cli/internal/store"
)

var (
	harvestIDFiles     []string
	harvestOutput      string
	harvestConcurrency int
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run a full harvest pass over the identifier lists",
	Long:  "Reads the region identifier files, queries the detail endpoint per identifier, and replaces the raw snapshot. Per-identifier failures are recorded in the snapshot; only a persistence failure aborts the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		idFiles := harvestIDFiles
		if len(idFiles) == 0 {
			idFiles = cfg.Harvest.IDFiles
		}
		output := harvestOutput
		if output == "" {
			output = cfg.Harvest.Output
		}
		concurrency := harvestConcurrency
		if concurrency == 0 {
			concurrency = cfg.Harvest.Concurrency
		}

		ids, err := harvest.LoadIdentifiers(idFiles...)
		if err != nil {
			return err
		}

		st, err := store.New(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, len(harvest.Dedupe(ids)))
		if err != nil {
			return err
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		h := harvest.New(newLookupClient(),
			harvest.WithConcurrency(concurrency),
			harvest.WithMetrics(metrics),
		)
		started := time.Now()

		records, stats, err := h.Run(ctx, ids)
		if err != nil {
			recordFailure(st, run.ID, err)
			metrics.ObserveHarvest(true, 0, 0, time.Since(started).Seconds())
			return eris.Wrap(err, "harvest aborted")
		}

		if err := harvest.WriteSnapshot(output, records); err != nil {
			recordFailure(st, run.ID, err)
			metrics.ObserveHarvest(true, len(records), 0, time.Since(started).Seconds())
			return err
		}

		if err := st.CompleteRun(ctx, run.ID, stats.Succeeded, stats.Failed, output); err != nil {
			return err
		}

		spots := catalog.Normalize(records)
		metrics.ObserveHarvest(false, len(records), len(spots), time.Since(started).Seconds())
		zap.L().Info("harvest run complete",
			zap.String("run_id", run.ID),
			zap.String("snapshot", output),
			zap.Int("raw", len(records)),
			zap.Int("validated", len(spots)),
			zap.Int("failed", stats.Failed),
			zap.Duration("elapsed", time.Since(started)),
		)

		return nil
	},
}

// recordFailure marks the run failed on a best-effort basis; the harvest
// error itself is what the caller sees. A fresh context is used because the
// run context may already be cancelled.
func recordFailure(st store.Store, runID string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.FailRun(ctx, runID, cause.Error()); err != nil {
		zap.L().Warn("could not record failed run", zap.String("run_id", runID), zap.Error(err))
	}
}

func init() {
	harvestCmd.Flags().StringSliceVar(&harvestIDFiles, "ids", nil, "identifier list files (default from config)")
	harvestCmd.Flags().StringVar(&harvestOutput, "output", "", "snapshot path (default from config)")
	harvestCmd.Flags().IntVar(&harvestConcurrency, "concurrency", 0, "parallel lookups (default from config)")
	rootCmd.AddCommand(harvestCmd)
}
