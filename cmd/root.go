package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/config"
	"github.com/brandenburg-angeln/spot-cli/internal/region"
	"github.com/brandenburg-angeln/spot-cli/pkg/lookup"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spot-cli",
	Short: "Brandenburg fishing-spot catalog tool",
	Long:  "Harvests LAVB water records from the detail endpoint, validates them into a spot catalog, and answers nearest-to-point and region-group queries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLookupClient builds the detail-endpoint client from config.
func newLookupClient() lookup.Client {
	return lookup.NewClient(
		lookup.WithBaseURL(cfg.Lookup.BaseURL),
		lookup.WithUserAgent(cfg.Lookup.UserAgent),
		lookup.WithRateLimit(cfg.Lookup.RateLimitRPS),
		lookup.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Lookup.TimeoutSecs) * time.Second,
		}),
	)
}

// loadRegistry returns the region registry, honoring a configured override file.
func loadRegistry() (*region.Registry, error) {
	if cfg.Regions.File == "" {
		return region.Default(), nil
	}
	return region.LoadFile(cfg.Regions.File)
}
