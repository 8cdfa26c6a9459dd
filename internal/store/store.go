// Package store records harvest run history in sqlite or postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// Store defines the harvest-run history persistence interface.
type Store interface {
	// CreateRun opens a new run record in running state.
	CreateRun(ctx context.Context, total int) (*model.HarvestRun, error)

	// CompleteRun marks a run complete with its outcome counts and the
	// snapshot path it wrote.
	CompleteRun(ctx context.Context, runID string, succeeded, failed int, snapshot string) error

	// FailRun marks a run failed with a cause.
	FailRun(ctx context.Context, runID string, cause string) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.HarvestRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
