// Package harvest runs one full pass over the water identifier lists against
// the remote detail endpoint and persists the raw snapshot.
package harvest

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
	"github.com/brandenburg-angeln/spot-cli/internal/observability"
	"github.com/brandenburg-angeln/spot-cli/pkg/lookup"
)

// DefaultConcurrency bounds parallel lookups. The upstream endpoint is a
// small club server, so the pool stays narrow.
const DefaultConcurrency = 4

// Stats summarizes one harvest pass.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithConcurrency sets the worker-pool size.
func WithConcurrency(n int) Option {
	return func(h *Harvester) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// WithMetrics wires harvest counters into the given metrics set.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Harvester) {
		h.metrics = m
	}
}

// Harvester fetches raw records for a deduplicated identifier list.
type Harvester struct {
	client      lookup.Client
	concurrency int
	metrics     *observability.Metrics
}

// New creates a Harvester around the given lookup client.
func New(client lookup.Client, opts ...Option) *Harvester {
	h := &Harvester{
		client:      client,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run deduplicates ids and fetches each survivor once. A failed lookup never
// aborts the batch: the failure is recorded as an error placeholder in the
// output and the pass continues. Run errors only when the context is
// cancelled before all identifiers were attempted, so a partial pass is never
// mistaken for a complete one.
func (h *Harvester) Run(ctx context.Context, ids []string) ([]model.RawRecord, Stats, error) {
	ids = Dedupe(ids)
	log := zap.L().With(zap.String("component", "harvest"))
	log.Info("starting harvest", zap.Int("identifiers", len(ids)), zap.Int("concurrency", h.concurrency))

	// Each worker writes only its own index, so the aggregation needs no
	// locking and the output holds every identifier exactly once.
	records := make([]model.RawRecord, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			rec, err := h.client.Fetch(gctx, id)
			if err != nil {
				log.Warn("lookup failed", zap.String("id", id), zap.Error(err))
				h.metrics.ObserveLookup(false)
				records[i] = model.NewErrorPlaceholder(id, err.Error())
				return nil
			}
			h.metrics.ObserveLookup(true)
			records[i] = rec
			return nil
		})
	}

	// Workers never return errors; Wait only flushes the pool.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Total: len(ids)}
	for _, rec := range records {
		if rec.IsError() {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}

	log.Info("harvest finished",
		zap.Int("total", stats.Total),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)

	return records, stats, nil
}

// Dedupe removes duplicate identifiers, keeping first-seen order so snapshot
// contents are deterministic across runs.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
