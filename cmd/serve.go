package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandenburg-angeln/spot-cli/internal/catalog"
	"github.com/brandenburg-angeln/spot-cli/internal/model"
	"github.com/brandenburg-angeln/spot-cli/internal/observability"
	"github.com/brandenburg-angeln/spot-cli/internal/query"
	"github.com/brandenburg-angeln/spot-cli/internal/region"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog query API for the map UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		srv := newSpotServer(cfg.Harvest.Output, reg, cfg.Query.DefaultRadiusKm, metrics)
		if err := srv.reload(); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("snapshot", srv.snapshotPath))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// spotServer holds the loaded catalog behind a lock so a re-harvest can be
// picked up via the reload endpoint without a restart.
type spotServer struct {
	snapshotPath  string
	registry      *region.Registry
	defaultRadius float64
	metrics       *observability.Metrics

	mu    sync.RWMutex
	spots []model.Spot
}

func newSpotServer(snapshotPath string, reg *region.Registry, defaultRadius float64, metrics *observability.Metrics) *spotServer {
	if defaultRadius == 0 {
		defaultRadius = query.DefaultMaxDistanceKm
	}
	return &spotServer{
		snapshotPath:  snapshotPath,
		registry:      reg,
		defaultRadius: defaultRadius,
		metrics:       metrics,
	}
}

// reload re-reads and re-validates the snapshot. This is the documented
// refresh trigger after a harvest run; there is no implicit caching beyond it.
func (s *spotServer) reload() error {
	spots, err := catalog.Load(s.snapshotPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.spots = spots
	s.mu.Unlock()

	s.metrics.SetCatalogSize(len(spots))
	zap.L().Info("catalog loaded", zap.String("snapshot", s.snapshotPath), zap.Int("spots", len(spots)))
	return nil
}

func (s *spotServer) catalogSnapshot() []model.Spot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spots
}

func (s *spotServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/spots", s.handleSpots)
		r.Get("/spots.geojson", s.handleSpotsGeoJSON)
		r.Get("/regions", s.handleRegions)
		r.Post("/reload", s.handleReload)
	})

	return r
}

func (s *spotServer) handleSpots(w http.ResponseWriter, r *http.Request) {
	results, ok := s.runQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(results),
		"spots": results,
	})
}

func (s *spotServer) handleSpotsGeoJSON(w http.ResponseWriter, r *http.Request) {
	results, ok := s.runQuery(w, r)
	if !ok {
		return
	}

	data, err := catalog.ToGeoJSON(results)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not encode geojson")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (s *spotServer) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Regions())
}

func (s *spotServer) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := s.reload(); err != nil {
		zap.L().Error("catalog reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"spots":  len(s.catalogSnapshot()),
	})
}

// runQuery parses the filter parameters, runs the query engine, and handles
// the error responses. Returns ok=false when a response was already written.
func (s *spotServer) runQuery(w http.ResponseWriter, r *http.Request) ([]model.SpotResult, bool) {
	params, sortMode, err := s.parseQuery(r)
	if err != nil {
		s.metrics.ObserveQuery(true)
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	results, err := query.Run(s.catalogSnapshot(), params)
	if err != nil {
		var oor *query.OutOfRegionError
		if errors.As(err, &oor) {
			s.metrics.ObserveQuery(true)
			// User-visible warning for the map UI.
			writeError(w, http.StatusBadRequest,
				"please choose a reference point within the Germany/Europe region")
			return nil, false
		}
		s.metrics.ObserveQuery(true)
		writeError(w, http.StatusInternalServerError, "query failed")
		return nil, false
	}

	switch sortMode {
	case "name":
		query.SortByName(results)
	case "distance":
		query.SortByDistance(results)
	}

	s.metrics.ObserveQuery(false)
	return results, true
}

func (s *spotServer) parseQuery(r *http.Request) (query.Params, string, error) {
	q := r.URL.Query()
	var params query.Params

	switch groups := q.Get("groups"); groups {
	case "":
		// No selection shows nothing; the engine enforces the same policy.
	case "all":
		params.Prefixes = s.registry.AllPrefixes()
	default:
		for _, g := range strings.Split(groups, ",") {
			if g = strings.TrimSpace(g); g != "" {
				params.Prefixes = append(params.Prefixes, g)
			}
		}
	}

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if (latStr == "") != (lngStr == "") {
		return params, "", fmt.Errorf("lat and lng must be given together")
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return params, "", fmt.Errorf("invalid lat %q", latStr)
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return params, "", fmt.Errorf("invalid lng %q", lngStr)
		}
		params.Reference = &query.Point{Lat: lat, Lng: lng}
		params.MaxDistanceKm = s.defaultRadius

		if radiusStr := q.Get("radius_km"); radiusStr != "" {
			radius, err := strconv.ParseFloat(radiusStr, 64)
			if err != nil || radius <= 0 {
				return params, "", fmt.Errorf("invalid radius_km %q", radiusStr)
			}
			params.MaxDistanceKm = radius
		}
	}

	sortMode := q.Get("sort")
	switch sortMode {
	case "", "name", "distance":
	default:
		return params, "", fmt.Errorf("invalid sort %q (name, distance)", sortMode)
	}

	return params, sortMode, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
