package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/rit-client/internal/metrics"
	"github.com/rickgao/rit-client/internal/poller"
	"github.com/rickgao/rit-client/internal/writer"
)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// recorderStats adapts the poller and writer to metrics.StatsSource.
type recorderStats struct {
	poller *poller.Poller
	writer *writer.SnapshotWriter
}

func (s recorderStats) PollerStats() poller.Stats {
	return s.poller.Stats()
}

func (s recorderStats) WriterStats() writer.Metrics {
	return s.writer.Stats()
}

// newHealthHandler serves /health and the Prometheus registry at
// metricsPath.
func newHealthHandler(db pinger, stats metrics.StatsSource, reg *prometheus.Registry, metricsPath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		p := stats.PollerStats()
		wm := stats.WriterStats()
		health.Components["poller"] = map[string]int64{
			"cycles":    p.Cycles,
			"skipped":   p.Skipped,
			"snapshots": p.Snapshots,
			"errors":    p.Errors,
		}
		health.Components["writer"] = map[string]int64{
			"snapshots": wm.Snapshots,
			"prints":    wm.Prints,
			"dropped":   wm.Dropped,
			"errors":    wm.Errors,
		}
		if health.Status == "healthy" && (wm.Dropped > 0 || (p.Cycles > 0 && p.Errors >= p.Cycles)) {
			health.Status = "degraded"
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return mux
}
