package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rickgao/rit-client/internal/poller"
	"github.com/rickgao/rit-client/internal/writer"
)

// StatsSource exposes the running totals of the recorder components.
type StatsSource interface {
	PollerStats() poller.Stats
	WriterStats() writer.Metrics
}

// RegisterRecorder exports poller and writer totals, read on every scrape.
func RegisterRecorder(reg prometheus.Registerer, src StatsSource) {
	f := promauto.With(reg)

	counter := func(name, help string, value func() int64) {
		f.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, func() float64 {
			return float64(value())
		})
	}

	counter("rit_poll_cycles_total", "Total number of poll cycles started",
		func() int64 { return src.PollerStats().Cycles })
	counter("rit_poll_cycles_skipped_total", "Total number of poll cycles skipped while the case was not active",
		func() int64 { return src.PollerStats().Skipped })
	counter("rit_poll_errors_total", "Total number of failed case or ticker polls",
		func() int64 { return src.PollerStats().Errors })
	counter("rit_snapshots_polled_total", "Total number of snapshots handed to the writer",
		func() int64 { return src.PollerStats().Snapshots })

	counter("rit_snapshots_written_total", "Total number of snapshot rows inserted",
		func() int64 { return src.WriterStats().Snapshots })
	counter("rit_prints_written_total", "Total number of time and sales rows inserted",
		func() int64 { return src.WriterStats().Prints })
	counter("rit_write_conflicts_total", "Total number of rows skipped as duplicates",
		func() int64 { return src.WriterStats().Conflicts })
	counter("rit_snapshots_dropped_total", "Total number of snapshots dropped on a full buffer",
		func() int64 { return src.WriterStats().Dropped })
	counter("rit_write_errors_total", "Total number of failed batch inserts",
		func() int64 { return src.WriterStats().Errors })
}
