package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rickgao/rit-client/internal/api"
)

// Metrics records the request lifecycle of an api.Client.
type Metrics struct {
	// Attempts counts every round trip, retries included.
	Attempts *prometheus.CounterVec

	// Requests counts completed calls by outcome.
	Requests *prometheus.CounterVec

	// Throttles counts rate-limit responses that were waited out.
	Throttles *prometheus.CounterVec

	// ThrottleWait observes the server-requested pause.
	ThrottleWait prometheus.Histogram

	// Latency observes call duration including waits.
	Latency *prometheus.HistogramVec
}

var _ api.Observer = (*Metrics)(nil)

// New registers the client metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rit_request_attempts_total",
				Help: "Total number of HTTP round trips to the RIT API",
			},
			[]string{"method", "path"},
		),
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rit_requests_total",
				Help: "Total number of completed RIT API calls",
			},
			[]string{"method", "path", "outcome"},
		),
		Throttles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rit_throttled_total",
				Help: "Total number of rate-limit responses waited out",
			},
			[]string{"method", "path"},
		),
		ThrottleWait: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rit_throttle_wait_seconds",
				Help:    "Server-requested wait before retrying",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		Latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rit_request_duration_seconds",
				Help:    "RIT API call latency in seconds, including rate-limit waits",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) OnSend(method api.Method, path string, attempt int) {
	m.Attempts.WithLabelValues(string(method), NormalizePath(path)).Inc()
}

func (m *Metrics) OnThrottle(method api.Method, path string, wait time.Duration) {
	m.Throttles.WithLabelValues(string(method), NormalizePath(path)).Inc()
	m.ThrottleWait.Observe(wait.Seconds())
}

func (m *Metrics) OnResult(method api.Method, path string, err error, elapsed time.Duration) {
	p := NormalizePath(path)
	m.Requests.WithLabelValues(string(method), p, Outcome(err)).Inc()
	m.Latency.WithLabelValues(string(method), p).Observe(elapsed.Seconds())
}

// Outcome labels a call result: ok, transport, rejected, throttled or
// canceled.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	if f, ok := api.AsFailure(err); ok {
		return f.Kind.String()
	}
	return "error"
}

// NormalizePath replaces numeric path segments with ":id".
func NormalizePath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}
