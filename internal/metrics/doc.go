// Package metrics exports RIT client and recorder metrics to Prometheus.
//
// Metrics implements api.Observer, so attaching it with api.WithObserver
// counts every request attempt, rate-limit wait and final outcome.
// Request paths are normalized so numeric ids do not create new series.
package metrics
