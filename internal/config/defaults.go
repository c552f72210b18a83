package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPIHost         = "localhost"
	DefaultAPIPort         = 9999
	DefaultAPITimeout      = 30 * time.Second
	DefaultRetryPolicy     = "wait_and_retry"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultPollInterval    = 1 * time.Second
	DefaultPollConcurrency = 4
	DefaultPollTimeout     = 10 * time.Second
	DefaultBookLimit       = 20
	DefaultTASLimit        = 100
	DefaultBatchSize       = 500
	DefaultFlushInterval   = 1 * time.Second
	DefaultBufferSize      = 10000
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
	DefaultLogLevel        = "info"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.Host == "" {
		c.API.Host = DefaultAPIHost
	}
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.RetryPolicy == "" {
		c.API.RetryPolicy = DefaultRetryPolicy
	}

	applyDBDefaults(&c.Database)

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}
	if c.Poller.BookLimit == 0 {
		c.Poller.BookLimit = DefaultBookLimit
	}
	if c.Poller.TASLimit == 0 {
		c.Poller.TASLimit = DefaultTASLimit
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
