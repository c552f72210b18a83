package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration shared by ritc and the recorder.
type Config struct {
	API      APIConfig     `yaml:"api"`
	Database DBConfig      `yaml:"database"`
	Poller   PollerConfig  `yaml:"poller"`
	Writer   WriterConfig  `yaml:"writer"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Logging  LoggingConfig `yaml:"logging"`
}

// APIConfig holds RIT client application settings.
type APIConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	BaseURL     string        `yaml:"base_url"` // overrides host and port when set
	APIKey      string        `yaml:"api_key"`  // sent as X-API-Key
	Timeout     time.Duration `yaml:"timeout"`
	RetryPolicy string        `yaml:"retry_policy"` // wait_and_retry or fail_fast
}

// URL returns the server root, preferring BaseURL.
func (a APIConfig) URL() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	return "http://" + net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds snapshot poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"` // per poll cycle
	Tickers     []string      `yaml:"tickers"` // empty means every security in the case
	BookLimit   int           `yaml:"book_limit"`
	TASLimit    int           `yaml:"tas_limit"`
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
