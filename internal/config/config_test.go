package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
api:
  host: 10.0.0.5
  port: 10001
  api_key: ABCD1234
  retry_policy: fail_fast
database:
  host: localhost
  port: 5432
  name: rit
  user: trader
  password: testpass
poller:
  tickers: [CRZY, TAME]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Host != "10.0.0.5" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "10.0.0.5")
	}
	if cfg.API.APIKey != "ABCD1234" {
		t.Errorf("API.APIKey = %q, want %q", cfg.API.APIKey, "ABCD1234")
	}
	if got := cfg.API.URL(); got != "http://10.0.0.5:10001" {
		t.Errorf("API.URL() = %q, want %q", got, "http://10.0.0.5:10001")
	}
	if len(cfg.Poller.Tickers) != 2 || cfg.Poller.Tickers[1] != "TAME" {
		t.Errorf("Poller.Tickers = %v, want [CRZY TAME]", cfg.Poller.Tickers)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_RIT_API_KEY", "secret123")

	yaml := `
api:
  api_key: ${TEST_RIT_API_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.APIKey != "secret123" {
		t.Errorf("API.APIKey = %q, want %q", cfg.API.APIKey, "secret123")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "database:\n  host: localhost\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if got := cfg.API.URL(); got != "http://localhost:9999" {
		t.Errorf("API.URL() = %q, want %q", got, "http://localhost:9999")
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.API.RetryPolicy != DefaultRetryPolicy {
		t.Errorf("API.RetryPolicy = %q, want default %q", cfg.API.RetryPolicy, DefaultRetryPolicy)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Writer.BatchSize != DefaultBatchSize {
		t.Errorf("Writer.BatchSize = %d, want default %d", cfg.Writer.BatchSize, DefaultBatchSize)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, DefaultLogLevel)
	}
}

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name string
		api  APIConfig
		want string
	}{
		{"host and port", APIConfig{Host: "localhost", Port: 9999}, "http://localhost:9999"},
		{"base url wins", APIConfig{Host: "ignored", Port: 1, BaseURL: "https://rit.example.com/"}, "https://rit.example.com"},
		{"ipv6 host", APIConfig{Host: "::1", Port: 9999}, "http://[::1]:9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.api.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	level, err := LoggingConfig{Level: "debug"}.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel() unexpected error: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want %v", level, slog.LevelDebug)
	}

	if _, err := (LoggingConfig{Level: "loud"}).SlogLevel(); err == nil {
		t.Error("SlogLevel() expected error for unknown level")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.API.Host = "" },
			wantErr: "api.host is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: "api.port must be between 1 and 65535",
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "localhost:9999" },
			wantErr: `api.base_url "localhost:9999" is not an absolute URL`,
		},
		{
			name:    "unknown retry policy",
			mutate:  func(c *Config) { c.API.RetryPolicy = "sometimes" },
			wantErr: `api.retry_policy: unknown retry policy "sometimes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestValidateRecorder(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database = DBConfig{Host: "localhost", Port: 5432, Name: "rit", User: "trader", Password: "pass", MaxConns: 10, MinConns: 2}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host is required",
		},
		{
			name:    "missing database password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantErr: "database.password is required",
		},
		{
			name:    "min_conns exceeds max_conns",
			mutate:  func(c *Config) { c.Database.MinConns = 20 },
			wantErr: "database.min_conns (20) cannot exceed max_conns (10)",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Poller.Interval = -time.Second },
			wantErr: "poller.interval must be > 0",
		},
		{
			name:    "blank ticker",
			mutate:  func(c *Config) { c.Poller.Tickers = []string{"CRZY", " "} },
			wantErr: "poller.tickers[1] is empty",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.Writer.BatchSize = 0 },
			wantErr: "writer.batch_size must be >= 1",
		},
		{
			name:    "api errors come first",
			mutate:  func(c *Config) { c.API.Host = ""; c.Database.Host = "" },
			wantErr: "api.host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.ValidateRecorder()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateRecorder() unexpected error: %v", err)
				}
			} else if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ValidateRecorder() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
