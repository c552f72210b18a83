package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rickgao/rit-client/internal/api"
)

// Validate checks the settings every binary needs: the API connection and
// logging.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
		}
	} else {
		if c.API.Host == "" {
			return errors.New("api.host is required")
		}
		if c.API.Port < 1 || c.API.Port > 65535 {
			return errors.New("api.port must be between 1 and 65535")
		}
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must be >= 0")
	}
	if _, err := api.ParseRetryPolicy(c.API.RetryPolicy); err != nil {
		return fmt.Errorf("api.retry_policy: %w", err)
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// ValidateRecorder additionally checks the database, poller, writer and
// metrics sections used by the recorder.
func (c *Config) ValidateRecorder() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}
	for i, ticker := range c.Poller.Tickers {
		if strings.TrimSpace(ticker) == "" {
			return fmt.Errorf("poller.tickers[%d] is empty", i)
		}
	}

	if c.Writer.BatchSize < 1 {
		return errors.New("writer.batch_size must be >= 1")
	}
	if c.Writer.BufferSize < 1 {
		return errors.New("writer.buffer_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return errors.New("metrics.port must be between 1 and 65535")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
