package api

import (
	"context"
	"fmt"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// GetCase fetches the running case: name, period, tick, status.
func (c *Client) GetCase(ctx context.Context, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodGet, "/v1/case", nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return m, nil
}

// GetTrader fetches the authenticated trader and its net liquidation value.
func (c *Client) GetTrader(ctx context.Context, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodGet, "/v1/trader", nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get trader: %w", err)
	}
	return m, nil
}

// GetLimits fetches the trading limits and their current usage.
func (c *Client) GetLimits(ctx context.Context, opts ...RequestOption) (*jsonview.Sequence, error) {
	s, err := c.sequence(ctx, MethodGet, "/v1/limits", nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get limits: %w", err)
	}
	return s, nil
}

// GetNews fetches news items, most recent first.
func (c *Client) GetNews(ctx context.Context, q NewsQuery, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{}
	setInt(params, "since", q.Since)
	setInt(params, "after", q.After)
	setInt(params, "limit", q.Limit)

	s, err := c.sequence(ctx, MethodGet, "/v1/news", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	return s, nil
}

func setInt(p Params, key string, v int) {
	if v != 0 {
		p[key] = v
	}
}

func setFloat(p Params, key string, v float64) {
	if v != 0 {
		p[key] = v
	}
}

func setString(p Params, key, v string) {
	if v != "" {
		p[key] = v
	}
}
