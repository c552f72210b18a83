package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// GetAssets fetches the assets available to lease, or only ticker.
func (c *Client) GetAssets(ctx context.Context, ticker string, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{}
	setString(params, "ticker", ticker)

	s, err := c.sequence(ctx, MethodGet, "/v1/assets", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get assets: %w", err)
	}
	return s, nil
}

// GetAssetsHistory fetches the lease/use history of assets.
func (c *Client) GetAssetsHistory(ctx context.Context, q HistoryQuery, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{}
	setString(params, "ticker", q.Ticker)
	setInt(params, "period", q.Period)
	setInt(params, "limit", q.Limit)

	s, err := c.sequence(ctx, MethodGet, "/v1/assets/history", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get assets history: %w", err)
	}
	return s, nil
}

// GetLeases fetches the trader's current leases.
func (c *Client) GetLeases(ctx context.Context, opts ...RequestOption) (*jsonview.Sequence, error) {
	s, err := c.sequence(ctx, MethodGet, "/v1/leases", nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get leases: %w", err)
	}
	return s, nil
}

// GetLease fetches a single lease.
func (c *Client) GetLease(ctx context.Context, id int, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodGet, "/v1/leases/"+strconv.Itoa(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get lease %d: %w", id, err)
	}
	return m, nil
}

// PostLease leases r.Ticker, converting the From inputs immediately when the
// asset is a converter.
func (c *Client) PostLease(ctx context.Context, r LeaseRequest, opts ...RequestOption) (*jsonview.Mapping, error) {
	params := leaseParams(r)
	setString(params, "ticker", r.Ticker)

	m, err := c.mapping(ctx, MethodPost, "/v1/leases", params, opts)
	if err != nil {
		return nil, fmt.Errorf("lease %s: %w", r.Ticker, err)
	}
	return m, nil
}

// PostLeaseUse runs a conversion on an existing lease.
func (c *Client) PostLeaseUse(ctx context.Context, id int, r LeaseRequest, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodPost, "/v1/leases/"+strconv.Itoa(id), leaseParams(r), opts)
	if err != nil {
		return nil, fmt.Errorf("use lease %d: %w", id, err)
	}
	return m, nil
}

// DeleteLease releases a lease.
func (c *Client) DeleteLease(ctx context.Context, id int, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodDelete, "/v1/leases/"+strconv.Itoa(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("release lease %d: %w", id, err)
	}
	return m, nil
}

// leaseParams maps the From/Quantities pairs to from1..3 and quantity1..3.
func leaseParams(r LeaseRequest) Params {
	params := Params{}
	for i := range r.From {
		n := strconv.Itoa(i + 1)
		setString(params, "from"+n, r.From[i])
		setFloat(params, "quantity"+n, r.Quantities[i])
	}
	return params
}
