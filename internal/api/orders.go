package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// GetOrders fetches the trader's orders, filtered by status when set.
func (c *Client) GetOrders(ctx context.Context, status OrderStatus, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{}
	setString(params, "status", string(status))

	s, err := c.sequence(ctx, MethodGet, "/v1/orders", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return s, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, id int, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodGet, "/v1/orders/"+strconv.Itoa(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return m, nil
}

// PostOrder inserts a new order. This endpoint is rate limited per security;
// pass WithPolicy(FailFast) to get the ThrottledKind failure instead of
// waiting.
func (c *Client) PostOrder(ctx context.Context, o OrderRequest, opts ...RequestOption) (*jsonview.Mapping, error) {
	params := Params{
		"ticker":   o.Ticker,
		"type":     o.Type,
		"quantity": o.Quantity,
		"action":   o.Action,
	}
	setFloat(params, "price", o.Price)
	if o.DryRun {
		params["dry_run"] = 1
	}

	m, err := c.mapping(ctx, MethodPost, "/v1/orders", params, opts)
	if err != nil {
		return nil, fmt.Errorf("post order %s: %w", o.Ticker, err)
	}
	return m, nil
}

// DeleteOrder cancels an open order.
func (c *Client) DeleteOrder(ctx context.Context, id int, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodDelete, "/v1/orders/"+strconv.Itoa(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("delete order %d: %w", id, err)
	}
	return m, nil
}

// CancelOrders bulk-cancels open orders. The result lists
// "cancelled_order_ids".
func (c *Client) CancelOrders(ctx context.Context, r CancelRequest, opts ...RequestOption) (*jsonview.Mapping, error) {
	params := Params{}
	if r.All {
		params["all"] = 1
	}
	setString(params, "ticker", r.Ticker)
	if len(r.IDs) > 0 {
		ids := make([]string, len(r.IDs))
		for i, id := range r.IDs {
			ids[i] = strconv.Itoa(id)
		}
		params["ids"] = strings.Join(ids, ",")
	}
	setString(params, "query", r.Query)

	m, err := c.mapping(ctx, MethodPost, "/v1/commands/cancel", params, opts)
	if err != nil {
		return nil, fmt.Errorf("cancel orders: %w", err)
	}
	return m, nil
}
