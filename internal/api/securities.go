package api

import (
	"context"
	"fmt"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// GetSecurities fetches all securities, or only ticker when it is set.
func (c *Client) GetSecurities(ctx context.Context, ticker string, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{}
	setString(params, "ticker", ticker)

	s, err := c.sequence(ctx, MethodGet, "/v1/securities", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get securities: %w", err)
	}
	return s, nil
}

// GetSecuritiesBook fetches the order book for ticker. The result has "bid"
// and "ask" arrays of orders. A limit of 0 uses the server default.
func (c *Client) GetSecuritiesBook(ctx context.Context, ticker string, limit int, opts ...RequestOption) (*jsonview.Mapping, error) {
	params := Params{"ticker": ticker}
	setInt(params, "limit", limit)

	m, err := c.mapping(ctx, MethodGet, "/v1/securities/book", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", ticker, err)
	}
	return m, nil
}

// GetSecuritiesHistory fetches OHLC bars per tick for q.Ticker.
func (c *Client) GetSecuritiesHistory(ctx context.Context, q HistoryQuery, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{"ticker": q.Ticker}
	setInt(params, "period", q.Period)
	setInt(params, "limit", q.Limit)

	s, err := c.sequence(ctx, MethodGet, "/v1/securities/history", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get history %s: %w", q.Ticker, err)
	}
	return s, nil
}

// GetSecuritiesTAS fetches time and sales for q.Ticker.
func (c *Client) GetSecuritiesTAS(ctx context.Context, q HistoryQuery, opts ...RequestOption) (*jsonview.Sequence, error) {
	params := Params{"ticker": q.Ticker}
	setInt(params, "after", q.After)
	setInt(params, "period", q.Period)
	setInt(params, "limit", q.Limit)

	s, err := c.sequence(ctx, MethodGet, "/v1/securities/tas", params, opts)
	if err != nil {
		return nil, fmt.Errorf("get tas %s: %w", q.Ticker, err)
	}
	return s, nil
}
