package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// GetTenders fetches the active tender offers.
func (c *Client) GetTenders(ctx context.Context, opts ...RequestOption) (*jsonview.Sequence, error) {
	s, err := c.sequence(ctx, MethodGet, "/v1/tenders", nil, opts)
	if err != nil {
		return nil, fmt.Errorf("get tenders: %w", err)
	}
	return s, nil
}

// PostTender accepts a tender. Price is required for non-fixed-bid tenders
// and omitted when zero.
func (c *Client) PostTender(ctx context.Context, id int, price float64, opts ...RequestOption) (*jsonview.Mapping, error) {
	params := Params{}
	setFloat(params, "price", price)

	m, err := c.mapping(ctx, MethodPost, "/v1/tenders/"+strconv.Itoa(id), params, opts)
	if err != nil {
		return nil, fmt.Errorf("accept tender %d: %w", id, err)
	}
	return m, nil
}

// DeleteTender declines a tender.
func (c *Client) DeleteTender(ctx context.Context, id int, opts ...RequestOption) (*jsonview.Mapping, error) {
	m, err := c.mapping(ctx, MethodDelete, "/v1/tenders/"+strconv.Itoa(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("decline tender %d: %w", id, err)
	}
	return m, nil
}
