package poller

import (
	"fmt"

	"github.com/rickgao/rit-client/internal/api"
	"github.com/rickgao/rit-client/internal/jsonview"
	"github.com/rickgao/rit-client/internal/model"
)

// caseState is the subset of GET /v1/case the poller uses.
type caseState struct {
	Name   string
	Period int
	Tick   int
	Status api.CaseStatus
}

func parseCase(m *jsonview.Mapping) (caseState, error) {
	var c caseState
	var err error

	if c.Name, err = optText(m, "name"); err != nil {
		return c, err
	}
	period, err := m.Int("period")
	if err != nil {
		return c, fmt.Errorf("case period: %w", err)
	}
	tick, err := m.Int("tick")
	if err != nil {
		return c, fmt.Errorf("case tick: %w", err)
	}
	status, err := m.Text("status")
	if err != nil {
		return c, fmt.Errorf("case status: %w", err)
	}

	c.Period = int(period)
	c.Tick = int(tick)
	c.Status = api.CaseStatus(status)
	return c, nil
}

// quote is one element of GET /v1/securities.
type quote struct {
	Ticker   string
	Last     float64
	Bid      float64
	Ask      float64
	Position float64
	Volume   float64
}

func parseSecurities(s *jsonview.Sequence) (map[string]quote, []string, error) {
	quotes := make(map[string]quote, s.Len())
	tickers := make([]string, 0, s.Len())

	for i := range s.Len() {
		m, err := s.Mapping(i)
		if err != nil {
			return nil, nil, fmt.Errorf("security %d: %w", i, err)
		}
		ticker, err := m.Text("ticker")
		if err != nil {
			return nil, nil, fmt.Errorf("security %d: %w", i, err)
		}

		q := quote{Ticker: ticker}
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"last", &q.Last},
			{"bid", &q.Bid},
			{"ask", &q.Ask},
			{"position", &q.Position},
			{"volume", &q.Volume},
		} {
			if *f.dst, err = optFloat(m, f.key); err != nil {
				return nil, nil, fmt.Errorf("security %s: %w", ticker, err)
			}
		}

		quotes[ticker] = q
		tickers = append(tickers, ticker)
	}

	return quotes, tickers, nil
}

// parseBook reads the "bid" and "ask" order lists of GET /v1/securities/book.
func parseBook(m *jsonview.Mapping) (bids, asks []model.BookLevel, err error) {
	if bids, err = parseLevels(m, "bid"); err != nil {
		return nil, nil, err
	}
	if asks, err = parseLevels(m, "ask"); err != nil {
		return nil, nil, err
	}
	return bids, asks, nil
}

func parseLevels(book *jsonview.Mapping, side string) ([]model.BookLevel, error) {
	if !book.Has(side) {
		return nil, nil
	}
	orders, err := book.Sequence(side)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", side, err)
	}

	levels := make([]model.BookLevel, 0, orders.Len())
	for i := range orders.Len() {
		o, err := orders.Mapping(i)
		if err != nil {
			return nil, fmt.Errorf("book %s[%d]: %w", side, i, err)
		}
		var l model.BookLevel
		if l.Price, err = o.Float("price"); err != nil {
			return nil, fmt.Errorf("book %s[%d]: %w", side, i, err)
		}
		if l.Quantity, err = optFloat(o, "quantity"); err != nil {
			return nil, fmt.Errorf("book %s[%d]: %w", side, i, err)
		}
		if l.Filled, err = optFloat(o, "quantity_filled"); err != nil {
			return nil, fmt.Errorf("book %s[%d]: %w", side, i, err)
		}
		if l.TraderID, err = optText(o, "trader_id"); err != nil {
			return nil, fmt.Errorf("book %s[%d]: %w", side, i, err)
		}
		levels = append(levels, l)
	}
	return levels, nil
}

// parsePrints reads GET /v1/securities/tas. The returned high-water mark is
// the largest print id seen, or after when there are none.
func parsePrints(s *jsonview.Sequence, ticker string, after int64) ([]model.TimeAndSale, int64, error) {
	prints := make([]model.TimeAndSale, 0, s.Len())
	last := after

	for i, v := range s.All() {
		m, err := jsonview.AsMapping(v)
		if err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}

		var p model.TimeAndSale
		if p.ID, err = m.Int("id"); err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}
		if p.ID <= after {
			continue
		}
		period, err := m.Int("period")
		if err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}
		tick, err := m.Int("tick")
		if err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}
		if p.Price, err = m.Float("price"); err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}
		if p.Quantity, err = m.Float("quantity"); err != nil {
			return nil, after, fmt.Errorf("print %d: %w", i, err)
		}

		p.Ticker = ticker
		p.Period = int(period)
		p.Tick = int(tick)
		prints = append(prints, p)
		last = max(last, p.ID)
	}

	return prints, last, nil
}

// optFloat reads a number that may be absent or null.
func optFloat(m *jsonview.Mapping, key string) (float64, error) {
	v, ok := m.Lookup(key)
	if !ok || v == nil {
		return 0, nil
	}
	f, err := jsonview.AsFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// optText reads a string that may be absent or null.
func optText(m *jsonview.Mapping, key string) (string, error) {
	v, ok := m.Lookup(key)
	if !ok || v == nil {
		return "", nil
	}
	s, err := jsonview.AsString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}
