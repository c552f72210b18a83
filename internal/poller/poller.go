package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/rit-client/internal/api"
	"github.com/rickgao/rit-client/internal/model"
)

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot model.Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(model.Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s model.Snapshot) error {
	return f(s)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1s)
	Concurrency int           // Max concurrent tickers (default: 4)
	Timeout     time.Duration // Per-cycle timeout (default: 10s)
	Tickers     []string      // Tickers to record; empty records every security
	BookLimit   int           // Orders per book side; 0 uses the server default
	TASLimit    int           // Max prints per request; 0 uses the server default
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Second,
		Concurrency: 4,
		Timeout:     10 * time.Second,
		BookLimit:   20,
		TASLimit:    100,
	}
}

// Stats are running totals since Start.
type Stats struct {
	Cycles    int64
	Skipped   int64 // cycles skipped because the case was not active
	Snapshots int64
	Errors    int64
}

// Poller periodically records security snapshots via the REST API.
type Poller struct {
	cfg     Config
	client  *api.Client
	handler SnapshotHandler
	logger  *slog.Logger

	// lastPrint is the highest time-and-sales id seen per ticker.
	mu        sync.Mutex
	lastPrint map[string]int64

	cycles    atomic.Int64
	skipped   atomic.Int64
	snapshots atomic.Int64
	errors    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:       cfg,
		client:    client,
		handler:   handler,
		logger:    logger,
		lastPrint: make(map[string]int64),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"tickers", len(p.cfg.Tickers),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the running totals.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:    p.cycles.Load(),
		Skipped:   p.skipped.Load(),
		Snapshots: p.snapshots.Load(),
		Errors:    p.errors.Load(),
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll runs one cycle: case, securities, then every ticker concurrently.
func (p *Poller) pollAll() {
	start := time.Now()
	p.cycles.Add(1)

	ctx := p.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
		defer cancel()
	}

	cs, quotes, tickers, err := p.pollCase(ctx)
	if err != nil {
		p.errors.Add(1)
		p.logger.Warn("failed to poll case", "err", err)
		return
	}
	if cs.Status != api.CaseActive {
		p.skipped.Add(1)
		p.logger.Debug("case not active, skipping cycle", "status", cs.Status)
		return
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	var fetched, failed atomic.Int64

	for _, ticker := range tickers {
		q, ok := quotes[ticker]
		if !ok {
			p.logger.Warn("configured ticker not in case", "ticker", ticker)
			failed.Add(1)
			continue
		}

		g.Go(func() error {
			if err := p.pollTicker(ctx, cs, q, start); err != nil {
				p.logger.Warn("failed to poll ticker",
					"ticker", ticker,
					"err", err,
				)
				failed.Add(1)
				return nil
			}
			fetched.Add(1)
			return nil
		})
	}

	g.Wait()

	p.snapshots.Add(fetched.Load())
	p.errors.Add(failed.Load())

	p.logger.Info("poll cycle complete",
		"period", cs.Period,
		"tick", cs.Tick,
		"tickers", len(tickers),
		"fetched", fetched.Load(),
		"errors", failed.Load(),
		"duration", time.Since(start),
	)
}

// pollCase reads the case and the securities list and picks the tickers to
// poll.
func (p *Poller) pollCase(ctx context.Context) (caseState, map[string]quote, []string, error) {
	wait := api.WithPolicy(api.WaitAndRetry)

	cm, err := p.client.GetCase(ctx, wait)
	if err != nil {
		return caseState{}, nil, nil, err
	}
	cs, err := parseCase(cm)
	if err != nil {
		return caseState{}, nil, nil, err
	}
	if cs.Status != api.CaseActive {
		return cs, nil, nil, nil
	}

	secs, err := p.client.GetSecurities(ctx, "", wait)
	if err != nil {
		return cs, nil, nil, err
	}
	quotes, all, err := parseSecurities(secs)
	if err != nil {
		return cs, nil, nil, fmt.Errorf("parse securities: %w", err)
	}

	tickers := p.cfg.Tickers
	if len(tickers) == 0 {
		tickers = all
	}
	return cs, quotes, tickers, nil
}

// pollTicker fetches the book and new prints for one security and hands the
// snapshot to the handler.
func (p *Poller) pollTicker(ctx context.Context, cs caseState, q quote, polledAt time.Time) error {
	wait := api.WithPolicy(api.WaitAndRetry)

	book, err := p.client.GetSecuritiesBook(ctx, q.Ticker, p.cfg.BookLimit, wait)
	if err != nil {
		return err
	}
	bids, asks, err := parseBook(book)
	if err != nil {
		return fmt.Errorf("parse book: %w", err)
	}

	after := p.lastPrintID(q.Ticker)
	tas, err := p.client.GetSecuritiesTAS(ctx, api.HistoryQuery{
		Ticker: q.Ticker,
		After:  int(after),
		Limit:  p.cfg.TASLimit,
	}, wait)
	if err != nil {
		return err
	}
	prints, last, err := parsePrints(tas, q.Ticker, after)
	if err != nil {
		return fmt.Errorf("parse tas: %w", err)
	}

	snapshot := model.Snapshot{
		ID:       uuid.New(),
		PolledAt: polledAt,
		CaseName: cs.Name,
		Period:   cs.Period,
		Tick:     cs.Tick,
		Ticker:   q.Ticker,
		Last:     q.Last,
		Bid:      q.Bid,
		Ask:      q.Ask,
		Position: q.Position,
		Volume:   q.Volume,
		Bids:     bids,
		Asks:     asks,
		Prints:   prints,
	}

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(snapshot); err != nil {
			return err
		}
	}

	// Advance only once the handler has the prints, so a failed handoff
	// refetches them next cycle.
	p.setLastPrintID(q.Ticker, last)

	p.logger.Debug("snapshot recorded",
		"ticker", q.Ticker,
		"spread", snapshot.Spread(),
		"prints", len(prints),
	)
	return nil
}

func (p *Poller) lastPrintID(ticker string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPrint[ticker]
}

func (p *Poller) setLastPrintID(ticker string, id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id > p.lastPrint[ticker] {
		p.lastPrint[ticker] = id
	}
}
