package poller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/rit-client/internal/api"
	"github.com/rickgao/rit-client/internal/model"
)

// fakeRIT serves a minimal case with a configurable set of securities.
type fakeRIT struct {
	status  string
	tickers []string

	mu        sync.Mutex
	tasAfter  map[string]string // last "after" parameter per ticker
	throttled map[string]bool   // book requests already throttled once

	throttleBook bool
	delay        time.Duration
	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
}

func newFakeRIT(tickers ...string) *fakeRIT {
	return &fakeRIT{
		status:    "ACTIVE",
		tickers:   tickers,
		tasAfter:  make(map[string]string),
		throttled: make(map[string]bool),
	}
}

func (f *fakeRIT) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.maxInFlight.Load()
		if current <= old || f.maxInFlight.CompareAndSwap(old, current) {
			break
		}
	}

	ticker := r.URL.Query().Get("ticker")
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/v1/case":
		fmt.Fprintf(w, `{"name":"RITC 2026","period":1,"tick":42,"ticks_per_period":300,"status":%q}`, f.status)

	case "/v1/securities":
		w.Write([]byte("["))
		for i, t := range f.tickers {
			if i > 0 {
				w.Write([]byte(","))
			}
			fmt.Fprintf(w, `{"ticker":%q,"type":"STOCK","position":100,"last":25.1,"bid":25.0,"ask":25.2,"volume":1500}`, t)
		}
		w.Write([]byte("]"))

	case "/v1/securities/book":
		f.mu.Lock()
		throttle := f.throttleBook && !f.throttled[ticker]
		f.throttled[ticker] = true
		f.mu.Unlock()
		if throttle {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code":"RATE_LIMIT","message":"slow down","wait":0.5}`))
			return
		}
		time.Sleep(f.delay)
		w.Write([]byte(`{"bid":[{"order_id":1,"price":25.0,"quantity":300,"quantity_filled":100,"trader_id":"ANON"}],` +
			`"ask":[{"order_id":2,"price":25.2,"quantity":200,"quantity_filled":0},{"order_id":3,"price":25.3,"quantity":50,"quantity_filled":0}]}`))

	case "/v1/securities/tas":
		after := r.URL.Query().Get("after")
		f.mu.Lock()
		f.tasAfter[ticker] = after
		f.mu.Unlock()
		if after == "" {
			w.Write([]byte(`[{"id":7,"period":1,"tick":41,"price":25.1,"quantity":10},{"id":5,"period":1,"tick":40,"price":25.0,"quantity":20}]`))
			return
		}
		w.Write([]byte(`[]`))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeRIT) lastAfter(ticker string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasAfter[ticker]
}

// collector records handled snapshots.
type collector struct {
	mu        sync.Mutex
	snapshots map[string]model.Snapshot
	err       error
}

func (c *collector) HandleSnapshot(s model.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.snapshots == nil {
		c.snapshots = make(map[string]model.Snapshot)
	}
	c.snapshots[s.Ticker] = s
	return nil
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshots)
}

func (c *collector) get(ticker string) (model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.snapshots[ticker]
	return s, ok
}

func noWait() api.ClientOption {
	return api.WithSleeper(api.SleeperFunc(func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}))
}

func newTestPoller(t *testing.T, fake *fakeRIT, cfg Config, handler SnapshotHandler) *Poller {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, "key", api.WithTimeout(5*time.Second), noWait())
	p := New(cfg, client, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	p.ctx = ctx
	return p
}

func TestPoller_PollAll(t *testing.T) {
	fake := newFakeRIT("CRZY", "TAME")
	handler := &collector{}
	cfg := Config{Interval: time.Hour, Concurrency: 4, Timeout: 5 * time.Second}
	p := newTestPoller(t, fake, cfg, handler)

	p.pollAll()

	if got := handler.count(); got != 2 {
		t.Fatalf("snapshots = %d, want 2", got)
	}

	s, _ := handler.get("CRZY")
	if s.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("snapshot ID not assigned")
	}
	if s.CaseName != "RITC 2026" || s.Period != 1 || s.Tick != 42 {
		t.Errorf("case = %q/%d/%d, want RITC 2026/1/42", s.CaseName, s.Period, s.Tick)
	}
	if s.Bid != 25.0 || s.Ask != 25.2 || s.Last != 25.1 {
		t.Errorf("quote = %v/%v/%v, want 25/25.2/25.1", s.Bid, s.Ask, s.Last)
	}
	if s.Position != 100 || s.Volume != 1500 {
		t.Errorf("Position = %v, Volume = %v", s.Position, s.Volume)
	}
	if len(s.Bids) != 1 || len(s.Asks) != 2 {
		t.Fatalf("book levels = %d/%d, want 1/2", len(s.Bids), len(s.Asks))
	}
	if s.Bids[0].Remaining() != 200 || s.Bids[0].TraderID != "ANON" {
		t.Errorf("best bid = %+v", s.Bids[0])
	}
	if len(s.Prints) != 2 || s.Prints[0].ID != 7 || s.Prints[0].Ticker != "CRZY" {
		t.Errorf("prints = %+v", s.Prints)
	}

	stats := p.Stats()
	if stats.Cycles != 1 || stats.Snapshots != 2 || stats.Errors != 0 {
		t.Errorf("Stats() = %+v", stats)
	}

	// The next cycle asks only for prints after the highest id seen.
	p.pollAll()

	if got := fake.lastAfter("CRZY"); got != "7" {
		t.Errorf("after = %q, want %q", got, "7")
	}
	s, _ = handler.get("CRZY")
	if len(s.Prints) != 0 {
		t.Errorf("second cycle prints = %d, want 0", len(s.Prints))
	}
}

func TestPoller_SkipsInactiveCase(t *testing.T) {
	for _, status := range []string{"PAUSED", "STOPPED"} {
		t.Run(status, func(t *testing.T) {
			fake := newFakeRIT("CRZY")
			fake.status = status
			handler := &collector{}
			p := newTestPoller(t, fake, DefaultConfig(), handler)

			p.pollAll()

			if got := handler.count(); got != 0 {
				t.Errorf("snapshots = %d, want 0", got)
			}
			if got := p.Stats().Skipped; got != 1 {
				t.Errorf("Skipped = %d, want 1", got)
			}
		})
	}
}

func TestPoller_ConfiguredTickers(t *testing.T) {
	fake := newFakeRIT("CRZY", "TAME", "INDX")
	handler := &collector{}
	cfg := DefaultConfig()
	cfg.Tickers = []string{"TAME", "MISSING"}
	p := newTestPoller(t, fake, cfg, handler)

	p.pollAll()

	if got := handler.count(); got != 1 {
		t.Errorf("snapshots = %d, want 1", got)
	}
	if _, ok := handler.get("TAME"); !ok {
		t.Error("no snapshot for TAME")
	}
	if got := p.Stats().Errors; got != 1 {
		t.Errorf("Errors = %d, want 1", got)
	}
}

func TestPoller_WaitsOutRateLimit(t *testing.T) {
	fake := newFakeRIT("CRZY")
	fake.throttleBook = true
	handler := &collector{}
	p := newTestPoller(t, fake, DefaultConfig(), handler)

	p.pollAll()

	if _, ok := handler.get("CRZY"); !ok {
		t.Fatal("throttled ticker was not recorded")
	}
	if got := p.Stats().Errors; got != 0 {
		t.Errorf("Errors = %d, want 0", got)
	}
}

func TestPoller_HandlerErrorKeepsPrints(t *testing.T) {
	fake := newFakeRIT("CRZY")
	handler := &collector{err: errors.New("buffer full")}
	p := newTestPoller(t, fake, DefaultConfig(), handler)

	p.pollAll()
	if got := p.Stats().Errors; got != 1 {
		t.Errorf("Errors = %d, want 1", got)
	}

	// The prints were not handed off, so they are requested again.
	handler.mu.Lock()
	handler.err = nil
	handler.mu.Unlock()
	p.pollAll()

	if got := fake.lastAfter("CRZY"); got != "" {
		t.Errorf("after = %q, want empty", got)
	}
	if s, _ := handler.get("CRZY"); len(s.Prints) != 2 {
		t.Errorf("prints = %d, want 2", len(s.Prints))
	}
}

func TestPoller_StartStop(t *testing.T) {
	server := httptest.NewServer(newFakeRIT("CRZY"))
	defer server.Close()

	client := api.NewClient(server.URL, "")

	var called atomic.Bool
	handler := SnapshotHandlerFunc(func(s model.Snapshot) error {
		called.Store(true)
		return nil
	})

	cfg := DefaultConfig()
	cfg.Interval = 100 * time.Millisecond

	p := New(cfg, client, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one poll.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler was never called")
	}
}

func TestPoller_Concurrency(t *testing.T) {
	var tickers []string
	for i := 0; i < 20; i++ {
		tickers = append(tickers, "SEC-"+string(rune('A'+i)))
	}
	fake := newFakeRIT(tickers...)
	fake.delay = 50 * time.Millisecond

	handler := SnapshotHandlerFunc(func(s model.Snapshot) error {
		return nil
	})

	cfg := Config{
		Interval:    time.Hour,
		Concurrency: 5, // Limit to 5 concurrent.
		Timeout:     30 * time.Second,
	}
	p := newTestPoller(t, fake, cfg, handler)

	p.pollAll()

	// Each ticker has at most one request in flight.
	if got := fake.maxInFlight.Load(); got > 5 {
		t.Errorf("maxInFlight = %d, want <= 5", got)
	}
	if got := p.Stats().Snapshots; got != 20 {
		t.Errorf("Snapshots = %d, want 20", got)
	}
}
