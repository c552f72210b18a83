package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/rit-client/internal/model"
)

const insertSnapshotSQL = `
	INSERT INTO security_snapshots (snapshot_id, polled_at, case_name, period, tick, ticker,
		last, bid, ask, position, volume, bid_levels, ask_levels)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (ticker, period, tick) DO NOTHING
`

const insertPrintSQL = `
	INSERT INTO time_and_sales (ticker, print_id, period, tick, price, quantity)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (ticker, print_id) DO NOTHING
`

// SnapshotWriter consumes snapshots from the poller and writes them in
// batches.
type SnapshotWriter struct {
	cfg    Config
	logger *slog.Logger

	// Input from the poller
	input chan model.Snapshot

	// Database
	db batchSender

	// Batching
	batch       []model.Snapshot
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics, guarded by batchMu
	metrics Metrics
}

// NewSnapshotWriter creates a new SnapshotWriter. db is usually a
// *pgxpool.Pool.
func NewSnapshotWriter(cfg Config, db batchSender, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	return &SnapshotWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.Snapshot, cfg.BufferSize),
		batch:  make([]model.Snapshot, 0, cfg.BatchSize),
	}
}

// HandleSnapshot queues a snapshot without blocking. It returns
// ErrBufferFull when the writer is falling behind.
func (w *SnapshotWriter) HandleSnapshot(s model.Snapshot) error {
	select {
	case w.input <- s:
		return nil
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		return ErrBufferFull
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
		"buffer_size", w.cfg.BufferSize,
	)
	return nil
}

// Stop gracefully shuts down the writer, writing whatever is still
// buffered.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	// Wait for goroutines
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("snapshot writer stopped")
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
	}

	// Final flush runs even if ctx expired waiting above.
	w.drainInput()
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return w.flush(flushCtx)
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *SnapshotWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case s := <-w.input:
			if w.add(s) {
				w.flush(w.ctx)
			}
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// add appends to the batch and reports whether it is full.
func (w *SnapshotWriter) add(s model.Snapshot) bool {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.batch = append(w.batch, s)
	return len(w.batch) >= w.cfg.BatchSize
}

// drainInput moves everything still queued into the batch.
func (w *SnapshotWriter) drainInput() {
	for {
		select {
		case s := <-w.input:
			w.add(s)
		default:
			return
		}
	}
}

// flush writes the current batch to the database.
func (w *SnapshotWriter) flush(ctx context.Context) error {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return nil
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.Snapshot, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	res, err := w.batchInsert(ctx, batch)
	if err != nil {
		dropped := w.requeue(batch)
		w.logger.Error("batch insert failed",
			"error", err,
			"count", len(batch),
			"dropped", dropped,
		)
		return err
	}

	w.batchMu.Lock()
	w.metrics.Snapshots += res.snapshots
	w.metrics.Prints += res.prints
	w.metrics.Conflicts += res.conflicts
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed snapshots",
		"count", len(batch),
		"prints", res.prints,
		"conflicts", res.conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// requeue puts a failed batch back in front of anything added since, so the
// next flush retries it. Inserts ignore conflicts, which makes rows that did
// land harmless to resend. The batch is capped at BufferSize snapshots and
// the oldest are dropped first; the number dropped is returned.
func (w *SnapshotWriter) requeue(failed []model.Snapshot) int {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()

	w.metrics.Errors++

	merged := append(failed, w.batch...)
	dropped := 0
	if limit := w.cfg.BufferSize; limit > 0 && len(merged) > limit {
		dropped = len(merged) - limit
		merged = merged[dropped:]
	}
	w.metrics.Dropped += int64(dropped)
	w.batch = merged
	return dropped
}

type insertResult struct {
	snapshots int64
	prints    int64
	conflicts int64
}

// batchInsert inserts snapshots and their prints in one pgx.Batch with
// ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(ctx context.Context, snapshots []model.Snapshot) (insertResult, error) {
	var res insertResult
	if w.db == nil {
		return res, fmt.Errorf("no database configured")
	}

	batch := &pgx.Batch{}
	kinds := make([]bool, 0, len(snapshots)) // true for snapshot rows

	for _, s := range snapshots {
		bids, err := levelsJSON(s.Bids)
		if err != nil {
			return res, fmt.Errorf("encode bids for %s: %w", s.Ticker, err)
		}
		asks, err := levelsJSON(s.Asks)
		if err != nil {
			return res, fmt.Errorf("encode asks for %s: %w", s.Ticker, err)
		}

		batch.Queue(insertSnapshotSQL,
			s.ID, s.PolledAt, s.CaseName, s.Period, s.Tick, s.Ticker,
			s.Last, nullIfZero(s.Bid), nullIfZero(s.Ask), s.Position, s.Volume,
			bids, asks,
		)
		kinds = append(kinds, true)

		for _, p := range s.Prints {
			batch.Queue(insertPrintSQL, p.Ticker, p.ID, p.Period, p.Tick, p.Price, p.Quantity)
			kinds = append(kinds, false)
		}
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, isSnapshot := range kinds {
		ct, err := results.Exec()
		if err != nil {
			return res, err
		}
		switch {
		case ct.RowsAffected() == 0:
			res.conflicts++
		case isSnapshot:
			res.snapshots++
		default:
			res.prints++
		}
	}

	return res, nil
}

// levelsJSON encodes book levels for a JSONB column; an empty side is [].
func levelsJSON(levels []model.BookLevel) ([]byte, error) {
	if levels == nil {
		levels = []model.BookLevel{}
	}
	return json.Marshal(levels)
}

// nullIfZero maps an empty book side's 0 price to NULL.
func nullIfZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
