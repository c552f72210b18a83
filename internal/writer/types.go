package writer

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrBufferFull is returned by HandleSnapshot when the input buffer is full.
var ErrBufferFull = errors.New("snapshot buffer full")

// Config holds batching settings.
type Config struct {
	// BatchSize is the number of snapshots to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize bounds the snapshots waiting to be batched.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// Metrics are running totals for a writer.
type Metrics struct {
	Snapshots int64 // snapshot rows inserted
	Prints    int64 // time_and_sales rows inserted
	Conflicts int64 // rows skipped as duplicates
	Dropped   int64 // rejected with ErrBufferFull or evicted after failed flushes
	Errors    int64 // failed flushes
	Flushes   int64
}

// batchSender sends a pgx batch. *pgxpool.Pool satisfies it.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}
