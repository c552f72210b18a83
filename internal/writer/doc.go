// Package writer implements the batch writer for recorder snapshots.
//
// SnapshotWriter buffers snapshots handed over by the poller and inserts
// them, with their time-and-sales prints, into PostgreSQL:
//   - security_snapshots, unique per (ticker, period, tick)
//   - time_and_sales, unique per (ticker, print_id)
//
// Writes are append-only. Rows that already exist are skipped with
// ON CONFLICT DO NOTHING and counted as conflicts.
package writer
