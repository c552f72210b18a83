// Package poller implements the snapshot poller behind the recorder.
//
// Every interval the poller:
//   - Reads the case state and skips the cycle unless the case is ACTIVE
//   - Reads all securities once for quotes and positions
//   - Fetches the book and new time-and-sales prints per ticker, concurrently
//   - Hands one model.Snapshot per ticker to a SnapshotHandler
//
// Every call waits out rate limiting, so a throttled cycle runs late rather
// than dropping data.
package poller
