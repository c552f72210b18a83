// Package database provides the PostgreSQL connection pool and schema used
// by the recorder.
//
// Tables:
//   - security_snapshots: one row per ticker per poll (case tick, top of book, position)
//   - time_and_sales: prints from /v1/securities/tas, keyed by ticker and print id
package database
