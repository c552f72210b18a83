// Package model defines the recorder's data types.
//
// All types mirror the tables created by database.EnsureSchema.
//
// Conventions:
//   - Prices and quantities: float64, as the RIT server reports them
//   - Case time: period and tick; wall-clock time only in PolledAt
//   - IDs: uuid.UUID for snapshots, server-assigned integers for prints
package model
