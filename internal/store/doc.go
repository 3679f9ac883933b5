// Package store keeps a SQLite history of sweep runs.
//
// Two tables are kept:
//   - runs: one row per sweep, with its config as JSON and the final outcome
//   - invocations: one row per simulator call, keyed by (run_id, idx)
//
// Runs are ordered by seq, a logical counter assigned at insert time
// (MAX(seq)+1), never by wall-clock time. Invocations are ordered by their
// index in the temperature sequence.
//
// # Database Configuration
//
//   - WAL mode: history can be read while a sweep is writing
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: invocations must reference an existing run
//
// *Store implements sweep.Recorder.
package store
