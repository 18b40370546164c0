// Package store provides SQLite-backed run history for bmicount.
//
// Each successful `bmicount count --db` invocation is recorded as a run:
//   - Runs: digest of the input batch, band, totals, canonical records
//   - Run values: one BMI per record, in input order
//
// # Patterns
//
// Logical ordering
//   - Runs are ordered by seq INTEGER (assigned max+1 inside the write
//     transaction), never by wall-clock time
//
// Idempotent writes
//   - Run IDs are UUIDv7; writing the same ID twice is a no-op
//
// Replay
//   - Records are stored as canonical JSON so a run can be recomputed and
//     compared with what was recorded
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
