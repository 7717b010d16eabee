// Package store persists built phoneme inventories in SQLite so consumers
// can look phonemes up without rebuilding.
//
// Inventories are content addressed: the primary key is the inventory
// fingerprint (see ir.InventoryFingerprint), so writes are idempotent and the
// first build id written for a given content is kept.
//
// # Ordering
//
// Reads never depend on wall time. Inventories carry a write sequence number
// and every query orders by (seq, fingerprint) or by phoneme index, so results
// are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
