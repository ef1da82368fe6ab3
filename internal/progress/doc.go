// Package progress persists per-movie synchronization state in SQLite so a run
// interrupted by a rate limit, crash, or operator can resume without repeating
// work.
//
// Each record is keyed by the library item identifier and carries a status,
// an optional diagnostic reason, and the last-attempt timestamp. Writes are
// synchronously durable (synchronous=FULL) before returning, and a downloaded
// record is never downgraded by a later write. A single optional cooldown
// timestamp, stored alongside the records, tells a new run how long to wait
// before touching the remote store again.
package progress
