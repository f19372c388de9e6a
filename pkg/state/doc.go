// Package state defines the persistence contract for per-user generation
// state: the monthly quota counter and the recent-hooks variety window.
//
// Both records are versioned and mutated exclusively through optimistic
// compare-and-set upserts. The unit of contention is a single user's pair of
// records; there is no cross-user coordination. A successful generation must
// update both records together, which is what CommitGeneration provides: both
// writes become visible atomically or not at all.
//
// Three implementations ship with the package:
//
//   - NewMemoryStore: in-process store for tests and single-node setups
//   - NewPostgresStore: pgx-backed store using a version column for CAS and
//     a single transaction for the two-key commit
//   - NewRedisStore: go-redis store using WATCH/MULTI optimistic transactions
//
// Callers never retry conflicts here; retry policy belongs to the services
// built on top (see pkg/quota and pkg/variety).
package state
