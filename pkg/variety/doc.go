// Package variety maintains a bounded window of each user's recent
// opening-line hooks, used to steer generation away from repeating itself.
//
// The window holds the 5 most recent hooks, most recent last, with strict
// FIFO eviction. Appends for the same user serialize through optimistic
// compare-and-set on the backing state.Store: no append is silently lost and
// the capacity invariant holds after every committed mutation regardless of
// interleaving. Reads never mutate.
package variety
