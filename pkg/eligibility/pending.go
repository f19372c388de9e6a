package eligibility

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pendingRequest is one ALLOWED request awaiting commit, rollback, or
// expiry. The claimed flag prevents two concurrent finishers (a commit and
// the expiry timer, or two commits) from consuming the same request.
type pendingRequest struct {
	id        uuid.UUID
	userID    uuid.UUID
	lifecycle *lifecycle
	createdAt time.Time
	timer     *time.Timer
	claimed   bool
}

// pendingSet tracks in-flight requests per user, oldest first. The public
// commit/rollback operations are keyed by user only, so finishers consume
// pending requests in FIFO order.
type pendingSet struct {
	mu     sync.Mutex
	byUser map[uuid.UUID][]*pendingRequest
}

func newPendingSet() *pendingSet {
	return &pendingSet{byUser: make(map[uuid.UUID][]*pendingRequest)}
}

func (s *pendingSet) add(r *pendingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[r.userID] = append(s.byUser[r.userID], r)
}

// claimOldest marks the user's oldest unclaimed request as claimed and
// returns it, or nil when none exists.
func (s *pendingSet) claimOldest(userID uuid.UUID) *pendingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.byUser[userID] {
		if !r.claimed {
			r.claimed = true
			return r
		}
	}
	return nil
}

// claimByID claims a specific request if it is still present and unclaimed.
// Used by expiry timers, which must lose the race against an in-flight
// commit or rollback.
func (s *pendingSet) claimByID(userID, requestID uuid.UUID) *pendingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.byUser[userID] {
		if r.id == requestID && !r.claimed {
			r.claimed = true
			return r
		}
	}
	return nil
}

// unclaim releases a claimed request after a failed finish so the caller can
// retry the commit. The expiry timer is re-armed: it may already have fired
// and found the request claimed, and a spent AfterFunc never fires again, so
// without the reset an abandoned request would stay pending forever.
func (s *pendingSet) unclaim(r *pendingRequest, wait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.claimed = false
	if r.timer != nil {
		r.timer.Reset(wait)
	}
}

// remove deletes a finished request and stops its expiry timer.
func (s *pendingSet) remove(r *pendingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}

	reqs := s.byUser[r.userID]
	for i, cur := range reqs {
		if cur.id == r.id {
			reqs = append(reqs[:i], reqs[i+1:]...)
			break
		}
	}
	if len(reqs) == 0 {
		delete(s.byUser, r.userID)
	} else {
		s.byUser[r.userID] = reqs
	}
}

// count returns the number of pending requests for a user.
func (s *pendingSet) count(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser[userID])
}
