package subscription

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySource is an in-memory Source for tests and local development. Its
// Put/Delete methods stand in for the billing collaborator's asynchronous
// writes; production deployments read the billing store instead.
type MemorySource struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Subscription
}

// NewMemorySource returns a MemorySource pre-populated with the given
// subscriptions.
func NewMemorySource(subs ...Subscription) *MemorySource {
	src := &MemorySource{subs: make(map[uuid.UUID]Subscription, len(subs))}
	for _, s := range subs {
		src.subs[s.UserID] = s
	}
	return src
}

func (s *MemorySource) Get(ctx context.Context, userID uuid.UUID) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

// Put stores or replaces a subscription, simulating a billing-side update.
func (s *MemorySource) Put(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.UserID] = sub
}

// Delete removes a subscription record.
func (s *MemorySource) Delete(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, userID)
}
