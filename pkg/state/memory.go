package state

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// memoryStore implements Store with in-process maps.
// A single mutex guards both maps so CommitGeneration is trivially atomic;
// all operations are O(1) map accesses, so contention stays negligible.
type memoryStore struct {
	mu      sync.Mutex
	quotas  map[uuid.UUID]QuotaRecord
	windows map[uuid.UUID]WindowRecord
}

// NewMemoryStore returns an in-process Store suitable for tests and
// single-node deployments.
func NewMemoryStore() Store {
	return &memoryStore{
		quotas:  make(map[uuid.UUID]QuotaRecord),
		windows: make(map[uuid.UUID]WindowRecord),
	}
}

func (s *memoryStore) GetQuota(ctx context.Context, userID uuid.UUID) (QuotaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.quotas[userID]
	if !ok {
		return QuotaRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) UpsertQuota(ctx context.Context, rec QuotaRecord, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertQuotaLocked(rec, expectedVersion)
}

func (s *memoryStore) GetWindow(ctx context.Context, userID uuid.UUID) (WindowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.windows[userID]
	if !ok {
		return WindowRecord{}, ErrNotFound
	}
	// Copy so callers cannot mutate stored state through the slice.
	rec.Hooks = slices.Clone(rec.Hooks)
	return rec, nil
}

func (s *memoryStore) UpsertWindow(ctx context.Context, rec WindowRecord, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertWindowLocked(rec, expectedVersion)
}

func (s *memoryStore) CommitGeneration(ctx context.Context, quota QuotaRecord, window WindowRecord, expectedQuotaVersion, expectedWindowVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate both versions before writing either record, so a conflict on
	// the second record cannot leave the first one half-committed.
	if err := s.checkQuotaVersionLocked(quota.UserID, expectedQuotaVersion); err != nil {
		return err
	}
	if err := s.checkWindowVersionLocked(window.UserID, expectedWindowVersion); err != nil {
		return err
	}

	if err := s.upsertQuotaLocked(quota, expectedQuotaVersion); err != nil {
		return err
	}
	return s.upsertWindowLocked(window, expectedWindowVersion)
}

func (s *memoryStore) checkQuotaVersionLocked(userID uuid.UUID, expected int64) error {
	cur, ok := s.quotas[userID]
	if !ok {
		if expected != 0 {
			return ErrVersionConflict
		}
		return nil
	}
	if cur.Version != expected {
		return ErrVersionConflict
	}
	return nil
}

func (s *memoryStore) checkWindowVersionLocked(userID uuid.UUID, expected int64) error {
	cur, ok := s.windows[userID]
	if !ok {
		if expected != 0 {
			return ErrVersionConflict
		}
		return nil
	}
	if cur.Version != expected {
		return ErrVersionConflict
	}
	return nil
}

func (s *memoryStore) upsertQuotaLocked(rec QuotaRecord, expectedVersion int64) error {
	if err := s.checkQuotaVersionLocked(rec.UserID, expectedVersion); err != nil {
		return err
	}
	rec.Version = expectedVersion + 1
	s.quotas[rec.UserID] = rec
	return nil
}

func (s *memoryStore) upsertWindowLocked(rec WindowRecord, expectedVersion int64) error {
	if err := s.checkWindowVersionLocked(rec.UserID, expectedVersion); err != nil {
		return err
	}
	rec.Version = expectedVersion + 1
	rec.Hooks = slices.Clone(rec.Hooks)
	s.windows[rec.UserID] = rec
	return nil
}
