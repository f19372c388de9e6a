package state

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence collaborator for generation state.
//
// Versioning convention: Get returns the record with its current version;
// Upsert succeeds only when expectedVersion matches the stored version and
// writes the record with version expectedVersion+1. An expectedVersion of 0
// means "create": the upsert fails with ErrVersionConflict if a record
// already exists. Get returns ErrNotFound for absent records, in which case
// callers proceed with expectedVersion 0.
type Store interface {
	// GetQuota returns the quota record for a user, or ErrNotFound.
	GetQuota(ctx context.Context, userID uuid.UUID) (QuotaRecord, error)

	// UpsertQuota writes rec if the stored version equals expectedVersion.
	// Returns ErrVersionConflict when another writer intervened.
	UpsertQuota(ctx context.Context, rec QuotaRecord, expectedVersion int64) error

	// GetWindow returns the variety window record for a user, or ErrNotFound.
	GetWindow(ctx context.Context, userID uuid.UUID) (WindowRecord, error)

	// UpsertWindow writes rec if the stored version equals expectedVersion.
	UpsertWindow(ctx context.Context, rec WindowRecord, expectedVersion int64) error

	// CommitGeneration applies both upserts in one atomic transaction.
	// Either both records are written with their bumped versions or neither
	// is visible. A version mismatch on either record fails the whole commit
	// with ErrVersionConflict.
	CommitGeneration(ctx context.Context, quota QuotaRecord, window WindowRecord, expectedQuotaVersion, expectedWindowVersion int64) error
}
