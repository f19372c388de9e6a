package state

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// statements serve single-record upserts and the transactional commit.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresStore implements Store on PostgreSQL with a version column per
// record for optimistic concurrency. Schema lives in migrations/.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) GetQuota(ctx context.Context, userID uuid.UUID) (QuotaRecord, error) {
	rec := QuotaRecord{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT posts_this_month, posts_reset_at, version FROM quota_states WHERE user_id = $1`,
		userID,
	).Scan(&rec.PostsThisMonth, &rec.ResetAt, &rec.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuotaRecord{}, ErrNotFound
		}
		return QuotaRecord{}, errors.Join(ErrUnavailable, err)
	}
	return rec, nil
}

func (s *postgresStore) UpsertQuota(ctx context.Context, rec QuotaRecord, expectedVersion int64) error {
	return upsertQuota(ctx, s.pool, rec, expectedVersion)
}

func (s *postgresStore) GetWindow(ctx context.Context, userID uuid.UUID) (WindowRecord, error) {
	rec := WindowRecord{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT hooks, version FROM variety_windows WHERE user_id = $1`,
		userID,
	).Scan(&rec.Hooks, &rec.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WindowRecord{}, ErrNotFound
		}
		return WindowRecord{}, errors.Join(ErrUnavailable, err)
	}
	return rec, nil
}

func (s *postgresStore) UpsertWindow(ctx context.Context, rec WindowRecord, expectedVersion int64) error {
	return upsertWindow(ctx, s.pool, rec, expectedVersion)
}

func (s *postgresStore) CommitGeneration(ctx context.Context, quota QuotaRecord, window WindowRecord, expectedQuotaVersion, expectedWindowVersion int64) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := upsertQuota(ctx, tx, quota, expectedQuotaVersion); err != nil {
			return err
		}
		return upsertWindow(ctx, tx, window, expectedWindowVersion)
	})
	if err != nil {
		// BeginFunc rolled the transaction back; surface the cause as-is so
		// version conflicts stay distinguishable from backend failures.
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrUnavailable) {
			return err
		}
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func upsertQuota(ctx context.Context, q querier, rec QuotaRecord, expectedVersion int64) error {
	if expectedVersion == 0 {
		tag, err := q.Exec(ctx,
			`INSERT INTO quota_states (user_id, posts_this_month, posts_reset_at, version)
			 VALUES ($1, $2, $3, 1)
			 ON CONFLICT (user_id) DO NOTHING`,
			rec.UserID, rec.PostsThisMonth, rec.ResetAt,
		)
		if err != nil {
			return errors.Join(ErrUnavailable, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	tag, err := q.Exec(ctx,
		`UPDATE quota_states
		 SET posts_this_month = $2, posts_reset_at = $3, version = version + 1
		 WHERE user_id = $1 AND version = $4`,
		rec.UserID, rec.PostsThisMonth, rec.ResetAt, expectedVersion,
	)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func upsertWindow(ctx context.Context, q querier, rec WindowRecord, expectedVersion int64) error {
	if expectedVersion == 0 {
		tag, err := q.Exec(ctx,
			`INSERT INTO variety_windows (user_id, hooks, version)
			 VALUES ($1, $2, 1)
			 ON CONFLICT (user_id) DO NOTHING`,
			rec.UserID, rec.Hooks,
		)
		if err != nil {
			return errors.Join(ErrUnavailable, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	tag, err := q.Exec(ctx,
		`UPDATE variety_windows
		 SET hooks = $2, version = version + 1
		 WHERE user_id = $1 AND version = $3`,
		rec.UserID, rec.Hooks, expectedVersion,
	)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}
