package state

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	quotaKeyPrefix  = "postkit:quota:"
	windowKeyPrefix = "postkit:window:"
)

// redisStore implements Store using WATCH/MULTI optimistic transactions.
// Records are stored as JSON values; the version travels inside the payload
// and WATCH detects any intervening write to the key.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) GetQuota(ctx context.Context, userID uuid.UUID) (QuotaRecord, error) {
	var rec QuotaRecord
	if err := s.get(ctx, quotaKeyPrefix+userID.String(), &rec); err != nil {
		return QuotaRecord{}, err
	}
	return rec, nil
}

func (s *redisStore) UpsertQuota(ctx context.Context, rec QuotaRecord, expectedVersion int64) error {
	key := quotaKeyPrefix + rec.UserID.String()
	return s.watch(ctx, []string{key}, func(tx *redis.Tx) error {
		if err := checkRedisVersion(ctx, tx, key, quotaVersion, expectedVersion); err != nil {
			return err
		}
		rec.Version = expectedVersion + 1
		return setJSON(ctx, tx, key, rec)
	})
}

func (s *redisStore) GetWindow(ctx context.Context, userID uuid.UUID) (WindowRecord, error) {
	var rec WindowRecord
	if err := s.get(ctx, windowKeyPrefix+userID.String(), &rec); err != nil {
		return WindowRecord{}, err
	}
	if rec.Hooks == nil {
		rec.Hooks = []string{}
	}
	return rec, nil
}

func (s *redisStore) UpsertWindow(ctx context.Context, rec WindowRecord, expectedVersion int64) error {
	key := windowKeyPrefix + rec.UserID.String()
	return s.watch(ctx, []string{key}, func(tx *redis.Tx) error {
		if err := checkRedisVersion(ctx, tx, key, windowVersion, expectedVersion); err != nil {
			return err
		}
		rec.Version = expectedVersion + 1
		return setJSON(ctx, tx, key, rec)
	})
}

func (s *redisStore) CommitGeneration(ctx context.Context, quota QuotaRecord, window WindowRecord, expectedQuotaVersion, expectedWindowVersion int64) error {
	quotaKey := quotaKeyPrefix + quota.UserID.String()
	windowKey := windowKeyPrefix + window.UserID.String()

	return s.watch(ctx, []string{quotaKey, windowKey}, func(tx *redis.Tx) error {
		if err := checkRedisVersion(ctx, tx, quotaKey, quotaVersion, expectedQuotaVersion); err != nil {
			return err
		}
		if err := checkRedisVersion(ctx, tx, windowKey, windowVersion, expectedWindowVersion); err != nil {
			return err
		}

		quota.Version = expectedQuotaVersion + 1
		window.Version = expectedWindowVersion + 1

		quotaPayload, err := json.Marshal(quota)
		if err != nil {
			return err
		}
		windowPayload, err := json.Marshal(window)
		if err != nil {
			return err
		}

		// MULTI/EXEC applies both SETs atomically; WATCH aborts the whole
		// exec if either key changed since the version check.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, quotaKey, quotaPayload, 0)
			pipe.Set(ctx, windowKey, windowPayload, 0)
			return nil
		})
		return err
	})
}

func (s *redisStore) get(ctx context.Context, key string, dst any) error {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return errors.Join(ErrUnavailable, err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *redisStore) watch(ctx context.Context, keys []string, fn func(tx *redis.Tx) error) error {
	err := s.client.Watch(ctx, fn, keys...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrVersionConflict):
		return ErrVersionConflict
	default:
		return errors.Join(ErrUnavailable, err)
	}
}

// versionExtractor pulls the version out of a stored payload without
// committing to a full record type.
type versionExtractor func(payload []byte) (int64, error)

func quotaVersion(payload []byte) (int64, error) {
	var rec QuotaRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return 0, err
	}
	return rec.Version, nil
}

func windowVersion(payload []byte) (int64, error) {
	var rec WindowRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return 0, err
	}
	return rec.Version, nil
}

func checkRedisVersion(ctx context.Context, tx *redis.Tx, key string, extract versionExtractor, expected int64) error {
	payload, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			if expected != 0 {
				return ErrVersionConflict
			}
			return nil
		}
		return err
	}
	current, err := extract(payload)
	if err != nil {
		return err
	}
	if current != expected {
		return ErrVersionConflict
	}
	return nil
}

func setJSON(ctx context.Context, tx *redis.Tx, key string, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, 0)
		return nil
	})
	return err
}
