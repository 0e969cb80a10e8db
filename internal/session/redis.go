package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/common/metrics"
	"butik-nlu/internal/models"
)

const (
	redisKeyPrefix = "session:"
	// updateRetries bounds optimistic transaction retries before the
	// conflict surfaces to the caller.
	updateRetries = 3
)

// RedisStore persists sessions as JSON under "session:<id>". Updates use
// WATCH-based optimistic transactions so concurrent writers on the same
// session cannot clobber each other.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. ttl <= 0 stores sessions
// without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) expiration() time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}
	return 0
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreError(fmt.Sprintf("get %s: %v", id, err))
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, apperrors.NewSessionStoreError(fmt.Sprintf("decode %s: %v", id, err))
	}
	return &sess, nil
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, id string) (*models.Session, error) {
	now := time.Now().UTC()
	sess := &models.Session{ID: id, CreatedAt: now, UpdatedAt: now}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, apperrors.NewSessionStoreError(fmt.Sprintf("encode %s: %v", id, err))
	}

	created, err := s.client.SetNX(ctx, redisKey(id), data, s.expiration()).Result()
	if err != nil {
		return nil, apperrors.NewSessionStoreError(fmt.Sprintf("create %s: %v", id, err))
	}
	if !created {
		// Lost the race or the session already exists; hand back what is
		// there.
		return s.Get(ctx, id)
	}
	metrics.SessionsCreated.Inc()
	return sess, nil
}

// Update implements Store. The mutation runs inside a WATCH transaction
// and retries a bounded number of times on conflict.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*models.Session)) (*models.Session, error) {
	key := redisKey(id)
	var updated *models.Session

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var sess models.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return err
		}

		fn(&sess)
		sess.UpdatedAt = time.Now().UTC()

		encoded, err := json.Marshal(&sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.expiration())
			return nil
		})
		if err != nil {
			return err
		}
		updated = &sess
		return nil
	}

	for attempt := 0; attempt < updateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, apperrors.NewSessionStoreError(fmt.Sprintf("update %s: %v", id, err))
		}
	}
	return nil, apperrors.NewSessionConflictError(id)
}

// Count implements Store by scanning the session key space.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, apperrors.NewSessionStoreError(fmt.Sprintf("scan: %v", err))
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Close implements Store. The wrapped client is owned by the caller and
// left open.
func (s *RedisStore) Close() error {
	return nil
}
