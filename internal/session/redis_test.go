package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/models"
)

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	store, _ := newMiniredisStore(t, 0)
	ctx := context.Background()

	_, err := store.Get(ctx, "yok")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)

	updated, err := store.Update(ctx, "s1", func(s *models.Session) {
		s.AppendHistory("keten pantolon ne kadar", time.Now().UTC())
		s.LastMentionedProduct = "Keten Pantolon"
		s.LastMentionedProductID = "keten-pantolon"
	})
	require.NoError(t, err)
	assert.Equal(t, "Keten Pantolon", updated.LastMentionedProduct)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
	assert.Equal(t, "keten-pantolon", got.LastMentionedProductID)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisStoreCreateKeepsExisting(t *testing.T) {
	store, _ := newMiniredisStore(t, 0)
	ctx := context.Background()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	_, err = store.Update(ctx, "s1", func(s *models.Session) {
		s.AppendHistory("ilk tur", time.Now().UTC())
	})
	require.NoError(t, err)

	again, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.History, 1)
}

func TestRedisStoreUpdateUnknown(t *testing.T) {
	store, _ := newMiniredisStore(t, 0)

	_, err := store.Update(context.Background(), "yok", func(*models.Session) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	mr.FastForward(30 * time.Second)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)

	// Updates push the expiry out again.
	_, err = store.Update(ctx, "s1", func(*models.Session) {})
	require.NoError(t, err)
	mr.FastForward(45 * time.Second)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreGetBackendError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 0)

	mock.ExpectGet("session:s1").SetErr(assert.AnError)

	_, err := store.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionStoreFailed, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreCreateBackendError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 0)

	mock.Regexp().ExpectSetNX("session:s1", `.*`, 0).SetErr(assert.AnError)

	_, err := store.Create(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionStoreFailed, apperrors.CodeOf(err))
}
