package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"butik-nlu/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Get(ctx, "yok")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)
	assert.Empty(t, created.History)

	updated, err := store.Update(ctx, "s1", func(s *models.Session) {
		s.AppendHistory("merhaba", time.Now())
		s.LastMentionedProduct = "Keten Pantolon"
		s.LastMentionedProductID = "keten-pantolon"
	})
	require.NoError(t, err)
	assert.Len(t, updated.History, 1)
	assert.Equal(t, "Keten Pantolon", updated.LastMentionedProduct)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, updated.LastMentionedProduct, got.LastMentionedProduct)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStoreCreateIsIdempotent(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	_, err = store.Update(ctx, "s1", func(s *models.Session) {
		s.AppendHistory("ilk tur", time.Now())
	})
	require.NoError(t, err)

	// A second Create must not wipe existing state.
	again, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.History, 1)
}

func TestMemoryStoreUpdateUnknown(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	_, err := store.Update(context.Background(), "yok", func(*models.Session) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	got.LastMentionedProduct = "kacak yazma"
	got.History = append(got.History, models.HistoryEntry{Utterance: "x"})

	fresh, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, fresh.LastMentionedProduct)
	assert.Empty(t, fresh.History)
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "s1", func(s *models.Session) {
				s.LastMentionedProduct = "Deri Ceket"
				s.AppendHistory("tur", time.Now())
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	// History is capped, but every update went through the critical
	// section.
	assert.Len(t, got.History, models.HistoryCap)
	assert.Equal(t, "Deri Ceket", got.LastMentionedProduct)
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore(50 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	// Still alive inside the window.
	now = now.Add(30 * time.Millisecond)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)

	// An update refreshes the deadline.
	_, err = store.Update(ctx, "s1", func(*models.Session) {})
	require.NoError(t, err)
	now = now.Add(40 * time.Millisecond)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)

	// Past the refreshed deadline the session is gone.
	now = now.Add(60 * time.Millisecond)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
