package session

import (
	"context"
	"sync"
	"time"

	"butik-nlu/internal/common/metrics"
	"butik-nlu/internal/models"
)

type memoryEntry struct {
	mu       sync.Mutex
	sess     *models.Session
	expireAt time.Time
}

// MemoryStore keeps sessions in process memory. A zero TTL disables
// expiry; with a TTL set, a janitor goroutine sweeps expired sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	stopped sync.Once
}

// NewMemoryStore builds an in-process store. ttl <= 0 keeps sessions
// until shutdown.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if !e.expireAt.IsZero() && now.After(e.expireAt) {
			delete(s.entries, id)
			metrics.SessionsActive.Dec()
		}
	}
}

func (s *MemoryStore) lookup(id string) (*memoryEntry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expireAt.IsZero() && s.now().After(e.expireAt) {
		return nil, false
	}
	return e, true
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copySession(e.sess), nil
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, id string) (*models.Session, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok && (e.expireAt.IsZero() || now.Before(e.expireAt)) {
		e.mu.Lock()
		defer e.mu.Unlock()
		return copySession(e.sess), nil
	}

	e := &memoryEntry{
		sess: &models.Session{ID: id, CreatedAt: now, UpdatedAt: now},
	}
	if s.ttl > 0 {
		e.expireAt = now.Add(s.ttl)
	}
	s.entries[id] = e
	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Inc()
	return copySession(e.sess), nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*models.Session)) (*models.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	fn(e.sess)
	e.sess.UpdatedAt = s.now()
	if s.ttl > 0 {
		e.expireAt = s.now().Add(s.ttl)
	}
	return copySession(e.sess), nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.expireAt.IsZero() || now.Before(e.expireAt) {
			n++
		}
	}
	return n, nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.stopped.Do(func() { close(s.stop) })
	return nil
}
