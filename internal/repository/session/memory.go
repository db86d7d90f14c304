package session

import (
	"context"
	"sync"
	"time"

	"tourbooking/internal/domain"
)

type memoryEntry struct {
	session domain.CheckoutSession
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemory returns a process-local Store, used when no Redis is configured.
func NewMemory(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *memoryStore) Get(_ context.Context, id string) (*domain.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.entries, id)
		return nil, domain.ErrNotFound
	}
	sess := e.session
	return &sess, nil
}

func (s *memoryStore) Save(_ context.Context, sess domain.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = memoryEntry{session: sess, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
