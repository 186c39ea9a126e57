package session

import (
	"context"
	"sync"
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

// memoryStore は単一プロセス向けのインメモリ実装。
// TTL は読み取り時の期限チェックで強制する。
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	sess      *interview.Session
	expiresAt time.Time
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (s *memoryStore) Create(_ context.Context, sess *interview.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sess.ID] = memoryEntry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*interview.Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.sess, nil
}

func (s *memoryStore) Update(_ context.Context, sess *interview.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sess.ID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, sess.ID)
		return ErrNotFound
	}
	s.entries[sess.ID] = memoryEntry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}
