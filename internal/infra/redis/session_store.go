package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"learnhub-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions own a live countdown goroutine, so the session itself stays in a
//     local map; Redis only carries a presence marker per user.
//   - The marker means "attached to this instance", idle or mid-quiz. Every lookup
//     extends its TTL, so it only lapses for users that stopped sending commands.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(userID string, create func() *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		s.touch(userID)
		return session
	}
	session := create()
	s.sessions[userID] = session
	s.touch(userID)
	return session
}

func (s *SessionStore) Get(userID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	if ok {
		s.touch(userID)
	}
	return session, ok
}

// touch writes or extends the presence marker; best-effort.
func (s *SessionStore) touch(userID string) {
	_ = s.client.Set(context.Background(), s.key(userID), "1", s.ttl).Err()
}

func (s *SessionStore) DeleteIfIdle(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return
	}
	if session.IsIdle() {
		delete(s.sessions, userID)
		session.Close()
		_ = s.client.Del(context.Background(), s.key(userID)).Err()
	}
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
