package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// State is the position of one user inside the verification funnel.
type State string

const (
	StateAwaitingChannels    State = "AWAITING_CHANNELS"
	StateAwaitingSocialVisit State = "AWAITING_SOCIAL_VISIT"
	StateAwaitingAddress     State = "AWAITING_ADDRESS"
	StateMenu                State = "MENU"
)

// Session is the per-user conversation record. PendingReferrerID is
// transient: it is cleared once the referral credit is attempted.
type Session struct {
	State             State `json:"state"`
	PendingReferrerID int64 `json:"pending_referrer_id,omitempty"`
}

// Store persists sessions keyed by user id, with explicit load/save at
// session boundaries.
type Store interface {
	Load(ctx context.Context, userID int64) (Session, bool, error)
	Save(ctx context.Context, userID int64, s Session) error
	Delete(ctx context.Context, userID int64) error
}

const sessionTTL = 30 * 24 * time.Hour

// RedisStore keeps sessions in Redis so conversations survive restarts.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (Session, bool, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to load session for %d: %w", userID, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, false, fmt.Errorf("failed to decode session for %d: %w", userID, err)
	}
	return sess, true, nil
}

func (s *RedisStore) Save(ctx context.Context, userID int64, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session for %d: %w", userID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(userID), raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session for %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %d: %w", userID, err)
	}
	return nil
}

// MemoryStore is a map-backed Store for tests and single-process runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (s *MemoryStore) Load(_ context.Context, userID int64) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, userID int64, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
