package auth

import (
	"context"
	"strconv"
	"time"

	"diabeto/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines server-side session record operations.
// Logout deletes the record, so a token that still verifies cryptographically
// is rejected once revoked.
type SessionStoreInterface interface {
	Put(ctx context.Context, tokenID string, doctorID uint, ttl time.Duration) error
	DoctorID(ctx context.Context, tokenID string) (uint, bool)
	Delete(ctx context.Context, tokenID string) error
}

// SessionStore keeps session records in Redis.
type SessionStore struct {
	cache *cache.Client
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// Put records an issued session until the token itself expires.
func (s *SessionStore) Put(ctx context.Context, tokenID string, doctorID uint, ttl time.Duration) error {
	key := sessionKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte(strconv.FormatUint(uint64(doctorID), 10)), ttl)
}

// DoctorID returns the clinician bound to a live session record. A missing
// record, a corrupt value and redis being unreachable all read as revoked:
// an outage logs sessions out rather than resurrecting revoked tokens.
func (s *SessionStore) DoctorID(ctx context.Context, tokenID string) (uint, bool) {
	val, err := s.cache.Get(ctx, sessionKeyPrefix+tokenID)
	if err != nil || len(val) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(string(val), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Delete revokes a session.
func (s *SessionStore) Delete(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+tokenID)
}
