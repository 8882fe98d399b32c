package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"diabeto/internal/cache"
)

// A session lookup that cannot reach redis must read as revoked. Failing open
// here would let a logged-out token back in for its remaining lifetime.
func TestSessionStoreFailsClosedWhenRedisUnreachable(t *testing.T) {
	// Port 1 refuses connections; no redis is listening there.
	store := NewSessionStore(cache.New("127.0.0.1:1", "", 0))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	doctorID, live := store.DoctorID(ctx, "tok-1")
	assert.False(t, live)
	assert.Zero(t, doctorID)
}
