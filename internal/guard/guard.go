package guard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when a guarded section is already held. Nested entries
// never block; the caller gets this error immediately.
var ErrBusy = errors.New("operation already in progress")

// Guard serializes the mutating operations of one offer. Acquire takes a
// non-blocking Redis SET-NX lock; Release only clears a lock the same token
// acquired, so a late release cannot free someone else's section.
type Guard struct {
	Rdb *redis.Client
	// TTL is a liveness backstop for a crashed holder. It must comfortably
	// exceed the longest settlement batch.
	TTL time.Duration
}

func New(rdb *redis.Client) *Guard {
	return &Guard{Rdb: rdb, TTL: 30 * time.Second}
}

// Acquire enters the guarded section named by key. The returned release
// function must be called on every exit path.
func (g *Guard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	ok, err := g.Rdb.SetNX(ctx, lockKey(key), token, g.TTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}
	release := func() {
		// Delete only if we still hold it.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = g.Rdb.Eval(context.Background(), script, []string{lockKey(key)}, token).Err()
	}
	return release, nil
}

func lockKey(key string) string {
	return "guard:" + key
}
