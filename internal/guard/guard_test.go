package guard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) *Guard {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb)
}

func TestAcquireRelease(t *testing.T) {
	g := setupGuard(t)
	ctx := context.Background()

	release, err := g.Acquire(ctx, "offer-1")
	require.NoError(t, err)

	// Nested entry fails immediately rather than blocking.
	_, err = g.Acquire(ctx, "offer-1")
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release2, err := g.Acquire(ctx, "offer-1")
	require.NoError(t, err)
	release2()
}

func TestIndependentKeys(t *testing.T) {
	g := setupGuard(t)
	ctx := context.Background()

	r1, err := g.Acquire(ctx, "offer-1")
	require.NoError(t, err)
	defer r1()

	// A different offer's section is not affected.
	r2, err := g.Acquire(ctx, "offer-2")
	require.NoError(t, err)
	r2()
}

func TestReleaseIsIdempotent(t *testing.T) {
	g := setupGuard(t)
	ctx := context.Background()

	release, err := g.Acquire(ctx, "offer-1")
	require.NoError(t, err)
	release()
	release() // second release must not free a lock it no longer holds

	r2, err := g.Acquire(ctx, "offer-1")
	require.NoError(t, err)
	defer r2()

	// The stale release from the first holder must not clear the new lock.
	release()
	_, err = g.Acquire(ctx, "offer-1")
	assert.ErrorIs(t, err, ErrBusy)
}
