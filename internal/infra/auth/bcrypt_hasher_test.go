package auth

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_RejectsInvalidCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost-1, 1)
	assert.Error(t, err)

	_, err = NewBcryptHasher(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	// Salted: the same input never yields the same digest twice.
	again, err := hasher.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestBcryptHasher_HashTooLong(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	_, err = hasher.Hash(context.Background(), strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "secret1")
	require.NoError(t, err)

	ok, err := hasher.Check(ctx, "secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Check(ctx, "secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check(ctx, "", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_CheckMalformedHash(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	ok, err := hasher.Check(context.Background(), "secret1", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_HonorsCancelledContext(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)
	h := hasher.(*bcryptHasher)

	// Occupy the only slot so the next call has to wait.
	require.NoError(t, h.slots.Acquire(context.Background(), 1))
	defer h.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = hasher.Hash(ctx, "secret1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = hasher.Check(ctx, "secret1", "irrelevant")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBcryptHasher_BoundsConcurrency(t *testing.T) {
	const limit = 2
	hasher, err := NewBcryptHasher(bcrypt.MinCost, limit)
	require.NoError(t, err)
	h := hasher.(*bcryptHasher)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := hasher.Hash(context.Background(), "secret1"); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	// All slots are free again once every call returned.
	assert.True(t, h.slots.TryAcquire(limit))
	h.slots.Release(limit)
}
