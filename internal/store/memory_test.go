package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wod-booker/internal/store"
)

func TestMemoryPutGet(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	_, err := s.Get(ctx, "booked:vini:2024-6-1-1800-1900")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "booked:vini:2024-6-1-1800-1900", "1", 0))
	v, err := s.Get(ctx, "booked:vini:2024-6-1-1800-1900")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestMemoryTTLExpiry(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Put(ctx, "k", "1", 48*time.Hour))

	now = now.Add(47 * time.Hour)
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	now = now.Add(2 * time.Hour)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryPutIfAbsent(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	ok, err := s.PutIfAbsent(ctx, "k", "1", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PutIfAbsent(ctx, "k", "2", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestMemoryPutIfAbsentReclaimsExpired(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	_, err := s.PutIfAbsent(ctx, "k", "1", time.Hour)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	ok, err := s.PutIfAbsent(ctx, "k", "2", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
