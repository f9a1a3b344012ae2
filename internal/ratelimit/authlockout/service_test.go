package authlockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockedAfterThreshold(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore(), 3, time.Minute)

	for i := 0; i < 2; i++ {
		locked, err := svc.RecordFailure(ctx, "user@example.com")
		require.NoError(t, err)
		assert.False(t, locked)
	}

	locked, err := svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, locked)

	blocked, err := svc.Blocked(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestEmailNormalization(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore(), 2, time.Minute)

	_, err := svc.RecordFailure(ctx, "  User@Example.COM ")
	require.NoError(t, err)
	_, err = svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)

	blocked, err := svc.Blocked(ctx, "USER@example.com")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestClearResetsCounter(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore(), 2, time.Minute)

	_, err := svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	_, err = svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "user@example.com"))

	blocked, err := svc.Blocked(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestWindowExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewInMemoryStore().WithClock(func() time.Time { return now })
	svc := New(store, 2, time.Minute)

	_, err := svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	_, err = svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)

	blocked, err := svc.Blocked(ctx, "user@example.com")
	require.NoError(t, err)
	require.True(t, blocked)

	now = now.Add(2 * time.Minute)
	blocked, err = svc.Blocked(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)

	// Failures after expiry start a fresh window.
	locked, err := svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestDefaultsApplied(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore(), 0, 0)

	for i := 0; i < 4; i++ {
		locked, err := svc.RecordFailure(ctx, "user@example.com")
		require.NoError(t, err)
		assert.False(t, locked)
	}
	locked, err := svc.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, locked)
}
