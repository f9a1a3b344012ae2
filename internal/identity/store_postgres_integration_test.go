//go:build integration

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/postgres"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/testutil/containers"
)

func TestPostgresUserStore(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	defer pc.Terminate(t)

	ctx := context.Background()
	require.NoError(t, postgres.EnsureSchema(ctx, pc.DB))

	store := identity.NewPostgresUserStore(pc.DB)

	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &identity.User{
		ID:           uuid.NewString(),
		Email:        "maria@example.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		FullName:     "Maria Perez",
		Residence:    "Cuba",
		VerifyToken:  uuid.NewString(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Create(ctx, user))

	found, err := store.FindByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Maria Perez", found.FullName)

	byToken, err := store.FindByVerifyToken(ctx, user.VerifyToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byToken.ID)

	// The unique email constraint surfaces as a conflict.
	dup := *user
	dup.ID = uuid.NewString()
	err = store.Create(ctx, &dup)
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	found.Phone = "+53 555 0100"
	found.IsVerified = true
	require.NoError(t, store.Update(ctx, found))
	updated, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+53 555 0100", updated.Phone)
	assert.True(t, updated.IsVerified)

	require.NoError(t, store.Delete(ctx, user.ID))
	_, err = store.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresAdminStore(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	defer pc.Terminate(t)

	ctx := context.Background()
	require.NoError(t, postgres.EnsureSchema(ctx, pc.DB))

	store := identity.NewPostgresAdminStore(pc.DB)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	now := time.Now().UTC().Truncate(time.Millisecond)
	admin := &identity.Admin{
		ID:           uuid.NewString(),
		Email:        "root@example.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		FullName:     "Root",
		IsActive:     true,
		IsSuperAdmin: true,
		CreatedAt:    now,
	}
	require.NoError(t, store.Create(ctx, admin))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	login := now.Add(time.Hour)
	admin.LastLoginAt = &login
	require.NoError(t, store.Update(ctx, admin))

	found, err := store.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.IsSuperAdmin)
}
