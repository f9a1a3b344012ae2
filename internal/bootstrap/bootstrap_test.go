package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/ratelimit/authlockout"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/email"
)

func newInitializer(t *testing.T) (*Initializer, *identity.Service, *catalog.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	identitySvc := identity.NewService(
		identity.NewInMemoryUserStore(),
		identity.NewInMemoryAdminStore(),
		token.NewService("test-signing-key", "cuba-visa-backend", time.Hour),
		authlockout.New(authlockout.NewInMemoryStore(), 3, time.Minute),
		&email.LogSender{Logger: logger},
		audit.NopPublisher{},
		logger,
	)
	catalogSvc := catalog.NewService(catalog.NewInMemoryStore())
	seed := AdminSeed{Email: "root@example.com", Password: "s3cret", FullName: "Root"}
	return New(identitySvc, catalogSvc, audit.NopPublisher{}, seed, logger), identitySvc, catalogSvc
}

func TestInitializeSeedsAdminAndCatalog(t *testing.T) {
	init, identitySvc, catalogSvc := newInitializer(t)
	ctx := context.Background()

	result, err := init.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, result.Initialized)

	_, _, err = identitySvc.LoginAdmin(ctx, "root@example.com", "s3cret")
	require.NoError(t, err, "the seeded superadmin can log in")

	dest, err := catalogSvc.Get(ctx, "RS")
	require.NoError(t, err)
	require.Len(t, dest.VisaTypes, 2)
	require.Equal(t, 1500, dest.VisaTypes[0].Price)
	require.Equal(t, 2500, dest.VisaTypes[1].Price)
}

func TestInitializeIsIdempotent(t *testing.T) {
	init, _, _ := newInitializer(t)
	ctx := context.Background()

	first, err := init.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, first.Initialized)

	second, err := init.Initialize(ctx)
	require.NoError(t, err)
	require.False(t, second.Initialized)
	require.Contains(t, second.Message, "already")
}
