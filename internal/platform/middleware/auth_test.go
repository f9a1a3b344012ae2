package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
)

type staticResolver struct {
	user  *identity.User
	admin *identity.Admin
}

func (r staticResolver) ResolveUser(_ context.Context, id string) (*identity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "principal not found")
}

func (r staticResolver) ResolveAdmin(_ context.Context, id string) (*identity.Admin, error) {
	if r.admin != nil && r.admin.ID == id {
		return r.admin, nil
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "principal not found")
}

func newAuth(t *testing.T, resolver PrincipalResolver) (*Auth, *token.Service) {
	t.Helper()
	tokens := token.NewService("test-signing-key", "cuba-visa-backend", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuth(tokens, resolver, logger), tokens
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser(t *testing.T) {
	user := &identity.User{ID: "user-1", Email: "ana@example.com", IsActive: true}
	auth, tokens := newAuth(t, staticResolver{user: user})

	t.Run("valid token passes and sets principal", func(t *testing.T) {
		signed, err := tokens.Issue(user.ID, user.Email, token.KindUser, 0)
		require.NoError(t, err)

		var seen *identity.User
		handler := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-1", seen.ID)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		called := false
		rec := httptest.NewRecorder()
		auth.RequireUser(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		auth.RequireUser(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		signed, err := tokens.Issue(user.ID, user.Email, token.KindUser, time.Millisecond)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		called := false
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		auth.RequireUser(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("admin token on user gate is 403", func(t *testing.T) {
		signed, err := tokens.Issue("admin-1", "root@example.com", token.KindAdmin, 0)
		require.NoError(t, err)

		called := false
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		auth.RequireUser(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})

	t.Run("token for a deleted user is 401", func(t *testing.T) {
		signed, err := tokens.Issue("ghost", "ghost@example.com", token.KindUser, 0)
		require.NoError(t, err)

		called := false
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		auth.RequireUser(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}

func TestRequireAdmin(t *testing.T) {
	admin := &identity.Admin{ID: "admin-1", Email: "root@example.com", IsActive: true}
	auth, tokens := newAuth(t, staticResolver{admin: admin})

	signed, err := tokens.Issue(admin.ID, admin.Email, token.KindAdmin, 0)
	require.NoError(t, err)

	t.Run("admin token passes the admin gate", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		auth.RequireAdmin(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("plain admin fails the superadmin gate", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodPost, "/admin/admins", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		auth.RequireSuperAdmin(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})

	t.Run("superadmin passes the superadmin gate", func(t *testing.T) {
		super := &identity.Admin{ID: "admin-2", Email: "super@example.com", IsActive: true, IsSuperAdmin: true}
		superAuth, superTokens := newAuth(t, staticResolver{admin: super})
		superSigned, err := superTokens.Issue(super.ID, super.Email, token.KindAdmin, 0)
		require.NoError(t, err)

		called := false
		req := httptest.NewRequest(http.MethodPost, "/admin/admins", nil)
		req.Header.Set("Authorization", "Bearer "+superSigned)
		rec := httptest.NewRecorder()
		superAuth.RequireSuperAdmin(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}
