package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/httputil"
)

// TokenValidator parses and verifies a bearer token.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// PrincipalResolver re-resolves a token subject against current records.
// A token naming a deleted or deactivated account must not pass the gate.
type PrincipalResolver interface {
	ResolveUser(ctx context.Context, id string) (*identity.User, error)
	ResolveAdmin(ctx context.Context, id string) (*identity.Admin, error)
}

type contextKeyUser struct{}
type contextKeyAdmin struct{}

// UserFromContext retrieves the authenticated end user.
func UserFromContext(ctx context.Context) (*identity.User, bool) {
	u, ok := ctx.Value(contextKeyUser{}).(*identity.User)
	return u, ok
}

// AdminFromContext retrieves the authenticated admin.
func AdminFromContext(ctx context.Context) (*identity.Admin, bool) {
	a, ok := ctx.Value(contextKeyAdmin{}).(*identity.Admin)
	return a, ok
}

// Auth builds the bearer-token gates for both principal kinds.
type Auth struct {
	tokens   TokenValidator
	resolver PrincipalResolver
	logger   *slog.Logger
}

func NewAuth(tokens TokenValidator, resolver PrincipalResolver, logger *slog.Logger) *Auth {
	return &Auth{tokens: tokens, resolver: resolver, logger: logger}
}

// RequireUser admits only end-user tokens.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.validate(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}
		if claims.Kind != token.KindUser {
			a.reject(w, r, dErrors.New(dErrors.CodeForbidden, "end-user access required"))
			return
		}
		user, err := a.resolver.ResolveUser(r.Context(), claims.SubjectID)
		if err != nil {
			a.reject(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin admits only admin tokens.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.requireAdmin(next, false)
}

// RequireSuperAdmin admits only superadmin tokens.
func (a *Auth) RequireSuperAdmin(next http.Handler) http.Handler {
	return a.requireAdmin(next, true)
}

func (a *Auth) requireAdmin(next http.Handler, super bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.validate(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}
		if claims.Kind != token.KindAdmin {
			a.reject(w, r, dErrors.New(dErrors.CodeForbidden, "admin access required"))
			return
		}
		admin, err := a.resolver.ResolveAdmin(r.Context(), claims.SubjectID)
		if err != nil {
			a.reject(w, r, err)
			return
		}
		if super && !admin.IsSuperAdmin {
			a.reject(w, r, dErrors.New(dErrors.CodeForbidden, "superadmin access required"))
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyAdmin{}, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) validate(r *http.Request) (*token.Claims, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}
	claims, err := a.tokens.Validate(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

func (a *Auth) reject(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.WarnContext(r.Context(), "request rejected",
		"path", r.URL.Path,
		"error", dErrors.CodeOf(err),
		"request_id", GetRequestID(r.Context()),
	)
	httputil.WriteError(w, err)
}
