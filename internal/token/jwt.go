// Package token issues and validates the signed bearer tokens that carry
// principal identity. Tokens are time-boxed; there is no refresh flow, so
// clients re-authenticate after expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalKind distinguishes the two independent principal populations.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

// Validation failures are reported distinctly so callers can tell an
// expired token from a malformed or forged one.
var (
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims represents the JWT claims for our access tokens. Kind keeps
// its defined type so callers compare it against the Kind constants
// without conversions.
type Claims struct {
	SubjectID string        `json:"sub_id"`
	Email     string        `json:"email"`
	Kind      PrincipalKind `json:"kind"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	defaultTTL time.Duration
}

func NewService(signingKey, issuer string, defaultTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		defaultTTL: defaultTTL,
	}
}

// DefaultTTL returns the configured token lifetime.
func (s *Service) DefaultTTL() time.Duration { return s.defaultTTL }

// Issue signs a token for the given principal. A non-positive ttl falls
// back to the configured default.
func (s *Service) Issue(subjectID, email string, kind PrincipalKind, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SubjectID: subjectID,
		Email:     email,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalid
	}
	return claims, nil
}
