// Package authlockout throttles credential guessing: repeated failed
// logins for the same email block further attempts until the window
// expires. A successful login clears the counter.
package authlockout

import (
	"context"
	"strings"
	"time"
)

// Store tracks failure counts per key with a sliding expiry window.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	Count(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// Service applies the lockout policy on top of a Store.
type Service struct {
	store     Store
	threshold int
	window    time.Duration
}

func New(store Store, threshold int, window time.Duration) *Service {
	if threshold <= 0 {
		threshold = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Service{store: store, threshold: threshold, window: window}
}

// Blocked reports whether the email has reached the failure threshold.
// Store errors fail open: an unreachable Redis must not lock everyone out.
func (s *Service) Blocked(ctx context.Context, email string) (bool, error) {
	count, err := s.store.Count(ctx, normalize(email))
	if err != nil {
		return false, err
	}
	return count >= s.threshold, nil
}

// RecordFailure registers one failed attempt and reports whether the
// account is now locked.
func (s *Service) RecordFailure(ctx context.Context, email string) (bool, error) {
	count, err := s.store.Increment(ctx, normalize(email), s.window)
	if err != nil {
		return false, err
	}
	return count >= s.threshold, nil
}

// Clear resets the counter after a successful login.
func (s *Service) Clear(ctx context.Context, email string) error {
	return s.store.Reset(ctx, normalize(email))
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
