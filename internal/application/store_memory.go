package application

import (
	"context"
	"sort"
	"sync"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// InMemoryStore holds applications keyed by id. Records are deep-copied
// on every read and write so callers never share the embedded document
// slice with the store.
type InMemoryStore struct {
	mu           sync.RWMutex
	applications map[string]VisaApplication
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{applications: make(map[string]VisaApplication)}
}

func clone(a VisaApplication) VisaApplication {
	a.Documents = append([]Document(nil), a.Documents...)
	return a
}

func (s *InMemoryStore) Create(_ context.Context, app *VisaApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[app.ID]; ok {
		return sentinel.ErrConflict
	}
	s.applications[app.ID] = clone(*app)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*VisaApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	a = clone(a)
	return &a, nil
}

func (s *InMemoryStore) Update(_ context.Context, app *VisaApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[app.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.applications[app.ID] = clone(*app)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]*VisaApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*VisaApplication
	for _, a := range s.applications {
		if a.UserID != userID {
			continue
		}
		a = clone(a)
		out = append(out, &a)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*VisaApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*VisaApplication, 0, len(s.applications))
	for _, a := range s.applications {
		a = clone(a)
		out = append(out, &a)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, a := range s.applications {
		if a.UserID == userID {
			delete(s.applications, id)
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applications), nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context, status Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.applications {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) Revenue(_ context.Context) (total, pending int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.applications {
		total += a.TotalPaid
		if a.Status != StatusRejected {
			pending += a.Price - a.TotalPaid
		}
	}
	return total, pending, nil
}

func sortNewestFirst(apps []*VisaApplication) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
