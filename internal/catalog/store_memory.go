package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// InMemoryStore holds destinations keyed by id. Records are deep-copied
// on every read and write so callers never share the embedded visa-type
// slice with the store.
type InMemoryStore struct {
	mu           sync.RWMutex
	destinations map[string]Destination
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{destinations: make(map[string]Destination)}
}

func clone(d Destination) Destination {
	d.VisaTypes = append([]VisaType(nil), d.VisaTypes...)
	return d
}

func (s *InMemoryStore) Create(_ context.Context, dest *Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.destinations {
		if strings.EqualFold(d.CountryCode, dest.CountryCode) {
			return sentinel.ErrConflict
		}
	}
	s.destinations[dest.ID] = clone(*dest)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.destinations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d = clone(d)
	return &d, nil
}

func (s *InMemoryStore) FindByCountryCode(_ context.Context, code string) (*Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.destinations {
		if strings.EqualFold(d.CountryCode, code) {
			d = clone(d)
			return &d, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, dest *Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[dest.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for id, d := range s.destinations {
		if id != dest.ID && strings.EqualFold(d.CountryCode, dest.CountryCode) {
			return sentinel.ErrConflict
		}
	}
	s.destinations[dest.ID] = clone(*dest)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.destinations, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		d = clone(d)
		out = append(out, &d)
	}
	return out, nil
}
