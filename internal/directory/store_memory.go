package directory

import (
	"context"
	"sync"

	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// InMemoryTestimonialStore holds testimonials keyed by id.
type InMemoryTestimonialStore struct {
	mu      sync.RWMutex
	records map[string]Testimonial
}

func NewInMemoryTestimonialStore() *InMemoryTestimonialStore {
	return &InMemoryTestimonialStore{records: make(map[string]Testimonial)}
}

func (s *InMemoryTestimonialStore) Create(_ context.Context, t *Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[t.ID] = *t
	return nil
}

func (s *InMemoryTestimonialStore) FindByID(_ context.Context, id string) (*Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *InMemoryTestimonialStore) Update(_ context.Context, t *Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[t.ID] = *t
	return nil
}

func (s *InMemoryTestimonialStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *InMemoryTestimonialStore) List(_ context.Context) ([]*Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Testimonial, 0, len(s.records))
	for _, t := range s.records {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

// InMemoryAdvisorStore holds advisors keyed by id.
type InMemoryAdvisorStore struct {
	mu      sync.RWMutex
	records map[string]Advisor
}

func NewInMemoryAdvisorStore() *InMemoryAdvisorStore {
	return &InMemoryAdvisorStore{records: make(map[string]Advisor)}
}

func (s *InMemoryAdvisorStore) Create(_ context.Context, a *Advisor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[a.ID] = *a
	return nil
}

func (s *InMemoryAdvisorStore) FindByID(_ context.Context, id string) (*Advisor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryAdvisorStore) Update(_ context.Context, a *Advisor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[a.ID] = *a
	return nil
}

func (s *InMemoryAdvisorStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *InMemoryAdvisorStore) List(_ context.Context) ([]*Advisor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Advisor, 0, len(s.records))
	for _, a := range s.records {
		a := a
		out = append(out, &a)
	}
	return out, nil
}

// InMemoryPromotionStore holds promotions keyed by id.
type InMemoryPromotionStore struct {
	mu      sync.RWMutex
	records map[string]Promotion
}

func NewInMemoryPromotionStore() *InMemoryPromotionStore {
	return &InMemoryPromotionStore{records: make(map[string]Promotion)}
}

func (s *InMemoryPromotionStore) Create(_ context.Context, p *Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[p.ID] = *p
	return nil
}

func (s *InMemoryPromotionStore) FindByID(_ context.Context, id string) (*Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryPromotionStore) Update(_ context.Context, p *Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[p.ID] = *p
	return nil
}

func (s *InMemoryPromotionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *InMemoryPromotionStore) List(_ context.Context) ([]*Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Promotion, 0, len(s.records))
	for _, p := range s.records {
		p := p
		out = append(out, &p)
	}
	return out, nil
}
