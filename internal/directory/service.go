package directory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

// Service owns the public directory content: testimonials, advisors and
// promotions. Public listings only surface active records; the admin
// surface sees everything.
type Service struct {
	testimonials TestimonialStore
	advisors     AdvisorStore
	promotions   PromotionStore
}

func NewService(testimonials TestimonialStore, advisors AdvisorStore, promotions PromotionStore) *Service {
	return &Service{
		testimonials: testimonials,
		advisors:     advisors,
		promotions:   promotions,
	}
}

func (s *Service) CreateTestimonial(ctx context.Context, params TestimonialParams) (*Testimonial, error) {
	t := &Testimonial{
		ID:          uuid.NewString(),
		ClientName:  params.ClientName,
		VisaType:    params.VisaType,
		Description: params.Description,
		ImageData:   params.ImageData,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create testimonial")
	}
	return t, nil
}

func (s *Service) UpdateTestimonial(ctx context.Context, id string, params TestimonialParams) (*Testimonial, error) {
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "testimonial")
	}
	t.ClientName = params.ClientName
	t.VisaType = params.VisaType
	t.Description = params.Description
	t.ImageData = params.ImageData
	if err := s.testimonials.Update(ctx, t); err != nil {
		return nil, translate(err, "testimonial")
	}
	return t, nil
}

func (s *Service) ToggleTestimonial(ctx context.Context, id string) (*Testimonial, error) {
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "testimonial")
	}
	t.IsActive = !t.IsActive
	if err := s.testimonials.Update(ctx, t); err != nil {
		return nil, translate(err, "testimonial")
	}
	return t, nil
}

func (s *Service) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.testimonials.Delete(ctx, id); err != nil {
		return translate(err, "testimonial")
	}
	return nil
}

// ListTestimonials returns testimonials newest first; activeOnly is the
// public view.
func (s *Service) ListTestimonials(ctx context.Context, activeOnly bool) ([]*Testimonial, error) {
	all, err := s.testimonials.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list testimonials")
	}
	out := make([]*Testimonial, 0, len(all))
	for _, t := range all {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) CreateAdvisor(ctx context.Context, params AdvisorParams) (*Advisor, error) {
	a := &Advisor{
		ID:           uuid.NewString(),
		BusinessName: params.BusinessName,
		Email:        params.Email,
		Description:  params.Description,
		Country:      params.Country,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.advisors.Create(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create advisor")
	}
	return a, nil
}

func (s *Service) UpdateAdvisor(ctx context.Context, id string, params AdvisorParams) (*Advisor, error) {
	a, err := s.advisors.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "advisor")
	}
	a.BusinessName = params.BusinessName
	a.Email = params.Email
	a.Description = params.Description
	a.Country = params.Country
	if err := s.advisors.Update(ctx, a); err != nil {
		return nil, translate(err, "advisor")
	}
	return a, nil
}

func (s *Service) ToggleAdvisor(ctx context.Context, id string) (*Advisor, error) {
	a, err := s.advisors.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "advisor")
	}
	a.IsActive = !a.IsActive
	if err := s.advisors.Update(ctx, a); err != nil {
		return nil, translate(err, "advisor")
	}
	return a, nil
}

func (s *Service) DeleteAdvisor(ctx context.Context, id string) error {
	if err := s.advisors.Delete(ctx, id); err != nil {
		return translate(err, "advisor")
	}
	return nil
}

func (s *Service) ListAdvisors(ctx context.Context, activeOnly bool) ([]*Advisor, error) {
	all, err := s.advisors.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list advisors")
	}
	out := make([]*Advisor, 0, len(all))
	for _, a := range all {
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) CreatePromotion(ctx context.Context, params PromotionParams) (*Promotion, error) {
	p := &Promotion{
		ID:          uuid.NewString(),
		Title:       params.Title,
		Description: params.Description,
		LinkURL:     params.LinkURL,
		LinkText:    params.LinkText,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.promotions.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create promotion")
	}
	return p, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, id string, params PromotionParams) (*Promotion, error) {
	p, err := s.promotions.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "promotion")
	}
	p.Title = params.Title
	p.Description = params.Description
	p.LinkURL = params.LinkURL
	p.LinkText = params.LinkText
	if err := s.promotions.Update(ctx, p); err != nil {
		return nil, translate(err, "promotion")
	}
	return p, nil
}

func (s *Service) TogglePromotion(ctx context.Context, id string) (*Promotion, error) {
	p, err := s.promotions.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "promotion")
	}
	p.IsActive = !p.IsActive
	if err := s.promotions.Update(ctx, p); err != nil {
		return nil, translate(err, "promotion")
	}
	return p, nil
}

func (s *Service) DeletePromotion(ctx context.Context, id string) error {
	if err := s.promotions.Delete(ctx, id); err != nil {
		return translate(err, "promotion")
	}
	return nil
}

func (s *Service) ListPromotions(ctx context.Context, activeOnly bool) ([]*Promotion, error) {
	all, err := s.promotions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list promotions")
	}
	out := make([]*Promotion, 0, len(all))
	for _, p := range all {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func translate(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access "+entity)
}
