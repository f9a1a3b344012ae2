package directory

import "context"

// TestimonialStore persists testimonials. Lookups return
// sentinel.ErrNotFound when no row matches; the same applies to the
// other stores in this package.
type TestimonialStore interface {
	Create(ctx context.Context, t *Testimonial) error
	FindByID(ctx context.Context, id string) (*Testimonial, error)
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Testimonial, error)
}

// AdvisorStore persists advisors.
type AdvisorStore interface {
	Create(ctx context.Context, a *Advisor) error
	FindByID(ctx context.Context, id string) (*Advisor, error)
	Update(ctx context.Context, a *Advisor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Advisor, error)
}

// PromotionStore persists promotions.
type PromotionStore interface {
	Create(ctx context.Context, p *Promotion) error
	FindByID(ctx context.Context, id string) (*Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Promotion, error)
}
