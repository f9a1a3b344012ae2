package application

import "context"

// Store persists applications with their embedded documents. Lookups
// return sentinel.ErrNotFound when no row matches.
type Store interface {
	Create(ctx context.Context, app *VisaApplication) error
	FindByID(ctx context.Context, id string) (*VisaApplication, error)
	Update(ctx context.Context, app *VisaApplication) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*VisaApplication, error)
	List(ctx context.Context) ([]*VisaApplication, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	// Revenue returns collected revenue over all applications and the
	// outstanding balance over non-rejected ones.
	Revenue(ctx context.Context) (total, pending int64, err error)
}
