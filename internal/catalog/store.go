package catalog

import "context"

// Store persists destinations with their embedded visa types. Lookups
// return sentinel.ErrNotFound when no row matches; Create returns
// sentinel.ErrConflict on a duplicate country code.
type Store interface {
	Create(ctx context.Context, dest *Destination) error
	FindByID(ctx context.Context, id string) (*Destination, error)
	FindByCountryCode(ctx context.Context, code string) (*Destination, error)
	Update(ctx context.Context, dest *Destination) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Destination, error)
}
