package identity

import "context"

// Stores are interface-driven so services stay testable and the postgres
// and in-memory implementations remain interchangeable. Stores return
// sentinel errors; the service translates them into domain errors.

type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerifyToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*User, error)
}

type AdminStore interface {
	Create(ctx context.Context, admin *Admin) error
	FindByID(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Update(ctx context.Context, admin *Admin) error
	List(ctx context.Context) ([]*Admin, error)
	Count(ctx context.Context) (int, error)
}
