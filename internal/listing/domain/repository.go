package domain

import "context"

// ListingRepository is the write side of listing persistence. Reads go through
// the query engine, which has its own gateway contract.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	UpdateStatus(ctx context.Context, id string, status ListingStatus) error
	SoftDelete(ctx context.Context, id string) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
