package donations

import "context"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Donation, int64, error)
	GetByID(ctx context.Context, id string) (*Donation, error)
	Create(ctx context.Context, donation *Donation) error
}
