package donor

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id string) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Donor, error)
	ListDonations(ctx context.Context, donorID string, asOf time.Time) ([]*Donation, error)
}
