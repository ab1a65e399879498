package specimen

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Specimen) error
	GetByID(ctx context.Context, id string) (*Specimen, error)
	Update(ctx context.Context, s *Specimen) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, asOf time.Time) ([]*StockItem, error)
	Summary(ctx context.Context, asOf time.Time) ([]*GroupSummary, error)
	Expiring(ctx context.Context, asOf time.Time, days int) ([]*ExpiringItem, error)
}
