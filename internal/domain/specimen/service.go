package specimen

import (
	"context"
	"fmt"
	"time"
)

const DefaultExpiryWindow = 7

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, sp *Specimen) error {
	return s.repo.Create(ctx, sp)
}

func (s *Service) Get(ctx context.Context, id string) (*Specimen, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, sp *Specimen) error {
	return s.repo.Update(ctx, sp)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*StockItem, error) {
	return s.repo.List(ctx, s.now())
}

func (s *Service) Summary(ctx context.Context) ([]*GroupSummary, error) {
	return s.repo.Summary(ctx, s.now())
}

// Expiring lists available specimens that expire within the next days days.
func (s *Service) Expiring(ctx context.Context, days int) ([]*ExpiringItem, error) {
	if days <= 0 {
		return nil, fmt.Errorf("expiry window must be positive, got %d", days)
	}
	return s.repo.Expiring(ctx, s.now(), days)
}
