package donor

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, d *Donor) error {
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id string) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Donor) error {
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Donor, error) {
	return s.repo.List(ctx)
}

// Donations lists a donor's specimens newest first. An unknown donor is
// NotFound rather than an empty list.
func (s *Service) Donations(ctx context.Context, donorID string) ([]*Donation, error) {
	if _, err := s.repo.GetByID(ctx, donorID); err != nil {
		return nil, err
	}
	return s.repo.ListDonations(ctx, donorID, s.now())
}
