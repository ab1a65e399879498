package hospital

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, h *Hospital) error {
	return s.repo.Create(ctx, h)
}

func (s *Service) Get(ctx context.Context, id string) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, h *Hospital) error {
	return s.repo.Update(ctx, h)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Hospital, error) {
	return s.repo.List(ctx)
}

func (s *Service) BloodBanks(ctx context.Context) ([]*BloodBank, error) {
	return s.repo.ListBloodBanks(ctx)
}
