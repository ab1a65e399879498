package staff

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, st *Staff) error {
	return s.repo.Create(ctx, st)
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, st *Staff) error {
	return s.repo.Update(ctx, st)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Member, error) {
	return s.repo.List(ctx)
}

// AssignRole gives an existing staff member their one role subtype.
func (s *Service) AssignRole(ctx context.Context, staffID string, a Assignment) (*Member, error) {
	switch a.Role {
	case RoleDoctor, RoleNurse, RoleLabTechnician:
	default:
		return nil, fmt.Errorf("unknown staff role %q", a.Role)
	}
	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}
	if err := s.repo.AssignRole(ctx, staffID, a.normalize()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, staffID)
}
