package staff

import "context"

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id string) (*Member, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Member, error)
	// AssignRole fails with db.ErrConflict when the staff member already
	// has a role.
	AssignRole(ctx context.Context, staffID string, a Assignment) error
}
