package hospital

import "context"

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id string) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Hospital, error)
	ListBloodBanks(ctx context.Context) ([]*BloodBank, error)
}
