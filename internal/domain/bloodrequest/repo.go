package bloodrequest

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	Update(ctx context.Context, r *Request) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, asOf time.Time) ([]*Listed, error)
	ListPending(ctx context.Context, asOf time.Time) ([]*Listed, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// InsertFulfillment and MarkFulfilled are the two writes of the
	// fulfillment workflow; callers run them in one transaction.
	InsertFulfillment(ctx context.Context, f *Fulfillment) error
	MarkFulfilled(ctx context.Context, requestID string) error
}
