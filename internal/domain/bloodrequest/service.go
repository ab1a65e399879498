package bloodrequest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

var ErrSpecimenRequired = errors.New("specimen_id is required")

type Service struct {
	repo  Repository
	tx    db.TxRunner
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{
		repo:  repo,
		tx:    tx,
		now:   time.Now,
		newID: func() string { return "FUL-" + uuid.NewString() },
	}
}

// Create stores a request. A missing request date is today.
func (s *Service) Create(ctx context.Context, r *Request) error {
	if !r.RequestDate.Valid {
		r.RequestDate = db.Date(s.now())
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Request) error {
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Listed, error) {
	return s.repo.List(ctx, s.now())
}

func (s *Service) ListPending(ctx context.Context) ([]*Listed, error) {
	return s.repo.ListPending(ctx, s.now())
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Fulfill records that specimenID was issued for requestID and marks the
// request fulfilled. Both writes commit together or not at all. A request or
// specimen that is already part of a fulfillment is ErrConflict.
//
// The request's current status and the specimen's expiry are not checked.
func (s *Service) Fulfill(ctx context.Context, requestID string, in FulfillInput) (*Fulfillment, error) {
	if in.SpecimenID == "" {
		return nil, ErrSpecimenRequired
	}
	f := &Fulfillment{
		FulfillmentID:   s.newID(),
		RequestID:       requestID,
		SpecimenID:      in.SpecimenID,
		FulfillmentDate: in.FulfillmentDate,
	}
	if !f.FulfillmentDate.Valid {
		f.FulfillmentDate = db.Date(s.now())
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertFulfillment(ctx, f); err != nil {
			return err
		}
		return s.repo.MarkFulfilled(ctx, requestID)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
