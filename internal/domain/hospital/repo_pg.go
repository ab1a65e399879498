package hospital

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

type repoPG struct {
	pool db.Querier
}

func NewRepo(pool db.Querier) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const hospitalCols = `hospital_id, name, address, phone_number, email_id`

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (`+hospitalCols+`) VALUES ($1, $2, $3, $4, $5)`,
		h.HospitalID, h.Name, h.Address, h.PhoneNumber, h.EmailID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE hospital_id = $1`, id)
	if err != nil {
		return nil, err
	}
	h, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Hospital])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("hospital")
	}
	return h, err
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET name = $2, address = $3, phone_number = $4, email_id = $5
		WHERE hospital_id = $1`,
		h.HospitalID, h.Name, h.Address, h.PhoneNumber, h.EmailID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("hospital")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE hospital_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("hospital")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+hospitalCols+` FROM hospital ORDER BY hospital_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Hospital])
}

func (r *repoPG) ListBloodBanks(ctx context.Context) ([]*BloodBank, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT blood_bank_id, name, address, phone_number FROM blood_bank ORDER BY blood_bank_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[BloodBank])
}
