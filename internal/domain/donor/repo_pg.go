package donor

import (
	"context"
	"errors"
	"time"

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

const donorCols = `donor_id, first_name, middle_name, last_name, sex, date_of_birth, address, email_id, phone_number`

func (r *repoPG) Create(ctx context.Context, d *Donor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO donor (`+donorCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.DonorID, d.FirstName, d.MiddleName, d.LastName, d.Sex, d.DateOfBirth, d.Address, d.EmailID, d.PhoneNumber)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Donor, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+donorCols+` FROM donor WHERE donor_id = $1`, id)
	if err != nil {
		return nil, err
	}
	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Donor])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("donor")
	}
	return d, err
}

func (r *repoPG) Update(ctx context.Context, d *Donor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE donor SET first_name = $2, middle_name = $3, last_name = $4, sex = $5,
			date_of_birth = $6, address = $7, email_id = $8, phone_number = $9
		WHERE donor_id = $1`,
		d.DonorID, d.FirstName, d.MiddleName, d.LastName, d.Sex, d.DateOfBirth, d.Address, d.EmailID, d.PhoneNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("donor")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM donor WHERE donor_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("donor")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Donor, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+donorCols+` FROM donor ORDER BY donor_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Donor])
}

func (r *repoPG) ListDonations(ctx context.Context, donorID string, asOf time.Time) ([]*Donation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT bs.specimen_id, bs.blood_group, bs.volume, bs.collection_date, bs.expiry_date, bs.blood_bank_id,
			CASE
				WHEN rf.specimen_id IS NOT NULL THEN 'used'
				WHEN bs.expiry_date <= $2 THEN 'expired'
				ELSE 'available'
			END AS status
		FROM blood_specimen bs
		LEFT JOIN request_fulfillment rf ON rf.specimen_id = bs.specimen_id
		WHERE bs.donor_id = $1
		ORDER BY bs.collection_date DESC, bs.specimen_id`,
		donorID, db.Date(asOf))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Donation])
}
