package bloodrequest

import (
	"context"
	"errors"
	"fmt"
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

const requestCols = `request_id, patient_id, hospital_id, blood_group, units_needed, request_date, status, priority`

const listedSelect = `
	SELECT br.request_id, br.patient_id, br.hospital_id, br.blood_group, br.units_needed,
		br.request_date, br.status, br.priority,
		p.first_name || ' ' || p.last_name AS patient_name,
		h.name AS hospital_name,
		($1::date - br.request_date) AS days_pending
	FROM blood_request br
	JOIN patient p ON p.patient_id = br.patient_id
	JOIN hospital h ON h.hospital_id = br.hospital_id`

// Create stores r, filling Status and Priority with the column defaults when
// they are empty.
func (r *repoPG) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO blood_request (`+requestCols+`)
		VALUES ($1, $2, $3, $4, $5, $6,
			COALESCE(NULLIF($7, ''), 'pending'), COALESCE(NULLIF($8, ''), 'normal'))
		RETURNING status, priority`,
		req.RequestID, req.PatientID, req.HospitalID, req.BloodGroup, req.UnitsNeeded, req.RequestDate,
		req.Status, req.Priority,
	).Scan(&req.Status, &req.Priority)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Request, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+requestCols+` FROM blood_request WHERE request_id = $1`, id)
	if err != nil {
		return nil, err
	}
	req, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Request])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("blood request")
	}
	return req, err
}

// Update replaces every column of the request. Missing fields are written as
// given and rejected by the table constraints.
func (r *repoPG) Update(ctx context.Context, req *Request) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_request SET patient_id = $2, hospital_id = $3, blood_group = $4, units_needed = $5,
			request_date = $6, status = $7, priority = $8
		WHERE request_id = $1`,
		req.RequestID, req.PatientID, req.HospitalID, req.BloodGroup, req.UnitsNeeded, req.RequestDate,
		req.Status, req.Priority)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("blood request")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blood_request WHERE request_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("blood request")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, asOf time.Time) ([]*Listed, error) {
	rows, err := r.conn(ctx).Query(ctx, listedSelect+`
		ORDER BY br.request_date DESC, br.request_id`, db.Date(asOf))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Listed])
}

func (r *repoPG) ListPending(ctx context.Context, asOf time.Time) ([]*Listed, error) {
	rows, err := r.conn(ctx).Query(ctx, listedSelect+`
		WHERE br.status = 'pending'
		ORDER BY br.request_date, br.request_id`, db.Date(asOf))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Listed])
}

func (r *repoPG) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE blood_request SET status = $2 WHERE request_id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("blood request")
	}
	return nil
}

func (r *repoPG) InsertFulfillment(ctx context.Context, f *Fulfillment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO request_fulfillment (fulfillment_id, request_id, specimen_id, fulfillment_date)
		VALUES ($1, $2, $3, $4)`,
		f.FulfillmentID, f.RequestID, f.SpecimenID, f.FulfillmentDate)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return fmt.Errorf("request %s or specimen %s is already fulfilled: %w", f.RequestID, f.SpecimenID, db.ErrConflict)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("blood request %s or specimen %s: %w", f.RequestID, f.SpecimenID, db.ErrNotFound)
	default:
		return err
	}
}

func (r *repoPG) MarkFulfilled(ctx context.Context, requestID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE blood_request SET status = 'fulfilled' WHERE request_id = $1`, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return db.NotFound("blood request")
	}
	return nil
}
