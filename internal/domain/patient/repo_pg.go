package patient

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

const patientCols = `patient_id, first_name, middle_name, last_name, blood_group, medical_condition,
	sex, date_of_birth, address, email_id, phone_number`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (`+patientCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.PatientID, p.FirstName, p.MiddleName, p.LastName, p.BloodGroup, p.MedicalCondition,
		p.Sex, p.DateOfBirth, p.Address, p.EmailID, p.PhoneNumber)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, id)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Patient])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("patient")
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name = $2, middle_name = $3, last_name = $4, blood_group = $5,
			medical_condition = $6, sex = $7, date_of_birth = $8, address = $9, email_id = $10, phone_number = $11
		WHERE patient_id = $1`,
		p.PatientID, p.FirstName, p.MiddleName, p.LastName, p.BloodGroup, p.MedicalCondition,
		p.Sex, p.DateOfBirth, p.Address, p.EmailID, p.PhoneNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("patient")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE patient_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("patient")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Patient])
}

func (r *repoPG) ListRequests(ctx context.Context, patientID string) ([]*RequestSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT br.request_id, br.hospital_id, h.name AS hospital_name, br.blood_group, br.units_needed,
			br.request_date, br.status, br.priority
		FROM blood_request br
		JOIN hospital h ON h.hospital_id = br.hospital_id
		WHERE br.patient_id = $1
		ORDER BY br.request_date DESC, br.request_id`, patientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[RequestSummary])
}
