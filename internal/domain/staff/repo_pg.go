package staff

import (
	"context"
	"errors"
	"fmt"

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

const memberSelect = `
	SELECT s.staff_id, s.first_name, s.middle_name, s.last_name, s.phone_number, s.qualification,
		sr.role AS role_code, sr.specialization, sr.patient_type, sr.tests_performed
	FROM staff s
	LEFT JOIN staff_role sr ON sr.staff_id = s.staff_id`

func (r *repoPG) Create(ctx context.Context, s *Staff) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (staff_id, first_name, middle_name, last_name, phone_number, qualification)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.StaffID, s.FirstName, s.MiddleName, s.LastName, s.PhoneNumber, s.Qualification)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Member, error) {
	rows, err := r.conn(ctx).Query(ctx, memberSelect+` WHERE s.staff_id = $1`, id)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Member])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("staff member")
	}
	if err != nil {
		return nil, err
	}
	m.Role = RoleLabel(m.RoleCode)
	return m, nil
}

func (r *repoPG) Update(ctx context.Context, s *Staff) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET first_name = $2, middle_name = $3, last_name = $4, phone_number = $5, qualification = $6
		WHERE staff_id = $1`,
		s.StaffID, s.FirstName, s.MiddleName, s.LastName, s.PhoneNumber, s.Qualification)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("staff member")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff WHERE staff_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound("staff member")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Member, error) {
	rows, err := r.conn(ctx).Query(ctx, memberSelect+` ORDER BY s.staff_id`)
	if err != nil {
		return nil, err
	}
	members, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Member])
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		m.Role = RoleLabel(m.RoleCode)
	}
	return members, nil
}

func (r *repoPG) AssignRole(ctx context.Context, staffID string, a Assignment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_role (staff_id, role, specialization, patient_type, tests_performed)
		VALUES ($1, $2, $3, $4, $5)`,
		staffID, a.Role, a.Specialization, a.PatientType, a.TestsPerformed)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("staff member %s already has a role: %w", staffID, db.ErrConflict)
	}
	return err
}
