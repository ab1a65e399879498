package account

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

func (r *repoPG) FindActive(ctx context.Context, username string) (*User, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT user_id, hospital_id, username, password_hash, email, is_active, last_login, created_at
		FROM hospital_users
		WHERE username = $1 AND is_active`, username)
	if err != nil {
		return nil, err
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("user")
	}
	return u, err
}

func (r *repoPG) TouchLastLogin(ctx context.Context, userID int, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE hospital_users SET last_login = $2 WHERE user_id = $1`, userID, at)
	return err
}

func (r *repoPG) Profile(ctx context.Context, userID int) (*Profile, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT hu.user_id, hu.username, hu.email, hu.hospital_id, h.name AS hospital_name,
			h.address, h.phone_number, hu.last_login
		FROM hospital_users hu
		JOIN hospital h ON h.hospital_id = hu.hospital_id
		WHERE hu.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Profile])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFound("user")
	}
	return p, err
}

// Upsert creates u or, when the username exists, replaces its hospital,
// password and email and reactivates it.
func (r *repoPG) Upsert(ctx context.Context, u *User) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hospital_users (hospital_id, username, password_hash, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE
		SET hospital_id = EXCLUDED.hospital_id, password_hash = EXCLUDED.password_hash,
			email = EXCLUDED.email, is_active = TRUE
		RETURNING user_id, is_active, created_at`,
		u.HospitalID, u.Username, u.PasswordHash, u.Email,
	).Scan(&u.UserID, &u.IsActive, &u.CreatedAt)
	if db.IsForeignKeyViolation(err) {
		return db.NotFound("hospital " + u.HospitalID)
	}
	return err
}
