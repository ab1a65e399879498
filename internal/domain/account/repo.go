package account

import (
	"context"
	"time"
)

type Repository interface {
	// FindActive returns the active user with username, or NotFound.
	FindActive(ctx context.Context, username string) (*User, error)
	TouchLastLogin(ctx context.Context, userID int, at time.Time) error
	Profile(ctx context.Context, userID int) (*Profile, error)
	Upsert(ctx context.Context, u *User) error
}
