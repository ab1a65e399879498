package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/auth"
	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

type Service struct {
	repo   Repository
	tokens *auth.TokenManager
	now    func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

// Login checks username and password against the active users. An unknown
// user and a wrong password fail the same way, and neither records a login.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, err := s.repo.FindActive(ctx, in.Username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, u.UserID, s.now()); err != nil {
		return nil, err
	}
	profile, err := s.repo.Profile(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(u.UserID, u.HospitalID, u.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Message: "login successful",
		Token:   token,
		User: SessionUser{
			UserID:       u.UserID,
			Username:     u.Username,
			HospitalID:   u.HospitalID,
			HospitalName: profile.HospitalName,
			Email:        u.Email,
		},
	}, nil
}

func (s *Service) Me(ctx context.Context, claims *auth.Claims) (*Profile, error) {
	return s.repo.Profile(ctx, claims.UserID)
}

// CreateUser adds a login for a hospital, or resets the password of an
// existing username.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	if in.Username == "" || in.Password == "" || in.HospitalID == "" {
		return nil, errors.New("hospital, username and password are required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{HospitalID: in.HospitalID, Username: in.Username, PasswordHash: hash, Email: in.Email}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
