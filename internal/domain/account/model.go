package account

import "time"

// User is a hospital portal login. PasswordHash never leaves the server.
type User struct {
	UserID       int        `json:"user_id" db:"user_id"`
	HospitalID   string     `json:"hospital_id" db:"hospital_id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Email        *string    `json:"email" db:"email"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Profile is a user joined with their hospital.
type Profile struct {
	UserID       int        `json:"user_id" db:"user_id"`
	Username     string     `json:"username" db:"username"`
	Email        *string    `json:"email" db:"email"`
	HospitalID   string     `json:"hospital_id" db:"hospital_id"`
	HospitalName string     `json:"hospital_name" db:"hospital_name"`
	Address      *string    `json:"address" db:"address"`
	PhoneNumber  *string    `json:"phone_number" db:"phone_number"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionUser struct {
	UserID       int     `json:"user_id"`
	Username     string  `json:"username"`
	HospitalID   string  `json:"hospital_id"`
	HospitalName string  `json:"hospital_name"`
	Email        *string `json:"email"`
}

type LoginResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    SessionUser `json:"user"`
}

// NewUser is what an operator supplies to create or reset a login.
type NewUser struct {
	HospitalID string
	Username   string
	Password   string
	Email      *string
}
