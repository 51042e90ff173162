package model

import (
	"time"

	"github.com/google/uuid"
)

type StaffStatus string

const (
	StaffStatusActive StaffStatus = "active"
	StaffStatusLocked StaffStatus = "locked"
)

// Staff is an operator account able to sign in and receive reminders.
type Staff struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UID              string      `json:"uid" db:"uid"`
	Name             string      `json:"name" db:"name"`
	Email            string      `json:"email" db:"email"`
	PasswordHash     string      `json:"-" db:"password_hash"`
	Status           StaffStatus `json:"status" db:"status"`
	LoginAttempts    int         `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time   `json:"-" db:"last_login_attempt"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// LoginRequest is the staff login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterStaffRequest is the staff provisioning payload.
type RegisterStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login; the session token itself
// travels in a cookie.
type LoginResponse struct {
	Staff     *Staff    `json:"staff"`
	ExpiresAt time.Time `json:"expires_at"`
}
