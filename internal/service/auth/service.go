package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/repository"
	"github.com/healthyfootprints/reminder-api/pkg/auth"
	apperrors "github.com/healthyfootprints/reminder-api/pkg/errors"
	"github.com/healthyfootprints/reminder-api/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked, please try again later")
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service interface {
	Login(ctx context.Context, email, password string) (*model.Staff, string, error)
	ValidateToken(ctx context.Context, token string) (*auth.SessionClaims, error)
	RegisterStaff(ctx context.Context, req *model.RegisterStaffRequest) (*model.Staff, error)
}

type service struct {
	staffRepo repository.StaffRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
}

func NewService(staffRepo repository.StaffRepository, jwtSvc auth.JWTService) Service {
	return &service{
		staffRepo: staffRepo,
		jwtSvc:    jwtSvc,
		hasher:    security.NewBcryptHasher(12),
	}
}

// Login verifies credentials and returns the staff record plus a signed
// session token. Repeated failures lock the account for lockoutDuration.
func (s *service) Login(ctx context.Context, email, password string) (*model.Staff, string, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if staff.Status == model.StaffStatusLocked {
		if time.Since(staff.LastLoginAttempt) < lockoutDuration {
			return nil, "", ErrAccountLocked
		}
		staff.Status = model.StaffStatusActive
		staff.LoginAttempts = 0
	}

	if err := s.hasher.Compare(staff.PasswordHash, password); err != nil {
		staff.LoginAttempts++
		staff.LastLoginAttempt = time.Now()

		if staff.LoginAttempts >= maxLoginAttempts {
			staff.Status = model.StaffStatusLocked
		}

		if err := s.staffRepo.Update(ctx, staff); err != nil {
			return nil, "", fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, "", ErrInvalidCredentials
	}

	staff.LoginAttempts = 0
	staff.LastLoginAttempt = time.Now()
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, "", fmt.Errorf("failed to reset login attempts: %w", err)
	}

	token, err := s.jwtSvc.GenerateSessionToken(staff.UID, staff.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return staff, token, nil
}

func (s *service) ValidateToken(_ context.Context, token string) (*auth.SessionClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

// RegisterStaff provisions a new staff account with a hashed password. The
// UID doubles as the notification audience key for targeted reminders.
func (s *service) RegisterStaff(ctx context.Context, req *model.RegisterStaffRequest) (*model.Staff, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid password", err)
	}

	staff := &model.Staff{
		ID:           uuid.New(),
		UID:          uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Status:       model.StaffStatusActive,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}
