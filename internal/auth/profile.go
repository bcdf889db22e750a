package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desesperanza/panaderia-backend/internal/users"
	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileService manages the authenticated user's own account.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto users.UpdateProfileDTO) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type profileService struct {
	users       profileRepository
	passwordCfg config.PasswordConfig
}

// NewProfileService wires the profile service.
func NewProfileService(repo profileRepository, passwordCfg config.PasswordConfig) (ProfileService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &profileService{users: repo, passwordCfg: passwordCfg}, nil
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

// Update applies profile changes. A new email must not belong to another
// user; changing the password requires proving the current one first.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if req.NewPassword != nil {
		if len(*req.NewPassword) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
		}
		if req.CurrentPassword == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current_password is required to change password")
		}
		valid, err := security.VerifyPassword(*req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !valid {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		hash, err := security.HashPassword(*req.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			if err == nil && existing.ID != userID {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
			}
		}
		req.Email = &email
	}

	if err := s.users.UpdateProfile(ctx, userID, users.UpdateProfileDTO{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return users.FromModel(updated), nil
}
