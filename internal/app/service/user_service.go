package service

import (
	"context"
	"database/sql"
	"fmt"
	"todo_app/internal/common"
	"todo_app/internal/common/security"
	"todo_app/internal/domain/model"
	"todo_app/internal/domain/repository"
)

type UserService struct {
	userRepo  repository.UserRepository
	passwords *security.PasswordHasher
	db        *sql.DB
}

func NewUserService(userRepo repository.UserRepository, passwords *security.PasswordHasher, db *sql.DB) *UserService {
	return &UserService{userRepo: userRepo, passwords: passwords, db: db}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type UpdatePhoneNumberRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=6"`
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	return user, nil
}

// ChangePassword replaces the stored hash only after the old password
// verifies against it; otherwise the hash is left untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if len(req.NewPassword) > security.MaxPasswordBytes {
		return fmt.Errorf("password longer than %d bytes: %w", security.MaxPasswordBytes, common.ErrValidation)
	}

	return repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}
		if !s.passwords.Verify(req.OldPassword, user.HashedPassword) {
			return fmt.Errorf("error on password change: %w", common.ErrUnauthorized)
		}

		hashed, err := s.passwords.Hash(req.NewPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		return s.userRepo.UpdatePassword(ctx, tx, userID, hashed)
	})
}

func (s *UserService) UpdatePhoneNumber(ctx context.Context, userID int64, req UpdatePhoneNumberRequest) error {
	if err := s.userRepo.UpdatePhoneNumber(ctx, nil, userID, req.PhoneNumber); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	return nil
}
