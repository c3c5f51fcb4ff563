package service

import (
	"context"
	"errors"
	"fmt"
	"todo_app/internal/common"
	"todo_app/internal/common/security"
	"todo_app/internal/domain/model"
	"todo_app/internal/domain/repository"
)

const tokenTypeBearer = "bearer"

type AuthService struct {
	userRepo  repository.UserRepository
	passwords *security.PasswordHasher
	tokens    *security.TokenAuthority
}

func NewAuthService(userRepo repository.UserRepository, passwords *security.PasswordHasher, tokens *security.TokenAuthority) *AuthService {
	return &AuthService{userRepo: userRepo, passwords: passwords, tokens: tokens}
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,max=100"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register stores a new active user with a hashed password. The role is
// taken from the request as given.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if len(req.Password) > security.MaxPasswordBytes {
		return nil, fmt.Errorf("password longer than %d bytes: %w", security.MaxPasswordBytes, common.ErrValidation)
	}

	hashedPassword, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	phone := req.PhoneNumber
	user := &model.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashedPassword,
		IsActive:       true,
		Role:           req.Role,
		PhoneNumber:    &phone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict for duplicates
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown users,
// wrong passwords and inactive accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.passwords.Verify(req.Password, user.HashedPassword) || !user.IsActive {
		return nil, common.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.Username, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}
