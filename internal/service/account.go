// Package service orchestrates domain operations between the HTTP layer and the stores.
package service

import (
	"context"
	"log/slog"

	"github.com/notedapp/noted-server/internal/auth"
	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/errors"
	"github.com/notedapp/noted-server/internal/store"
	"github.com/notedapp/noted-server/internal/validation"
)

// AccountService handles registration, login and profile management.
type AccountService struct {
	users     *store.UserStore
	tokens    *auth.TokenService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAccountService creates a new account service.
func NewAccountService(users *store.UserStore, tokens *auth.TokenService, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		logger:    logger,
		validator: validation.New(),
	}
}

// RegisterRequest contains fields for creating an account.
type RegisterRequest struct {
	FirstName       string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName        string  `json:"last_name" validate:"required,min=1,max=100"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Phone           string  `json:"phone" validate:"required,max=20"`
	Password        string  `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	ProfileImage    *string `json:"profile_image" validate:"omitempty,max=500"`
}

// Register creates a new account. The two password fields must match and
// the email must not already be registered.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "hash password")
	}

	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		ProfileImage: req.ProfileImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// LoginRequest contains credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and its lifetime in seconds.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
}

// Login verifies credentials and issues an access token. Unknown emails
// and wrong passwords produce the same error so the response doesn't
// reveal which accounts exist.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Unauthenticated("invalid email or password")
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "verify password")
	}
	if !ok {
		return nil, errors.Unauthenticated("invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "issue token")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

// GetProfile returns the user's account details.
func (s *AccountService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfileRequest contains optional profile changes. Nil fields are
// left untouched; null in the request body means the same as absent.
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
}

// UpdateProfile applies a partial update to the user's account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
