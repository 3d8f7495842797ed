package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notedapp/noted-server/internal/domain"
	"github.com/notedapp/noted-server/internal/service"
)

func (s *AccountServer) registerAccountRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register",
		Description:   "Creates a new account",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login",
		Description: "Verifies credentials and issues an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get profile",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/auth/me",
		Summary:     "Update profile",
		Description: "Applies a partial update to the authenticated user's account",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// UserResponse contains public account fields in API responses.
type UserResponse struct {
	ID           int64     `json:"id" doc:"User ID"`
	FirstName    string    `json:"first_name" doc:"First name"`
	LastName     string    `json:"last_name" doc:"Last name"`
	Email        string    `json:"email" doc:"Email address"`
	Phone        string    `json:"phone" doc:"Phone number"`
	ProfileImage *string   `json:"profile_image" doc:"Profile image URL"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	FirstName       string  `json:"first_name" doc:"First name"`
	LastName        string  `json:"last_name" doc:"Last name"`
	Email           string  `json:"email" doc:"Email address"`
	Phone           string  `json:"phone" doc:"Phone number"`
	Password        string  `json:"password" doc:"Password (at least 6 characters)"`
	ConfirmPassword string  `json:"confirm_password" doc:"Must match password"`
	ProfileImage    *string `json:"profile_image,omitempty" doc:"Profile image URL"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// MessageResponse acknowledges an operation with no entity to return.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable acknowledgement"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token" doc:"PASETO access token"`
	TokenType   string `json:"token_type" doc:"Always \"bearer\""`
	ExpiresIn   int64  `json:"expires_in" doc:"Token lifetime in seconds"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// ProfileInput contains parameters for reading the profile.
type ProfileInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateProfileRequest is the request body for profile changes. Omitted
// or null fields are left untouched.
type UpdateProfileRequest struct {
	FirstName    OmittableNullable[string] `json:"first_name,omitempty" doc:"New first name"`
	LastName     OmittableNullable[string] `json:"last_name,omitempty" doc:"New last name"`
	Phone        OmittableNullable[string] `json:"phone,omitempty" doc:"New phone number"`
	ProfileImage OmittableNullable[string] `json:"profile_image,omitempty" doc:"New profile image URL"`
}

// sentValue converts a field to a pointer, treating null like absent.
func sentValue(o OmittableNullable[string]) *string {
	if !o.Sent || o.Null {
		return nil
	}
	return &o.Value
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// === Handlers ===

func (s *AccountServer) handleRegister(ctx context.Context, input *RegisterInput) (*MessageOutput, error) {
	_, err := s.account.Register(ctx, service.RegisterRequest{
		FirstName:       input.Body.FirstName,
		LastName:        input.Body.LastName,
		Email:           input.Body.Email,
		Phone:           input.Body.Phone,
		Password:        input.Body.Password,
		ConfirmPassword: input.Body.ConfirmPassword,
		ProfileImage:    input.Body.ProfileImage,
	})
	if err != nil {
		return nil, err
	}

	// No token on signup; the client logs in next.
	return &MessageOutput{Body: MessageResponse{Message: "user registered successfully"}}, nil
}

func (s *AccountServer) handleLogin(ctx context.Context, input *LoginInput) (*TokenOutput, error) {
	result, err := s.account.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &TokenOutput{Body: TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   result.ExpiresIn,
	}}, nil
}

func (s *AccountServer) handleGetProfile(ctx context.Context, input *ProfileInput) (*UserOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.account.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *AccountServer) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := authenticateRequest(s.tokens, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.account.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		FirstName:    sentValue(input.Body.FirstName),
		LastName:     sentValue(input.Body.LastName),
		Phone:        sentValue(input.Body.Phone),
		ProfileImage: sentValue(input.Body.ProfileImage),
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}
