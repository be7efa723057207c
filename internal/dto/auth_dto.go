package dto

import (
	"time"

	"interview-coach/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SignUpRequest represents the request body for account creation.
// @Description Request body for sign up
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Grade    string `json:"grade"`
}

func (r SignUpRequest) ToDomain() domain.SignUpInput {
	return domain.SignUpInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Category: r.Category,
		Grade:    r.Grade,
	}
}

// SignInRequest represents the request body for email/password login.
// @Description Request body for sign in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned after a successful login or session restore.
// @Description Authenticated session
type SessionResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   string          `json:"expires_at"`
	User        ProfileResponse `json:"user"`
}

func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt.UTC().Format(time.RFC3339),
		User:        NewProfileResponse(s.Account),
	}
}

// PasswordResetRequest asks for a reset mail.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest sets a new password with a mailed token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
