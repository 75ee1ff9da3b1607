// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=5,max=128"`
	FirstName string `json:"firstName" validate:"required,min=3,max=50"`
	LastName  string `json:"lastName"  validate:"required,min=3,max=50"`
	Location  string `json:"location"  validate:"required,min=3,max=50"`
}

// RefreshRequest is only consulted when no refresh cookie was sent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionResponse exposes the access token for bearer clients. The
// refresh token only ever travels in its HTTP-only cookie.
type SessionResponse struct {
	User            UserResponse `json:"user"`
	AccessToken     string       `json:"accessToken"`
	TokenType       string       `json:"tokenType"`
	AccessExpiresAt time.Time    `json:"accessExpiresAt"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		User:            ToUserResponse(s.User),
		AccessToken:     s.AccessToken,
		TokenType:       "Bearer",
		AccessExpiresAt: s.AccessExpiresAt,
	}
}
