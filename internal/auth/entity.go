// AngelaMos | 2026
// entity.go

package auth

import (
	"context"
	"time"
)

// UserInfo is the slice of a user record the session layer needs.
type UserInfo struct {
	ID               int64
	Email            string
	FirstName        string
	LastName         string
	Role             string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
}

type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Location  string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(ctx context.Context, params NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error
}

// Session is a freshly issued token pair. Only the refresh token's digest
// is ever persisted.
type Session struct {
	User             *UserInfo
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
