// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

const invalidCredentialsMessage = "Invalid email or password"

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	Login(result string)
}

type noopRecorder struct{}

func (noopRecorder) Login(string) {}

type Service struct {
	repo     Repository
	jwt      *JWTManager
	users    UserProvider
	recorder LoginRecorder
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	recorder LoginRecorder,
) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		repo:     repo,
		jwt:      jwt,
		users:    users,
		recorder: recorder,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	user, err := s.users.Create(ctx, NewUser{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a new session. Unknown emails and
// wrong passwords produce the same error after comparable work.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			s.recorder.Login("failure")
		}
		return nil, err
	}

	session, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.recorder.Login("success")
	return session, nil
}

func (s *Service) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (*UserInfo, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // burn the same time as a real comparison
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, core.UnauthorizedError(invalidCredentialsMessage)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, core.UnauthorizedError(invalidCredentialsMessage)
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return user, nil
}

// IssueSession signs a token pair and stores the digest of the refresh
// token against the user, replacing whatever was there.
func (s *Service) IssueSession(ctx context.Context, user *UserInfo) (*Session, error) {
	access, err := s.jwt.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	hash := core.HashToken(refresh.Token)
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Session{
		User:             user,
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// RotateOnRefresh accepts a refresh token only if it matches the digest on
// file for its subject.
func (s *Service) RotateOnRefresh(
	ctx context.Context,
	presented string,
	userID int64,
) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("Access Denied")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.RefreshTokenHash == nil ||
		!core.CompareTokenHash(presented, *user.RefreshTokenHash) {
		return nil, core.UnauthorizedError("Access Denied")
	}

	return user, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.RotateOnRefresh(ctx, refreshToken, userID)
	if err != nil {
		return nil, err
	}

	return s.IssueSession(ctx, user)
}

// Logout clears the stored refresh digest and denylists the access token
// that made the request.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if err := s.users.SetRefreshTokenHash(ctx, claims.UserID, nil); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	if err := s.repo.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		slog.WarnContext(ctx, "access token revoke failed",
			"user_id", claims.UserID,
			"error", err,
		)
	}

	return nil
}

// VerifyAccessToken checks the signature, the denylist and that the
// subject is still an active user. The role is taken from the current
// record, not the token.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}

	claims.Role = user.Role
	claims.Email = user.Email
	return claims, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
