// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/auth"
	"github.com/carterperez-dev/jobboard/internal/core"
)

// ResumeRemover deletes a user's stored resume and clears the reference.
type ResumeRemover interface {
	RemoveForUser(ctx context.Context, userID int64) error
}

type Service struct {
	repo    Repository
	resumes ResumeRemover
}

func NewService(repo Repository, resumes ResumeRemover) *Service {
	return &Service{repo: repo, resumes: resumes}
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, core.DuplicateError("email")
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, core.BadRequestError(fmt.Sprintf("invalid role %q", role))
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Location:     strings.TrimSpace(req.Location),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.findByID(ctx, id, core.ActiveOnly)
}

func (s *Service) GetUserForAdmin(
	ctx context.Context,
	id int64,
	showDeleted bool,
) (*User, error) {
	return s.findByID(ctx, id, core.ScopeFor(showDeleted))
}

func (s *Service) GetUserByEmail(
	ctx context.Context,
	email string,
	showDeleted bool,
) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email), core.ScopeFor(showDeleted))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) (core.Page[User], error) {
	params.Normalize()

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return core.Page[User]{}, err
	}

	return core.NewPage(users, total, params.PageParams), nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id int64,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.findByID(ctx, id, core.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(ctx, user, req); err != nil {
		return nil, err
	}

	return s.save(ctx, user)
}

// AdminUpdateUser looks the user up regardless of soft-delete state.
func (s *Service) AdminUpdateUser(
	ctx context.Context,
	id int64,
	req AdminUpdateUserRequest,
) (*User, error) {
	user, err := s.findByID(ctx, id, core.WithDeleted)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(ctx, user, req.UpdateProfileRequest); err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !ValidRole(*req.Role) {
			return nil, core.BadRequestError(fmt.Sprintf("invalid role %q", *req.Role))
		}
		user.Role = *req.Role
	}

	return s.save(ctx, user)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	id int64,
	req ChangePasswordRequest,
) error {
	user, err := s.findByID(ctx, id, core.ActiveOnly)
	if err != nil {
		return err
	}

	ok, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return core.UnauthorizedError("Current password incorrect")
	}

	hash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	return s.repo.SetRefreshTokenHash(ctx, id, nil)
}

// DeleteProfile is the self-service path and needs the account password.
func (s *Service) DeleteProfile(
	ctx context.Context,
	id int64,
	password string,
) error {
	user, err := s.findByID(ctx, id, core.ActiveOnly)
	if err != nil {
		return err
	}

	ok, err := core.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return core.UnauthorizedError("Invalid password")
	}

	return s.softDelete(ctx, user.ID)
}

// SoftDeleteUser is the admin path; admins cannot remove themselves here.
func (s *Service) SoftDeleteUser(ctx context.Context, id, actingID int64) error {
	if id == actingID {
		return core.ForbiddenError("You cannot delete your own account")
	}

	if _, err := s.findByID(ctx, id, core.ActiveOnly); err != nil {
		return err
	}

	return s.softDelete(ctx, id)
}

func (s *Service) HardDeleteUser(ctx context.Context, id, actingID int64) error {
	if id == actingID {
		return core.ForbiddenError("You cannot delete your own account")
	}

	if _, err := s.findByID(ctx, id, core.WithDeleted); err != nil {
		return err
	}

	if err := s.resumes.RemoveForUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("User")
		}
		return err
	}

	return nil
}

func (s *Service) RestoreUser(ctx context.Context, id int64) (*User, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Deleted user")
		}
		return nil, err
	}

	return s.findByID(ctx, id, core.ActiveOnly)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, core.ActiveOnly)
}

// softDelete hides the account first; resume cleanup runs afterwards and
// only logs on failure.
func (s *Service) softDelete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("User")
		}
		return err
	}

	if err := s.resumes.RemoveForUser(ctx, id); err != nil {
		slog.WarnContext(ctx, "resume cleanup after delete failed",
			"user_id", id,
			"error", err,
		)
	}

	slog.InfoContext(ctx, "user soft deleted", "user_id", id)
	return nil
}

func (s *Service) applyProfile(
	ctx context.Context,
	user *User,
	req UpdateProfileRequest,
) error {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			taken, err := s.repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return core.DuplicateError("email")
			}
			user.Email = email
		}
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}

	return nil
}

func (s *Service) save(ctx context.Context, user *User) (*User, error) {
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) findByID(
	ctx context.Context,
	id int64,
	scope core.Scope,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

// Emails are compared exactly as stored; only surrounding whitespace is
// dropped.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id, core.ActiveOnly)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email), core.ActiveOnly)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	params auth.NewUser,
) (*auth.UserInfo, error) {
	user, err := s.CreateUser(ctx, CreateUserRequest{
		Email:     params.Email,
		Password:  params.Password,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Location:  params.Location,
		Role:      RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *Service) SetRefreshTokenHash(
	ctx context.Context,
	id int64,
	hash *string,
) error {
	return s.repo.SetRefreshTokenHash(ctx, id, hash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             u.Role,
		PasswordHash:     u.PasswordHash,
		RefreshTokenHash: u.RefreshTokenHash,
		CreatedAt:        u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
