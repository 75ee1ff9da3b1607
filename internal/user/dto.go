// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type CreateUserRequest struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=5,max=128"`
	FirstName string `json:"firstName" validate:"required,min=3,max=50"`
	LastName  string `json:"lastName"  validate:"required,min=3,max=50"`
	Location  string `json:"location"  validate:"required,min=3,max=50"`
	Role      string `json:"role"      validate:"omitempty,oneof=user admin"`
}

// UpdateProfileRequest carries only the fields the caller supplied.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=3,max=50"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,min=3,max=50"`
	Location  *string `json:"location,omitempty"  validate:"omitempty,min=3,max=50"`
}

type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=5,max=128"`
}

type DeleteProfileRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserResponse is the owner-facing view. It never carries credential hashes.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Location  string    `json:"location"`
	Role      string    `json:"role"`
	ResumeURL *string   `json:"resumeUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminUserResponse adds soft-delete state for admin listings.
type AdminUserResponse struct {
	UserResponse
	DeletedAt *time.Time `json:"deletedAt"`
}

type ListUsersParams struct {
	core.PageParams
	Search      string
	Role        string
	ShowDeleted bool
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Location:  u.Location,
		Role:      u.Role,
		ResumeURL: u.ResumeURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToAdminUserResponse(u User) AdminUserResponse {
	return AdminUserResponse{
		UserResponse: ToUserResponse(&u),
		DeletedAt:    u.DeletedAt,
	}
}
