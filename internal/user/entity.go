// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type User struct {
	ID               int64     `db:"id"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	Location         string    `db:"location"`
	RefreshTokenHash *string   `db:"refresh_token_hash"`
	Role             string    `db:"role"`
	ResumeURL        *string   `db:"resume_url"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	core.SoftDelete
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasResume() bool {
	return u.ResumeURL != nil && *u.ResumeURL != ""
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
