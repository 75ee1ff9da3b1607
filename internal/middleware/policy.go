// AngelaMos | 2026
// policy.go

package middleware

import (
	"net/http"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Action string

const (
	ActionManageJobs         Action = "jobs:manage"
	ActionManageUsers        Action = "users:manage"
	ActionManageApplications Action = "applications:manage"
	ActionApply              Action = "applications:apply"
	ActionReadStats          Action = "stats:read"
)

// Policy lists the roles allowed to perform each action. Actions that are not
// listed are denied to everyone.
var Policy = map[Action][]string{
	ActionManageJobs:         {RoleAdmin},
	ActionManageUsers:        {RoleAdmin},
	ActionManageApplications: {RoleAdmin},
	ActionReadStats:          {RoleAdmin},
	ActionApply:              {RoleUser, RoleAdmin},
}

func CanPerform(role string, action Action) bool {
	for _, allowed := range Policy[action] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Authorize must run after Authenticator.
func Authorize(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetUserRole(r.Context())
			if role == "" {
				core.JSONError(w, r, core.UnauthorizedError("authentication required"))
				return
			}

			if !CanPerform(role, action) {
				core.JSONError(w, r, core.ForbiddenError("insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
