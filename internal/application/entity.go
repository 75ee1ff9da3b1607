// AngelaMos | 2026
// entity.go

package application

import (
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
)

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is one user's application to one job. A soft-deleted
// application is a withdrawn one.
type Application struct {
	ID          int64     `db:"id"`
	CoverLetter string    `db:"cover_letter"`
	ResumePath  string    `db:"resume_path"`
	Status      string    `db:"status"`
	UserID      int64     `db:"user_id"`
	JobID       int64     `db:"job_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	core.SoftDelete
}

func (a *Application) IsWithdrawn() bool {
	return a.IsDeleted()
}

// Details is an application joined with the job and applicant summaries.
type Details struct {
	Application
	JobTitle      string `db:"job_title"`
	JobCompany    string `db:"job_company"`
	UserEmail     string `db:"user_email"`
	UserFirstName string `db:"user_first_name"`
	UserLastName  string `db:"user_last_name"`
}
