// AngelaMos | 2026
// dto.go

package application

import (
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type ApplyRequest struct {
	JobID       int64  `json:"jobId"       validate:"required,gt=0"`
	CoverLetter string `json:"coverLetter" validate:"required,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
}

type ListApplicationsParams struct {
	core.PageParams
	JobID       int64
	UserID      int64
	ShowDeleted bool
}

type JobInfo struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
}

type ApplicantInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ApplicationResponse is the applicant's view. SubmittedResumePath is the
// snapshot taken at apply time.
type ApplicationResponse struct {
	ID                  int64     `json:"id"`
	CoverLetter         string    `json:"coverLetter"`
	SubmittedResumePath string    `json:"submittedResumePath"`
	Status              string    `json:"status"`
	Job                 JobInfo   `json:"job"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type AdminApplicationResponse struct {
	ApplicationResponse
	User      ApplicantInfo `json:"user"`
	DeletedAt *time.Time    `json:"deletedAt"`
}

func ToApplicationResponse(d Details) ApplicationResponse {
	return ApplicationResponse{
		ID:                  d.ID,
		CoverLetter:         d.CoverLetter,
		SubmittedResumePath: d.ResumePath,
		Status:              d.Status,
		Job: JobInfo{
			ID:      d.JobID,
			Title:   d.JobTitle,
			Company: d.JobCompany,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToAdminApplicationResponse(d Details) AdminApplicationResponse {
	return AdminApplicationResponse{
		ApplicationResponse: ToApplicationResponse(d),
		User: ApplicantInfo{
			ID:        d.UserID,
			FirstName: d.UserFirstName,
			LastName:  d.UserLastName,
			Email:     d.UserEmail,
		},
		DeletedAt: d.DeletedAt,
	}
}
