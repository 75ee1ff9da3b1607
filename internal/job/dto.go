// AngelaMos | 2026
// dto.go

package job

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/jobboard/internal/core"
)

var salaryRangePattern = regexp.MustCompile(
	`^\$\d{1,3}(,\d{3})*(\.\d{2})?\s*-\s*\$\d{1,3}(,\d{3})*(\.\d{2})?$`,
)

// NewValidator adds the salary_range rule to the shared validator.
func NewValidator() *validator.Validate {
	v := core.NewValidator()
	//nolint:errcheck // tag name is static and valid
	_ = v.RegisterValidation("salary_range", func(fl validator.FieldLevel) bool {
		return salaryRangePattern.MatchString(fl.Field().String())
	})
	return v
}

type CreateJobRequest struct {
	Title        string  `json:"title"        validate:"required,min=5,max=100"`
	Company      string  `json:"company"      validate:"required,min=2,max=50"`
	Location     string  `json:"location"     validate:"required,min=3,max=100"`
	Description  string  `json:"description"  validate:"required,min=20,max=2000"`
	Category     string  `json:"category"     validate:"required,min=3,max=50"`
	Type         string  `json:"type"         validate:"required,oneof=full-time part-time contract internship"`
	Remote       *bool   `json:"remote"       validate:"required"`
	Requirements string  `json:"requirements" validate:"required,min=10,max=1000"`
	SalaryRange  *string `json:"salaryRange"  validate:"omitempty,salary_range"`
	IsPublished  *bool   `json:"isPublished"`
}

type UpdateJobRequest struct {
	Title        *string `json:"title,omitempty"        validate:"omitempty,min=5,max=100"`
	Company      *string `json:"company,omitempty"      validate:"omitempty,min=2,max=50"`
	Location     *string `json:"location,omitempty"     validate:"omitempty,min=3,max=100"`
	Description  *string `json:"description,omitempty"  validate:"omitempty,min=20,max=2000"`
	Category     *string `json:"category,omitempty"     validate:"omitempty,min=3,max=50"`
	Type         *string `json:"type,omitempty"         validate:"omitempty,oneof=full-time part-time contract internship"`
	Remote       *bool   `json:"remote,omitempty"`
	Requirements *string `json:"requirements,omitempty" validate:"omitempty,min=10,max=1000"`
	SalaryRange  *string `json:"salaryRange,omitempty"  validate:"omitempty,salary_range"`
	IsPublished  *bool   `json:"isPublished,omitempty"`
}

type ListJobsParams struct {
	core.PageParams
	Company       string
	Location      string
	Title         string
	ShowDeleted   bool
	PublishedOnly bool
}

// JobResponse is the public catalog view.
type JobResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Type         string    `json:"type"`
	Remote       bool      `json:"remote"`
	Requirements string    `json:"requirements"`
	SalaryRange  *string   `json:"salaryRange"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AdminJobResponse struct {
	JobResponse
	IsPublished bool       `json:"isPublished"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

func ToJobResponse(j Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Description:  j.Description,
		Category:     j.Category,
		Type:         j.Type,
		Remote:       j.Remote,
		Requirements: j.Requirements,
		SalaryRange:  j.SalaryRange,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func ToAdminJobResponse(j Job) AdminJobResponse {
	return AdminJobResponse{
		JobResponse: ToJobResponse(j),
		IsPublished: j.IsPublished,
		DeletedAt:   j.DeletedAt,
	}
}
