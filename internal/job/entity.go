// AngelaMos | 2026
// entity.go

package job

import (
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
)

const (
	TypeFullTime   = "full-time"
	TypePartTime   = "part-time"
	TypeContract   = "contract"
	TypeInternship = "internship"
)

type Job struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	Company      string    `db:"company"`
	Location     string    `db:"location"`
	Description  string    `db:"description"`
	Category     string    `db:"category"`
	Type         string    `db:"type"`
	Remote       bool      `db:"remote"`
	Requirements string    `db:"requirements"`
	SalaryRange  *string   `db:"salary_range"`
	IsPublished  bool      `db:"is_published"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	core.SoftDelete
}

// IsPublic reports whether ordinary users may see and apply to the job.
func (j *Job) IsPublic() bool {
	return j.IsPublished && !j.IsDeleted()
}
