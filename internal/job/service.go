// AngelaMos | 2026
// service.go

package job

import (
	"context"
	"errors"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser returns the public catalog: published, not deleted, newest
// first.
func (s *Service) ListForUser(ctx context.Context, params core.PageParams) (core.Page[Job], error) {
	return s.list(ctx, ListJobsParams{PageParams: params, PublishedOnly: true})
}

// ListForAdmin applies the admin filters and never filters on publication.
func (s *Service) ListForAdmin(ctx context.Context, params ListJobsParams) (core.Page[Job], error) {
	params.PublishedOnly = false
	return s.list(ctx, params)
}

func (s *Service) list(ctx context.Context, params ListJobsParams) (core.Page[Job], error) {
	params.Normalize()

	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return core.Page[Job]{}, err
	}

	return core.NewPage(jobs, total, params.PageParams), nil
}

// GetForUser finds a job an ordinary user may see.
func (s *Service) GetForUser(ctx context.Context, id int64) (*Job, error) {
	job, err := s.repo.GetPublished(ctx, id)
	return job, notFound(err)
}

func (s *Service) GetForAdmin(ctx context.Context, id int64, showDeleted bool) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id, core.ScopeFor(showDeleted))
	return job, notFound(err)
}

func (s *Service) Create(ctx context.Context, req CreateJobRequest) (*Job, error) {
	job := &Job{
		Title:        strings.TrimSpace(req.Title),
		Company:      strings.TrimSpace(req.Company),
		Location:     strings.TrimSpace(req.Location),
		Description:  req.Description,
		Category:     strings.TrimSpace(req.Category),
		Type:         req.Type,
		Requirements: req.Requirements,
		SalaryRange:  req.SalaryRange,
		IsPublished:  true,
	}
	if req.Remote != nil {
		job.Remote = *req.Remote
	}
	if req.IsPublished != nil {
		job.IsPublished = *req.IsPublished
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Update patches the supplied fields. Soft-deleted jobs can be edited.
func (s *Service) Update(ctx context.Context, id int64, req UpdateJobRequest) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id, core.WithDeleted)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Category != nil {
		job.Category = strings.TrimSpace(*req.Category)
	}
	if req.Type != nil {
		job.Type = *req.Type
	}
	if req.Remote != nil {
		job.Remote = *req.Remote
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.SalaryRange != nil {
		job.SalaryRange = req.SalaryRange
	}
	if req.IsPublished != nil {
		job.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return notFound(s.repo.SoftDelete(ctx, id))
}

func (s *Service) HardDelete(ctx context.Context, id int64) error {
	return notFound(s.repo.HardDelete(ctx, id))
}

// Restore only succeeds for a job that is currently soft-deleted.
func (s *Service) Restore(ctx context.Context, id int64) (*Job, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Deleted job")
		}
		return nil, err
	}
	return s.GetForAdmin(ctx, id, false)
}

func (s *Service) CountJobs(ctx context.Context) (active, total int, err error) {
	if active, err = s.repo.Count(ctx, core.ActiveOnly); err != nil {
		return 0, 0, err
	}
	if total, err = s.repo.Count(ctx, core.WithDeleted); err != nil {
		return 0, 0, err
	}
	return active, total, nil
}

func notFound(err error) error {
	if errors.Is(err, core.ErrNotFound) && !core.IsAppError(err) {
		return core.NotFoundError("Job")
	}
	return err
}
