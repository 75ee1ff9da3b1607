// AngelaMos | 2026
// service.go

package application

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/user"
)

type UserFinder interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

// JobFinder resolves a job with catalog visibility rules applied.
type JobFinder interface {
	GetForUser(ctx context.Context, id int64) (*job.Job, error)
}

type Recorder interface {
	Application(event string)
}

type noopRecorder struct{}

func (noopRecorder) Application(string) {}

type Service struct {
	repo     Repository
	users    UserFinder
	jobs     JobFinder
	recorder Recorder
}

func NewService(repo Repository, users UserFinder, jobs JobFinder, recorder Recorder) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		repo:     repo,
		users:    users,
		jobs:     jobs,
		recorder: recorder,
	}
}

var errAlreadyApplied = core.ConflictError("You have already applied to this job")

// Apply submits a pending application carrying a copy of the user's
// current resume reference. The live-row unique index backs the
// existence check when two requests race.
func (s *Service) Apply(
	ctx context.Context,
	userID int64,
	req ApplyRequest,
) (*Details, error) {
	ctx, span := core.StartSpan(ctx, "application.apply",
		attribute.Int64("user.id", userID),
		attribute.Int64("job.id", req.JobID),
	)
	defer span.End()

	d, err := s.apply(ctx, userID, req)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	return d, nil
}

func (s *Service) apply(ctx context.Context, userID int64, req ApplyRequest) (*Details, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.HasResume() {
		return nil, core.BadRequestError("Please upload your resume before applying")
	}

	j, err := s.jobs.GetForUser(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsLive(ctx, userID, j.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.recorder.Application("conflict")
		return nil, errAlreadyApplied
	}

	app := &Application{
		CoverLetter: req.CoverLetter,
		ResumePath:  *u.ResumeURL,
		Status:      StatusPending,
		UserID:      u.ID,
		JobID:       j.ID,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.recorder.Application("conflict")
			return nil, errAlreadyApplied
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Job")
		}
		return nil, err
	}

	s.recorder.Application("submitted")

	return &Details{
		Application:   *app,
		JobTitle:      j.Title,
		JobCompany:    j.Company,
		UserEmail:     u.Email,
		UserFirstName: u.FirstName,
		UserLastName:  u.LastName,
	}, nil
}

// ListMine returns the user's live applications whose job is still in the
// catalog.
func (s *Service) ListMine(
	ctx context.Context,
	userID int64,
	params core.PageParams,
) (core.Page[Details], error) {
	params.Normalize()

	items, total, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return core.Page[Details]{}, err
	}

	return core.NewPage(items, total, params), nil
}

// GetOneForUser only finds the caller's own live applications.
func (s *Service) GetOneForUser(ctx context.Context, id, userID int64) (*Details, error) {
	d, err := s.repo.GetForOwner(ctx, id, userID, core.ActiveOnly)
	return d, notFound(err)
}

func (s *Service) Withdraw(ctx context.Context, id, userID int64) error {
	ctx, span := core.StartSpan(ctx, "application.withdraw",
		attribute.Int64("application.id", id),
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	if err := s.withdraw(ctx, id, userID); err != nil {
		core.SetSpanError(ctx, err)
		return err
	}
	return nil
}

func (s *Service) withdraw(ctx context.Context, id, userID int64) error {
	d, err := s.repo.GetForOwner(ctx, id, userID, core.WithDeleted)
	if err != nil {
		return notFound(err)
	}
	if d.IsWithdrawn() {
		return core.ConflictError("Application already withdrawn")
	}

	if err := s.repo.Withdraw(ctx, id); err != nil {
		// lost a race with another withdraw
		if errors.Is(err, core.ErrNotFound) {
			return core.ConflictError("Application already withdrawn")
		}
		return err
	}

	s.recorder.Application("withdrawn")
	return nil
}

func (s *Service) ListForAdmin(
	ctx context.Context,
	params ListApplicationsParams,
) (core.Page[Details], error) {
	params.Normalize()

	items, total, err := s.repo.ListForAdmin(ctx, params)
	if err != nil {
		return core.Page[Details]{}, err
	}

	return core.NewPage(items, total, params.PageParams), nil
}

func (s *Service) GetForAdmin(ctx context.Context, id int64, showDeleted bool) (*Details, error) {
	d, err := s.repo.GetByID(ctx, id, core.ScopeFor(showDeleted))
	return d, notFound(err)
}

// UpdateStatus lets an admin move a live application to any status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Details, error) {
	ctx, span := core.StartSpan(ctx, "application.update_status",
		attribute.Int64("application.id", id),
		attribute.String("application.status", status),
	)
	defer span.End()

	d, err := s.updateStatus(ctx, id, status)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	return d, nil
}

func (s *Service) updateStatus(ctx context.Context, id int64, status string) (*Details, error) {
	if !ValidStatus(status) {
		return nil, core.BadRequestError(fmt.Sprintf("invalid status %q", status))
	}

	d, err := s.repo.GetByID(ctx, id, core.WithDeleted)
	if err != nil {
		return nil, notFound(err)
	}
	if d.IsWithdrawn() {
		return nil, core.ConflictError("cannot update deleted application")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ConflictError("cannot update deleted application")
		}
		return nil, err
	}

	s.recorder.Application("status_changed")
	return s.GetForAdmin(ctx, id, false)
}

// CountByStatus counts live applications grouped by status.
func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func notFound(err error) error {
	if errors.Is(err, core.ErrNotFound) && !core.IsAppError(err) {
		return core.NotFoundError("Application")
	}
	return err
}
