// AngelaMos | 2026
// application_test.go

package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/middleware"
	"github.com/carterperez-dev/jobboard/internal/user"
)

// catalog holds the users and jobs an application can point at.
type catalog struct {
	mu    sync.Mutex
	users map[int64]*user.User
	jobs  map[int64]*job.Job
}

func newCatalog() *catalog {
	return &catalog{
		users: make(map[int64]*user.User),
		jobs:  make(map[int64]*job.Job),
	}
}

func (c *catalog) addUser(id int64, resume string) *user.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := &user.User{
		ID:        id,
		Email:     fmt.Sprintf("user%d@example.com", id),
		FirstName: "Test",
		LastName:  "User",
		Role:      user.RoleUser,
	}
	if resume != "" {
		u.ResumeURL = &resume
	}
	c.users[id] = u
	return u
}

func (c *catalog) addJob(id int64, published bool) *job.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	j := &job.Job{
		ID:          id,
		Title:       "Backend Engineer",
		Company:     "Acme",
		IsPublished: published,
	}
	c.jobs[id] = j
	return j
}

func (c *catalog) setResume(userID int64, resume string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[userID].ResumeURL = &resume
}

func (c *catalog) deleteJob(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[id].MarkDeleted(time.Now())
}

func (c *catalog) GetUser(_ context.Context, id int64) (*user.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok || u.IsDeleted() {
		return nil, core.NotFoundError("User")
	}
	cp := *u
	return &cp, nil
}

func (c *catalog) GetForUser(_ context.Context, id int64) (*job.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[id]
	if !ok || !j.IsPublic() {
		return nil, core.NotFoundError("Job")
	}
	cp := *j
	return &cp, nil
}

// memoryRepo enforces the live (user_id, job_id) unique index in Create,
// independently of ExistsLive.
type memoryRepo struct {
	mu     sync.Mutex
	cat    *catalog
	nextID int64
	apps   map[int64]*Application
	clock  time.Time
}

func newMemoryRepo(cat *catalog) *memoryRepo {
	return &memoryRepo{
		cat:   cat,
		apps:  make(map[int64]*Application),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryRepo) details(a *Application) Details {
	m.cat.mu.Lock()
	defer m.cat.mu.Unlock()
	d := Details{Application: *a}
	if j, ok := m.cat.jobs[a.JobID]; ok {
		d.JobTitle = j.Title
		d.JobCompany = j.Company
	}
	if u, ok := m.cat.users[a.UserID]; ok {
		d.UserEmail = u.Email
		d.UserFirstName = u.FirstName
		d.UserLastName = u.LastName
	}
	return d
}

func (m *memoryRepo) jobDeleted(id int64) bool {
	m.cat.mu.Lock()
	defer m.cat.mu.Unlock()
	j, ok := m.cat.jobs[id]
	return !ok || j.IsDeleted()
}

func (m *memoryRepo) Create(_ context.Context, a *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.apps {
		if existing.UserID == a.UserID && existing.JobID == a.JobID && !existing.IsDeleted() {
			return core.ErrDuplicateKey
		}
	}
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = m.tick()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *memoryRepo) ExistsLive(_ context.Context, userID, jobID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == userID && a.JobID == jobID && !a.IsDeleted() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64, scope core.Scope) (*Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || !scope.Visible(a) {
		return nil, core.ErrNotFound
	}
	d := m.details(a)
	return &d, nil
}

func (m *memoryRepo) GetForOwner(
	ctx context.Context,
	id, userID int64,
	scope core.Scope,
) (*Details, error) {
	d, err := m.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, core.ErrNotFound
	}
	return d, nil
}

func (m *memoryRepo) ListForUser(
	_ context.Context,
	userID int64,
	params core.PageParams,
) ([]Details, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()

	var matched []Details
	for _, a := range m.apps {
		if a.UserID != userID || a.IsDeleted() || m.jobDeleted(a.JobID) {
			continue
		}
		matched = append(matched, m.details(a))
	}
	return m.page(matched, params)
}

func (m *memoryRepo) ListForAdmin(
	_ context.Context,
	params ListApplicationsParams,
) ([]Details, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()

	var matched []Details
	for _, a := range m.apps {
		if !core.ScopeFor(params.ShowDeleted).Visible(a) {
			continue
		}
		if params.JobID > 0 && a.JobID != params.JobID {
			continue
		}
		if params.UserID > 0 && a.UserID != params.UserID {
			continue
		}
		matched = append(matched, m.details(a))
	}
	return m.page(matched, params.PageParams)
}

func (m *memoryRepo) page(items []Details, params core.PageParams) ([]Details, int, error) {
	sort.Slice(items, func(i, k int) bool {
		return items[i].ID > items[k].ID
	})
	total := len(items)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

func (m *memoryRepo) Withdraw(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.IsDeleted() {
		return core.ErrNotFound
	}
	a.MarkDeleted(m.tick())
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.IsDeleted() {
		return core.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = m.tick()
	return nil
}

func (m *memoryRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, a := range m.apps {
		if !a.IsDeleted() {
			out[a.Status]++
		}
	}
	return out, nil
}

type countingRecorder struct {
	mu     sync.Mutex
	events map[string]int
}

func (c *countingRecorder) Application(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events == nil {
		c.events = make(map[string]int)
	}
	c.events[event]++
}

func (c *countingRecorder) count(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[event]
}

type fixture struct {
	cat      *catalog
	repo     *memoryRepo
	recorder *countingRecorder
	svc      *Service
}

func newFixture() *fixture {
	cat := newCatalog()
	repo := newMemoryRepo(cat)
	rec := &countingRecorder{}
	return &fixture{
		cat:      cat,
		repo:     repo,
		recorder: rec,
		svc:      NewService(repo, cat, cat, rec),
	}
}

func apply(t *testing.T, f *fixture, userID, jobID int64, letter string) *Details {
	t.Helper()
	d, err := f.svc.Apply(context.Background(), userID, ApplyRequest{JobID: jobID, CoverLetter: letter})
	require.NoError(t, err)
	return d
}

func TestApplyPreconditions(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "")
	f.cat.addUser(2, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(10, true)
	f.cat.addJob(11, false)

	tests := []struct {
		name    string
		userID  int64
		jobID   int64
		wantErr error
		wantMsg string
	}{
		{"missing user", 99, 10, core.ErrNotFound, "User not found"},
		{"no resume", 1, 10, core.ErrInvalidInput, "Please upload your resume before applying"},
		{"missing job", 2, 404, core.ErrNotFound, "Job not found"},
		{"unpublished job", 2, 11, core.ErrNotFound, "Job not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Apply(context.Background(), tt.userID, ApplyRequest{
				JobID:       tt.jobID,
				CoverLetter: "hello",
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	assert.Equal(t, 0, f.recorder.count("submitted"))
}

func TestApplyCreatesPendingSnapshot(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/first.pdf")
	f.cat.addJob(7, true)

	d := apply(t, f, 1, 7, "I would love to work here")

	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, int64(7), d.JobID)
	assert.Equal(t, "/v1/profiles/resumes/first.pdf", d.ResumePath)
	assert.Equal(t, "Backend Engineer", d.JobTitle)

	f.cat.setResume(1, "/v1/profiles/resumes/second.pdf")

	got, err := f.svc.GetOneForUser(context.Background(), d.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "/v1/profiles/resumes/first.pdf", got.ResumePath)
	assert.Equal(t, 1, f.recorder.count("submitted"))
}

func TestApplyTwiceConflicts(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(7, true)

	apply(t, f, 1, 7, "first")

	_, err := f.svc.Apply(context.Background(), 1, ApplyRequest{JobID: 7, CoverLetter: "second"})
	require.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "You have already applied to this job", err.Error())
	assert.Equal(t, 1, f.recorder.count("conflict"))
}

func TestConcurrentApplyAdmitsOne(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(7, true)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Apply(context.Background(), 1, ApplyRequest{JobID: 7, CoverLetter: "race"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, core.ErrConflict):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	_, total, err := f.repo.ListForUser(context.Background(), 1, core.PageParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestWithdraw(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addUser(2, "/v1/profiles/resumes/b.pdf")
	f.cat.addJob(7, true)

	d := apply(t, f, 1, 7, "letter")

	t.Run("other user cannot withdraw", func(t *testing.T) {
		err := f.svc.Withdraw(context.Background(), d.ID, 2)
		require.ErrorIs(t, err, core.ErrNotFound)
		assert.Equal(t, "Application not found", err.Error())
	})

	t.Run("missing application", func(t *testing.T) {
		err := f.svc.Withdraw(context.Background(), 999, 1)
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("first withdraw succeeds", func(t *testing.T) {
		require.NoError(t, f.svc.Withdraw(context.Background(), d.ID, 1))
	})

	t.Run("second withdraw conflicts", func(t *testing.T) {
		err := f.svc.Withdraw(context.Background(), d.ID, 1)
		require.ErrorIs(t, err, core.ErrConflict)
	})

	_, err := f.svc.GetOneForUser(context.Background(), d.ID, 1)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 1, f.recorder.count("withdrawn"))
}

func TestReapplyAfterWithdraw(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(7, true)

	first := apply(t, f, 1, 7, "first letter")

	_, err := f.svc.Apply(context.Background(), 1, ApplyRequest{JobID: 7, CoverLetter: "different"})
	require.ErrorIs(t, err, core.ErrConflict)

	require.NoError(t, f.svc.Withdraw(context.Background(), first.ID, 1))

	second := apply(t, f, 1, 7, "different")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusPending, second.Status)

	page, err := f.svc.ListForAdmin(context.Background(), ListApplicationsParams{
		UserID:      1,
		ShowDeleted: true,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(7, true)

	d := apply(t, f, 1, 7, "letter")

	updated, err := f.svc.UpdateStatus(context.Background(), d.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)

	mine, err := f.svc.GetOneForUser(context.Background(), d.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, mine.Status)

	// any status can follow any other while the application is live
	_, err = f.svc.UpdateStatus(context.Background(), d.ID, StatusPending)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), d.ID, "hired")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = f.svc.UpdateStatus(context.Background(), 999, StatusReviewed)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, f.svc.Withdraw(context.Background(), d.ID, 1))

	_, err = f.svc.UpdateStatus(context.Background(), d.ID, StatusRejected)
	require.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "cannot update deleted application", err.Error())

	assert.Equal(t, 2, f.recorder.count("status_changed"))
}

func TestListMineHidesDeletedJobsAndWithdrawn(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addUser(2, "/v1/profiles/resumes/b.pdf")
	f.cat.addJob(1, true)
	f.cat.addJob(2, true)
	f.cat.addJob(3, true)

	apply(t, f, 1, 1, "one")
	withdrawn := apply(t, f, 1, 2, "two")
	apply(t, f, 1, 3, "three")
	apply(t, f, 2, 1, "someone else")

	require.NoError(t, f.svc.Withdraw(context.Background(), withdrawn.ID, 1))
	f.cat.deleteJob(3)

	page, err := f.svc.ListMine(context.Background(), 1, core.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].JobID)
	assert.Equal(t, 1, page.Meta.TotalItems)
}

func TestListForAdminFilters(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addUser(2, "/v1/profiles/resumes/b.pdf")
	f.cat.addJob(1, true)
	f.cat.addJob(2, true)

	apply(t, f, 1, 1, "a")
	apply(t, f, 1, 2, "b")
	gone := apply(t, f, 2, 1, "c")
	require.NoError(t, f.svc.Withdraw(context.Background(), gone.ID, 2))

	tests := []struct {
		name   string
		params ListApplicationsParams
		want   int
	}{
		{"all live", ListApplicationsParams{}, 2},
		{"with withdrawn", ListApplicationsParams{ShowDeleted: true}, 3},
		{"by job", ListApplicationsParams{JobID: 1, ShowDeleted: true}, 2},
		{"by user", ListApplicationsParams{UserID: 1}, 2},
		{"by user and job", ListApplicationsParams{UserID: 2, JobID: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListForAdmin(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Meta.TotalItems)
		})
	}

	_, err := f.svc.GetForAdmin(context.Background(), gone.ID, false)
	require.ErrorIs(t, err, core.ErrNotFound)

	d, err := f.svc.GetForAdmin(context.Background(), gone.ID, true)
	require.NoError(t, err)
	assert.True(t, d.IsWithdrawn())

	counts, err := f.svc.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusPending: 2}, counts)
}

func withUser(userID int64, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestHandlerApplyAndList(t *testing.T) {
	f := newFixture()
	f.cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	f.cat.addJob(7, true)

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(
		r,
		withUser(1, middleware.RoleUser),
		middleware.Authorize(middleware.ActionApply),
	)

	body := strings.NewReader(`{"jobId": 7, "coverLetter": "Hire me"}`)
	req := httptest.NewRequest(http.MethodPost, "/applications", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data ApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, StatusPending, created.Data.Status)
	assert.Equal(t, int64(7), created.Data.Job.ID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data []ApplicationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, int64(7), listed.Data[0].Job.ID)

	req = httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(`{"jobId": 7}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandlerRejectsUsers(t *testing.T) {
	f := newFixture()

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterAdminRoutes(
		r,
		withUser(1, middleware.RoleUser),
		middleware.Authorize(middleware.ActionManageApplications),
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/applications", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := chi.NewRouter()
	NewHandler(f.svc).RegisterAdminRoutes(
		admin,
		withUser(2, middleware.RoleAdmin),
		middleware.Authorize(middleware.ActionManageApplications),
	)

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?jobId=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?jobId=7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
