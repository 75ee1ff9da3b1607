// AngelaMos | 2026
// job_test.go

package job

import (
	"context"
	"encoding/json"
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
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*Job
	clock  time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		jobs:  make(map[int64]*Job),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryRepo) Create(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	j.ID = m.nextID
	j.CreatedAt = m.tick()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64, scope core.Scope) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || !scope.Visible(j) {
		return nil, core.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memoryRepo) GetPublished(_ context.Context, id int64) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || !j.IsPublic() {
		return nil, core.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memoryRepo) Update(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[j.ID]; !ok {
		return core.ErrNotFound
	}
	j.UpdatedAt = m.tick()
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memoryRepo) SoftDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.IsDeleted() {
		return core.ErrNotFound
	}
	j.MarkDeleted(m.tick())
	return nil
}

func (m *memoryRepo) HardDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *memoryRepo) Restore(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || !j.IsDeleted() {
		return core.ErrNotFound
	}
	j.ClearDeleted()
	return nil
}

func (m *memoryRepo) List(_ context.Context, p ListJobsParams) ([]Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Normalize()

	contains := func(field, filter string) bool {
		return filter == "" || strings.Contains(strings.ToLower(field), strings.ToLower(filter))
	}

	var matched []Job
	for _, j := range m.jobs {
		if !core.ScopeFor(p.ShowDeleted).Visible(j) {
			continue
		}
		if p.PublishedOnly && !j.IsPublished {
			continue
		}
		if !contains(j.Company, p.Company) || !contains(j.Location, p.Location) || !contains(j.Title, p.Title) {
			continue
		}
		matched = append(matched, *j)
	}
	sort.Slice(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})

	total := len(matched)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return matched[start:end], total, nil
}

func (m *memoryRepo) Count(_ context.Context, scope core.Scope) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if scope.Visible(j) {
			n++
		}
	}
	return n, nil
}

func ptr[T any](v T) *T {
	return &v
}

func sampleRequest(title string) CreateJobRequest {
	return CreateJobRequest{
		Title:        title,
		Company:      "TechCorp",
		Location:     "Amsterdam",
		Description:  "Build and maintain the hiring platform services.",
		Category:     "Engineering",
		Type:         TypeFullTime,
		Remote:       ptr(true),
		Requirements: "3+ years of Go experience",
		SalaryRange:  ptr("$50,000 - $70,000"),
	}
}

func TestValidator_SalaryRange(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		salary string
		valid  bool
	}{
		{"$50,000 - $70,000", true},
		{"$1,000.50-$2,000.75", true},
		{"$500 - $900", true},
		{"50000 - 70000", false},
		{"$50,000", false},
		{"$50,00 - $70,000", false},
	}

	for _, tc := range tests {
		t.Run(tc.salary, func(t *testing.T) {
			req := sampleRequest("Backend Engineer")
			req.SalaryRange = ptr(tc.salary)
			err := core.ValidateStruct(v, &req)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), `"$XX,XXX - $YY,YYY"`)
		})
	}
}

func TestValidator_CreateRules(t *testing.T) {
	v := NewValidator()

	req := sampleRequest("Dev")
	req.Type = "freelance"
	req.Remote = nil

	err := core.ValidateStruct(v, &req)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "title must be at least 5 characters")
	assert.Contains(t, err.Error(), "type must be one of")
	assert.Contains(t, err.Error(), "remote is required")
}

func TestService_PublicCatalogVisibility(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	visible, err := svc.Create(ctx, sampleRequest("Visible Engineer"))
	require.NoError(t, err)

	draft := sampleRequest("Draft Engineer")
	draft.IsPublished = ptr(false)
	hidden, err := svc.Create(ctx, draft)
	require.NoError(t, err)

	deleted, err := svc.Create(ctx, sampleRequest("Deleted Engineer"))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, deleted.ID))

	page, err := svc.ListForUser(ctx, core.PageParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, visible.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Meta.TotalItems)

	_, err = svc.GetForUser(ctx, hidden.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = svc.GetForUser(ctx, deleted.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	adminPage, err := svc.ListForAdmin(ctx, ListJobsParams{})
	require.NoError(t, err)
	assert.Len(t, adminPage.Items, 2)

	adminAll, err := svc.ListForAdmin(ctx, ListJobsParams{ShowDeleted: true})
	require.NoError(t, err)
	assert.Len(t, adminAll.Items, 3)
}

func TestService_ListOrderingAndPaging(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	for _, title := range []string{"First Position", "Second Position", "Third Position"} {
		_, err := svc.Create(ctx, sampleRequest(title))
		require.NoError(t, err)
	}

	page, err := svc.ListForUser(ctx, core.PageParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Third Position", page.Items[0].Title)
	assert.Equal(t, 3, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)

	page, err = svc.ListForUser(ctx, core.PageParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "First Position", page.Items[0].Title)
}

func TestService_AdminFilters(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	a := sampleRequest("Go Developer")
	a.Company = "Acme Corp"
	_, err := svc.Create(ctx, a)
	require.NoError(t, err)

	b := sampleRequest("Rust Developer")
	b.Company = "Globex"
	b.Location = "Berlin"
	_, err = svc.Create(ctx, b)
	require.NoError(t, err)

	page, err := svc.ListForAdmin(ctx, ListJobsParams{Company: "acme"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Go Developer", page.Items[0].Title)

	page, err = svc.ListForAdmin(ctx, ListJobsParams{Location: "BER", Title: "rust"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Globex", page.Items[0].Company)
}

func TestService_UpdateDeletedAndRestore(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	job, err := svc.Create(ctx, sampleRequest("Platform Engineer"))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, job.ID))

	assert.ErrorIs(t, svc.SoftDelete(ctx, job.ID), core.ErrNotFound)

	updated, err := svc.Update(ctx, job.ID, UpdateJobRequest{Title: ptr("Staff Platform Engineer")})
	require.NoError(t, err)
	assert.Equal(t, "Staff Platform Engineer", updated.Title)
	assert.True(t, updated.IsDeleted())

	restored, err := svc.Restore(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())

	_, err = svc.Restore(ctx, job.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.HardDelete(ctx, job.ID))
	_, err = svc.GetForAdmin(ctx, job.ID, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = svc.Update(ctx, job.ID, UpdateJobRequest{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_CountJobs(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	for _, title := range []string{"Position One", "Position Two"} {
		_, err := svc.Create(ctx, sampleRequest(title))
		require.NoError(t, err)
	}
	require.NoError(t, svc.SoftDelete(ctx, 1))

	active, total, err := svc.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
	assert.Equal(t, 2, total)
}

func TestHandler_PublicRoutes(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), sampleRequest("Backend Engineer"))
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs?page=1&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
		Meta    core.PageMeta    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.NotContains(t, body.Data[0], "isPublished")
	assert.Equal(t, 5, body.Meta.ItemsPerPage)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
