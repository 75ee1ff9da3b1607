// AngelaMos | 2026
// handler.go

package job

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Get("/{id}", h.GetJob)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, authorize func(http.Handler) http.Handler,
) {
	r.Route("/admin/jobs", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(authorize)

		r.Get("/", h.AdminListJobs)
		r.Post("/", h.CreateJob)
		r.Patch("/restore/{id}", h.RestoreJob)
		r.Get("/{id}", h.AdminGetJob)
		r.Patch("/{id}", h.UpdateJob)
		r.Delete("/{id}", h.DeleteJob)
	})
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListForUser(r.Context(), core.ParsePageParams(r))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(w, "Jobs fetched successfully", core.MapPage(page, ToJobResponse))
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	job, err := h.service.GetForUser(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Job fetched successfully", ToJobResponse(*job))
}

func (h *Handler) AdminListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListJobsParams{
		PageParams:  core.ParsePageParams(r),
		Company:     q.Get("company"),
		Location:    q.Get("location"),
		Title:       q.Get("title"),
		ShowDeleted: core.ParseBoolQuery(r, "showDeleted"),
	}

	page, err := h.service.ListForAdmin(r.Context(), params)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(w, "Jobs fetched successfully", core.MapPage(page, ToAdminJobResponse))
}

func (h *Handler) AdminGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	job, err := h.service.GetForAdmin(r.Context(), id, core.ParseBoolQuery(r, "showDeleted"))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Job fetched successfully", ToAdminJobResponse(*job))
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if !h.decode(w, r, &req) {
		return
	}

	job, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, "Job created successfully", ToAdminJobResponse(*job))
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req UpdateJobRequest
	if !h.decode(w, r, &req) {
		return
	}

	job, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Job updated successfully", ToAdminJobResponse(*job))
}

// DeleteJob soft deletes by default; ?force=true removes the row and its
// applications.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	if core.ParseBoolQuery(r, "force") {
		if err := h.service.HardDelete(r.Context(), id); err != nil {
			core.JSONError(w, r, err)
			return
		}
		core.Message(w, "Job permanently deleted")
		return
	}

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, "Job soft deleted successfully")
}

func (h *Handler) RestoreJob(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	job, err := h.service.Restore(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Job restored successfully", ToAdminJobResponse(*job))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(r, dst); err != nil {
		core.JSONError(w, r, err)
		return false
	}
	if err := core.ValidateStruct(h.validator, dst); err != nil {
		core.JSONError(w, r, err)
		return false
	}
	return true
}
