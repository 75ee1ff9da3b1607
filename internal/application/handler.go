// AngelaMos | 2026
// handler.go

package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, authorize func(http.Handler) http.Handler,
) {
	r.Route("/applications", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(authorize)

		r.Post("/", h.Apply)
		r.Get("/", h.ListMine)
		r.Get("/{id}", h.GetMine)
		r.Delete("/{id}/withdraw", h.Withdraw)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, authorize func(http.Handler) http.Handler,
) {
	r.Route("/admin/applications", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(authorize)

		r.Get("/", h.AdminList)
		r.Get("/{id}", h.AdminGet)
		r.Patch("/{id}", h.UpdateStatus)
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.Apply(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, "Application submitted successfully", ToApplicationResponse(*d))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
		core.ParsePageParams(r),
	)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(w, "Applications fetched successfully", core.MapPage(page, ToApplicationResponse))
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	d, err := h.service.GetOneForUser(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Application fetched successfully", ToApplicationResponse(*d))
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	if err := h.service.Withdraw(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, "Application withdrawn successfully")
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	jobID, err := core.OptionalIDQuery(r, "jobId")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}
	userID, err := core.OptionalIDQuery(r, "userId")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	params := ListApplicationsParams{
		PageParams:  core.ParsePageParams(r),
		JobID:       jobID,
		UserID:      userID,
		ShowDeleted: core.ParseBoolQuery(r, "showDeleted"),
	}

	page, err := h.service.ListForAdmin(r.Context(), params)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(w, "Applications fetched successfully", core.MapPage(page, ToAdminApplicationResponse))
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	d, err := h.service.GetForAdmin(r.Context(), id, core.ParseBoolQuery(r, "showDeleted"))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Application fetched successfully", ToAdminApplicationResponse(*d))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Application status updated successfully", ToAdminApplicationResponse(*d))
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
