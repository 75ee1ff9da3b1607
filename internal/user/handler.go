// AngelaMos | 2026
// handler.go

package user

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
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profiles/me", h.GetMe)
		r.Patch("/profiles", h.UpdateMe)
		r.Delete("/profiles", h.DeleteMe)
		r.Patch("/profiles/change-password", h.ChangePassword)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Profile fetched successfully", ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Profile updated successfully", ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	var req DeleteProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.DeleteProfile(r.Context(), middleware.GetUserID(r.Context()), req.Password); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, "Profile deleted successfully")
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, "Password changed successfully")
}

// RegisterAdminRoutes registers admin-only user management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/email/{email}", h.GetUserByEmail)
		r.Patch("/restore/{id}", h.RestoreUser)
		r.Get("/{id}", h.GetUser)
		r.Patch("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// ListUsers returns a paginated list of users with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListUsersParams{
		PageParams:  core.ParsePageParams(r),
		Search:      q.Get("search"),
		Role:        q.Get("role"),
		ShowDeleted: core.ParseBoolQuery(r, "showDeleted"),
	}

	if params.Role != "" && !ValidRole(params.Role) {
		core.BadRequest(w, r, "role must be one of [user admin]")
		return
	}

	page, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Paginated(w, "Users fetched successfully", core.MapPage(page, ToAdminUserResponse))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.GetUserForAdmin(r.Context(), id, core.ParseBoolQuery(r, "showDeleted"))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "User fetched successfully", ToAdminUserResponse(*user))
}

func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.validator.Var(email, "required,email"); err != nil {
		core.BadRequest(w, r, "email must be a valid email address")
		return
	}

	user, err := h.service.GetUserByEmail(r.Context(), email, core.ParseBoolQuery(r, "showDeleted"))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "User fetched successfully", ToAdminUserResponse(*user))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, "User created successfully", ToAdminUserResponse(*user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	var req AdminUpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.AdminUpdateUser(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "User updated successfully", ToAdminUserResponse(*user))
}

// DeleteUser soft deletes by default; ?force=true removes the row.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	actingID := middleware.GetUserID(r.Context())

	if core.ParseBoolQuery(r, "force") {
		if err := h.service.HardDeleteUser(r.Context(), id, actingID); err != nil {
			core.JSONError(w, r, err)
			return
		}
		core.Message(w, "User permanently deleted")
		return
	}

	if err := h.service.SoftDeleteUser(r.Context(), id, actingID); err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Message(w, "User soft deleted successfully")
}

func (h *Handler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	user, err := h.service.RestoreUser(r.Context(), id)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "User restored successfully", ToAdminUserResponse(*user))
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
