// AngelaMos | 2026
// handler.go

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/jobboard/internal/config"
	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookies   config.CookieConfig
}

func NewHandler(service *Service, cookies config.CookieConfig) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookies:   cookies,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(loginLimiter).Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.GetMe)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.Created(w, "User registered successfully", ToUserResponse(user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	core.OK(w, "Logged in successfully", ToSessionResponse(session))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)
	if token == "" {
		core.Unauthorized(w, r, "missing refresh token")
		return
	}

	session, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.clearSessionCookies(w)
		core.JSONError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	core.OK(w, "Tokens refreshed successfully", ToSessionResponse(session))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, r, "")
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		core.JSONError(w, r, err)
		return
	}

	h.clearSessionCookies(w)
	core.Message(w, "Logged out successfully")
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Current user fetched successfully", ToUserResponse(user))
}

// refreshTokenFrom prefers the cookie; non-browser clients may post the
// token in the body instead.
func (h *Handler) refreshTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(h.cookies.RefreshName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if r.ContentLength == 0 {
		return ""
	}

	var req RefreshRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, h.cookie(h.cookies.AccessName, s.AccessToken, s.AccessExpiresAt))
	http.SetCookie(w, h.cookie(h.cookies.RefreshName, s.RefreshToken, s.RefreshExpiresAt))
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{h.cookies.AccessName, h.cookies.RefreshName} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *Handler) cookie(name, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: sameSiteMode(h.cookies.SameSite),
	}
	if value != "" {
		c.MaxAge = int(time.Until(expires).Seconds())
	}
	return c
}

func sameSiteMode(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
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
