// AngelaMos | 2026
// handler.go

package resume

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

const (
	formField = "file"

	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type UploadResponse struct {
	ResumeURL string `json:"resumeUrl"`
}

// RegisterRoutes mounts the resume routes. uploadLimiter guards the two
// routes that write to storage.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	uploadLimiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(uploadLimiter).Post("/profiles/upload-resume", h.Upload)
		r.With(uploadLimiter).Patch("/profiles/update-resume", h.Replace)
		r.Get("/profiles/resumes/{filename}", h.Serve)
	})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	up, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	ref, err := h.service.Upload(r.Context(), middleware.GetUserID(r.Context()), up)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Resume uploaded successfully", UploadResponse{ResumeURL: ref})
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	up, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	ref, err := h.service.Replace(r.Context(), middleware.GetUserID(r.Context()), up)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Resume updated successfully", UploadResponse{ResumeURL: ref})
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	viewer := Viewer{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}

	body, err := h.service.Open(r.Context(), viewer, filename)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", pdfMIME)
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slog.WarnContext(r.Context(), "resume stream interrupted",
			"file", filename,
			"error", err,
		)
	}
}

func (h *Handler) readUpload(
	w http.ResponseWriter,
	r *http.Request,
) (Upload, func(), bool) {
	limit := h.service.MaxBytes()
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			core.BadRequest(w, r, "File too large")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			core.BadRequest(w, r, "Resume file is required")
		default:
			core.BadRequest(w, r, "Invalid multipart body")
		}
		return Upload{}, nil, false
	}

	cleanup := func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	return Upload{
		OriginalName: header.Filename,
		Size:         header.Size,
		Body:         file,
	}, cleanup, true
}
