// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

type SuccessResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	Path       string    `json:"path"`
	Timestamp  time.Time `json:"timestamp"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Message writes a 200 envelope that carries no payload.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, SuccessResponse{Success: true, Message: message})
}

func Paginated[T any](w http.ResponseWriter, message string, page Page[T]) {
	meta := page.Meta
	JSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    page.Items,
		Meta:    &meta,
	})
}

// JSONError is the single exit point for failures. Anything that is not an
// AppError, a known sentinel, or a recognised database error becomes a 500
// and its text stays in the logs.
func JSONError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	JSON(w, status, ErrorResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Code:       code,
		Path:       r.URL.Path,
		Timestamp:  time.Now().UTC(),
	})
}

func classify(err error) (int, string, string) {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode, appErr.Code, appErr.Error()
	}

	switch pgCode(err) {
	case pgUniqueViolation:
		return http.StatusConflict, "DUPLICATE", "Duplicate entry."
	case pgNotNullViolation:
		return http.StatusBadRequest, "BAD_REQUEST", "A required field is missing."
	case pgForeignKeyViolation:
		return http.StatusConflict, "CONFLICT", "Foreign key constraint failed."
	}

	if status, code, message, ok := statusForSentinel(err); ok {
		return status, code, message
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, BadRequestError(message))
}

func NotFound(w http.ResponseWriter, r *http.Request, resource string) {
	JSONError(w, r, NotFoundError(resource))
}

func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, ForbiddenError(message))
}

// DecodeJSON reads a bounded request body and rejects unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return BadRequestError(fmt.Sprintf("invalid request body: %s", describeDecodeError(err)))
	}
	return nil
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at position %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return strings.TrimPrefix(err.Error(), "json: ")
	}
	return "malformed JSON"
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "salary_range":
		return `Salary range must be in format: "$XX,XXX - $YY,YYY"`
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// ValidateStruct runs v and converts failures into a BadRequest AppError.
func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return BadRequestError(FormatValidationError(err))
	}
	return nil
}
