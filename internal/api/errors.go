package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`  // internal detail, outside production only
	Errors  []FieldError `json:"errors,omitempty"` // binding failures
}

// MessageResponse confirms an action that has no other payload.
type MessageResponse struct {
	Message string `json:"message"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

// statusForKind is the only place a service outcome becomes an HTTP status.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict, service.KindInvalidState:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondWithError maps a service error to a response. Internal failures are
// logged; their cause is returned to clients only outside production.
func respondWithError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Message: "internal server error", Err: err}
	}

	status := statusForKind(se.Kind)
	resp := ErrorResponse{Message: se.Message}
	if status == http.StatusInternalServerError {
		requestLogger(c).Error("request failed",
			slog.String("error", err.Error()),
			slog.String("route", c.FullPath()))
		if exposeErrors(c) && se.Err != nil {
			resp.Error = se.Err.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

// respondWithBindingError reports malformed bodies and failed binding rules.
func respondWithBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fieldPath(fe), Message: validationMessage(fe)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Validation error", Errors: fields})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		abortWithError(c, http.StatusBadRequest, "Request body is empty")
	case errors.As(err, &syntaxErr):
		abortWithError(c, http.StatusBadRequest, "Request body is not valid JSON")
	case errors.As(err, &typeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation error",
			Errors:  []FieldError{{Field: typeErr.Field, Message: "has the wrong type"}},
		})
	default:
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}
}
