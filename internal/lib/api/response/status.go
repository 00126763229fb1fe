package response

import (
	"BizDevCRM/entity"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// StatusOf maps a domain error to an HTTP status code.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case entity.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fail renders err with its mapped status. Internal errors are not echoed.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	render.Status(r, status)
	render.JSON(w, r, Error(message))
}

// BadRequest renders a 400 with the given message.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(message))
}

func Unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, Error("Unauthorized"))
}
