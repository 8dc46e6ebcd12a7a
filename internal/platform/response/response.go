// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "bad_request", message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, "unauthorized", message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, "forbidden", message)
}

// Error maps err to a status code and writes it.
func Error(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		invalid    *domain.InvalidStateError
		conflict   *domain.ConflictError
		forbidden  *domain.ForbiddenError
		business   *domain.BusinessRuleError
	)

	switch {
	case errors.As(err, &validation):
		abort(c, http.StatusBadRequest, "validation_error", validation.Message)
	case errors.As(err, &notFound):
		abort(c, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &invalid):
		abort(c, http.StatusConflict, "invalid_state", invalid.Error())
	case errors.As(err, &conflict):
		abort(c, http.StatusConflict, "conflict", conflict.Message)
	case errors.As(err, &forbidden):
		abort(c, http.StatusForbidden, "forbidden", forbidden.Message)
	case errors.As(err, &business):
		code := business.Code
		if code == "" {
			code = "rejected"
		}
		abort(c, http.StatusUnprocessableEntity, code, business.Message)
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// Abort writes an error body with an explicit status and code.
func Abort(c *gin.Context, status int, code, message string) {
	abort(c, status, code, message)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
