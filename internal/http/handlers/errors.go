// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and mirror HTTP semantics. Service errors are
// translated by failErr: every service error wraps one category sentinel, and
// the category alone decides status and code.
//
//	services.ErrValidation -> 400 bad_request
//	services.ErrConflict   -> 400 conflict
//	services.ErrNotFound   -> 404 not_found
//	anything else          -> 500 internal_error
//
// Duplicate email and a second pending loan are client mistakes in this API,
// so conflicts are reported as 400 rather than 409.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-loan-service/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
)

// failErr maps a service error to the error envelope.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, clientMessage(err, services.ErrValidation))
	case errors.Is(err, services.ErrConflict):
		fail(c, http.StatusBadRequest, ErrCodeConflict, clientMessage(err, services.ErrConflict))
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, clientMessage(err, services.ErrNotFound))
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// clientMessage strips the category prefix, so "not found: loan not found"
// is reported as "loan not found".
func clientMessage(err, category error) string {
	return strings.TrimPrefix(err.Error(), category.Error()+": ")
}
