// Package httperr maps application error kinds to HTTP responses.
package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/pkg/response"
)

const internalMessage = "internal server error"

// Status returns the HTTP status for err and the message safe to show the
// client. Store failures and unknown errors never expose their text.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrAuthenticationFailed):
		return http.StatusUnauthorized, apperr.ErrAuthenticationFailed.Error()
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized), errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrDuplicateIdentity):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// Abort writes the error envelope for err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, msg := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Error[any](c, status, msg, kindOf(msg))
}

func kindOf(msg string) string {
	kind, _, _ := strings.Cut(msg, ":")
	return kind
}
