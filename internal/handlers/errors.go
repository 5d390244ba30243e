package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondDomainError maps the domain error taxonomy to HTTP responses.
// Unrecognized errors fall back to a 500 with the default message.
func respondDomainError(c *gin.Context, err error, defaultMsg string) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found", err)
	case apperrors.Is(err, apperrors.ErrInvalidRole):
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid role", err.Error(), err)
	case apperrors.Is(err, apperrors.ErrDuplicate):
		respondError(c, http.StatusConflict, "Request already exists for this pair", err)
	case apperrors.Is(err, apperrors.ErrForbidden):
		respondError(c, http.StatusForbidden, "Access denied", err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondErrorWithDetails(c, http.StatusConflict, "Request already resolved", err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, defaultMsg, err)
	}
}
