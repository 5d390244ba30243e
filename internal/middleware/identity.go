package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
)

const (
	// CallerIDHeader carries the authenticated caller's profile ID. The API
	// sits behind a gateway that verifies credentials and forwards the
	// identity in this header.
	CallerIDHeader = "X-User-ID"

	// CallerContextKey is the key used to store the caller profile in context
	CallerContextKey = "caller_profile"
)

var (
	ErrCallerNotFound = errors.New("caller not found in context")
	ErrInvalidCaller  = errors.New("invalid caller type")
)

// CallerIdentityMiddleware resolves the caller header against the profile
// directory and adds the profile to the request context. Requests without a
// resolvable identity are rejected.
func CallerIdentityMiddleware(profileRepo repository.ProfileRepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetHeader(CallerIDHeader)
		if callerID == "" {
			_ = c.Error(fmt.Errorf("missing %s header", CallerIDHeader)) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		profile, err := profileRepo.GetByID(c.Request.Context(), callerID)
		if err != nil {
			_ = c.Error(fmt.Errorf("failed to resolve caller: %w", err)) //nolint:errcheck
			if apperrors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve caller"})
			}
			c.Abort()
			return
		}

		c.Set(CallerContextKey, profile)
		c.Next()
	}
}

// GetCallerProfile retrieves the caller profile from the gin context
func GetCallerProfile(c *gin.Context) (*models.Profile, error) {
	value, exists := c.Get(CallerContextKey)
	if !exists {
		return nil, ErrCallerNotFound
	}

	profile, ok := value.(*models.Profile)
	if !ok {
		return nil, ErrInvalidCaller
	}

	return profile, nil
}
