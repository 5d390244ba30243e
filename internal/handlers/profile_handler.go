package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// ProfileHandler handles profile directory endpoints
type ProfileHandler struct {
	service services.ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// ListProfiles handles GET /api/v1/profiles
// Supports filtering by role and comma-separated skill/interest tokens.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	filter := models.ProfileFilter{
		Role:           models.Role(c.Query("role")),
		SkillTokens:    models.ParseFilterTokens(c.Query("skills")),
		InterestTokens: models.ParseFilterTokens(c.Query("interests")),
	}

	profiles, err := h.service.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err, "Failed to list profiles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"total":    len(profiles),
	})
}

// GetProfile handles GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "Invalid profile ID", nil)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
