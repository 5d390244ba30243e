package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MatchmakingHandler handles match ranking endpoints
type MatchmakingHandler struct {
	service services.MatchmakingServiceInterface
}

// NewMatchmakingHandler creates a new MatchmakingHandler
func NewMatchmakingHandler(service services.MatchmakingServiceInterface) *MatchmakingHandler {
	return &MatchmakingHandler{
		service: service,
	}
}

// GetMatches handles GET /api/v1/profiles/:id/matches
// Returns the best complementary-role candidates for the subject, strongest
// first. A subject with no overlapping candidates gets an empty list.
func (h *MatchmakingHandler) GetMatches(c *gin.Context) {
	subjectID := c.Param("id")
	if subjectID == "" {
		respondError(c, http.StatusBadRequest, "Invalid profile ID", nil)
		return
	}

	matches, err := h.service.Rank(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, err, "Failed to rank matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}
