package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MentorshipRequestHandler handles the mentorship request lifecycle endpoints
type MentorshipRequestHandler struct {
	service services.MentorshipRequestServiceInterface
}

// NewMentorshipRequestHandler creates a new MentorshipRequestHandler
func NewMentorshipRequestHandler(service services.MentorshipRequestServiceInterface) *MentorshipRequestHandler {
	return &MentorshipRequestHandler{
		service: service,
	}
}

// CreateRequest handles POST /api/v1/mentorship/requests
// Opens a new pending request from a mentee to a mentor
func (h *MentorshipRequestHandler) CreateRequest(c *gin.Context) {
	caller, err := middleware.GetCallerProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.CreateRequestPayload
	if bindErr := c.ShouldBindJSON(&payload); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body",
			ParseValidationErrors(bindErr), bindErr)
		return
	}

	// A caller may only open requests on their own behalf
	if payload.RequestorID != caller.ID {
		respondError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	request, err := h.service.Create(c.Request.Context(), payload.RequestorID, payload.AcceptorID)
	if err != nil {
		respondDomainError(c, err, "Failed to create request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetStatus handles GET /api/v1/mentorship/requests/status
// Looks up the status of the request between a (requestor, acceptor) pair
func (h *MentorshipRequestHandler) GetStatus(c *gin.Context) {
	requestorID := c.Query("requestorId")
	acceptorID := c.Query("acceptorId")
	if requestorID == "" || acceptorID == "" {
		respondError(c, http.StatusBadRequest,
			"Missing required parameters: requestorId, acceptorId", nil)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), requestorID, acceptorID)
	if err != nil {
		respondDomainError(c, err, "Failed to fetch request status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListIncoming handles GET /api/v1/mentorship/requests/incoming
// Returns the caller's inbox, newest first. An empty inbox is an empty list.
func (h *MentorshipRequestHandler) ListIncoming(c *gin.Context) {
	caller, err := middleware.GetCallerProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListIncoming(c.Request.Context(), caller.ID)
	if err != nil {
		respondDomainError(c, err, "Failed to list incoming requests")
		return
	}

	c.JSON(http.StatusOK, response)
}

// AcceptRequest handles POST /api/v1/mentorship/requests/:id/accept
func (h *MentorshipRequestHandler) AcceptRequest(c *gin.Context) {
	h.transitionRequest(c, models.StatusAccepted)
}

// DeclineRequest handles POST /api/v1/mentorship/requests/:id/decline
func (h *MentorshipRequestHandler) DeclineRequest(c *gin.Context) {
	h.transitionRequest(c, models.StatusDeclined)
}

func (h *MentorshipRequestHandler) transitionRequest(c *gin.Context, newStatus models.RequestStatus) {
	caller, err := middleware.GetCallerProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		respondError(c, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var request *models.MentorshipRequest
	if newStatus == models.StatusAccepted {
		request, err = h.service.Accept(c.Request.Context(), caller.ID, requestID)
	} else {
		request, err = h.service.Decline(c.Request.Context(), caller.ID, requestID)
	}
	if err != nil {
		respondDomainError(c, err, "Failed to update request")
		return
	}

	c.JSON(http.StatusOK, request)
}
