package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// MentorshipRequestService handles the mentorship request lifecycle:
// creation, status lookup, inbox listing, and accept/decline transitions.
type MentorshipRequestService struct {
	requestRepo repository.MentorshipRequestRepositoryInterface
	profileRepo repository.ProfileRepositoryInterface
}

// NewMentorshipRequestService creates a new MentorshipRequestService
func NewMentorshipRequestService(
	requestRepo repository.MentorshipRequestRepositoryInterface,
	profileRepo repository.ProfileRepositoryInterface,
) *MentorshipRequestService {
	return &MentorshipRequestService{
		requestRepo: requestRepo,
		profileRepo: profileRepo,
	}
}

// Create opens a new pending request from a mentee to a mentor.
//
// Both parties must exist and hold the right roles before anything is
// written. The unique constraint on the pair is the authoritative duplicate
// guard, so two racing creates for the same pair yield exactly one request.
func (s *MentorshipRequestService) Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	start := time.Now()

	requestor, err := s.profileRepo.GetByID(ctx, requestorID)
	if err != nil {
		metrics.MentorshipRequestsCreated.WithLabelValues("requestor_not_found").Inc()
		return nil, fmt.Errorf("failed to resolve requestor: %w", err)
	}

	acceptor, err := s.profileRepo.GetByID(ctx, acceptorID)
	if err != nil {
		metrics.MentorshipRequestsCreated.WithLabelValues("acceptor_not_found").Inc()
		return nil, fmt.Errorf("failed to resolve acceptor: %w", err)
	}

	if requestor.Role != models.RoleMentee {
		metrics.MentorshipRequestsCreated.WithLabelValues("invalid_role").Inc()
		return nil, apperrors.InvalidRoleError("requestor",
			fmt.Sprintf("must be a mentee, got %s", requestor.Role))
	}

	if acceptor.Role != models.RoleMentor {
		metrics.MentorshipRequestsCreated.WithLabelValues("invalid_role").Inc()
		return nil, apperrors.InvalidRoleError("acceptor",
			fmt.Sprintf("must be a mentor, got %s", acceptor.Role))
	}

	request, err := s.requestRepo.Create(ctx, requestorID, acceptorID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicate) {
			metrics.MentorshipRequestsCreated.WithLabelValues("duplicate").Inc()
			logger.Warn("Duplicate mentorship request",
				zap.String("requestor_id", requestorID),
				zap.String("acceptor_id", acceptorID))
			return nil, err
		}
		metrics.MentorshipRequestsCreated.WithLabelValues("error").Inc()
		logger.Error("Failed to create mentorship request",
			zap.String("requestor_id", requestorID),
			zap.String("acceptor_id", acceptorID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.MentorshipRequestsCreated.WithLabelValues("success").Inc()

	logger.Info("Mentorship request created",
		zap.String("request_id", request.ID),
		zap.String("requestor_id", requestorID),
		zap.String("acceptor_id", acceptorID),
		zap.Duration("duration", time.Since(start)))

	return request, nil
}

// GetStatus looks up the request between an ordered (requestor, acceptor)
// pair and returns its current status.
func (s *MentorshipRequestService) GetStatus(ctx context.Context, requestorID, acceptorID string) (*models.RequestStatusResponse, error) {
	request, err := s.requestRepo.GetByPair(ctx, requestorID, acceptorID)
	if err != nil {
		return nil, err
	}

	return &models.RequestStatusResponse{
		RequestorID: request.RequestorID,
		AcceptorID:  request.AcceptorID,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}, nil
}

// ListIncoming returns the caller's inbox: every request targeting them,
// newest first, enriched with requestor display attributes. An empty inbox is
// an empty list, not an error.
func (s *MentorshipRequestService) ListIncoming(ctx context.Context, acceptorID string) (*models.IncomingRequestsResponse, error) {
	start := time.Now()

	// Resolve the acceptor first so an unknown profile reports not found
	// rather than an empty inbox.
	if _, err := s.profileRepo.GetByID(ctx, acceptorID); err != nil {
		return nil, fmt.Errorf("failed to resolve inbox owner: %w", err)
	}

	requests, err := s.requestRepo.ListIncoming(ctx, acceptorID)
	if err != nil {
		logger.Error("Failed to list incoming requests",
			zap.String("acceptor_id", acceptorID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}

	responseRequests := make([]models.IncomingRequest, 0, len(requests))
	for _, req := range requests {
		responseRequests = append(responseRequests, *req)
	}

	metrics.MentorshipRequestsListDuration.Observe(metrics.MeasureDuration(start))

	logger.Info("Fetched incoming requests",
		zap.String("acceptor_id", acceptorID),
		zap.Int("count", len(responseRequests)),
		zap.Duration("duration", time.Since(start)))

	return &models.IncomingRequestsResponse{
		Requests: responseRequests,
		Total:    len(responseRequests),
	}, nil
}

// Accept transitions a pending request to accepted on behalf of the caller
func (s *MentorshipRequestService) Accept(ctx context.Context, callerID, requestID string) (*models.MentorshipRequest, error) {
	return s.transition(ctx, callerID, requestID, models.StatusAccepted)
}

// Decline transitions a pending request to declined on behalf of the caller
func (s *MentorshipRequestService) Decline(ctx context.Context, callerID, requestID string) (*models.MentorshipRequest, error) {
	return s.transition(ctx, callerID, requestID, models.StatusDeclined)
}

// transition enforces the authorization and state-machine rules and then
// performs the conditional update. The update only succeeds when the row is
// still pending, so concurrent accept/decline calls resolve to exactly one
// winner; losers surface ErrConflict.
func (s *MentorshipRequestService) transition(ctx context.Context, callerID, requestID string, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.IsAuthorizedActor(callerID) {
		logger.Warn("Unauthorized request transition attempt",
			zap.String("request_id", requestID),
			zap.String("caller_id", callerID),
			zap.String("acceptor_id", request.AcceptorID))
		return nil, apperrors.ForbiddenError("only the acceptor may act on this request")
	}

	if !request.Status.CanTransitionTo(newStatus) {
		logger.Warn("Request transition from terminal status",
			zap.String("request_id", requestID),
			zap.String("from_status", string(request.Status)),
			zap.String("to_status", string(newStatus)))
		return nil, apperrors.ConflictError(
			fmt.Sprintf("request already %s", request.Status))
	}

	updated, err := s.requestRepo.Transition(ctx, requestID, newStatus)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			// Lost the race to a concurrent transition
			return nil, err
		}
		logger.Error("Failed to transition request",
			zap.String("request_id", requestID),
			zap.String("to_status", string(newStatus)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to transition request: %w", err)
	}

	metrics.MentorshipRequestTransitions.WithLabelValues(
		string(models.StatusPending), string(newStatus)).Inc()

	logger.Info("Mentorship request transitioned",
		zap.String("request_id", requestID),
		zap.String("from_status", string(models.StatusPending)),
		zap.String("to_status", string(newStatus)),
		zap.String("caller_id", callerID))

	return updated, nil
}
