package services

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// MatchmakingServiceInterface defines the interface for match ranking
type MatchmakingServiceInterface interface {
	Rank(ctx context.Context, subjectID string) ([]*models.MatchResult, error)
}

// MentorshipRequestServiceInterface defines the interface for the request lifecycle
type MentorshipRequestServiceInterface interface {
	Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error)
	GetStatus(ctx context.Context, requestorID, acceptorID string) (*models.RequestStatusResponse, error)
	ListIncoming(ctx context.Context, acceptorID string) (*models.IncomingRequestsResponse, error)
	Accept(ctx context.Context, callerID, requestID string) (*models.MentorshipRequest, error)
	Decline(ctx context.Context, callerID, requestID string) (*models.MentorshipRequest, error)
}

// ProfileServiceInterface defines the interface for directory reads
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
}

// Ensure services implement their interfaces
var _ MatchmakingServiceInterface = (*MatchmakingService)(nil)
var _ MentorshipRequestServiceInterface = (*MentorshipRequestService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
