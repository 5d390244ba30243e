package repository

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// ProfileDataSource defines the interface for profile data fetching
type ProfileDataSource interface {
	// GetProfileByID fetches a single profile by ID
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)

	// GetAllProfiles fetches every profile in the directory
	GetAllProfiles(ctx context.Context) ([]*models.Profile, error)

	// ListProfiles fetches profiles matching the filter
	ListProfiles(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
}

// MentorshipRequestDataSource defines the interface for request persistence
type MentorshipRequestDataSource interface {
	// CreateMentorshipRequest inserts a new pending request for the pair
	CreateMentorshipRequest(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error)

	// GetMentorshipRequestByID fetches a request by its ID
	GetMentorshipRequestByID(ctx context.Context, id string) (*models.MentorshipRequest, error)

	// GetMentorshipRequestByPair fetches the unique request for an ordered pair
	GetMentorshipRequestByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error)

	// ListIncomingRequests fetches all requests targeting the acceptor
	ListIncomingRequests(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error)

	// TransitionMentorshipRequest conditionally moves a request out of pending
	TransitionMentorshipRequest(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error)
}
