package repository

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// MentorshipRequestRepositoryInterface defines the interface for request data access
type MentorshipRequestRepositoryInterface interface {
	Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error)
	GetByID(ctx context.Context, id string) (*models.MentorshipRequest, error)
	GetByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error)
	ListIncoming(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error)
	Transition(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error)
}

// MentorshipRequestRepository handles request persistence. Requests are never
// cached: status reads must observe the latest transition.
type MentorshipRequestRepository struct {
	dataSource MentorshipRequestDataSource
}

// NewMentorshipRequestRepository creates a new request repository
func NewMentorshipRequestRepository(dataSource MentorshipRequestDataSource) MentorshipRequestRepositoryInterface {
	return &MentorshipRequestRepository{dataSource: dataSource}
}

// Create inserts a new pending request for the pair
func (r *MentorshipRequestRepository) Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	return r.dataSource.CreateMentorshipRequest(ctx, requestorID, acceptorID)
}

// GetByID fetches a request by its ID
func (r *MentorshipRequestRepository) GetByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	return r.dataSource.GetMentorshipRequestByID(ctx, id)
}

// GetByPair fetches the unique request for an ordered (requestor, acceptor) pair
func (r *MentorshipRequestRepository) GetByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	return r.dataSource.GetMentorshipRequestByPair(ctx, requestorID, acceptorID)
}

// ListIncoming fetches all requests targeting the acceptor, newest first
func (r *MentorshipRequestRepository) ListIncoming(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error) {
	return r.dataSource.ListIncomingRequests(ctx, acceptorID)
}

// Transition conditionally moves a request out of pending
func (r *MentorshipRequestRepository) Transition(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	return r.dataSource.TransitionMentorshipRequest(ctx, id, newStatus)
}
